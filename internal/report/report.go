// Package report renders the completion message printed after a project
// has been generated.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/pipeline"
)

// Data is everything the report prints.
type Data struct {
	RunID string
	// Dir is the project directory as the user should cd into it.
	Dir     string
	InPlace bool
	Files   int
	Answers *answers.Store

	Outcomes []pipeline.Outcome
	Warnings []string
	Failure  *pipeline.StageError

	// DocsURL, when set, ends the report.
	DocsURL string
}

// FromRun collects report data from a pipeline run context.
func FromRun(runID, dir string, inPlace bool, files int, rc *pipeline.RunContext) Data {
	return Data{
		RunID:    runID,
		Dir:      dir,
		InPlace:  inPlace,
		Files:    files,
		Answers:  rc.Answers,
		Outcomes: rc.Outcomes,
		Warnings: rc.Warnings,
		Failure:  rc.Failure,
	}
}

// Writer renders reports.
type Writer struct {
	Out   io.Writer
	Color bool
}

// Write renders d.
func (w *Writer) Write(d Data) error {
	var b strings.Builder
	p := message.NewPrinter(language.English)

	if d.Failure != nil {
		b.WriteString(w.paint("# Project initialization stopped.", text.FgYellow))
	} else {
		b.WriteString(w.paint("# Project initialization finished!", text.FgGreen))
	}
	b.WriteString("\n# ========================\n\n")
	p.Fprintf(&b, "%d files generated.\n\n", d.Files)

	if steps := nextSteps(d); len(steps) > 0 {
		b.WriteString("To get started:\n\n")
		for _, s := range steps {
			b.WriteString("  " + w.paint(s, text.FgCyan) + "\n")
		}
		b.WriteString("\n")
	}

	if d.Answers != nil && d.Answers.Len() > 0 {
		b.WriteString(optionsTable(d.Answers))
		b.WriteString("\n\n")
	}
	if len(d.Outcomes) > 0 {
		b.WriteString(stagesTable(d.Outcomes))
		b.WriteString("\n\n")
	}

	for _, warn := range d.Warnings {
		b.WriteString(w.paint("warning:", text.FgYellow) + " " + warn + "\n")
	}

	if d.Failure != nil {
		b.WriteString(w.paint("Error :", text.FgRed) + " " + d.Failure.Error() + "\n")
	}
	if d.DocsURL != "" {
		fmt.Fprintf(&b, "\nDocumentation can be found at %s\n", d.DocsURL)
	}
	if d.RunID != "" {
		fmt.Fprintf(&b, "\nrun %s\n", d.RunID)
	}

	_, err := io.WriteString(w.Out, b.String())
	return err
}

func (w *Writer) paint(s string, c text.Color) string {
	if !w.Color {
		return s
	}
	return text.Colors{c}.Sprint(s)
}

// nextSteps lists what the user still has to do by hand.
func nextSteps(d Data) []string {
	var steps []string
	if !d.InPlace && d.Dir != "" {
		steps = append(steps, "cd "+d.Dir)
	}

	inst, chosen := pipeline.Installer(d.Answers)
	if !ran(d.Outcomes, pipeline.Installing) {
		if chosen {
			steps = append(steps, string(inst)+" install")
		} else {
			steps = append(steps, "npm install (or if using yarn: yarn)")
		}
	}

	if wantsLint(d.Answers) && !ran(d.Outcomes, pipeline.LintFixing) {
		if chosen {
			steps = append(steps, inst.LintFixCommand("").String())
		} else {
			steps = append(steps, "npm run lint -- --fix (or for yarn: yarn run lint --fix)")
		}
	}

	if chosen {
		steps = append(steps, inst.RunScriptHint("dev"))
	} else {
		steps = append(steps, "npm run dev")
	}
	return steps
}

func wantsLint(a *answers.Store) bool {
	if a == nil || !a.Truthy(pipeline.KeyLint) {
		return false
	}
	switch a.String(pipeline.KeyLintConfig) {
	case "standard", "airbnb":
		return true
	}
	return false
}

func ran(outcomes []pipeline.Outcome, s pipeline.State) bool {
	for _, o := range outcomes {
		if o.Stage == s {
			return o.Status == pipeline.StatusRan
		}
	}
	return false
}

func optionsTable(a *answers.Store) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Option", "Value"})
	for _, k := range a.Keys() {
		v, _ := a.Get(k)
		t.AppendRow(table.Row{k, v.String()})
	}
	return t.Render()
}

func stagesTable(outcomes []pipeline.Outcome) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Stage", "Status", "Detail"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 60}})
	for _, o := range outcomes {
		detail := o.Reason
		switch {
		case o.Err != nil:
			detail = o.Err.Error()
		case o.Status == pipeline.StatusRan:
			detail = o.Duration.Round(10 * time.Millisecond).String()
		}
		t.AppendRow(table.Row{o.Stage, o.Status, detail})
	}
	return t.Render()
}
