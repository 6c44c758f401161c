// Package orchestrator drives one project generation from start to finish:
// injected answers, the question phase, file materialization, and the
// post-generation pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/branding"
	"github.com/webext-kit/webext/internal/condition"
	"github.com/webext-kit/webext/internal/descriptor"
	"github.com/webext-kit/webext/internal/pipeline"
	"github.com/webext-kit/webext/internal/questions"
	"github.com/webext-kit/webext/internal/report"
	"github.com/webext-kit/webext/internal/scaffold"
	"github.com/webext-kit/webext/internal/scenario"
	"github.com/webext-kit/webext/internal/toolrun"
)

// ErrNoAnswer is returned when a question must be asked but no Asker is
// configured.
var ErrNoAnswer = errors.New("no answer available in non-interactive mode")

// Materializer writes the filtered template tree to disk.
type Materializer interface {
	Generate(opts scaffold.Options) (*scaffold.Result, error)
}

// MaterializerFunc adapts a function to Materializer.
type MaterializerFunc func(opts scaffold.Options) (*scaffold.Result, error)

// Generate implements Materializer.
func (f MaterializerFunc) Generate(opts scaffold.Options) (*scaffold.Result, error) { return f(opts) }

// Options configures a run. Zero values select the defaults noted per field.
type Options struct {
	// Dir is the target directory, as the user typed it.
	Dir     string
	InPlace bool
	Force   bool

	// Descriptor defaults to descriptor.Default().
	Descriptor *descriptor.Descriptor
	// Preset holds answers injected before the question phase.
	Preset *answers.Store
	// Scenario names a test scenario; it also turns the isTest predicate on.
	Scenario string

	Asker questions.Asker
	// Runner defaults to a toolrun.ExecRunner.
	Runner toolrun.CommandRunner
	// Materializer defaults to the embedded scaffold.
	Materializer Materializer
	// Skip disables pipeline stages by configuration.
	Skip map[pipeline.State]bool

	// Out receives the completion report; defaults to os.Stdout.
	Out    io.Writer
	Color  bool
	Logger *slog.Logger
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Answers  *answers.Store
	Scaffold *scaffold.Result
	Pipeline *pipeline.Result
}

// Run generates a project. A *questions.ValidationError aborts before
// anything is written. A *pipeline.StageError is returned together with a
// non-nil Result; files already written stay on disk.
func Run(ctx context.Context, opts Options) (*Result, error) {
	runID := uuid.NewString()
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("run_id", runID)

	desc := opts.Descriptor
	if desc == nil {
		var err error
		if desc, err = descriptor.Default(); err != nil {
			return nil, err
		}
	}
	for _, w := range desc.Warnings {
		log.Warn("descriptor warning", "detail", w)
	}

	preset, err := injected(opts.Preset, opts.Scenario)
	if err != nil {
		return nil, err
	}
	store, err := questions.Normalize(desc.Questions, preset)
	if err != nil {
		return nil, err
	}

	isTest := opts.Scenario != ""
	env := condition.NewEnv(store, condition.BuiltinPredicates(isTest))
	asker := opts.Asker
	if asker == nil {
		asker = questions.AskFunc(func(_ context.Context, q questions.Spec) (string, error) {
			return "", fmt.Errorf("%s: %w", q.Key, ErrNoAnswer)
		})
	}
	log.Info("question phase", "questions", len(desc.Questions), "injected", store.Len(), "test", isTest)
	if err := questions.Resolve(ctx, desc.Questions, store, env, asker); err != nil {
		return nil, err
	}
	store.Freeze()
	res := &Result{RunID: runID, Answers: store}

	mat := opts.Materializer
	if mat == nil {
		mat = MaterializerFunc(scaffold.Generate)
	}
	dir := opts.Dir
	if opts.InPlace || dir == "" {
		dir = "."
	}
	scaf, err := mat.Generate(scaffold.Options{
		OutputDir: dir,
		Data:      templateData(desc, store),
		Filter:    desc.Filters,
		Env:       env,
		Force:     opts.Force,
		Logger:    log,
	})
	if err != nil {
		return res, fmt.Errorf("generating project: %w", err)
	}
	res.Scaffold = scaf
	log.Info("project generated", "dir", dir, "files", len(scaf.Files), "filtered", len(scaf.Skipped))

	runner := opts.Runner
	if runner == nil {
		runner = &toolrun.ExecRunner{Logger: log}
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	writer := &report.Writer{Out: out, Color: opts.Color}
	reporter := func(_ context.Context, rc *pipeline.RunContext) error {
		d := report.FromRun(runID, opts.Dir, opts.InPlace, len(scaf.Files), rc)
		d.DocsURL = branding.DocsURL()
		return writer.Write(d)
	}

	rc := &pipeline.RunContext{
		Dir:     dir,
		Answers: store,
		Runner:  runner,
		Skip:    opts.Skip,
		Logger:  log,
	}
	pres, err := pipeline.Standard(reporter).Run(ctx, rc)
	res.Pipeline = pres
	if err != nil {
		return res, err
	}
	log.Info("run finished", "state", pres.Final, "stages", len(pres.Attempted))
	return res, nil
}

// injected merges the preset answers with the named scenario. Preset keys
// win over the scenario's.
func injected(preset *answers.Store, name string) (*answers.Store, error) {
	out := answers.New()
	if preset != nil {
		for _, k := range preset.Keys() {
			v, _ := preset.Get(k)
			if err := out.Set(k, v); err != nil {
				return nil, err
			}
		}
	}
	if name == "" {
		return out, nil
	}

	sc, err := scenario.Lookup(name)
	if err != nil {
		return nil, err
	}
	st, err := sc.Store()
	if err != nil {
		return nil, err
	}
	for _, k := range st.Keys() {
		if out.Has(k) {
			continue
		}
		v, _ := st.Get(k)
		if err := out.Set(k, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// templateData exposes every descriptor key to templates. Keys the question
// phase skipped get their kind's zero value so templates never see a
// missing key; the store itself is left untouched.
func templateData(desc *descriptor.Descriptor, store *answers.Store) map[string]any {
	data := store.TemplateData()
	for _, q := range desc.Questions {
		if _, ok := data[q.Key]; ok {
			continue
		}
		switch q.Kind {
		case questions.KindString:
			data[q.Key] = ""
		default:
			data[q.Key] = false
		}
	}
	return data
}
