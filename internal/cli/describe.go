package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/webext-kit/webext/internal/descriptor"
	"github.com/webext-kit/webext/internal/pipeline"
	"github.com/webext-kit/webext/internal/questions"
)

var describeDescriptor string

func init() {
	describeCmd.Flags().StringVar(&describeDescriptor, "descriptor", "", "Describe a custom descriptor file instead of the built-in one")
	rootCmd.AddCommand(describeCmd)
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "List the questions and file filters of a descriptor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := loadDescriptor(describeDescriptor)
		if err != nil {
			return err
		}
		writeDescription(cmd.OutOrStdout(), desc)
		return nil
	},
}

func writeDescription(w io.Writer, d *descriptor.Descriptor) {
	fmt.Fprintf(w, "%s (%s)\n", d.Name, d.Source)
	if d.Description != "" {
		fmt.Fprintln(w, d.Description)
	}
	fmt.Fprintln(w)

	qt := table.NewWriter()
	qt.SetStyle(table.StyleLight)
	qt.SetTitle("Questions")
	qt.AppendHeader(table.Row{"#", "Key", "Kind", "When", "Default", "Choices"})
	for i, q := range d.Questions {
		def := ""
		if q.Default != nil {
			def = *q.Default
		}
		if q.Required {
			def = strings.TrimSpace(def + " (required)")
		}
		qt.AppendRow(table.Row{i + 1, q.Key, q.Kind, q.Gate().String(), def, choiceList(q.Choices)})
	}
	fmt.Fprintln(w, qt.Render())
	fmt.Fprintln(w)

	ft := table.NewWriter()
	ft.SetStyle(table.StyleLight)
	ft.SetTitle("File filters")
	ft.AppendHeader(table.Row{"Pattern", "When"})
	for _, r := range d.Filters.Rules() {
		ft.AppendRow(table.Row{r.Pattern, r.When.String()})
	}
	fmt.Fprintln(w, ft.Render())
	fmt.Fprintln(w)

	stages := pipeline.Standard(nil).Stages()
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = string(st)
	}
	fmt.Fprintf(w, "After generation: %s\n", strings.Join(names, " -> "))

	for _, warn := range d.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

func choiceList(choices []questions.Choice) string {
	vals := make([]string, len(choices))
	for i, c := range choices {
		vals[i] = c.Value
	}
	return strings.Join(vals, " | ")
}
