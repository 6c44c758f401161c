package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/webext-kit/webext/internal/config"
	"github.com/webext-kit/webext/internal/descriptor"
	"github.com/webext-kit/webext/internal/toolrun"
)

var (
	checkTools      bool
	checkConfig     bool
	checkDescriptor string
)

func init() {
	doctorCmd.Flags().BoolVar(&checkTools, "check-tools", false, "Verify node, npm, yarn and git versions")
	doctorCmd.Flags().BoolVar(&checkConfig, "check-config", false, "Show the resolved settings")
	doctorCmd.Flags().StringVar(&checkDescriptor, "check-descriptor", "", "Validate a descriptor file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the tools a generated project needs are installed",
	Long: `Run diagnostic checks on the environment. Without flags, the tool and
config checks run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		all := !checkTools && !checkConfig && checkDescriptor == ""

		if all || checkTools {
			runner := &toolrun.ExecRunner{Stdout: io.Discard, Stderr: io.Discard, Logger: logger}
			results := toolrun.CheckTools(cmd.Context(), runner, toolrun.DefaultRequirements)
			if failures := toolrun.PrintChecks(out, results); failures > 0 {
				return fmt.Errorf("%d required tool(s) missing or outdated", failures)
			}
		}
		if all || checkConfig {
			printConfigCheck(out, config.Current())
		}
		if checkDescriptor != "" {
			return runDescriptorCheck(out, checkDescriptor)
		}
		return nil
	},
}

func printConfigCheck(w io.Writer, s config.Settings) {
	fmt.Fprintf(w, "Config check (%s):\n", config.FilePath())
	fmt.Fprintf(w, "  %-18s %v\n", config.KeySkipInstall, s.SkipInstall)
	fmt.Fprintf(w, "  %-18s %v\n", config.KeySkipLint, s.SkipLint)
	fmt.Fprintf(w, "  %-18s %v\n", config.KeySkipFormat, s.SkipFormat)
	installer := s.DefaultInstaller
	if installer == "" {
		installer = "(ask)"
	}
	fmt.Fprintf(w, "  %-18s %s\n", config.KeyDefaultInstaller, installer)
	fmt.Fprintf(w, "  %-18s %s\n", config.KeyLogLevel, s.LogLevel)
}

func runDescriptorCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Descriptor validation: %s\n", path)

	result, err := descriptor.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("descriptor validation failed: %w", err)
	}
	if !result.Valid {
		fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Fprintf(w, "    - %s\n", issue)
		}
		return fmt.Errorf("descriptor %s has %d validation issue(s)", path, len(result.Issues))
	}

	// Schema-valid files can still fail to compile (bad gates, duplicate keys).
	desc, err := descriptor.Load(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}
	fmt.Fprintf(w, "  [ OK ] %s: %d questions, %d filters\n", desc.Name, len(desc.Questions), len(desc.Filters.Rules()))
	for _, warn := range desc.Warnings {
		fmt.Fprintf(w, "  [WARN] %s\n", warn)
	}
	return nil
}
