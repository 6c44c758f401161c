package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/branding"
	"github.com/webext-kit/webext/internal/config"
	"github.com/webext-kit/webext/internal/descriptor"
	"github.com/webext-kit/webext/internal/orchestrator"
	"github.com/webext-kit/webext/internal/pipeline"
	"github.com/webext-kit/webext/internal/prompt"
	"github.com/webext-kit/webext/internal/scenario"
	"github.com/webext-kit/webext/internal/toolrun"
)

var (
	newDescriptor  string
	newAnswers     string
	newScenario    string
	newInPlace     bool
	newForce       bool
	newSkipInstall bool
	newSkipLint    bool
	newSkipFormat  bool
)

func init() {
	f := newCmd.Flags()
	f.StringVar(&newDescriptor, "descriptor", "", "Use a custom descriptor file instead of the built-in one")
	f.StringVar(&newAnswers, "answers", "", "YAML file of answers to inject before the questions")
	f.StringVar(&newScenario, "scenario", "", "Run a named test scenario (also $"+scenario.EnvVar()+")")
	f.BoolVar(&newInPlace, "in-place", false, "Generate into the current directory")
	f.BoolVar(&newForce, "force", false, "Allow generating into a non-empty directory")
	f.BoolVar(&newSkipInstall, "skip-install", false, "Do not install dependencies (overrides config)")
	f.BoolVar(&newSkipLint, "skip-lint", false, "Do not run lint --fix (overrides config)")
	f.BoolVar(&newSkipFormat, "skip-format", false, "Do not run the precommit formatter (overrides config)")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new [dir]",
	Short: "Generate a new Vue.js web extension project",
	Long: `Ask the project questions, write the selected files, then install
dependencies and run the chosen lint and format tools.

Examples:
  ` + branding.CLIName() + ` new my-extension
  ` + branding.CLIName() + ` new . --force
  ` + branding.CLIName() + ` new my-extension --answers answers.yaml --skip-install
  ` + branding.CLIName() + ` new /tmp/t --scenario full`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, inPlace, err := resolveTarget(args, newInPlace)
		if err != nil {
			return err
		}

		settings := config.Current()
		desc, err := loadDescriptor(newDescriptor)
		if err != nil {
			return err
		}
		if err := applyDefaults(desc, dir, settings); err != nil {
			return err
		}

		var preset *answers.Store
		if newAnswers != "" {
			if preset, err = answers.LoadFile(newAnswers); err != nil {
				return err
			}
		}
		scen := newScenario
		if scen == "" {
			scen = scenario.FromEnv()
		}

		opts := orchestrator.Options{
			Dir:        dir,
			InPlace:    inPlace,
			Force:      newForce,
			Descriptor: desc,
			Preset:     preset,
			Scenario:   scen,
			Asker:      prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout()),
			Runner:     &toolrun.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr(), Logger: logger},
			Skip:       skipStages(cmd.Flags(), settings),
			Out:        cmd.OutOrStdout(),
			Color:      colorEnabled(cmd.OutOrStdout()),
			Logger:     logger,
		}
		_, err = orchestrator.Run(cmd.Context(), opts)
		return err
	},
}

// resolveTarget maps the positional argument to the output directory.
// "." means in place.
func resolveTarget(args []string, inPlace bool) (dir string, place bool, err error) {
	switch {
	case inPlace && len(args) > 0 && args[0] != ".":
		return "", false, errors.New("--in-place does not take a directory")
	case inPlace:
		return ".", true, nil
	case len(args) == 0:
		return "", false, errors.New("a target directory is required (or use --in-place)")
	case filepath.Clean(args[0]) == ".":
		return ".", true, nil
	default:
		return args[0], false, nil
	}
}

func loadDescriptor(path string) (*descriptor.Descriptor, error) {
	var (
		desc *descriptor.Descriptor
		err  error
	)
	if path == "" {
		desc, err = descriptor.Default()
	} else {
		desc, err = descriptor.Load(path)
	}
	if err != nil {
		return nil, err
	}
	for _, w := range desc.Warnings {
		logger.Warn("descriptor", "warning", w)
	}
	return desc, nil
}

// applyDefaults seeds the project name from the directory and the install
// choice from the user's settings.
func applyDefaults(desc *descriptor.Descriptor, dir string, s config.Settings) error {
	if abs, err := filepath.Abs(dir); err == nil {
		if _, ok := desc.Question("name"); ok {
			// A directory name that is not a valid answer simply gets no default.
			_ = desc.SetDefault("name", filepath.Base(abs))
		}
	}
	if s.DefaultInstaller != "" {
		if err := desc.SetDefault(pipeline.KeyAutoInstall, s.DefaultInstaller); err != nil {
			return fmt.Errorf("config %s: %w", config.KeyDefaultInstaller, err)
		}
	}
	return nil
}

// skipStages merges the skip settings with the command flags. An explicit
// flag wins over the config value.
func skipStages(flags *pflag.FlagSet, s config.Settings) map[pipeline.State]bool {
	pick := func(name string, flagValue, configValue bool) bool {
		if flags.Changed(name) {
			return flagValue
		}
		return configValue
	}
	return map[pipeline.State]bool{
		pipeline.Installing: pick("skip-install", newSkipInstall, s.SkipInstall),
		pipeline.LintFixing: pick("skip-lint", newSkipLint, s.SkipLint),
		pipeline.Formatting: pick("skip-format", newSkipFormat, s.SkipFormat),
	}
}
