package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/pkgjson"
	"github.com/webext-kit/webext/internal/toolrun"
)

// Answer keys read by the standard stages.
const (
	KeyAutoInstall  = "autoInstall"
	KeyLint         = "lint"
	KeyLintConfig   = "lintConfig"
	KeyPrettier     = "prettier"
	KeyPrettierHook = "prettierHook"
)

// Lint presets that ship a lint script.
var lintPresets = map[string]bool{"standard": true, "airbnb": true}

// Reporter writes the completion report. It runs as the last stage.
type Reporter func(ctx context.Context, rc *RunContext) error

// Standard returns the post-generation pipeline:
// Normalizing, Installing, LintFixing, Formatting, Reporting.
func Standard(report Reporter) *Pipeline {
	if report == nil {
		report = func(context.Context, *RunContext) error { return nil }
	}
	p, err := New(
		Stage{Name: Normalizing, Action: normalize},
		Stage{Name: Installing, Gate: InstallSelected, Action: install},
		Stage{Name: LintFixing, Gate: LintSelected, Action: lintFix},
		Stage{Name: Formatting, Gate: FormatSelected, Action: format},
		Stage{Name: Reporting, Action: report, ContinueOnFailure: true},
	)
	if err != nil {
		// The stage list above is fixed; New only fails on programmer error.
		panic(err)
	}
	return p
}

// Installer returns the package manager chosen in the answers.
func Installer(store *answers.Store) (toolrun.Installer, bool) {
	if store == nil {
		return "", false
	}
	v, ok := store.Get(KeyAutoInstall)
	return toolrun.InstallerFrom(v, ok)
}

// InstallSelected gates Installing.
func InstallSelected(store *answers.Store) bool {
	_, ok := Installer(store)
	return ok
}

// LintSelected gates LintFixing.
func LintSelected(store *answers.Store) bool {
	return InstallSelected(store) &&
		store.Truthy(KeyLint) &&
		lintPresets[store.String(KeyLintConfig)]
}

// FormatSelected gates Formatting.
func FormatSelected(store *answers.Store) bool {
	return InstallSelected(store) &&
		store.Truthy(KeyPrettier) &&
		store.Truthy(KeyPrettierHook)
}

func normalize(_ context.Context, rc *RunContext) error {
	path := filepath.Join(rc.Dir, pkgjson.FileName)
	changed, err := pkgjson.SortFile(path)
	if err != nil {
		rc.Warn("sorting %s: %v", pkgjson.FileName, err)
		return nil
	}
	if changed && rc.Logger != nil {
		rc.Logger.Debug("sorted dependencies", "file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			rc.Warn("reading %s: %v", pkgjson.FileName, err)
		}
		return nil
	}
	warnings, err := pkgjson.RangeWarnings(data)
	if err != nil {
		rc.Warn("checking dependency ranges: %v", err)
		return nil
	}
	rc.Warnings = append(rc.Warnings, warnings...)
	return nil
}

func install(ctx context.Context, rc *RunContext) error {
	inst, _ := Installer(rc.Answers)
	_, err := toolrun.Exec(ctx, rc.Runner, inst.InstallCommand(rc.Dir))
	return err
}

func lintFix(ctx context.Context, rc *RunContext) error {
	inst, _ := Installer(rc.Answers)
	_, err := toolrun.Exec(ctx, rc.Runner, inst.LintFixCommand(rc.Dir))
	return err
}

func format(ctx context.Context, rc *RunContext) error {
	inst, _ := Installer(rc.Answers)
	cmd, err := inst.HookCommand(rc.Answers.String(KeyPrettierHook), rc.Dir)
	if err != nil {
		return err
	}
	_, err = toolrun.Exec(ctx, rc.Runner, cmd)
	return err
}
