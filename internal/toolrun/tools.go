package toolrun

import (
	"fmt"

	"github.com/webext-kit/webext/internal/answers"
)

// Installer is a supported package manager.
type Installer string

const (
	NPM  Installer = "npm"
	Yarn Installer = "yarn"
)

// Precommit hook choices.
const (
	HookPrettyQuick    = "prettyQuick"
	HookPreciseCommits = "preciseCommits"
)

// InstallerFrom maps the autoInstall answer to an Installer. ok is false
// for the skip sentinel, an absent answer, or an unknown tool.
func InstallerFrom(v answers.Value, present bool) (Installer, bool) {
	if !present || !v.Truthy() || v.Kind == answers.Bool {
		return "", false
	}
	switch Installer(v.Str) {
	case NPM, Yarn:
		return Installer(v.Str), true
	default:
		return "", false
	}
}

// InstallCommand installs the project's dependencies.
func (i Installer) InstallCommand(dir string) Command {
	return Command{Dir: dir, Name: string(i), Args: []string{"install"}}
}

// LintFixCommand runs the generated project's lint script with --fix.
// npm needs "--" to forward the flag to the script.
func (i Installer) LintFixCommand(dir string) Command {
	if i == NPM {
		return Command{Dir: dir, Name: "npm", Args: []string{"run", "lint", "--", "--fix"}}
	}
	return Command{Dir: dir, Name: string(i), Args: []string{"run", "lint", "--fix"}}
}

// HookCommand runs the formatter that backs the chosen precommit hook.
func (i Installer) HookCommand(hook, dir string) (Command, error) {
	var bin string
	switch hook {
	case HookPrettyQuick:
		bin = "pretty-quick"
	case HookPreciseCommits:
		bin = "precise-commits"
	default:
		return Command{}, fmt.Errorf("unknown precommit hook %q", hook)
	}
	if i == NPM {
		return Command{Dir: dir, Name: "npx", Args: []string{bin}}, nil
	}
	return Command{Dir: dir, Name: string(i), Args: []string{bin}}, nil
}

// RunScriptHint is the human instruction for running a package script.
func (i Installer) RunScriptHint(script string) string {
	if i == Yarn {
		return "yarn run " + script
	}
	return "npm run " + script
}
