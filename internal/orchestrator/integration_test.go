//go:build integration

package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/pipeline"
	"github.com/webext-kit/webext/internal/toolrun"
)

// installShim puts a fake executable on PATH that appends its arguments to
// a log file and exits with the given status.
func installShim(t *testing.T, name string, status int) (logPath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell shims need a POSIX shell")
	}
	bin := t.TempDir()
	logPath = filepath.Join(bin, name+".log")
	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %q\nexit %d\n", logPath, status)
	if err := os.WriteFile(filepath.Join(bin, name), []byte(script), 0755); err != nil {
		t.Fatalf("writing shim: %v", err)
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	return logPath
}

func readLog(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading shim log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func runWithExec(t *testing.T, opts Options) (*Result, string, error) {
	t.Helper()
	var out bytes.Buffer
	opts.Dir = filepath.Join(t.TempDir(), "ext")
	opts.Runner = &toolrun.ExecRunner{Stdout: &out, Stderr: &out}
	opts.Out = &out
	res, err := Run(context.Background(), opts)
	return res, out.String(), err
}

// TestFullScenarioWithRealProcesses runs the whole flow through ExecRunner:
// generate, npm install, npm run lint -- --fix, report.
func TestFullScenarioWithRealProcesses(t *testing.T) {
	npmLog := installShim(t, "npm", 0)

	res, out, err := runWithExec(t, Options{Scenario: "full"})
	if err != nil {
		t.Fatalf("Run() error: %v\n%s", err, out)
	}

	calls := readLog(t, npmLog)
	if len(calls) != 2 || calls[0] != "install" || calls[1] != "run lint -- --fix" {
		t.Errorf("npm calls = %q", calls)
	}
	if res.Pipeline.Final != pipeline.Done {
		t.Errorf("Final = %s, want Done", res.Pipeline.Final)
	}
	if _, err := os.Stat(filepath.Join(res.Scaffold.OutputDir, ".eslintrc.js")); err != nil {
		t.Errorf(".eslintrc.js missing: %v", err)
	}
}

// TestYarnWithPrettierHook covers the formatter stage through yarn.
func TestYarnWithPrettierHook(t *testing.T) {
	yarnLog := installShim(t, "yarn", 0)

	preset := answers.New()
	for k, v := range map[string]answers.Value{
		"autoInstall":  answers.StringValue("yarn"),
		"prettier":     answers.BoolValue(true),
		"prettierHook": answers.StringValue("preciseCommits"),
	} {
		if err := preset.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}

	res, out, err := runWithExec(t, Options{Scenario: "full", Preset: preset})
	if err != nil {
		t.Fatalf("Run() error: %v\n%s", err, out)
	}
	want := []string{"install", "run lint --fix", "precise-commits"}
	if got := readLog(t, yarnLog); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("yarn calls = %q, want %q", got, want)
	}
	if len(res.Pipeline.Attempted) != 5 {
		t.Errorf("Attempted = %v, want every stage", res.Pipeline.Attempted)
	}
}

// TestFailingInstallWithRealProcesses checks the exit status travels up as
// a StageError and lint never runs.
func TestFailingInstallWithRealProcesses(t *testing.T) {
	npmLog := installShim(t, "npm", 1)

	res, out, err := runWithExec(t, Options{Scenario: "full"})
	if err == nil {
		t.Fatal("Run() expected error")
	}
	if res.Pipeline.Final != pipeline.Failed {
		t.Errorf("Final = %s, want Failed", res.Pipeline.Final)
	}
	if calls := readLog(t, npmLog); len(calls) != 1 {
		t.Errorf("npm calls = %q, want install only", calls)
	}
	if !strings.Contains(out, "Error :") {
		t.Errorf("report missing error section:\n%s", out)
	}
}
