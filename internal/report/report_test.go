package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/pipeline"
)

func frozen(t *testing.T, kv map[string]answers.Value) *answers.Store {
	t.Helper()
	s := answers.New()
	for k, v := range kv {
		if err := s.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}
	s.Freeze()
	return s
}

func render(t *testing.T, d Data) string {
	t.Helper()
	var b strings.Builder
	w := &Writer{Out: &b}
	if err := w.Write(d); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	return b.String()
}

func TestWrite_InstallSkipped(t *testing.T) {
	out := render(t, Data{
		Dir:   "my-ext",
		Files: 1200,
		Answers: frozen(t, map[string]answers.Value{
			"name":                  answers.StringValue("my-ext"),
			pipeline.KeyAutoInstall: answers.BoolValue(false),
			pipeline.KeyLint:        answers.BoolValue(true),
			pipeline.KeyLintConfig:  answers.ChoiceValue("standard"),
		}),
		Outcomes: []pipeline.Outcome{
			{Stage: pipeline.Normalizing, Status: pipeline.StatusRan},
			{Stage: pipeline.Installing, Status: pipeline.StatusSkipped, Reason: "not selected"},
		},
	})

	for _, want := range []string{
		"Project initialization finished!",
		"1,200 files generated.",
		"cd my-ext",
		"npm install (or if using yarn: yarn)",
		"npm run lint -- --fix (or for yarn: yarn run lint --fix)",
		"npm run dev",
		"my-ext",
		"not selected",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Error :") {
		t.Errorf("unexpected error section:\n%s", out)
	}
}

func TestWrite_InPlaceAfterInstall(t *testing.T) {
	out := render(t, Data{
		Dir:     "my-ext",
		InPlace: true,
		Answers: frozen(t, map[string]answers.Value{
			pipeline.KeyAutoInstall: answers.ChoiceValue("yarn"),
		}),
		Outcomes: []pipeline.Outcome{
			{Stage: pipeline.Installing, Status: pipeline.StatusRan},
		},
	})

	if strings.Contains(out, "cd my-ext") {
		t.Errorf("in-place report should not print cd:\n%s", out)
	}
	if strings.Contains(out, "yarn install") {
		t.Errorf("install hint printed after install ran:\n%s", out)
	}
	if !strings.Contains(out, "yarn run dev") {
		t.Errorf("missing yarn dev hint:\n%s", out)
	}
}

func TestWrite_Failure(t *testing.T) {
	cause := errors.New("npm install exited with status 1")
	out := render(t, Data{
		Dir: "my-ext",
		Answers: frozen(t, map[string]answers.Value{
			pipeline.KeyAutoInstall: answers.ChoiceValue("npm"),
		}),
		Outcomes: []pipeline.Outcome{
			{Stage: pipeline.Installing, Status: pipeline.StatusFailed, Err: cause},
			{Stage: pipeline.LintFixing, Status: pipeline.StatusNotReached, Reason: "after Installing failed"},
		},
		Failure: &pipeline.StageError{Stage: pipeline.Installing, Err: cause},
		RunID:   "abc",
	})

	for _, want := range []string{
		"Project initialization stopped.",
		"Error : Installing failed: npm install exited with status 1",
		"npm install",
		"not reached",
		"run abc",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWrite_DocsFooter(t *testing.T) {
	out := render(t, Data{Dir: "x", DocsURL: "https://example.com/docs", RunID: "abc"})
	footer := "Documentation can be found at https://example.com/docs"
	i := strings.Index(out, footer)
	if i < 0 {
		t.Fatalf("output missing %q:\n%s", footer, out)
	}
	if j := strings.Index(out, "run abc"); j < i {
		t.Errorf("docs footer should precede the run id:\n%s", out)
	}

	if out := render(t, Data{Dir: "x"}); strings.Contains(out, "Documentation") {
		t.Errorf("empty DocsURL should print no footer:\n%s", out)
	}
}

func TestWrite_NoColorByDefault(t *testing.T) {
	out := render(t, Data{Dir: "x"})
	if strings.Contains(out, "\x1b[") {
		t.Errorf("escape codes in uncolored output: %q", out)
	}

	text.EnableColors()
	var b strings.Builder
	w := &Writer{Out: &b, Color: true}
	if err := w.Write(Data{Dir: "x"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "\x1b[") {
		t.Errorf("expected escape codes when Color is set: %q", b.String())
	}
}
