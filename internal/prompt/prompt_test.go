package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/condition"
	"github.com/webext-kit/webext/internal/questions"
)

func installSpec() questions.Spec {
	return questions.Spec{
		Key:     "autoInstall",
		Kind:    questions.KindList,
		Message: "Automatically install dependencies?",
		Choices: []questions.Choice{
			{Value: "npm", Name: "Yes, use NPM", Short: "npm"},
			{Value: "yarn", Name: "Yes, use Yarn", Short: "yarn"},
			{Value: questions.SkipValue, Name: "No, I will handle that myself", Short: "no"},
		},
	}
}

func TestAsk_ListShowsNumberedMenu(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("2\n"), &out)

	reply, err := term.Ask(context.Background(), installSpec())
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if reply != "2" {
		t.Errorf("reply = %q, want %q", reply, "2")
	}

	output := out.String()
	for _, want := range []string{"Automatically install dependencies?", "1) Yes, use NPM", "3) No, I will handle that myself", "Enter number [1-3]", "→ yarn"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestAsk_StringShowsDefault(t *testing.T) {
	def := "A Vue.js web extension"
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("\n"), &out)

	reply, err := term.Ask(context.Background(), questions.Spec{Key: "description", Kind: questions.KindString, Message: "Project description", Default: &def})
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if reply != "" {
		t.Errorf("reply = %q, want empty", reply)
	}
	if !strings.Contains(out.String(), "(A Vue.js web extension)") {
		t.Errorf("default not shown: %q", out.String())
	}
}

func TestAsk_LastLineWithoutNewline(t *testing.T) {
	term := NewTerminal(strings.NewReader("yes"), &bytes.Buffer{})
	reply, err := term.Ask(context.Background(), questions.Spec{Key: "lint", Kind: questions.KindConfirm})
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if reply != "yes" {
		t.Errorf("reply = %q, want yes", reply)
	}
}

func TestAsk_EOF(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})
	if _, err := term.Ask(context.Background(), questions.Spec{Key: "name", Kind: questions.KindString}); err == nil {
		t.Fatal("expected error on closed input")
	}
}

func TestTerminal_DrivesResolve(t *testing.T) {
	specs := []questions.Spec{
		{Key: "name", Kind: questions.KindString, Required: true},
		{Key: "lint", Kind: questions.KindConfirm},
		{Key: "lintConfig", Kind: questions.KindList, When: mustGate("lint"), Choices: []questions.Choice{
			{Value: "standard"}, {Value: "airbnb"},
		}},
		installSpec(),
	}
	input := "my-ext\ny\nairbnb\n3\n"
	term := NewTerminal(strings.NewReader(input), &bytes.Buffer{})
	store := answers.New()

	err := questions.Resolve(context.Background(), specs, store, condition.NewEnv(nil, condition.BuiltinPredicates(false)), term)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if store.String("lintConfig") != "airbnb" {
		t.Errorf("lintConfig = %q, want airbnb", store.String("lintConfig"))
	}
	if v, _ := store.Get("autoInstall"); v != answers.BoolValue(false) {
		t.Errorf("autoInstall = %+v, want false sentinel", v)
	}
}

// mustGate parses a gating expression known to be valid.
func mustGate(expr string) condition.Expr {
	e, err := condition.Parse(expr)
	if err != nil {
		panic(err)
	}
	return e
}
