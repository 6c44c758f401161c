// Package questions resolves the ordered question list into an answer store.
//
// Questions are visited in declared order. A question whose gate is false is
// skipped entirely and leaves no entry behind, so later gates see its key as
// absent. Gated-in questions are asked through an Asker, validated against
// their kind and choices, and recorded.
package questions

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/condition"
)

// Kind is the question type.
type Kind string

const (
	KindString  Kind = "string"
	KindConfirm Kind = "confirm"
	KindList    Kind = "list"
)

// SkipValue is the literal used by choices that mean "no, I will handle
// that myself". Selecting one stores boolean false.
const SkipValue = "false"

// Choice is one option of a list question.
type Choice struct {
	Value string // stored value, or SkipValue
	Name  string // menu label
	Short string // label echoed back after selection
}

// Skip reports whether the choice is the false sentinel.
func (c Choice) Skip() bool { return c.Value == SkipValue }

func (c Choice) answer() answers.Value {
	if c.Skip() {
		return answers.BoolValue(false)
	}
	return answers.ChoiceValue(c.Value)
}

// Spec describes one question.
type Spec struct {
	Key      string
	Kind     Kind
	Message  string
	Required bool
	When     condition.Expr // nil means always
	Default  *string        // raw default, coerced like a typed answer
	Choices  []Choice
}

// Gate returns the spec's gating expression.
func (s Spec) Gate() condition.Expr {
	if s.When == nil {
		return condition.Always
	}
	return s.When
}

// Asker obtains a raw answer for a question. An empty string means the user
// gave no answer.
type Asker interface {
	Ask(ctx context.Context, q Spec) (string, error)
}

// AskFunc adapts a function to Asker.
type AskFunc func(ctx context.Context, q Spec) (string, error)

// Ask calls f.
func (f AskFunc) Ask(ctx context.Context, q Spec) (string, error) { return f(ctx, q) }

// ValidationError reports a missing required answer or an answer that does
// not fit the question.
type ValidationError struct {
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid answer for %q: %s", e.Key, e.Reason)
}

// Resolve walks specs in order and records answers into store. Keys already
// present in store (injected answers, see Normalize) are kept and never asked.
// The store is not frozen; the caller does that once the phase is over.
func Resolve(ctx context.Context, specs []Spec, store *answers.Store, env condition.Env, ask Asker) error {
	env.Answers = store
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if store.Has(spec.Key) {
			continue
		}

		if !spec.Gate().Eval(env) {
			continue
		}

		raw, err := ask.Ask(ctx, spec)
		if err != nil {
			return fmt.Errorf("asking %q: %w", spec.Key, err)
		}

		v, err := Coerce(spec, raw)
		if err != nil {
			return err
		}
		if err := store.Set(spec.Key, v); err != nil {
			return err
		}
	}
	return nil
}

// Coerce validates raw against spec and converts it to a typed answer.
func Coerce(spec Spec, raw string) (answers.Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" && spec.Default != nil {
		raw = strings.TrimSpace(*spec.Default)
	}
	if raw == "" {
		if spec.Required {
			return answers.Value{}, &ValidationError{Key: spec.Key, Reason: "an answer is required"}
		}
		return zeroValue(spec)
	}

	switch spec.Kind {
	case KindString:
		return answers.StringValue(raw), nil
	case KindConfirm:
		b, ok := parseConfirm(raw)
		if !ok {
			return answers.Value{}, &ValidationError{Key: spec.Key, Reason: fmt.Sprintf("%q is not yes or no", raw)}
		}
		return answers.BoolValue(b), nil
	case KindList:
		c, ok := matchChoice(spec.Choices, raw)
		if !ok {
			return answers.Value{}, &ValidationError{
				Key:    spec.Key,
				Reason: fmt.Sprintf("%q is not one of %s", raw, strings.Join(choiceValues(spec.Choices), ", ")),
			}
		}
		return c.answer(), nil
	default:
		return answers.Value{}, &ValidationError{Key: spec.Key, Reason: fmt.Sprintf("unknown question kind %q", spec.Kind)}
	}
}

func zeroValue(spec Spec) (answers.Value, error) {
	switch spec.Kind {
	case KindConfirm:
		return answers.BoolValue(false), nil
	case KindList:
		if len(spec.Choices) == 0 {
			return answers.Value{}, &ValidationError{Key: spec.Key, Reason: "question has no choices"}
		}
		return spec.Choices[0].answer(), nil
	default:
		return answers.StringValue(""), nil
	}
}

// Normalize coerces injected answers with the same rules as typed ones, so a
// scripted "false" for a list question becomes the boolean sentinel. Keys
// without a matching spec are copied unchanged.
func Normalize(specs []Spec, preset *answers.Store) (*answers.Store, error) {
	byKey := make(map[string]Spec, len(specs))
	for _, s := range specs {
		byKey[s.Key] = s
	}

	out := answers.New()
	for _, key := range preset.Keys() {
		v, _ := preset.Get(key)
		if spec, ok := byKey[key]; ok {
			// Defaults are offered to people at a prompt, never filled in
			// for an empty injected answer.
			if spec.Required && strings.TrimSpace(v.String()) == "" {
				return nil, &ValidationError{Key: key, Reason: "an answer is required"}
			}
			coerced, err := Coerce(spec, v.String())
			if err != nil {
				return nil, err
			}
			v = coerced
		}
		if err := out.Set(key, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseConfirm(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "y", "yes", "true":
		return true, true
	case "n", "no", "false":
		return false, true
	default:
		return false, false
	}
}

// matchChoice accepts a choice value, its short label, or its 1-based index.
func matchChoice(choices []Choice, raw string) (Choice, bool) {
	for _, c := range choices {
		if c.Value == raw || (c.Short != "" && strings.EqualFold(c.Short, raw)) {
			return c, true
		}
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], true
	}
	return Choice{}, false
}

func choiceValues(choices []Choice) []string {
	vals := make([]string, len(choices))
	for i, c := range choices {
		vals[i] = c.Value
	}
	return vals
}
