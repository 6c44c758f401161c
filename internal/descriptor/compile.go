package descriptor

import (
	"fmt"

	"github.com/webext-kit/webext/internal/condition"
	"github.com/webext-kit/webext/internal/filter"
	"github.com/webext-kit/webext/internal/questions"
)

// Descriptor is a compiled, ready-to-run descriptor.
type Descriptor struct {
	Name        string
	Description string
	Source      string
	Questions   []questions.Spec
	Filters     *filter.Set
	// Warnings lists gate identifiers that name neither a built-in
	// predicate nor an earlier question. They evaluate to false.
	Warnings []string
}

// Compile turns a decoded File into a Descriptor. Gating expressions are
// parsed here so syntax errors surface before any question is asked.
func Compile(f *File, source string) (*Descriptor, error) {
	d := &Descriptor{Name: f.Name, Description: f.Description, Source: source}
	var issues []Issue

	known := make(map[string]bool)
	for name := range condition.BuiltinPredicates(false) {
		known[name] = true
	}

	for i, p := range f.Prompts {
		at := fmt.Sprintf("/prompts/%d", i)
		if known[p.Key] {
			issues = append(issues, Issue{Path: at + "/key", Keyword: "unique", Message: fmt.Sprintf("duplicate or reserved key %q", p.Key)})
			continue
		}

		when, err := condition.Parse(p.When)
		if err != nil {
			issues = append(issues, Issue{Path: at + "/when", Keyword: "when", Message: err.Error()})
			continue
		}
		d.Warnings = append(d.Warnings, unknownIdents(when, known, at+"/when")...)

		spec := questions.Spec{
			Key:      p.Key,
			Kind:     questions.Kind(p.Type),
			Message:  p.Message,
			Required: p.Required,
			When:     when,
		}
		if p.Default != nil {
			def := scalarString(p.Default)
			spec.Default = &def
		}
		for _, c := range p.Choices {
			spec.Choices = append(spec.Choices, questions.Choice{
				Value: scalarString(c.Value),
				Name:  c.Name,
				Short: c.Short,
			})
		}
		d.Questions = append(d.Questions, spec)
		known[p.Key] = true
	}

	rules := make([]filter.Rule, 0, len(f.Filters))
	for i, fd := range f.Filters {
		when, err := condition.Parse(fd.When)
		if err != nil {
			issues = append(issues, Issue{Path: fmt.Sprintf("/filters/%d/when", i), Keyword: "when", Message: err.Error()})
			continue
		}
		d.Warnings = append(d.Warnings, unknownIdents(when, known, fmt.Sprintf("/filters/%d/when", i))...)
		rules = append(rules, filter.Rule{Pattern: fd.Pattern, When: when})
	}

	if len(issues) > 0 {
		return nil, &InvalidError{Source: source, Issues: issues}
	}

	set, err := filter.NewSet(rules)
	if err != nil {
		return nil, &InvalidError{Source: source, Issues: []Issue{{Path: "/filters", Keyword: "pattern", Message: err.Error()}}}
	}
	d.Filters = set
	return d, nil
}

// Question returns the spec for key.
func (d *Descriptor) Question(key string) (questions.Spec, bool) {
	for _, q := range d.Questions {
		if q.Key == key {
			return q, true
		}
	}
	return questions.Spec{}, false
}

// SetDefault replaces the default reply of question key. The value must be
// an acceptable answer to that question.
func (d *Descriptor) SetDefault(key, value string) error {
	for i := range d.Questions {
		q := &d.Questions[i]
		if q.Key != key {
			continue
		}
		if _, err := questions.Coerce(*q, value); err != nil {
			return err
		}
		v := value
		q.Default = &v
		return nil
	}
	return fmt.Errorf("descriptor %s has no question %q", d.Source, key)
}

func unknownIdents(e condition.Expr, known map[string]bool, at string) []string {
	var out []string
	for _, id := range e.Idents(nil) {
		if !known[id] {
			out = append(out, fmt.Sprintf("%s: %q is not a predicate or an earlier question", at, id))
		}
	}
	return out
}

// scalarString renders a YAML scalar (string or bool) as the raw answer
// text the question layer coerces.
func scalarString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return questions.SkipValue
	default:
		return fmt.Sprint(val)
	}
}
