// Package filter decides which template files are emitted for a set of
// answers.
//
// A Rule pairs a glob with a gating expression. A path that matches no rule
// is included. A path that matches one or more rules is included only if
// every matching rule's expression is true; specificity plays no part.
package filter

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/webext-kit/webext/internal/condition"
)

// Rule gates every path matching Pattern on When.
type Rule struct {
	Pattern string
	When    condition.Expr
}

// Set is an immutable list of rules.
type Set struct {
	rules []Rule
}

// NewSet validates the rule patterns and returns a Set.
func NewSet(rules []Rule) (*Set, error) {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		pattern := normalize(r.Pattern)
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("filter rule %d: invalid glob %q", i, r.Pattern)
		}
		when := r.When
		if when == nil {
			when = condition.Always
		}
		out[i] = Rule{Pattern: pattern, When: when}
	}
	return &Set{rules: out}, nil
}

// Rules returns a copy of the rule list.
func (s *Set) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Matching returns the rules whose pattern matches p.
func (s *Set) Matching(p string) []Rule {
	p = normalize(p)
	var out []Rule
	for _, r := range s.rules {
		// Patterns were validated in NewSet, so Match cannot fail.
		if ok, _ := doublestar.Match(r.Pattern, p); ok {
			out = append(out, r)
		}
	}
	return out
}

// Includes reports whether p should be materialized.
func (s *Set) Includes(p string, env condition.Env) bool {
	for _, r := range s.Matching(p) {
		if !r.When.Eval(env) {
			return false
		}
	}
	return true
}

// Filter splits paths into the included and the excluded ones, keeping
// their relative order.
func (s *Set) Filter(paths []string, env condition.Env) (kept, dropped []string) {
	for _, p := range paths {
		if s.Includes(p, env) {
			kept = append(kept, p)
		} else {
			dropped = append(dropped, p)
		}
	}
	return kept, dropped
}

func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}
