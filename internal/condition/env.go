package condition

import "github.com/webext-kit/webext/internal/answers"

// Built-in predicate names.
const (
	PredicateIsTest    = "isTest"
	PredicateIsNotTest = "isNotTest"
)

// Predicates are named environment flags that shadow answer keys.
type Predicates map[string]bool

// BuiltinPredicates returns the fixed predicate set for a run.
// isTest is true for scripted scenario runs.
func BuiltinPredicates(isTest bool) Predicates {
	return Predicates{
		PredicateIsTest:    isTest,
		PredicateIsNotTest: !isTest,
	}
}

// Env is the evaluation environment: answers plus built-in predicates.
type Env struct {
	Answers    *answers.Store
	Predicates Predicates
}

// NewEnv builds an Env.
func NewEnv(store *answers.Store, preds Predicates) Env {
	return Env{Answers: store, Predicates: preds}
}

// Lookup resolves an identifier. Unset identifiers are false.
func (e Env) Lookup(name string) bool {
	if v, ok := e.Predicates[name]; ok {
		return v
	}
	if e.Answers == nil {
		return false
	}
	return e.Answers.Truthy(name)
}
