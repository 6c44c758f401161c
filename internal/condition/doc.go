// Package condition evaluates the gating expressions attached to questions,
// file filters and pipeline stages.
//
// Expressions are conjunctions of identifiers ("isNotTest && lint"). The
// grammar also accepts ||, ! and parentheses. Identifiers resolve first to
// built-in predicates and then to answers, with truthy coercion. Anything
// unknown is false, and Evaluate never returns an error.
package condition
