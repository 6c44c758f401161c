package condition

import "strings"

// Expr is a parsed gating expression.
type Expr interface {
	Eval(env Env) bool
	String() string
	// Idents appends the identifiers referenced by the expression.
	Idents(dst []string) []string
}

// Ident references an answer key or built-in predicate.
type Ident struct{ Name string }

func (i Ident) Eval(env Env) bool            { return env.Lookup(i.Name) }
func (i Ident) String() string               { return i.Name }
func (i Ident) Idents(dst []string) []string { return append(dst, i.Name) }

// And is true iff every operand is true. An empty And is true.
type And struct{ Terms []Expr }

func (a And) Eval(env Env) bool {
	for _, t := range a.Terms {
		if !t.Eval(env) {
			return false
		}
	}
	return true
}

func (a And) String() string { return join(a.Terms, " && ") }

func (a And) Idents(dst []string) []string {
	for _, t := range a.Terms {
		dst = t.Idents(dst)
	}
	return dst
}

// Or is true iff any operand is true.
type Or struct{ Terms []Expr }

func (o Or) Eval(env Env) bool {
	for _, t := range o.Terms {
		if t.Eval(env) {
			return true
		}
	}
	return false
}

func (o Or) String() string { return join(o.Terms, " || ") }

func (o Or) Idents(dst []string) []string {
	for _, t := range o.Terms {
		dst = t.Idents(dst)
	}
	return dst
}

// Not negates its operand.
type Not struct{ X Expr }

func (n Not) Eval(env Env) bool            { return !n.X.Eval(env) }
func (n Not) String() string               { return "!" + wrap(n.X) }
func (n Not) Idents(dst []string) []string { return n.X.Idents(dst) }

// Always is the expression of an absent gate.
var Always Expr = And{}

func join(terms []Expr, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = wrap(t)
	}
	return strings.Join(parts, sep)
}

func wrap(e Expr) string {
	switch e.(type) {
	case And, Or:
		return "(" + e.String() + ")"
	default:
		return e.String()
	}
}
