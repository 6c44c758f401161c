// Package answers holds the values collected during the question phase.
//
// A Store is written while questions are resolved and frozen before any
// file is materialized. Each key is written at most once per run.
package answers

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies the type of an answer value.
type Kind int

const (
	String Kind = iota
	Bool
	Choice
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Choice:
		return "choice"
	default:
		return "unknown"
	}
}

// Value is a single typed answer.
type Value struct {
	Kind Kind
	Str  string
	Bool bool
}

// StringValue returns a free-text answer.
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// BoolValue returns a yes/no answer.
func BoolValue(b bool) Value { return Value{Kind: Bool, Bool: b} }

// ChoiceValue returns a selected choice.
func ChoiceValue(s string) Value { return Value{Kind: Choice, Str: s} }

// Truthy reports whether the value counts as true in a gating expression:
// booleans as-is, strings and choices when non-empty.
func (v Value) Truthy() bool {
	if v.Kind == Bool {
		return v.Bool
	}
	return v.Str != ""
}

// String renders the value the way templates and reports print it.
func (v Value) String() string {
	if v.Kind == Bool {
		return strconv.FormatBool(v.Bool)
	}
	return v.Str
}

// Raw returns the value as a plain Go value for templates.
func (v Value) Raw() any {
	if v.Kind == Bool {
		return v.Bool
	}
	return v.Str
}

var (
	// ErrAlreadySet is returned when a key is written twice in one run.
	ErrAlreadySet = errors.New("answer already set")
	// ErrFrozen is returned when writing after the question phase.
	ErrFrozen = errors.New("answer store is frozen")
)

// Store maps question keys to answers.
type Store struct {
	values map[string]Value
	frozen bool
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]Value)}
}

// Set records key. It never overwrites.
func (s *Store) Set(key string, v Value) error {
	if s.frozen {
		return fmt.Errorf("setting %q: %w", key, ErrFrozen)
	}
	if _, ok := s.values[key]; ok {
		return fmt.Errorf("setting %q: %w", key, ErrAlreadySet)
	}
	s.values[key] = v
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key has been answered.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Truthy resolves key with gating coercion; absent keys are false.
func (s *Store) Truthy(key string) bool {
	v, ok := s.values[key]
	return ok && v.Truthy()
}

// String returns the string form of key, or "" when absent.
func (s *Store) String(key string) string {
	v, ok := s.values[key]
	if !ok {
		return ""
	}
	return v.String()
}

// Freeze makes the store read-only.
func (s *Store) Freeze() { s.frozen = true }

// Frozen reports whether Freeze has been called.
func (s *Store) Frozen() bool { return s.frozen }

// Len returns the number of answered keys.
func (s *Store) Len() int { return len(s.values) }

// Keys returns the answered keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the stored values.
func (s *Store) Snapshot() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// TemplateData returns the answers as plain values keyed by question key,
// the shape text/template expects.
func (s *Store) TemplateData() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v.Raw()
	}
	return out
}
