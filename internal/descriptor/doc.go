// Package descriptor loads the declarative scaffold descriptor: the ordered
// question list with its gating expressions and the file filter rules.
// Descriptors are YAML, validated against an embedded JSON Schema, and then
// compiled into questions.Spec values and a filter.Set. A default descriptor
// for the Vue.js web extension template is embedded in the binary.
package descriptor
