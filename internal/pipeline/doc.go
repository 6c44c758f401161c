// Package pipeline runs the post-generation setup stages in a fixed order.
//
// The pipeline is a small state machine:
//
//	Idle → Normalizing → Installing → LintFixing → Formatting → Reporting → Done
//
// with Failed reachable from any non-terminal state. A stage whose gate is
// false is skipped and the machine moves on. When a stage that does not
// tolerate failure returns an error, the machine enters Failed and no
// further intolerant stage runs; stages marked ContinueOnFailure (the
// report) still run. Nothing is retried and nothing is rolled back.
package pipeline
