package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/toolrun"
)

// RunContext is the state shared by every stage of one run.
type RunContext struct {
	// Dir is the generated project's directory. Every command runs here.
	Dir     string
	Answers *answers.Store
	Runner  toolrun.CommandRunner
	// Skip disables stages by configuration, independent of the answers.
	Skip map[State]bool

	// Warnings collects non-fatal notes for the report.
	Warnings []string
	// Failure is set once an intolerant stage has failed.
	Failure *StageError
	// Outcomes is the per-stage record so far; the report reads it.
	Outcomes []Outcome

	Logger *slog.Logger
}

// Warn records a non-fatal note.
func (rc *RunContext) Warn(format string, args ...any) {
	rc.Warnings = append(rc.Warnings, fmt.Sprintf(format, args...))
}

// Stage is one step of the pipeline.
type Stage struct {
	Name State
	// Gate decides from the answers whether Action runs. Nil means always.
	Gate   func(*answers.Store) bool
	Action func(ctx context.Context, rc *RunContext) error
	// ContinueOnFailure stages still run after an earlier failure, and
	// their own errors never fail the pipeline.
	ContinueOnFailure bool
}

// Status is what happened to a stage.
type Status string

const (
	StatusRan        Status = "ran"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
	StatusNotReached Status = "not reached"
)

// Outcome records one stage.
type Outcome struct {
	Stage    State
	Status   Status
	Reason   string // why it was skipped or not reached
	Err      error
	Duration time.Duration
}

// StageError is the error surfaced when an intolerant stage fails.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Result summarizes a run.
type Result struct {
	Final State
	// Attempted lists, in order, the stages whose action was invoked.
	Attempted []State
	Outcomes  []Outcome
	Warnings  []string
	Err       *StageError
}

// Pipeline is an ordered list of stages.
type Pipeline struct {
	stages []Stage
}

// New returns a pipeline over stages. Stage names must be unique.
func New(stages ...Stage) (*Pipeline, error) {
	seen := make(map[State]bool, len(stages))
	for _, s := range stages {
		switch s.Name {
		case Idle, Done, Failed, "":
			return nil, fmt.Errorf("stage name %q is reserved", s.Name)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate stage %q", s.Name)
		}
		if s.Action == nil {
			return nil, fmt.Errorf("stage %q has no action", s.Name)
		}
		seen[s.Name] = true
	}
	return &Pipeline{stages: stages}, nil
}

// Stages returns the stage names in order.
func (p *Pipeline) Stages() []State {
	out := make([]State, len(p.stages))
	for i, s := range p.stages {
		out[i] = s.Name
	}
	return out
}

// Run executes the stages in order. The returned error is the *StageError
// of the first intolerant failure, if any; it is also in Result.Err.
func (p *Pipeline) Run(ctx context.Context, rc *RunContext) (*Result, error) {
	log := rc.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := newMachine(p.stages)
	res := &Result{}

	for _, stage := range p.stages {
		if rc.Failure != nil && !stage.ContinueOnFailure {
			p.record(rc, res, Outcome{Stage: stage.Name, Status: StatusNotReached, Reason: "after " + string(rc.Failure.Stage) + " failed"})
			continue
		}

		if rc.Failure == nil {
			if err := m.transition(stage.Name); err != nil {
				return nil, err
			}
		}

		if rc.Skip[stage.Name] {
			log.Info("stage skipped", "stage", stage.Name, "reason", "configuration")
			p.record(rc, res, Outcome{Stage: stage.Name, Status: StatusSkipped, Reason: "disabled by configuration"})
			continue
		}
		if stage.Gate != nil && !stage.Gate(rc.Answers) {
			log.Info("stage skipped", "stage", stage.Name, "reason", "gate")
			p.record(rc, res, Outcome{Stage: stage.Name, Status: StatusSkipped, Reason: "not selected"})
			continue
		}

		log.Info("stage started", "stage", stage.Name)
		res.Attempted = append(res.Attempted, stage.Name)
		start := time.Now()
		err := stage.Action(ctx, rc)
		elapsed := time.Since(start)

		if err == nil {
			log.Info("stage finished", "stage", stage.Name, "duration", elapsed)
			p.record(rc, res, Outcome{Stage: stage.Name, Status: StatusRan, Duration: elapsed})
			continue
		}

		p.record(rc, res, Outcome{Stage: stage.Name, Status: StatusFailed, Err: err, Duration: elapsed})
		if stage.ContinueOnFailure {
			log.Warn("tolerated stage failure", "stage", stage.Name, "error", err)
			rc.Warn("%s: %v", stage.Name, err)
			continue
		}

		log.Error("stage failed", "stage", stage.Name, "state", Failed, "error", err)
		rc.Failure = &StageError{Stage: stage.Name, Err: err}
		if terr := m.transition(Failed); terr != nil {
			return nil, terr
		}
	}

	if rc.Failure == nil {
		if err := m.transition(Done); err != nil {
			return nil, err
		}
	}

	res.Final = m.current
	res.Warnings = rc.Warnings
	log.Info("pipeline finished", "state", res.Final, "attempted", len(res.Attempted), "warnings", len(res.Warnings))
	if rc.Failure != nil {
		res.Err = rc.Failure
		return res, rc.Failure
	}
	return res, nil
}

func (p *Pipeline) record(rc *RunContext, res *Result, o Outcome) {
	rc.Outcomes = append(rc.Outcomes, o)
	res.Outcomes = append(res.Outcomes, o)
}
