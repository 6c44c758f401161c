package pipeline

import "fmt"

// State is a pipeline state. Stage states share their stage's name.
type State string

const (
	Idle        State = "Idle"
	Normalizing State = "Normalizing"
	Installing  State = "Installing"
	LintFixing  State = "LintFixing"
	Formatting  State = "Formatting"
	Reporting   State = "Reporting"
	Done        State = "Done"
	Failed      State = "Failed"
)

// IsTerminal reports whether no further transition is possible.
func IsTerminal(s State) bool {
	return s == Done || s == Failed
}

// machine tracks the current state and rejects transitions that go
// backwards or leave a terminal state.
type machine struct {
	order   map[State]int
	current State
}

func newMachine(stages []Stage) *machine {
	order := map[State]int{Idle: 0}
	for i, s := range stages {
		order[s.Name] = i + 1
	}
	order[Done] = len(stages) + 1
	return &machine{order: order, current: Idle}
}

func (m *machine) transition(to State) error {
	from := m.current
	if IsTerminal(from) {
		return fmt.Errorf("invalid transition %s -> %s: %s is terminal", from, to, from)
	}
	if to != Failed {
		fi, tok := m.order[to]
		if !tok || fi <= m.order[from] {
			return fmt.Errorf("invalid transition %s -> %s", from, to)
		}
	}
	m.current = to
	return nil
}
