package automaton

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Reason explains the outcome of a test run.
type Reason string

const (
	ReasonAccepted          Reason = "accepted"
	ReasonNoTransition      Reason = "no-transition"
	ReasonEndedNonAccepting Reason = "ended-non-accepting"
	ReasonInvalid           Reason = "invalid"
	ReasonUnsupported       Reason = "unsupported"
)

// Result is the outcome of running a string through the automaton.
type Result struct {
	Accepted bool
	Reason   Reason

	// Path holds the labels of the visited states, start first. States
	// holds the matching identifiers. Both are empty only for invalid and
	// unsupported runs.
	Path   []string
	States []StateID

	// Symbol is the character that had no transition (ReasonNoTransition).
	Symbol string

	// Consumed counts the input characters that were followed.
	Consumed int
}

// Valid reports whether the run actually walked the automaton.
func (r Result) Valid() bool {
	return r.Reason != ReasonInvalid && r.Reason != ReasonUnsupported && r.Reason != ""
}

// PathString renders the path as "q0 → q1 → q2".
func (r Result) PathString() string {
	return strings.Join(r.Path, " → ")
}

// Message returns the human readable outcome.
func (r Result) Message() string {
	switch r.Reason {
	case ReasonAccepted:
		return "Accepted"
	case ReasonNoTransition:
		from := ""
		if len(r.Path) > 0 {
			from = r.Path[len(r.Path)-1]
		}
		return fmt.Sprintf("Rejected: No transition found from state %s with symbol %s", from, r.Symbol)
	case ReasonEndedNonAccepting:
		return "Rejected: Ended in non-accepting state"
	case ReasonUnsupported:
		return "Error: only DFA simulation is supported"
	default:
		return "Error: start state not set"
	}
}

// TestRun walks input through the automaton one character at a time,
// starting at the start state. It stops at the first character with no
// outgoing transition. When several transitions match, the first in
// creation order wins.
func (a *Automaton) TestRun(input string) Result {
	r, err := NewRunner(a)
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			return Result{Reason: ReasonUnsupported}
		}
		return Result{Reason: ReasonInvalid}
	}

	for _, c := range input {
		sym := string(c)
		if err := r.Step(sym); err != nil {
			return r.result(false, ReasonNoTransition, sym)
		}
	}
	if r.IsAccepting() {
		return r.result(true, ReasonAccepted, "")
	}
	return r.result(false, ReasonEndedNonAccepting, "")
}

// Runner executes the automaton step by step.
type Runner struct {
	a       *Automaton
	current StateID
	path    []StateID
	history []Step
}

// Step records one followed transition.
type Step struct {
	From  StateID
	To    StateID
	Input string
}

// NewRunner creates a runner positioned at the start state.
func NewRunner(a *Automaton) (*Runner, error) {
	if a.typ == TypeNFA {
		return nil, ErrUnsupportedType
	}
	if _, ok := a.StartState(); !ok {
		return nil, ErrNoStartState
	}
	r := &Runner{a: a}
	r.Reset()
	return r, nil
}

// Reset returns the runner to the start state and forgets the history.
func (r *Runner) Reset() {
	r.current = r.a.start
	r.path = []StateID{r.current}
	r.history = make([]Step, 0)
}

// Current returns the state the runner is in.
func (r *Runner) Current() State {
	s, _ := r.a.State(r.current)
	return s
}

// IsAccepting reports whether the current state is accepting.
func (r *Runner) IsAccepting() bool {
	return r.a.IsAccepting(r.current)
}

// AvailableInputs returns the symbols that leave the current state.
func (r *Runner) AvailableInputs() []string {
	seen := make(map[string]bool)
	var inputs []string
	for _, t := range r.a.transitions {
		if t.Source != r.current {
			continue
		}
		for _, s := range t.Symbols {
			if !seen[s] {
				seen[s] = true
				inputs = append(inputs, s)
			}
		}
	}
	sort.Strings(inputs)
	return inputs
}

// Step follows the transition for symbol. It returns ErrNoTransition, and
// stays put, when the current state has none.
func (r *Runner) Step(symbol string) error {
	t, ok := r.a.TransitionOn(r.current, symbol)
	if !ok {
		return fmt.Errorf("%w from state %s on input %q", ErrNoTransition, r.a.Label(r.current), symbol)
	}
	r.history = append(r.history, Step{From: r.current, To: t.Target, Input: symbol})
	r.current = t.Target
	r.path = append(r.path, r.current)
	return nil
}

// RunString steps through every character of input and returns how many
// were consumed before an error.
func (r *Runner) RunString(input string) (int, error) {
	n := 0
	for _, c := range input {
		if err := r.Step(string(c)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// History returns the followed transitions.
func (r *Runner) History() []Step {
	return r.history
}

// Path returns the visited states, start first.
func (r *Runner) Path() []StateID {
	out := make([]StateID, len(r.path))
	copy(out, r.path)
	return out
}

// Status returns a one-line description of the current state.
func (r *Runner) Status() string {
	status := fmt.Sprintf("State: %s", r.Current().Label)
	if r.IsAccepting() {
		status += " [accepting]"
	}
	return status
}

func (r *Runner) result(accepted bool, reason Reason, symbol string) Result {
	ids := r.Path()
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = r.a.Label(id)
	}
	return Result{
		Accepted: accepted,
		Reason:   reason,
		Path:     labels,
		States:   ids,
		Symbol:   symbol,
		Consumed: len(r.history),
	}
}
