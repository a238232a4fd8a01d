package automaton

import (
	"fmt"
	"strconv"
	"strings"
)

// Snapshot is a plain copy of the whole model, used for persistence and
// copying.
type Snapshot struct {
	Type        Type
	Start       StateID
	States      []State
	Transitions []Transition
	Accepting   []StateID
	Counter     int
}

// Snapshot captures the current model.
func (a *Automaton) Snapshot() Snapshot {
	return Snapshot{
		Type:        a.typ,
		Start:       a.start,
		States:      a.States(),
		Transitions: a.Transitions(),
		Accepting:   a.Accepting(),
		Counter:     a.counter,
	}
}

// Restore replaces the model with s. The snapshot is checked first; an
// invalid snapshot leaves the model untouched. The label counter is moved
// past every restored qN label so new states never reuse one.
func (a *Automaton) Restore(s Snapshot) error {
	if err := a.restore(s); err != nil {
		return err
	}
	a.emit(Event{Kind: EventRestored})
	return nil
}

func (a *Automaton) restore(s Snapshot) error {
	if err := s.check(); err != nil {
		return err
	}
	a.reset()
	a.typ = s.Type
	for _, st := range s.States {
		a.index[st.ID] = len(a.states)
		a.states = append(a.states, st)
	}
	for _, t := range s.Transitions {
		a.pairs[pairKey{t.Source, t.Target}] = len(a.transitions)
		a.transitions = append(a.transitions, t.clone())
	}
	for _, id := range s.Accepting {
		a.accepting[id] = true
	}
	a.start = s.Start
	a.counter = s.Counter
	for _, st := range s.States {
		if n, ok := labelIndex(st.Label); ok && n+1 > a.counter {
			a.counter = n + 1
		}
	}
	return nil
}

func (s Snapshot) check() error {
	if !s.Type.Valid() {
		return fmt.Errorf("%w: machine type %q", ErrInvalidSnapshot, s.Type)
	}
	ids := make(map[StateID]bool, len(s.States))
	labels := make(map[string]bool, len(s.States))
	for _, st := range s.States {
		if st.ID == "" {
			return fmt.Errorf("%w: state %q has no id", ErrInvalidSnapshot, st.Label)
		}
		if ids[st.ID] {
			return fmt.Errorf("%w: duplicate state id %q", ErrInvalidSnapshot, st.ID)
		}
		if labels[st.Label] {
			return fmt.Errorf("%w: duplicate state label %q", ErrInvalidSnapshot, st.Label)
		}
		ids[st.ID] = true
		labels[st.Label] = true
	}
	if s.Start != "" && !ids[s.Start] {
		return fmt.Errorf("%w: start state %q not in states", ErrInvalidSnapshot, s.Start)
	}
	for _, id := range s.Accepting {
		if !ids[id] {
			return fmt.Errorf("%w: accepting state %q not in states", ErrInvalidSnapshot, id)
		}
	}
	pairs := make(map[pairKey]bool, len(s.Transitions))
	for i, t := range s.Transitions {
		if !ids[t.Source] || !ids[t.Target] {
			return fmt.Errorf("%w: transition %d references unknown state", ErrInvalidSnapshot, i)
		}
		key := pairKey{t.Source, t.Target}
		if pairs[key] {
			return fmt.Errorf("%w: transition %d duplicates an existing pair", ErrInvalidSnapshot, i)
		}
		pairs[key] = true
		if len(t.Symbols) == 0 {
			return fmt.Errorf("%w: transition %d has no symbols", ErrInvalidSnapshot, i)
		}
	}
	if s.Counter < 0 {
		return fmt.Errorf("%w: negative counter", ErrInvalidSnapshot)
	}
	return nil
}

// labelIndex extracts N from a "qN" label.
func labelIndex(label string) (int, bool) {
	if !strings.HasPrefix(label, "q") {
		return 0, false
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
