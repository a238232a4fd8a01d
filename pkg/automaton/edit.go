package automaton

import (
	"fmt"
	"unicode/utf8"
)

// Default placement for states added without a position.
const (
	gridColumns = 5
	gridSpacing = 140.0
	gridOriginX = 120.0
	gridOriginY = 100.0
)

// DefaultPosition returns the grid slot used for the n-th state.
func DefaultPosition(n int) Position {
	return Position{
		X: gridOriginX + float64(n%gridColumns)*gridSpacing,
		Y: gridOriginY + float64(n/gridColumns)*gridSpacing,
	}
}

// AddState creates a state with the next sequential label at the default
// grid position.
func (a *Automaton) AddState() State {
	return a.AddStateAt(DefaultPosition(a.counter))
}

// AddStateAt creates a state with the next sequential label at pos.
func (a *Automaton) AddStateAt(pos Position) State {
	s := State{
		ID:    a.ids(),
		Label: a.NextLabel(),
		Pos:   pos,
	}
	a.index[s.ID] = len(a.states)
	a.states = append(a.states, s)
	a.counter++
	a.emit(Event{Kind: EventStateAdded, State: s})
	return s
}

// MoveState records a new position for id. Positions have no effect on the
// logical automaton; this only keeps the export in step with the canvas.
func (a *Automaton) MoveState(id StateID, pos Position) error {
	i, ok := a.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, id)
	}
	a.states[i].Pos = pos
	return nil
}

// SetType changes the machine type.
func (a *Automaton) SetType(t Type) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	if t == a.typ {
		return nil
	}
	a.typ = t
	a.emit(Event{Kind: EventTypeChanged, Type: t})
	return nil
}

// SetStartState makes id the start state, replacing any previous one.
// Setting the current start state again is a no-op.
func (a *Automaton) SetStartState(id StateID) error {
	if !a.HasState(id) {
		return fmt.Errorf("%w: %q", ErrUnknownState, id)
	}
	if id == a.start {
		return nil
	}
	prev := a.start
	a.start = id
	a.emit(Event{Kind: EventStartChanged, Previous: prev, Start: id})
	return nil
}

// ToggleAccepting flips id's membership in the accepting set and returns
// the new membership.
func (a *Automaton) ToggleAccepting(id StateID) (bool, error) {
	s, ok := a.State(id)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownState, id)
	}
	if a.accepting[id] {
		delete(a.accepting, id)
	} else {
		a.accepting[id] = true
	}
	now := a.accepting[id]
	a.emit(Event{Kind: EventAcceptingToggled, State: s, Accepting: now})
	return now, nil
}

// TransitionDraft collects the parts of a transition across separate user
// interactions. Fill in the fields, then Confirm.
type TransitionDraft struct {
	Source StateID
	Target StateID
	Symbol string

	a *Automaton
}

// Ready reports whether every part has been chosen.
func (d *TransitionDraft) Ready() bool {
	return d.Source != "" && d.Target != "" && d.Symbol != ""
}

// Confirm records the drafted transition.
func (d *TransitionDraft) Confirm() (Transition, error) {
	return d.a.ConfirmTransition(d.Source, d.Target, d.Symbol)
}

// BeginTransition starts a new draft, discarding any pending one.
func (a *Automaton) BeginTransition() *TransitionDraft {
	a.draft = &TransitionDraft{a: a}
	return a.draft
}

// Draft returns the pending draft, or nil.
func (a *Automaton) Draft() *TransitionDraft {
	return a.draft
}

// Drafting reports whether a transition draft is pending.
func (a *Automaton) Drafting() bool {
	return a.draft != nil
}

// CancelTransition drops the pending draft.
func (a *Automaton) CancelTransition() {
	a.draft = nil
}

// ConfirmTransition adds symbol to the edge from source to target, creating
// the edge when the pair has none yet. On success the pending draft, if any,
// ends. On failure nothing changes.
func (a *Automaton) ConfirmTransition(source, target StateID, symbol string) (Transition, error) {
	if err := a.checkTransition(source, target, symbol); err != nil {
		return Transition{}, err
	}
	a.draft = nil

	key := pairKey{source, target}
	if i, ok := a.pairs[key]; ok {
		a.transitions[i].Symbols = append(a.transitions[i].Symbols, symbol)
		t := a.transitions[i].clone()
		a.emit(Event{Kind: EventSymbolAppended, Transition: t, Symbol: symbol})
		return t, nil
	}

	t := Transition{Source: source, Target: target, Symbols: []string{symbol}}
	a.pairs[key] = len(a.transitions)
	a.transitions = append(a.transitions, t)
	t = t.clone()
	a.emit(Event{Kind: EventTransitionAdded, Transition: t, Symbol: symbol})
	return t, nil
}

func (a *Automaton) checkTransition(source, target StateID, symbol string) error {
	if !a.HasState(source) {
		return fmt.Errorf("%w: source %q", ErrUnknownState, source)
	}
	if !a.HasState(target) {
		return fmt.Errorf("%w: target %q", ErrUnknownState, target)
	}
	if symbol == "" {
		return ErrEmptySymbol
	}
	if utf8.RuneCountInString(symbol) != 1 {
		return fmt.Errorf("%w: %q", ErrSymbolLength, symbol)
	}
	if a.typ == TypeDFA && symbol == Epsilon {
		return ErrEpsilonInDFA
	}
	if a.typ == TypeNFA {
		return nil
	}
	for _, t := range a.transitions {
		if t.Source == source && t.Target != target && t.Has(symbol) {
			return fmt.Errorf("%w: %s on %q already goes to %s",
				ErrNondeterministic, a.Label(source), symbol, a.Label(t.Target))
		}
	}
	return nil
}

// Clear empties the automaton and returns it to its initial state: no
// states, no transitions, no start, no accepting states, counter zero and
// machine type unset.
func (a *Automaton) Clear() {
	a.reset()
	a.emit(Event{Kind: EventCleared})
}
