// Package automaton provides the finite automaton model edited on the canvas,
// the edit operations that mutate it and the deterministic simulator.
package automaton

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the kind of machine being drawn.
type Type string

const (
	TypeUnset Type = ""
	TypeDFA   Type = "DFA"
	TypeNFA   Type = "NFA"
)

// Epsilon is the reserved empty-string symbol. Only NFAs may use it.
const Epsilon = "ε"

// Valid reports whether t is one of the known machine types.
func (t Type) Valid() bool {
	switch t {
	case TypeUnset, TypeDFA, TypeNFA:
		return true
	}
	return false
}

// ParseType converts user input such as "dfa" into a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return TypeUnset, nil
	case "DFA":
		return TypeDFA, nil
	case "NFA":
		return TypeNFA, nil
	}
	return TypeUnset, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// StateID identifies a state. It never changes once assigned.
type StateID string

// Position is a canvas coordinate. The renderer owns it; the model only
// mirrors it for persistence.
type Position struct {
	X, Y float64
}

// State is a node of the automaton.
type State struct {
	ID    StateID
	Label string
	Pos   Position
}

// Transition is the edge between an ordered pair of states. All symbols
// between the same pair live on one record.
type Transition struct {
	Source  StateID
	Target  StateID
	Symbols []string
}

// Label returns the comma-joined symbol list shown on the edge.
func (t Transition) Label() string {
	return strings.Join(t.Symbols, ", ")
}

// Has reports whether symbol labels this transition.
func (t Transition) Has(symbol string) bool {
	for _, s := range t.Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// SelfLoop reports whether the transition starts and ends on the same state.
func (t Transition) SelfLoop() bool {
	return t.Source == t.Target
}

func (t Transition) clone() Transition {
	syms := make([]string, len(t.Symbols))
	copy(syms, t.Symbols)
	t.Symbols = syms
	return t
}

type pairKey struct {
	source, target StateID
}

// Automaton is the canonical model behind the canvas. Read it through the
// accessors; mutate it only through the edit operations in edit.go.
//
// An Automaton is not safe for concurrent use.
type Automaton struct {
	typ         Type
	states      []State
	index       map[StateID]int
	transitions []Transition
	pairs       map[pairKey]int
	accepting   map[StateID]bool
	start       StateID
	counter     int

	draft     *TransitionDraft
	ids       IDSource
	observers []func(Event)
}

// Option configures a new Automaton.
type Option func(*Automaton)

// WithIDSource replaces the default identifier generator.
func WithIDSource(src IDSource) Option {
	return func(a *Automaton) {
		if src != nil {
			a.ids = src
		}
	}
}

// New creates an empty automaton with an unset machine type.
func New(opts ...Option) *Automaton {
	a := &Automaton{}
	a.reset()
	for _, opt := range opts {
		opt(a)
	}
	if a.ids == nil {
		a.ids = NewIDSource()
	}
	return a
}

func (a *Automaton) reset() {
	a.typ = TypeUnset
	a.states = make([]State, 0)
	a.index = make(map[StateID]int)
	a.transitions = make([]Transition, 0)
	a.pairs = make(map[pairKey]int)
	a.accepting = make(map[StateID]bool)
	a.start = ""
	a.counter = 0
	a.draft = nil
}

// Type returns the machine type.
func (a *Automaton) Type() Type {
	return a.typ
}

// Counter returns the number of labels handed out since the last clear.
func (a *Automaton) Counter() int {
	return a.counter
}

// NextLabel returns the label the next added state will receive.
func (a *Automaton) NextLabel() string {
	return fmt.Sprintf("q%d", a.counter)
}

// States returns the states in creation order.
func (a *Automaton) States() []State {
	out := make([]State, len(a.states))
	copy(out, a.states)
	return out
}

// Len returns the number of states.
func (a *Automaton) Len() int {
	return len(a.states)
}

// State looks up a state by identifier.
func (a *Automaton) State(id StateID) (State, bool) {
	i, ok := a.index[id]
	if !ok {
		return State{}, false
	}
	return a.states[i], true
}

// HasState reports whether id names a state of the automaton.
func (a *Automaton) HasState(id StateID) bool {
	_, ok := a.index[id]
	return ok
}

// StateByLabel finds a state by its display label. Labels are for people;
// the model itself always joins on identifiers.
func (a *Automaton) StateByLabel(label string) (State, bool) {
	for _, s := range a.states {
		if s.Label == label {
			return s, true
		}
	}
	return State{}, false
}

// Transitions returns the transition records in creation order.
func (a *Automaton) Transitions() []Transition {
	out := make([]Transition, len(a.transitions))
	for i, t := range a.transitions {
		out[i] = t.clone()
	}
	return out
}

// TransitionBetween returns the record for the ordered pair (source, target).
func (a *Automaton) TransitionBetween(source, target StateID) (Transition, bool) {
	i, ok := a.pairs[pairKey{source, target}]
	if !ok {
		return Transition{}, false
	}
	return a.transitions[i].clone(), true
}

// TransitionOn returns the first transition, in creation order, leaving
// source on symbol.
func (a *Automaton) TransitionOn(source StateID, symbol string) (Transition, bool) {
	for _, t := range a.transitions {
		if t.Source == source && t.Has(symbol) {
			return t.clone(), true
		}
	}
	return Transition{}, false
}

// Start returns the start state identifier, or "" when unset.
func (a *Automaton) Start() StateID {
	return a.start
}

// StartState returns the start state when it is set and exists.
func (a *Automaton) StartState() (State, bool) {
	if a.start == "" {
		return State{}, false
	}
	return a.State(a.start)
}

// IsAccepting reports whether id is in the accepting set.
func (a *Automaton) IsAccepting(id StateID) bool {
	return a.accepting[id]
}

// Accepting returns the accepting states in creation order.
func (a *Automaton) Accepting() []StateID {
	var out []StateID
	for _, s := range a.states {
		if a.accepting[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}

// Alphabet returns the sorted set of symbols used on any transition.
func (a *Automaton) Alphabet() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range a.transitions {
		for _, s := range t.Symbols {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Label returns the display label of id, or the raw id when it is unknown.
func (a *Automaton) Label(id StateID) string {
	if s, ok := a.State(id); ok {
		return s.Label
	}
	return string(id)
}

// Copy returns a deep copy sharing no mutable data and no subscribers.
func (a *Automaton) Copy() *Automaton {
	c := New(WithIDSource(a.ids))
	// A snapshot of a live automaton is always valid.
	_ = c.restore(a.Snapshot())
	return c
}

// String returns a short multi-line summary.
func (a *Automaton) String() string {
	var sb strings.Builder
	typ := string(a.typ)
	if typ == "" {
		typ = "unset"
	}
	labels := make([]string, len(a.states))
	for i, s := range a.states {
		labels[i] = s.Label
	}
	acc := make([]string, 0, len(a.accepting))
	for _, id := range a.Accepting() {
		acc = append(acc, a.Label(id))
	}
	start := "-"
	if s, ok := a.StartState(); ok {
		start = s.Label
	}
	sb.WriteString(fmt.Sprintf("Automaton[%s]\n", typ))
	sb.WriteString(fmt.Sprintf("  States: %v\n", labels))
	sb.WriteString(fmt.Sprintf("  Alphabet: %v\n", a.Alphabet()))
	sb.WriteString(fmt.Sprintf("  Start: %s\n", start))
	sb.WriteString(fmt.Sprintf("  Accepting: %v\n", acc))
	sb.WriteString(fmt.Sprintf("  Transitions: %d\n", len(a.transitions)))
	return sb.String()
}
