// Package machinefile reads and writes automata as flat JSON documents and
// renders them as Graphviz DOT.
package machinefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
)

// DefaultFileName is the name used when saving without an explicit path.
const DefaultFileName = "dfa_nfa_machine.json"

// ErrInvalidDocument is returned for documents that cannot describe an
// automaton.
var ErrInvalidDocument = errors.New("machinefile: invalid document")

// Document is the export format. StartState is null when no start state is
// set.
type Document struct {
	MachineType string            `json:"machineType"`
	StartState  *string           `json:"startState"`
	States      []StateEntry      `json:"states"`
	Transitions []TransitionEntry `json:"transitions"`
}

// StateEntry is one state with its canvas position.
type StateEntry struct {
	Label       string  `json:"label"`
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	IsAccepting bool    `json:"isAccepting"`
}

// TransitionEntry is one symbol on one edge. Source and Target repeat the
// state labels for readability; the ids are authoritative.
type TransitionEntry struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Label    string `json:"label"`
	Source   string `json:"source"`
	Target   string `json:"target"`
}

// Export builds the document for a. Each symbol of each transition record
// becomes its own entry, in creation order.
func Export(a *automaton.Automaton) *Document {
	d := &Document{
		MachineType: string(a.Type()),
		States:      make([]StateEntry, 0, a.Len()),
		Transitions: make([]TransitionEntry, 0),
	}
	if start := a.Start(); start != "" {
		id := string(start)
		d.StartState = &id
	}
	for _, s := range a.States() {
		d.States = append(d.States, StateEntry{
			Label:       s.Label,
			ID:          string(s.ID),
			X:           s.Pos.X,
			Y:           s.Pos.Y,
			IsAccepting: a.IsAccepting(s.ID),
		})
	}
	for _, t := range a.Transitions() {
		for _, sym := range t.Symbols {
			d.Transitions = append(d.Transitions, TransitionEntry{
				SourceID: string(t.Source),
				TargetID: string(t.Target),
				Label:    sym,
				Source:   a.Label(t.Source),
				Target:   a.Label(t.Target),
			})
		}
	}
	return d
}

// Marshal encodes a as JSON.
func Marshal(a *automaton.Automaton, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(Export(a), "", "  ")
	}
	return json.Marshal(Export(a))
}

// Parse decodes a document. It does not validate it; see Validate.
func Parse(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("machinefile: %w", err)
	}
	return &d, nil
}

// Validate checks that every reference in d resolves and that every
// transition label is a single character.
func Validate(d *Document) error {
	if _, err := automaton.ParseType(d.MachineType); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	ids := make(map[string]bool, len(d.States))
	for i, s := range d.States {
		if s.ID == "" {
			return fmt.Errorf("%w: state %d has no id", ErrInvalidDocument, i)
		}
		if ids[s.ID] {
			return fmt.Errorf("%w: duplicate state id %q", ErrInvalidDocument, s.ID)
		}
		ids[s.ID] = true
	}
	if d.StartState != nil && !ids[*d.StartState] {
		return fmt.Errorf("%w: start state %q not found", ErrInvalidDocument, *d.StartState)
	}
	for i, t := range d.Transitions {
		if !ids[t.SourceID] {
			return fmt.Errorf("%w: transition %d: unknown source %q", ErrInvalidDocument, i, t.SourceID)
		}
		if !ids[t.TargetID] {
			return fmt.Errorf("%w: transition %d: unknown target %q", ErrInvalidDocument, i, t.TargetID)
		}
		if utf8.RuneCountInString(t.Label) != 1 {
			return fmt.Errorf("%w: transition %d: label %q is not one character", ErrInvalidDocument, i, t.Label)
		}
	}
	return nil
}

// Snapshot converts d into an automaton snapshot, merging entries that share
// a (source, target) pair into one record in first-seen order.
func (d *Document) Snapshot() (automaton.Snapshot, error) {
	if err := Validate(d); err != nil {
		return automaton.Snapshot{}, err
	}
	typ, _ := automaton.ParseType(d.MachineType)
	snap := automaton.Snapshot{Type: typ}
	if d.StartState != nil {
		snap.Start = automaton.StateID(*d.StartState)
	}
	for _, s := range d.States {
		id := automaton.StateID(s.ID)
		snap.States = append(snap.States, automaton.State{
			ID:    id,
			Label: s.Label,
			Pos:   automaton.Position{X: s.X, Y: s.Y},
		})
		if s.IsAccepting {
			snap.Accepting = append(snap.Accepting, id)
		}
	}
	index := make(map[[2]string]int)
	for _, t := range d.Transitions {
		key := [2]string{t.SourceID, t.TargetID}
		if i, ok := index[key]; ok {
			snap.Transitions[i].Symbols = append(snap.Transitions[i].Symbols, t.Label)
			continue
		}
		index[key] = len(snap.Transitions)
		snap.Transitions = append(snap.Transitions, automaton.Transition{
			Source:  automaton.StateID(t.SourceID),
			Target:  automaton.StateID(t.TargetID),
			Symbols: []string{t.Label},
		})
	}
	return snap, nil
}

// Load replaces the contents of a with d. On error a is unchanged.
func Load(a *automaton.Automaton, d *Document) error {
	snap, err := d.Snapshot()
	if err != nil {
		return err
	}
	if err := a.Restore(snap); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// ReadFile reads and parses the document at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// WriteFile saves a to path as indented JSON.
func WriteFile(path string, a *automaton.Automaton) error {
	data, err := Marshal(a, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
