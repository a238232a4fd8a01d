package automaton

import (
	"errors"
	"reflect"
	"testing"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	a, q0, q1 := scenario(t)
	_ = a.SetType(TypeDFA)
	_, _ = a.ConfirmTransition(q1.ID, q0.ID, "b")

	b := newTest()
	var restored bool
	b.Subscribe(func(ev Event) { restored = ev.Kind == EventRestored })
	if err := b.Restore(a.Snapshot()); err != nil {
		t.Fatal(err)
	}
	if !restored {
		t.Error("no restored event")
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Errorf("snapshots differ:\n%+v\n%+v", a.Snapshot(), b.Snapshot())
	}
	if res := b.TestRun("aba"); !res.Accepted {
		t.Errorf("restored automaton rejects aba: %+v", res)
	}
}

func TestRestoreAdvancesCounterPastLabels(t *testing.T) {
	a := newTest()
	err := a.Restore(Snapshot{
		States: []State{{ID: "x", Label: "q7"}, {ID: "y", Label: "custom"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Counter() != 8 {
		t.Errorf("counter: got %d, want 8", a.Counter())
	}
	if s := a.AddState(); s.Label != "q8" {
		t.Errorf("next label: got %s", s.Label)
	}
}

func TestRestoreRejectsInvalidSnapshot(t *testing.T) {
	states := []State{{ID: "a", Label: "q0"}, {ID: "b", Label: "q1"}}
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"bad type", Snapshot{Type: "PDA"}},
		{"empty id", Snapshot{States: []State{{Label: "q0"}}}},
		{"duplicate id", Snapshot{States: []State{{ID: "a", Label: "q0"}, {ID: "a", Label: "q1"}}}},
		{"duplicate label", Snapshot{States: []State{{ID: "a", Label: "q0"}, {ID: "b", Label: "q0"}}}},
		{"dangling start", Snapshot{States: states, Start: "z"}},
		{"dangling accepting", Snapshot{States: states, Accepting: []StateID{"z"}}},
		{"dangling transition", Snapshot{States: states, Transitions: []Transition{{Source: "a", Target: "z", Symbols: []string{"x"}}}}},
		{"duplicate pair", Snapshot{States: states, Transitions: []Transition{
			{Source: "a", Target: "b", Symbols: []string{"x"}},
			{Source: "a", Target: "b", Symbols: []string{"y"}},
		}}},
		{"no symbols", Snapshot{States: states, Transitions: []Transition{{Source: "a", Target: "b"}}}},
		{"negative counter", Snapshot{Counter: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, q0, _ := scenario(t)
			before := a.Snapshot()
			err := a.Restore(tt.snap)
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("got %v, want ErrInvalidSnapshot", err)
			}
			if !reflect.DeepEqual(before, a.Snapshot()) {
				t.Error("failed restore modified the model")
			}
			if a.Start() != q0.ID {
				t.Error("start lost")
			}
		})
	}
}

func TestCopyIsIndependent(t *testing.T) {
	a, q0, q1 := scenario(t)
	var events int
	a.Subscribe(func(Event) { events++ })

	c := a.Copy()
	_, _ = c.ConfirmTransition(q1.ID, q0.ID, "b")
	c.AddState()

	if events != 0 {
		t.Error("copy shares subscribers")
	}
	if len(a.Transitions()) != 1 || a.Len() != 2 {
		t.Error("editing the copy changed the original")
	}
	if c.Len() != 3 {
		t.Errorf("copy: got %d states", c.Len())
	}
}
