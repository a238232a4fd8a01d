package automaton

import (
	"errors"
	"reflect"
	"testing"
)

// scenario builds q0 (start) --a--> q1 (accepting).
func scenario(t *testing.T) (*Automaton, State, State) {
	t.Helper()
	a := newTest()
	q0, q1 := a.AddState(), a.AddState()
	if err := a.SetStartState(q0.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := a.ToggleAccepting(q1.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := a.ConfirmTransition(q0.ID, q1.ID, "a"); err != nil {
		t.Fatal(err)
	}
	return a, q0, q1
}

func TestTestRunScenario(t *testing.T) {
	a, q0, q1 := scenario(t)

	tests := []struct {
		input    string
		accepted bool
		reason   Reason
		path     []string
		states   []StateID
	}{
		{"a", true, ReasonAccepted, []string{"q0", "q1"}, []StateID{q0.ID, q1.ID}},
		{"b", false, ReasonNoTransition, []string{"q0"}, []StateID{q0.ID}},
		{"", false, ReasonEndedNonAccepting, []string{"q0"}, []StateID{q0.ID}},
		{"aa", false, ReasonNoTransition, []string{"q0", "q1"}, []StateID{q0.ID, q1.ID}},
	}

	for _, tt := range tests {
		t.Run("input="+tt.input, func(t *testing.T) {
			res := a.TestRun(tt.input)
			if res.Accepted != tt.accepted {
				t.Errorf("accepted: got %v, want %v", res.Accepted, tt.accepted)
			}
			if res.Reason != tt.reason {
				t.Errorf("reason: got %s, want %s", res.Reason, tt.reason)
			}
			if !reflect.DeepEqual(res.Path, tt.path) {
				t.Errorf("path: got %v, want %v", res.Path, tt.path)
			}
			if !reflect.DeepEqual(res.States, tt.states) {
				t.Errorf("states: got %v, want %v", res.States, tt.states)
			}
		})
	}
}

func TestTestRunEmptyInputFollowsStartMembership(t *testing.T) {
	a, q0, _ := scenario(t)
	_, _ = a.ToggleAccepting(q0.ID)

	res := a.TestRun("")
	if !res.Accepted || res.Reason != ReasonAccepted {
		t.Errorf("got %+v, want accepted", res)
	}
	if !reflect.DeepEqual(res.Path, []string{"q0"}) {
		t.Errorf("path: got %v", res.Path)
	}
}

func TestTestRunStopsAtFirstMissingTransition(t *testing.T) {
	a, q0, q1 := scenario(t)
	// q1 loops on a, so "aba" would be accepted if the walk skipped the b.
	_, _ = a.ConfirmTransition(q1.ID, q1.ID, "a")

	res := a.TestRun("aba")
	if res.Accepted || res.Reason != ReasonNoTransition {
		t.Fatalf("got %+v", res)
	}
	if res.Symbol != "b" || res.Consumed != 1 {
		t.Errorf("stopped at %q after %d symbols, want b after 1", res.Symbol, res.Consumed)
	}
	if !reflect.DeepEqual(res.States, []StateID{q0.ID, q1.ID}) {
		t.Errorf("states: got %v", res.States)
	}
	want := "Rejected: No transition found from state q1 with symbol b"
	if res.Message() != want {
		t.Errorf("message: got %q, want %q", res.Message(), want)
	}
}

func TestTestRunInvalidConfiguration(t *testing.T) {
	a := newTest()
	res := a.TestRun("a")
	if res.Reason != ReasonInvalid || res.Accepted || len(res.Path) != 0 {
		t.Errorf("empty automaton: got %+v", res)
	}
	if res.Valid() {
		t.Error("invalid result reports valid")
	}

	a.AddState()
	if res := a.TestRun(""); res.Reason != ReasonInvalid {
		t.Errorf("no start: got %s", res.Reason)
	}
}

func TestTestRunNFAIsUnsupported(t *testing.T) {
	a, _, _ := scenario(t)
	_ = a.SetType(TypeNFA)
	res := a.TestRun("a")
	if res.Reason != ReasonUnsupported || len(res.Path) != 0 {
		t.Errorf("got %+v", res)
	}
}

func TestTestRunFirstMatchWins(t *testing.T) {
	// Two edges on the same symbol can only exist by restoring a snapshot;
	// the earlier record must be followed.
	snap := Snapshot{
		Start: "a",
		States: []State{
			{ID: "a", Label: "q0"},
			{ID: "b", Label: "q1"},
			{ID: "c", Label: "q2"},
		},
		Transitions: []Transition{
			{Source: "a", Target: "c", Symbols: []string{"x"}},
			{Source: "a", Target: "b", Symbols: []string{"x"}},
		},
		Accepting: []StateID{"c"},
	}
	a := newTest()
	if err := a.Restore(snap); err != nil {
		t.Fatal(err)
	}
	res := a.TestRun("x")
	if !res.Accepted || !reflect.DeepEqual(res.Path, []string{"q0", "q2"}) {
		t.Errorf("got %+v", res)
	}
}

func TestTestRunUnicodeInput(t *testing.T) {
	a := newTest()
	q0 := a.AddState()
	_ = a.SetStartState(q0.ID)
	_, _ = a.ToggleAccepting(q0.ID)
	_, _ = a.ConfirmTransition(q0.ID, q0.ID, "é")

	res := a.TestRun("éé")
	if !res.Accepted || len(res.Path) != 3 {
		t.Errorf("got %+v", res)
	}
}

func TestResultMessages(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Result{Reason: ReasonAccepted}, "Accepted"},
		{Result{Reason: ReasonEndedNonAccepting}, "Rejected: Ended in non-accepting state"},
		{Result{Reason: ReasonInvalid}, "Error: start state not set"},
		{Result{Reason: ReasonUnsupported}, "Error: only DFA simulation is supported"},
	}
	for _, tt := range tests {
		if got := tt.res.Message(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.res.Reason, got, tt.want)
		}
	}
	r := Result{Path: []string{"q0", "q1"}}
	if r.PathString() != "q0 → q1" {
		t.Errorf("path string: %q", r.PathString())
	}
}

func TestRunner(t *testing.T) {
	a, q0, q1 := scenario(t)
	_, _ = a.ConfirmTransition(q0.ID, q0.ID, "b")

	if _, err := NewRunner(newTest()); !errors.Is(err, ErrNoStartState) {
		t.Errorf("got %v", err)
	}

	r, err := NewRunner(a)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.AvailableInputs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("inputs: got %v", got)
	}
	if r.Status() != "State: q0" {
		t.Errorf("status: %q", r.Status())
	}

	n, err := r.RunString("bba")
	if err != nil || n != 3 {
		t.Fatalf("RunString: %d %v", n, err)
	}
	if r.Current().ID != q1.ID || !r.IsAccepting() {
		t.Errorf("current: %+v", r.Current())
	}
	if r.Status() != "State: q1 [accepting]" {
		t.Errorf("status: %q", r.Status())
	}
	if len(r.History()) != 3 || r.History()[2].Input != "a" {
		t.Errorf("history: %+v", r.History())
	}

	err = r.Step("z")
	if !errors.Is(err, ErrNoTransition) {
		t.Errorf("got %v", err)
	}
	if r.Current().ID != q1.ID {
		t.Error("failed step moved the runner")
	}

	r.Reset()
	if r.Current().ID != q0.ID || len(r.History()) != 0 || len(r.Path()) != 1 {
		t.Error("reset did not return to start")
	}
}
