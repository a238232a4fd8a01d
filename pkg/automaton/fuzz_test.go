package automaton

import (
	"testing"
	"unicode/utf8"
)

// FuzzTestRun checks the invariants of the walk on arbitrary input against
// a small fixed automaton over {a, b}.
func FuzzTestRun(f *testing.F) {
	for _, seed := range []string{"", "a", "b", "ab", "ba", "abba", "c", "aaaaab", "é"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip()
		}
		a := New(WithIDSource(SequentialIDs("s")))
		q0, q1, q2 := a.AddState(), a.AddState(), a.AddState()
		_ = a.SetStartState(q0.ID)
		_, _ = a.ToggleAccepting(q2.ID)
		_, _ = a.ConfirmTransition(q0.ID, q1.ID, "a")
		_, _ = a.ConfirmTransition(q1.ID, q2.ID, "b")
		_, _ = a.ConfirmTransition(q2.ID, q0.ID, "a")
		_, _ = a.ConfirmTransition(q1.ID, q1.ID, "a")

		res := a.TestRun(input)
		if len(res.Path) == 0 || res.Path[0] != "q0" {
			t.Fatalf("path must start at q0: %v", res.Path)
		}
		if len(res.Path) != len(res.States) {
			t.Fatalf("path and states differ in length: %v %v", res.Path, res.States)
		}
		if len(res.Path) != res.Consumed+1 {
			t.Fatalf("path length %d, consumed %d", len(res.Path), res.Consumed)
		}
		runes := utf8.RuneCountInString(input)
		switch res.Reason {
		case ReasonNoTransition:
			if res.Accepted || res.Consumed >= runes {
				t.Fatalf("bad rejection: %+v", res)
			}
		case ReasonAccepted:
			if res.Consumed != runes || res.States[len(res.States)-1] != q2.ID {
				t.Fatalf("bad acceptance: %+v", res)
			}
		case ReasonEndedNonAccepting:
			if res.Accepted || res.Consumed != runes {
				t.Fatalf("bad end: %+v", res)
			}
		default:
			t.Fatalf("unexpected reason %s", res.Reason)
		}
	})
}
