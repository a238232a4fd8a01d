package automaton

import "fmt"

// Warning kinds reported by Analyse.
const (
	WarnNoStart          = "no-start"
	WarnNoAccepting      = "no-accepting"
	WarnUnreachable      = "unreachable"
	WarnIncomplete       = "incomplete"
	WarnNondeterministic = "nondeterministic"
	WarnEpsilon          = "epsilon"
	WarnDuplicateSymbol  = "duplicate-symbol"
)

// Warning is a property of the automaton that does not stop it from being
// simulated but is probably not what the author meant.
type Warning struct {
	Kind    string
	State   StateID
	Symbol  string
	Message string
}

func (w Warning) String() string {
	return w.Kind + ": " + w.Message
}

// Validate checks that the automaton can be simulated as a DFA: it has
// states and a start state, and (for DFA and unset types) no state has two
// outgoing edges on the same symbol. DFAs may not carry epsilon edges.
func (a *Automaton) Validate() error {
	if len(a.states) == 0 {
		return ErrNoStates
	}
	if _, ok := a.StartState(); !ok {
		return ErrNoStartState
	}
	if a.typ == TypeNFA {
		return nil
	}
	for _, t := range a.transitions {
		if a.typ == TypeDFA && t.Has(Epsilon) {
			return fmt.Errorf("%w: %s → %s", ErrEpsilonInDFA, a.Label(t.Source), a.Label(t.Target))
		}
	}
	for _, s := range a.states {
		targets := make(map[string]StateID)
		for _, t := range a.transitions {
			if t.Source != s.ID {
				continue
			}
			for _, sym := range t.Symbols {
				if prev, ok := targets[sym]; ok && prev != t.Target {
					return fmt.Errorf("%w: %s on %q goes to %s and %s", ErrNondeterministic,
						s.Label, sym, a.Label(prev), a.Label(t.Target))
				}
				targets[sym] = t.Target
			}
		}
	}
	return nil
}

// Analyse reports warnings in a stable order.
func (a *Automaton) Analyse() []Warning {
	var out []Warning

	start, hasStart := a.StartState()
	if !hasStart && len(a.states) > 0 {
		out = append(out, Warning{Kind: WarnNoStart, Message: "no start state set"})
	}
	if len(a.states) > 0 && len(a.accepting) == 0 {
		out = append(out, Warning{Kind: WarnNoAccepting, Message: "no accepting states; every input is rejected"})
	}

	if hasStart {
		reach := a.reachable(start.ID)
		for _, s := range a.states {
			if !reach[s.ID] {
				out = append(out, Warning{
					Kind:    WarnUnreachable,
					State:   s.ID,
					Message: fmt.Sprintf("state %s is unreachable from %s", s.Label, start.Label),
				})
			}
		}
	}

	alphabet := a.Alphabet()
	for _, s := range a.states {
		targets := make(map[string]StateID)
		for _, t := range a.transitions {
			if t.Source != s.ID {
				continue
			}
			seen := make(map[string]bool)
			for _, sym := range t.Symbols {
				if seen[sym] {
					out = append(out, Warning{
						Kind: WarnDuplicateSymbol, State: s.ID, Symbol: sym,
						Message: fmt.Sprintf("%s → %s lists %q more than once", s.Label, a.Label(t.Target), sym),
					})
				}
				seen[sym] = true
				if sym == Epsilon {
					if a.typ != TypeNFA {
						out = append(out, Warning{
							Kind: WarnEpsilon, State: s.ID, Symbol: sym,
							Message: fmt.Sprintf("%s has an epsilon transition", s.Label),
						})
					}
					continue
				}
				if prev, ok := targets[sym]; ok && prev != t.Target && a.typ != TypeNFA {
					out = append(out, Warning{
						Kind: WarnNondeterministic, State: s.ID, Symbol: sym,
						Message: fmt.Sprintf("%s on %q goes to both %s and %s", s.Label, sym, a.Label(prev), a.Label(t.Target)),
					})
				}
				if _, ok := targets[sym]; !ok {
					targets[sym] = t.Target
				}
			}
		}
		if a.typ == TypeNFA {
			continue
		}
		for _, sym := range alphabet {
			if sym == Epsilon {
				continue
			}
			if _, ok := targets[sym]; !ok {
				out = append(out, Warning{
					Kind: WarnIncomplete, State: s.ID, Symbol: sym,
					Message: fmt.Sprintf("%s has no transition on %q", s.Label, sym),
				})
			}
		}
	}
	return out
}

func (a *Automaton) reachable(from StateID) map[StateID]bool {
	seen := map[StateID]bool{from: true}
	queue := []StateID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range a.transitions {
			if t.Source == cur && !seen[t.Target] {
				seen[t.Target] = true
				queue = append(queue, t.Target)
			}
		}
	}
	return seen
}
