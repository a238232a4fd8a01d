package automaton

import "errors"

// Edit and simulation errors. Edit operations that fail leave the model
// untouched, so callers that only want "do nothing on bad input" may ignore
// them.
var (
	ErrUnknownState     = errors.New("automaton: unknown state")
	ErrUnknownType      = errors.New("automaton: unknown machine type")
	ErrEmptySymbol      = errors.New("automaton: empty transition symbol")
	ErrSymbolLength     = errors.New("automaton: transition symbol must be a single character")
	ErrEpsilonInDFA     = errors.New("automaton: epsilon transitions are not allowed in a DFA")
	ErrNondeterministic = errors.New("automaton: symbol already leaves this state on another transition")
	ErrNoStates         = errors.New("automaton: no states")
	ErrNoStartState     = errors.New("automaton: start state not set")
	ErrUnsupportedType  = errors.New("automaton: simulation not supported for this machine type")
	ErrNoTransition     = errors.New("automaton: no transition")
	ErrInvalidSnapshot  = errors.New("automaton: invalid snapshot")
)
