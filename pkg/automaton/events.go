package automaton

// EventKind identifies what an edit changed.
type EventKind int

const (
	EventStateAdded EventKind = iota + 1
	EventTransitionAdded
	EventSymbolAppended
	EventStartChanged
	EventAcceptingToggled
	EventTypeChanged
	EventCleared
	EventRestored
)

var eventNames = map[EventKind]string{
	EventStateAdded:       "state-added",
	EventTransitionAdded:  "transition-added",
	EventSymbolAppended:   "symbol-appended",
	EventStartChanged:     "start-changed",
	EventAcceptingToggled: "accepting-toggled",
	EventTypeChanged:      "type-changed",
	EventCleared:          "cleared",
	EventRestored:         "restored",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event describes one successful mutation. It is delivered after the model
// has been updated. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind

	// State is the added state, or the state whose accepting flag changed.
	State State

	// Transition is the record after the change; Symbol is the symbol that
	// created it or was appended to it.
	Transition Transition
	Symbol     string

	// Previous and Start carry the start-state change. Previous is "" when
	// no start state was set before.
	Previous StateID
	Start    StateID

	Accepting bool
	Type      Type
}

// Subscribe registers fn to receive every event. Subscribers run
// synchronously, in registration order, inside the edit call.
func (a *Automaton) Subscribe(fn func(Event)) {
	if fn != nil {
		a.observers = append(a.observers, fn)
	}
}

func (a *Automaton) emit(ev Event) {
	for _, fn := range a.observers {
		fn(ev)
	}
}
