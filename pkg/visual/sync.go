package visual

import (
	u "github.com/araddon/gou"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
)

type edgeKey struct {
	src, dst automaton.StateID
}

// Sync mirrors an automaton onto a Renderer. It owns the mapping from state
// ids and (source, target) pairs to renderer handles.
type Sync struct {
	a       *automaton.Automaton
	r       Renderer
	palette Palette

	nodes map[automaton.StateID]NodeHandle
	edges map[edgeKey]EdgeHandle
}

// SyncOption configures a Sync.
type SyncOption func(*Sync)

// WithPalette replaces the default colours.
func WithPalette(p Palette) SyncOption {
	return func(s *Sync) {
		s.palette = p
	}
}

// NewSync draws the current contents of a onto r and subscribes to a so
// that every later edit is mirrored.
func NewSync(a *automaton.Automaton, r Renderer, opts ...SyncOption) *Sync {
	s := &Sync{
		a:       a,
		r:       r,
		palette: DefaultPalette(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rebuild()
	a.Subscribe(s.handle)
	return s
}

// Palette returns the colours in use.
func (s *Sync) Palette() Palette {
	return s.palette
}

// Node returns the handle drawn for id.
func (s *Sync) Node(id automaton.StateID) (NodeHandle, bool) {
	h, ok := s.nodes[id]
	return h, ok
}

// Edge returns the handle drawn for the src→dst transition.
func (s *Sync) Edge(src, dst automaton.StateID) (EdgeHandle, bool) {
	h, ok := s.edges[edgeKey{src, dst}]
	return h, ok
}

func (s *Sync) handle(ev automaton.Event) {
	switch ev.Kind {
	case automaton.EventStateAdded:
		s.addNode(ev.State)

	case automaton.EventTransitionAdded:
		s.addEdge(ev.Transition)

	case automaton.EventSymbolAppended:
		h, ok := s.edges[edgeKey{ev.Transition.Source, ev.Transition.Target}]
		if !ok {
			u.Warnf("visual: no edge drawn for %s→%s", ev.Transition.Source, ev.Transition.Target)
			return
		}
		s.r.AppendEdgeLabel(h, ev.Symbol)

	case automaton.EventStartChanged:
		if ev.Previous != "" {
			s.fillRole(ev.Previous)
		}
		s.fillRole(ev.Start)

	case automaton.EventAcceptingToggled:
		s.fillRole(ev.State.ID)

	case automaton.EventCleared:
		s.r.ClearAll()
		s.nodes = make(map[automaton.StateID]NodeHandle)
		s.edges = make(map[edgeKey]EdgeHandle)

	case automaton.EventRestored:
		s.rebuild()
	}
}

// rebuild clears the renderer and draws the whole model from scratch.
func (s *Sync) rebuild() {
	s.r.ClearAll()
	s.nodes = make(map[automaton.StateID]NodeHandle)
	s.edges = make(map[edgeKey]EdgeHandle)
	for _, st := range s.a.States() {
		s.addNode(st)
	}
	for _, t := range s.a.Transitions() {
		s.addEdge(t)
	}
}

func (s *Sync) addNode(st automaton.State) {
	h := s.r.CreateNode(st.Label, st.Pos)
	s.nodes[st.ID] = h
	s.r.SetNodeFill(h, s.roleFill(st.ID))
}

func (s *Sync) addEdge(t automaton.Transition) {
	src, ok1 := s.nodes[t.Source]
	dst, ok2 := s.nodes[t.Target]
	if !ok1 || !ok2 {
		u.Warnf("visual: edge %s→%s references an undrawn state", t.Source, t.Target)
		return
	}
	s.edges[edgeKey{t.Source, t.Target}] = s.r.CreateEdge(src, dst, t.Label(), t.SelfLoop())
}

func (s *Sync) roleFill(id automaton.StateID) Color {
	return s.palette.RoleFill(s.a.Start() == id, s.a.IsAccepting(id))
}

func (s *Sync) fillRole(id automaton.StateID) {
	if h, ok := s.nodes[id]; ok {
		s.r.SetNodeFill(h, s.roleFill(id))
	}
}

// Reset returns every node to its role fill and every edge to the default
// stroke.
func (s *Sync) Reset() {
	for _, st := range s.a.States() {
		s.fillRole(st.ID)
	}
	for _, t := range s.a.Transitions() {
		if h, ok := s.edges[edgeKey{t.Source, t.Target}]; ok {
			s.r.SetEdgeStroke(h, s.palette.Edge, s.palette.EdgeWidth)
		}
	}
}

// Highlight resets the drawing and then marks the path of res: every
// visited state and every followed edge, with the last state marked final
// when the input was accepted and failed otherwise. Results that did not
// walk the automaton only reset.
func (s *Sync) Highlight(res automaton.Result) {
	s.Reset()
	if !res.Valid() || len(res.States) == 0 {
		return
	}
	last := len(res.States) - 1
	for i, id := range res.States {
		h, ok := s.nodes[id]
		if !ok {
			continue
		}
		fill := s.palette.OnPath
		if i == last {
			fill = s.palette.Failure
			if res.Accepted {
				fill = s.palette.Final
			}
		}
		s.r.SetNodeFill(h, fill)
		if i < last {
			if e, ok := s.edges[edgeKey{id, res.States[i+1]}]; ok {
				s.r.SetEdgeStroke(e, s.palette.PathEdge, s.palette.PathEdgeWidth)
			}
		}
	}
}
