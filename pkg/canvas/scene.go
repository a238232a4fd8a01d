// Package canvas is a retained drawing of an automaton. A Scene receives
// commands through the visual.Renderer interface and can be rasterised to
// PNG, written out as SVG, or walked by an interactive front end.
package canvas

import (
	"math"
	"strings"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/visual"
)

// NodeRadius is the radius of a state circle in scene units.
const NodeRadius = 30.0

// Node is a drawn state.
type Node struct {
	Handle visual.NodeHandle
	Label  string
	Pos    automaton.Position
	Fill   visual.Color
}

// Edge is a drawn transition.
type Edge struct {
	Handle   visual.EdgeHandle
	Src, Dst visual.NodeHandle
	Label    string
	SelfLoop bool
	Stroke   visual.Color
	Width    float64
}

// Scene holds nodes and edges in creation order.
type Scene struct {
	nodes []*Node
	edges []*Edge
	next  int

	nodeFill   visual.Color
	edgeStroke visual.Color
	edgeWidth  float64
}

var _ visual.Renderer = (*Scene)(nil)

// NewScene returns an empty scene. New nodes and edges start with p's plain
// fill and default stroke.
func NewScene(p visual.Palette) *Scene {
	return &Scene{nodeFill: p.Plain, edgeStroke: p.Edge, edgeWidth: p.EdgeWidth}
}

func (s *Scene) CreateNode(label string, pos automaton.Position) visual.NodeHandle {
	s.next++
	n := &Node{Handle: visual.NodeHandle(s.next), Label: label, Pos: pos, Fill: s.nodeFill}
	s.nodes = append(s.nodes, n)
	return n.Handle
}

func (s *Scene) SetNodeFill(node visual.NodeHandle, fill visual.Color) {
	if n := s.Node(node); n != nil {
		n.Fill = fill
	}
}

func (s *Scene) CreateEdge(src, dst visual.NodeHandle, label string, selfLoop bool) visual.EdgeHandle {
	s.next++
	e := &Edge{
		Handle:   visual.EdgeHandle(s.next),
		Src:      src,
		Dst:      dst,
		Label:    label,
		SelfLoop: selfLoop,
		Stroke:   s.edgeStroke,
		Width:    s.edgeWidth,
	}
	s.edges = append(s.edges, e)
	return e.Handle
}

func (s *Scene) AppendEdgeLabel(edge visual.EdgeHandle, symbol string) {
	if e := s.Edge(edge); e != nil {
		if e.Label == "" {
			e.Label = symbol
		} else {
			e.Label += ", " + symbol
		}
	}
}

func (s *Scene) SetEdgeStroke(edge visual.EdgeHandle, stroke visual.Color, width float64) {
	if e := s.Edge(edge); e != nil {
		e.Stroke = stroke
		e.Width = width
	}
}

func (s *Scene) ClearAll() {
	s.nodes = nil
	s.edges = nil
}

// MoveNode changes where a node is drawn.
func (s *Scene) MoveNode(node visual.NodeHandle, pos automaton.Position) {
	if n := s.Node(node); n != nil {
		n.Pos = pos
	}
}

// Node returns the node for h, or nil.
func (s *Scene) Node(h visual.NodeHandle) *Node {
	for _, n := range s.nodes {
		if n.Handle == h {
			return n
		}
	}
	return nil
}

// Edge returns the edge for h, or nil.
func (s *Scene) Edge(h visual.EdgeHandle) *Edge {
	for _, e := range s.edges {
		if e.Handle == h {
			return e
		}
	}
	return nil
}

// Nodes returns the nodes in creation order.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Edges returns the edges in creation order.
func (s *Scene) Edges() []*Edge {
	return s.edges
}

// NodeAt returns the topmost node whose circle contains (x, y).
func (s *Scene) NodeAt(x, y float64) *Node {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		n := s.nodes[i]
		if math.Hypot(n.Pos.X-x, n.Pos.Y-y) <= NodeRadius {
			return n
		}
	}
	return nil
}

// hasReverse reports whether e's target also has an edge back to e's source.
func (s *Scene) hasReverse(e *Edge) bool {
	if e.SelfLoop {
		return false
	}
	for _, o := range s.edges {
		if o.Src == e.Dst && o.Dst == e.Src {
			return true
		}
	}
	return false
}

// Bounds returns the box enclosing every node and its self loop.
// An empty scene has zero bounds.
func (s *Scene) Bounds() (minX, minY, maxX, maxY float64) {
	if len(s.nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	loops := make(map[visual.NodeHandle]bool)
	for _, e := range s.edges {
		if e.SelfLoop {
			loops[e.Src] = true
		}
	}
	for _, n := range s.nodes {
		top := n.Pos.Y - NodeRadius
		if loops[n.Handle] {
			top -= NodeRadius * 1.6
		}
		minX = math.Min(minX, n.Pos.X-NodeRadius)
		maxX = math.Max(maxX, n.Pos.X+NodeRadius)
		minY = math.Min(minY, top)
		maxY = math.Max(maxY, n.Pos.Y+NodeRadius)
	}
	return minX, minY, maxX, maxY
}

// Summary returns one line per node and edge, in creation order.
func (s *Scene) Summary() string {
	var sb strings.Builder
	for _, n := range s.nodes {
		sb.WriteString(n.Label + " " + n.Fill.Hex() + "\n")
	}
	for _, e := range s.edges {
		src, dst := s.Node(e.Src), s.Node(e.Dst)
		if src == nil || dst == nil {
			continue
		}
		sb.WriteString(src.Label + " -> " + dst.Label + " [" + e.Label + "] " + e.Stroke.Hex() + "\n")
	}
	return sb.String()
}
