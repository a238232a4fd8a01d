package visual

import (
	u "github.com/araddon/gou"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
)

// LogRenderer passes every command through to another Renderer and logs it
// at debug level.
type LogRenderer struct {
	Next Renderer
}

// NewLogRenderer wraps next.
func NewLogRenderer(next Renderer) *LogRenderer {
	return &LogRenderer{Next: next}
}

func (l *LogRenderer) CreateNode(label string, pos automaton.Position) NodeHandle {
	h := l.Next.CreateNode(label, pos)
	u.Debugf("render: node %d %q at (%.0f,%.0f)", h, label, pos.X, pos.Y)
	return h
}

func (l *LogRenderer) SetNodeFill(node NodeHandle, fill Color) {
	u.Debugf("render: node %d fill %s", node, fill)
	l.Next.SetNodeFill(node, fill)
}

func (l *LogRenderer) CreateEdge(src, dst NodeHandle, label string, selfLoop bool) EdgeHandle {
	h := l.Next.CreateEdge(src, dst, label, selfLoop)
	u.Debugf("render: edge %d %d→%d %q loop=%v", h, src, dst, label, selfLoop)
	return h
}

func (l *LogRenderer) AppendEdgeLabel(edge EdgeHandle, symbol string) {
	u.Debugf("render: edge %d append %q", edge, symbol)
	l.Next.AppendEdgeLabel(edge, symbol)
}

func (l *LogRenderer) SetEdgeStroke(edge EdgeHandle, stroke Color, width float64) {
	u.Debugf("render: edge %d stroke %s width %.0f", edge, stroke, width)
	l.Next.SetEdgeStroke(edge, stroke, width)
}

func (l *LogRenderer) ClearAll() {
	u.Debugf("render: clear")
	l.Next.ClearAll()
}
