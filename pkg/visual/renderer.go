// Package visual keeps a drawing surface in step with an automaton.
//
// The automaton knows nothing about rendering. A Sync listens to its edit
// events and turns each one into commands on a Renderer, which may be an
// in-memory scene, a terminal canvas or a recording fake in tests.
package visual

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
)

// NodeHandle and EdgeHandle are opaque references issued by a Renderer.
type (
	NodeHandle int
	EdgeHandle int
)

// Renderer is the drawing surface driven by Sync. Handles are only valid
// until the next ClearAll.
type Renderer interface {
	CreateNode(label string, pos automaton.Position) NodeHandle
	SetNodeFill(node NodeHandle, fill Color)

	// CreateEdge draws an edge with the default stroke. Self loops are
	// flagged so the renderer can route them around the node.
	CreateEdge(src, dst NodeHandle, label string, selfLoop bool) EdgeHandle

	// AppendEdgeLabel adds symbol to the edge label, separated by ", ".
	AppendEdgeLabel(edge EdgeHandle, symbol string)
	SetEdgeStroke(edge EdgeHandle, stroke Color, width float64)
	ClearAll()
}

// Color is an RGB colour. It satisfies image/color.Color.
type Color struct {
	colorful.Color
}

// ParseColor reads "#rrggbb" or "#rgb".
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return Color{}, fmt.Errorf("visual: bad colour %q: %w", s, err)
	}
	return Color{c}, nil
}

// MustColor is ParseColor for constants.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) String() string {
	return c.Hex()
}

// Palette holds the colours used for node roles and run highlighting.
type Palette struct {
	Plain     Color
	Accepting Color
	Start     Color
	OnPath    Color
	Final     Color
	Failure   Color

	Edge          Color
	EdgeWidth     float64
	PathEdge      Color
	PathEdgeWidth float64
}

// DefaultPalette returns the stock colours.
func DefaultPalette() Palette {
	return Palette{
		Plain:         MustColor("#ccccff"),
		Accepting:     MustColor("#90EE90"),
		Start:         MustColor("#FFE4E1"),
		OnPath:        MustColor("#FFB6C1"),
		Final:         MustColor("#FF69B4"),
		Failure:       MustColor("#FF6347"),
		Edge:          MustColor("#000000"),
		EdgeWidth:     2,
		PathEdge:      MustColor("#FF69B4"),
		PathEdgeWidth: 3,
	}
}

// PaletteKeys lists the names accepted by WithOverrides.
var PaletteKeys = []string{"plain", "accepting", "start", "on_path", "final", "failure", "edge", "path_edge"}

// WithOverrides returns a copy of p with the named colours replaced.
// Unknown names and unparsable colours are errors.
func (p Palette) WithOverrides(overrides map[string]string) (Palette, error) {
	for name, value := range overrides {
		c, err := ParseColor(value)
		if err != nil {
			return p, err
		}
		switch name {
		case "plain":
			p.Plain = c
		case "accepting":
			p.Accepting = c
		case "start":
			p.Start = c
		case "on_path":
			p.OnPath = c
		case "final":
			p.Final = c
		case "failure":
			p.Failure = c
		case "edge":
			p.Edge = c
		case "path_edge":
			p.PathEdge = c
		default:
			return p, fmt.Errorf("visual: unknown palette colour %q", name)
		}
	}
	return p, nil
}

// RoleFill returns the resting fill for a state. A start state shows as
// start even when it is also accepting.
func (p Palette) RoleFill(start, accepting bool) Color {
	switch {
	case start:
		return p.Start
	case accepting:
		return p.Accepting
	default:
		return p.Plain
	}
}
