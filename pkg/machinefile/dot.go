package machinefile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/visual"
)

// GenerateDOT converts an automaton to Graphviz DOT format. When res is a
// walked run, its path is highlighted with the default palette.
func GenerateDOT(a *automaton.Automaton, title string, res *automaton.Result) string {
	return GenerateDOTWithPalette(a, title, res, visual.DefaultPalette())
}

// GenerateDOTWithPalette is GenerateDOT with explicit colours.
func GenerateDOTWithPalette(a *automaton.Automaton, title string, res *automaton.Result, p visual.Palette) string {
	var sb strings.Builder

	sb.WriteString("digraph DFA {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, style=filled];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeDOT(title))
		sb.WriteString("\n")
	}

	if start, ok := a.StartState(); ok {
		sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0, style=\"\"];\n")
		fmt.Fprintf(&sb, "    __start -> \"%s\";\n", escapeDOT(start.Label))
		sb.WriteString("\n")
	}

	// Path markers, keyed by state and by followed edge.
	fills := make(map[automaton.StateID]visual.Color)
	onPath := make(map[[2]automaton.StateID]bool)
	if res != nil && res.Valid() {
		last := len(res.States) - 1
		for i, id := range res.States {
			switch {
			case i < last:
				fills[id] = p.OnPath
				onPath[[2]automaton.StateID{id, res.States[i+1]}] = true
			case res.Accepted:
				fills[id] = p.Final
			default:
				fills[id] = p.Failure
			}
		}
	}

	for _, s := range a.States() {
		shape := "circle"
		if a.IsAccepting(s.ID) {
			shape = "doublecircle"
		}
		fill, ok := fills[s.ID]
		if !ok {
			fill = p.RoleFill(a.Start() == s.ID, a.IsAccepting(s.ID))
		}
		fmt.Fprintf(&sb, "    \"%s\" [shape=%s, fillcolor=\"%s\"];\n", escapeDOT(s.Label), shape, fill.Hex())
	}
	sb.WriteString("\n")

	for _, t := range a.Transitions() {
		attrs := []string{fmt.Sprintf("label=\"%s\"", escapeDOT(t.Label()))}
		if onPath[[2]automaton.StateID{t.Source, t.Target}] {
			attrs = append(attrs, fmt.Sprintf("color=\"%s\"", p.PathEdge.Hex()), fmt.Sprintf("penwidth=%g", p.PathEdgeWidth))
		}
		fmt.Fprintf(&sb, "    \"%s\" -> \"%s\" [%s];\n",
			escapeDOT(a.Label(t.Source)), escapeDOT(a.Label(t.Target)), strings.Join(attrs, ", "))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
