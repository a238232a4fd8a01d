package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
)

var (
	acceptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	rejectStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff69b4"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffaa00"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))
)

// formatResult renders the outcome and, for runs that walked the machine,
// the visited path.
func formatResult(res automaton.Result) string {
	var style lipgloss.Style
	switch {
	case res.Accepted:
		style = acceptStyle
	case res.Valid():
		style = rejectStyle
	default:
		style = errorStyle
	}

	var sb strings.Builder
	sb.WriteString(style.Render(res.Message()))
	if res.Valid() {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("Path: "))
		sb.WriteString(pathStyle.Render(res.PathString()))
	}
	return sb.String()
}

// plotPath charts the index of the visited state against the step number.
func plotPath(a *automaton.Automaton, res automaton.Result) string {
	index := make(map[automaton.StateID]int, a.Len())
	var names []string
	for i, s := range a.States() {
		index[s.ID] = i
		names = append(names, fmt.Sprintf("%d=%s", i, s.Label))
	}

	data := make([]float64, 0, len(res.States)+1)
	for _, id := range res.States {
		data = append(data, float64(index[id]))
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}

	height := a.Len() - 1
	if height < 1 {
		height = 1
	} else if height > 20 {
		height = 20
	}
	width := len(data) * 4
	if width > 80 {
		width = 80
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("state per step ("+strings.Join(names, ", ")+")"),
	)
}
