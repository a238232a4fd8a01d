package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/canvas"
	"github.com/ha1tch/dfa-toolkit/pkg/visual"
)

const sidebarWidth = 30

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleTitle      = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleTrans      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorLime).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor     = tcell.StyleDefault.Background(tcell.ColorDarkGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// tcellColor converts a palette colour for the terminal.
func tcellColor(c visual.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// nodeStyle paints a state with its fill and a readable label colour.
func nodeStyle(fill visual.Color) tcell.Style {
	fg := tcell.ColorBlack
	if l, _, _ := fill.Lab(); l < 0.5 {
		fg = tcell.ColorWhite
	}
	return tcell.StyleDefault.Background(tcellColor(fill)).Foreground(fg)
}

func (ed *Editor) edgeStyle(e *canvas.Edge) tcell.Style {
	if e.Stroke == ed.palette.Edge && e.Width == ed.palette.EdgeWidth {
		return styleTrans
	}
	return tcell.StyleDefault.Foreground(tcellColor(e.Stroke)).Bold(true)
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawCanvas(w, h)
	ed.drawSidebar(w, h)

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

// stateText is the on-screen form of a state: "(q0)", "((q1))" when
// accepting, prefixed by an arrow for the start state.
func (ed *Editor) stateText(s automaton.State) string {
	a := ed.sess.Automaton()
	text := "(" + s.Label + ")"
	if a.IsAccepting(s.ID) {
		text = "(" + text + ")"
	}
	if a.Start() == s.ID {
		text = "→" + text
	}
	return text
}

func (ed *Editor) drawCanvas(w, h int) {
	canvasW := w - sidebarWidth
	canvasH := h - 2

	for y := 0; y < canvasH; y++ {
		ed.screen.SetContent(canvasW, y, '│', nil, styleBorder)
	}

	ed.drawEdges(canvasW, canvasH)

	a := ed.sess.Automaton()
	for _, s := range a.States() {
		handle, ok := ed.sess.Sync().Node(s.ID)
		if !ok {
			continue
		}
		node := ed.scene.Node(handle)
		if node == nil {
			continue
		}
		x, y := ed.sceneToCell(node.Pos)
		text := ed.stateText(s)
		style := nodeStyle(node.Fill)
		if ed.mode == ModeMove && s.ID == ed.moving {
			style = style.Reverse(true)
		}
		ed.drawClipped(x-len([]rune(text))/2, y, text, canvasW, canvasH, style)
	}

	if ed.cursorX < canvasW && ed.cursorY < canvasH {
		r, comb, _, _ := ed.screen.GetContent(ed.cursorX, ed.cursorY)
		if r == ' ' || r == 0 {
			r = '+'
		}
		ed.screen.SetContent(ed.cursorX, ed.cursorY, r, comb, styleCursor)
	}
}

func (ed *Editor) drawEdges(canvasW, canvasH int) {
	type pair struct{ src, dst visual.NodeHandle }
	edges := ed.scene.Edges()
	exists := make(map[pair]bool, len(edges))
	for _, e := range edges {
		exists[pair{e.Src, e.Dst}] = true
	}

	for _, e := range edges {
		src, dst := ed.scene.Node(e.Src), ed.scene.Node(e.Dst)
		if src == nil || dst == nil {
			continue
		}
		style := ed.edgeStyle(e)
		x0, y0 := ed.sceneToCell(src.Pos)
		x1, y1 := ed.sceneToCell(dst.Pos)

		if e.SelfLoop {
			label := "↻" + e.Label
			ed.drawClipped(x0-len([]rune(label))/2, y0-1, label, canvasW, canvasH, style)
			continue
		}

		// Opposite edges share a line unless one of them is shifted.
		if exists[pair{e.Dst, e.Src}] && e.Src > e.Dst {
			y0++
			y1++
		}
		gap := len([]rune(dst.Label))/2 + 2
		if st, ok := ed.sess.Automaton().StateByLabel(dst.Label); ok {
			gap = len([]rune(ed.stateText(st)))/2 + 1
		}
		ed.drawLine(x0, y0, x1, y1, gap, e.Label, canvasW, canvasH, style)
	}
}

// drawLine draws a straight edge, an arrowhead gap cells short of the target
// and the label at the midpoint.
func (ed *Editor) drawLine(x0, y0, x1, y1, gap int, label string, canvasW, canvasH int, style tcell.Style) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		return
	}

	horizontal := abs(dx) >= 2*abs(dy)
	vertical := abs(dy)*2 >= abs(dx)*3
	line := '╲'
	switch {
	case horizontal:
		line = '─'
	case vertical:
		line = '│'
	case (dx > 0) != (dy > 0):
		line = '╱'
	}

	arrowAt := steps - 1
	if horizontal {
		arrowAt = steps - gap
	}
	if arrowAt < 1 {
		arrowAt = 1
	}

	for i := 1; i <= arrowAt; i++ {
		x := x0 + (dx*i+sign(dx)*steps/2)/steps
		y := y0 + (dy*i+sign(dy)*steps/2)/steps
		r := line
		if i == arrowAt {
			r = arrowRune(dx, dy, horizontal)
		}
		ed.setClipped(x, y, r, canvasW, canvasH, style)
	}

	mx, my := x0+dx/2, y0+dy/2
	if horizontal {
		my--
	} else {
		mx++
	}
	ed.drawClipped(mx, my, label, canvasW, canvasH, style)
}

func arrowRune(dx, dy int, horizontal bool) rune {
	switch {
	case horizontal && dx > 0:
		return '▶'
	case horizontal:
		return '◀'
	case dy > 0:
		return '▼'
	default:
		return '▲'
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func (ed *Editor) drawSidebar(w, h int) {
	x := w - sidebarWidth + 2
	width := sidebarWidth - 3
	y := 0
	a := ed.sess.Automaton()

	line := func(s string, style tcell.Style) {
		if y < h-2 {
			ed.drawString(x, y, truncate(s, width), style)
		}
		y++
	}

	line("DFA", styleTitle)
	y++
	start := "-"
	if s, ok := a.StartState(); ok {
		start = s.Label
	}
	var accepting []string
	for _, id := range a.Accepting() {
		accepting = append(accepting, a.Label(id))
	}
	line("Type:      "+typeName(a.Type()), styleSidebar)
	line(fmt.Sprintf("States:    %d", a.Len()), styleSidebar)
	line("Start:     "+start, styleSidebar)
	line("Accepting: "+strings.Join(accepting, " "), styleSidebar)
	line("Alphabet:  "+strings.Join(a.Alphabet(), " "), styleSidebar)
	y++

	line("Transitions", styleSidebarH)
	for _, t := range a.Transitions() {
		line(fmt.Sprintf(" %s → %s : %s", a.Label(t.Source), a.Label(t.Target), t.Label()), styleSidebar)
	}
	y++

	line("Test", styleSidebarH)
	line(" Input: "+quoteInput(ed.sess.TestInput()), styleSidebar)
	if res := ed.sess.Result(); res != nil {
		style := styleSidebar
		if res.Accepted {
			style = style.Foreground(tcellColor(ed.palette.Final))
		} else {
			style = style.Foreground(tcellColor(ed.palette.Failure))
		}
		for _, l := range wrap(res.Message(), width-1) {
			line(" "+l, style)
		}
		if res.Valid() {
			for _, l := range wrap(res.PathString(), width-1) {
				line(" "+l, styleSidebar)
			}
		}
	}
}

func quoteInput(s string) string {
	if s == "" {
		return "ε (empty)"
	}
	return fmt.Sprintf("%q", s)
}

func wrap(s string, width int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		switch {
		case cur == "":
			cur = word
		case len([]rune(cur))+1+len([]rune(word)) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		fileInfo = filepath.Base(ed.filename)
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		msg := truncate(ed.message, w/2-2)
		ed.drawString(w-len([]rune(msg))-2, y, msg, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 50
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(boxX+2+len([]rune(ed.inputPrompt)), boxY+1, ed.inputBuffer+"_", styleInput)
}

var helpLines = []string{
	"a      add state at cursor",
	"t      add transition from state",
	"s      set start state",
	"f      toggle accepting",
	"m      cycle machine type",
	"g      move state",
	"i      edit test string",
	"Enter  run test",
	"c      clear",
	"w      save",
	"q      quit",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 40
	boxH := len(helpLines) + 4
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, "Keys", styleInput.Bold(true))
	for i, l := range helpLines {
		ed.drawString(boxX+2, boxY+3+i, l, styleInput)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		ed.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

// drawClipped draws s, dropping cells outside the canvas.
func (ed *Editor) drawClipped(x, y int, s string, canvasW, canvasH int, style tcell.Style) {
	i := 0
	for _, r := range s {
		ed.setClipped(x+i, y, r, canvasW, canvasH, style)
		i++
	}
}

func (ed *Editor) setClipped(x, y int, r rune, canvasW, canvasH int, style tcell.Style) {
	if x < 0 || y < 0 || x >= canvasW || y >= canvasH {
		return
	}
	ed.screen.SetContent(x, y, r, nil, style)
}

func (ed *Editor) modeString() string {
	switch ed.mode {
	case ModeInput:
		return "INPUT"
	case ModePickTarget:
		return "PICK TARGET"
	case ModeMove:
		return "MOVE"
	case ModeHelp:
		return "HELP"
	default:
		return ""
	}
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModePickTarget:
		return "Arrows:Move  Enter:Pick target  Esc:Cancel"
	case ModeMove:
		return "Arrows:Move state  Enter:Done"
	case ModeHelp:
		return "Any key:Close"
	default:
		return "Arrows:Move  A:Add  T:Transition  S:Start  F:Accept  M:Type  I:Input  Enter:Test  C:Clear  W:Save  ?:Help  Q:Quit"
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
