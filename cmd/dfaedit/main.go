// Command dfaedit is a terminal editor for drawing and testing DFAs.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	u "github.com/araddon/gou"
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/canvas"
	"github.com/ha1tch/dfa-toolkit/pkg/config"
	"github.com/ha1tch/dfa-toolkit/pkg/machinefile"
	"github.com/ha1tch/dfa-toolkit/pkg/session"
	"github.com/ha1tch/dfa-toolkit/pkg/visual"
)

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
	ModePickTarget // choosing the target of a drafted transition
	ModeMove
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
)

type Editor struct {
	screen   tcell.Screen
	sess     *session.Session
	scene    *canvas.Scene
	config   *config.Config
	palette  visual.Palette
	filename string
	modified bool

	mode        Mode
	message     string
	messageType MessageType

	// Cursor in terminal cells.
	cursorX int
	cursorY int

	// State being moved in ModeMove.
	moving automaton.StateID

	// Input box. inputChange, when set, sees every edit.
	inputPrompt string
	inputBuffer string
	inputAction func(string)
	inputChange func(string)
}

func newEditor(screen tcell.Screen, cfg *config.Config) (*Editor, error) {
	palette, err := cfg.VisualPalette()
	if err != nil {
		return nil, err
	}
	if cfg.Editor.GridX <= 0 {
		cfg.Editor.GridX = config.DefaultGridX
	}
	if cfg.Editor.GridY <= 0 {
		cfg.Editor.GridY = config.DefaultGridY
	}
	scene := canvas.NewScene(palette)
	return &Editor{
		screen:  screen,
		sess:    session.New(visual.NewLogRenderer(scene), session.WithSyncOptions(visual.WithPalette(palette))),
		scene:   scene,
		config:  cfg,
		palette: palette,
		cursorX: 2,
		cursorY: 2,
	}, nil
}

func main() {
	cfgPath, err := config.Path()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", cfgPath, err)
		os.Exit(1)
	}
	closeLog := setupLogging(cfg.LogLevel)
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}

	ed, err := newEditor(screen, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		if err := ed.loadFile(os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
	}

	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.Clear()

	ed.run()

	screen.Fini()

	if ed.filename != "" {
		if abs, err := filepath.Abs(ed.filename); err == nil {
			cfg.LastDir = filepath.Dir(abs)
			if err := config.Save(cfgPath, cfg); err != nil {
				u.Warnf("saving config: %v", err)
			}
		}
	}
}

// setupLogging sends log output to dfaedit.log in the user cache directory,
// since the terminal belongs to the editor.
func setupLogging(level string) func() {
	var w io.Writer = io.Discard
	closer := func() {}
	if dir, err := os.UserCacheDir(); err == nil {
		if f, err := os.OpenFile(filepath.Join(dir, "dfaedit.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			w = f
			closer = func() { f.Close() }
		}
	}
	u.SetLogger(log.New(w, "", log.Ltime|log.Lmicroseconds|log.Lshortfile), level)
	return closer
}

func (ed *Editor) run() {
	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		}
	}
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	switch ed.mode {
	case ModeInput:
		ed.handleInputKey(ev)
	case ModePickTarget:
		ed.handlePickTargetKey(ev)
	case ModeMove:
		ed.handleMoveKey(ev)
	case ModeHelp:
		ed.mode = ModeCanvas
	default:
		return ed.handleCanvasKey(ev)
	}
	return false
}

// moveCursor reports whether ev was an arrow key.
func (ed *Editor) moveCursor(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		if ed.cursorY > 0 {
			ed.cursorY--
		}
	case tcell.KeyDown:
		ed.cursorY++
	case tcell.KeyLeft:
		if ed.cursorX > 0 {
			ed.cursorX--
		}
	case tcell.KeyRight:
		ed.cursorX++
	default:
		return false
	}
	return true
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) bool {
	if ed.moveCursor(ev) {
		return false
	}
	switch ev.Key() {
	case tcell.KeyEscape:
		return true
	case tcell.KeyEnter:
		ed.runTest()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'a', 'A':
			ed.addStateAtCursor()
		case 't', 'T':
			ed.startAddTransition()
		case 's', 'S':
			ed.setStartState()
		case 'f', 'F':
			ed.toggleAccepting()
		case 'm', 'M':
			ed.cycleType()
		case 'i', 'I':
			ed.editTestInput()
		case 'g', 'G':
			ed.startMove()
		case 'c', 'C':
			ed.sess.Clear()
			ed.modified = true
			ed.showMessage("Cleared", MsgSuccess)
		case 'w', 'W':
			ed.save()
		case 'h', 'H', '?':
			ed.mode = ModeHelp
		}
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.inputChange = nil
		return
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		action := ed.inputAction
		buf := ed.inputBuffer
		ed.inputBuffer = ""
		ed.inputChange = nil
		if action != nil {
			action(buf)
		}
		return
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	default:
		return
	}
	if ed.inputChange != nil {
		ed.inputChange(ed.inputBuffer)
	}
}

func (ed *Editor) handlePickTargetKey(ev *tcell.EventKey) {
	if ed.moveCursor(ev) {
		return
	}
	a := ed.sess.Automaton()
	switch ev.Key() {
	case tcell.KeyEscape:
		a.CancelTransition()
		ed.mode = ModeCanvas
		ed.showMessage("Transition cancelled", MsgInfo)
	case tcell.KeyEnter:
		target, ok := ed.stateAtCursor()
		if !ok {
			ed.showMessage("Move the cursor onto the target state", MsgError)
			return
		}
		draft := a.Draft()
		if draft == nil {
			ed.mode = ModeCanvas
			return
		}
		draft.Target = target
		ed.prompt(fmt.Sprintf("Symbol %s → %s: ", a.Label(draft.Source), a.Label(target)), "", ed.completeTransition, nil)
	}
}

func (ed *Editor) handleMoveKey(ev *tcell.EventKey) {
	if ed.moveCursor(ev) {
		a := ed.sess.Automaton()
		pos := ed.cellToScene(ed.cursorX, ed.cursorY)
		if err := a.MoveState(ed.moving, pos); err != nil {
			ed.showMessage(err.Error(), MsgError)
			ed.mode = ModeCanvas
			return
		}
		if h, ok := ed.sess.Sync().Node(ed.moving); ok {
			ed.scene.MoveNode(h, pos)
		}
		ed.modified = true
		return
	}
	switch ev.Key() {
	case tcell.KeyEnter, tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.showMessage("Moved "+ed.sess.Automaton().Label(ed.moving), MsgInfo)
	}
}

// prompt opens the input box. change, when not nil, runs on every edit.
func (ed *Editor) prompt(label, initial string, action, change func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = label
	ed.inputBuffer = initial
	ed.inputAction = action
	ed.inputChange = change
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	switch msgType {
	case MsgError:
		u.Warnf("dfaedit: %s", msg)
	default:
		u.Debugf("dfaedit: %s", msg)
	}
}

// Scene coordinates are cell coordinates scaled by the configured grid.

func (ed *Editor) cellToScene(x, y int) automaton.Position {
	return automaton.Position{
		X: float64(x * ed.config.Editor.GridX),
		Y: float64(y * ed.config.Editor.GridY),
	}
}

func (ed *Editor) sceneToCell(p automaton.Position) (int, int) {
	return int(p.X) / ed.config.Editor.GridX, int(p.Y) / ed.config.Editor.GridY
}

// stateAtCursor finds the state whose drawn label covers the cursor.
func (ed *Editor) stateAtCursor() (automaton.StateID, bool) {
	a := ed.sess.Automaton()
	for _, s := range a.States() {
		x, y := ed.sceneToCell(s.Pos)
		if y != ed.cursorY {
			continue
		}
		width := len([]rune(ed.stateText(s)))
		left := x - width/2
		if ed.cursorX >= left && ed.cursorX < left+width {
			return s.ID, true
		}
	}
	return "", false
}

// Actions

func (ed *Editor) addStateAtCursor() {
	if _, ok := ed.stateAtCursor(); ok {
		ed.showMessage("A state is already here", MsgError)
		return
	}
	s := ed.sess.Automaton().AddStateAt(ed.cellToScene(ed.cursorX, ed.cursorY))
	ed.modified = true
	ed.showMessage("Added "+s.Label, MsgSuccess)
}

func (ed *Editor) startAddTransition() {
	src, ok := ed.stateAtCursor()
	if !ok {
		ed.showMessage("Move the cursor onto the source state", MsgError)
		return
	}
	a := ed.sess.Automaton()
	a.BeginTransition().Source = src
	ed.mode = ModePickTarget
	ed.showMessage("From "+a.Label(src)+": pick the target and press Enter", MsgInfo)
}

func (ed *Editor) completeTransition(symbol string) {
	a := ed.sess.Automaton()
	draft := a.Draft()
	if draft == nil {
		return
	}
	draft.Symbol = symbol
	t, err := draft.Confirm()
	if err != nil {
		a.CancelTransition()
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.modified = true
	ed.showMessage(fmt.Sprintf("%s --%s--> %s", a.Label(t.Source), symbol, a.Label(t.Target)), MsgSuccess)
}

func (ed *Editor) setStartState() {
	id, ok := ed.stateAtCursor()
	if !ok {
		ed.showMessage("Move the cursor onto a state", MsgError)
		return
	}
	a := ed.sess.Automaton()
	if err := a.SetStartState(id); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.modified = true
	ed.showMessage("Start state: "+a.Label(id), MsgSuccess)
}

func (ed *Editor) toggleAccepting() {
	id, ok := ed.stateAtCursor()
	if !ok {
		ed.showMessage("Move the cursor onto a state", MsgError)
		return
	}
	a := ed.sess.Automaton()
	on, err := a.ToggleAccepting(id)
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.modified = true
	if on {
		ed.showMessage(a.Label(id)+" is accepting", MsgSuccess)
	} else {
		ed.showMessage(a.Label(id)+" is not accepting", MsgSuccess)
	}
}

var typeCycle = []automaton.Type{automaton.TypeUnset, automaton.TypeDFA, automaton.TypeNFA}

func (ed *Editor) cycleType() {
	a := ed.sess.Automaton()
	next := typeCycle[0]
	for i, t := range typeCycle {
		if t == a.Type() {
			next = typeCycle[(i+1)%len(typeCycle)]
			break
		}
	}
	if err := a.SetType(next); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.modified = true
	ed.showMessage("Machine type: "+typeName(next), MsgInfo)
}

func typeName(t automaton.Type) string {
	if t == automaton.TypeUnset {
		return "unset"
	}
	return string(t)
}

// editTestInput opens the test string box. Every edit replaces the test
// string at once, which clears any highlighted result.
func (ed *Editor) editTestInput() {
	ed.prompt("Test string: ", ed.sess.TestInput(), func(s string) {
		ed.sess.SetTestInput(s)
	}, ed.sess.SetTestInput)
}

func (ed *Editor) runTest() {
	res := ed.sess.RunTest()
	switch {
	case res.Accepted:
		ed.showMessage(res.Message(), MsgSuccess)
	default:
		ed.showMessage(res.Message(), MsgError)
	}
}

func (ed *Editor) startMove() {
	id, ok := ed.stateAtCursor()
	if !ok {
		ed.showMessage("Move the cursor onto a state", MsgError)
		return
	}
	ed.moving = id
	s, _ := ed.sess.Automaton().State(id)
	ed.cursorX, ed.cursorY = ed.sceneToCell(s.Pos)
	ed.mode = ModeMove
}

// File operations

func (ed *Editor) save() {
	initial := ed.filename
	if initial == "" {
		initial = machinefile.DefaultFileName
		if ed.config.LastDir != "" {
			initial = filepath.Join(ed.config.LastDir, initial)
		}
	}
	ed.prompt("Save as: ", initial, func(path string) {
		if path == "" {
			ed.showMessage("No file name given", MsgError)
			return
		}
		if err := ed.saveFile(path); err != nil {
			ed.showMessage(err.Error(), MsgError)
			return
		}
		ed.showMessage("Saved "+filepath.Base(path), MsgSuccess)
	}, nil)
}

func (ed *Editor) saveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ed.sess.Save(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	ed.filename = path
	ed.modified = false
	return nil
}

func (ed *Editor) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := ed.sess.Load(f); err != nil {
		return err
	}
	ed.filename = path
	ed.modified = false
	return nil
}
