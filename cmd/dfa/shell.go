package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/canvas"
	"github.com/ha1tch/dfa-toolkit/pkg/machinefile"
	"github.com/ha1tch/dfa-toolkit/pkg/session"
	"github.com/ha1tch/dfa-toolkit/pkg/visual"
)

const shellHelp = `Commands:
  state [x y]        - Add a state (optionally at x,y)
  trans SRC DST SYM  - Add a transition between two states
  start STATE        - Set the start state
  accept STATE       - Toggle whether a state is accepting
  type dfa|nfa       - Set the machine type
  test [INPUT]       - Run a test string (empty when omitted)
  history            - Show the steps of the last test
  check              - Validate and list warnings
  show               - Show the machine and its drawing
  clear              - Remove everything
  save [FILE]        - Save as JSON
  load FILE          - Load a JSON file
  quit               - Exit`

// shell is the interactive front end over one session. Commands address
// states by label.
type shell struct {
	sess  *session.Session
	scene *canvas.Scene
	path  string

	out    io.Writer
	errOut io.Writer
}

func newShell(out, errOut io.Writer, palette visual.Palette) *shell {
	scene := canvas.NewScene(palette)
	return &shell{
		sess:   session.New(scene, session.WithSyncOptions(visual.WithPalette(palette))),
		scene:  scene,
		out:    out,
		errOut: errOut,
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	palette, err := cfg.VisualPalette()
	if err != nil {
		return err
	}
	sh := newShell(cmd.OutOrStdout(), cmd.ErrOrStderr(), palette)
	if len(args) == 1 {
		if err := sh.load(args[0]); err != nil {
			return err
		}
	}

	fmt.Fprintln(sh.out, "DFA shell. Type \"help\" for commands.")
	fmt.Fprintln(sh.out)
	sh.loop(cmd.InOrStdin())
	return nil
}

func (sh *shell) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return
		}
		if sh.exec(scanner.Text()) {
			return
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	a := sh.sess.Automaton()

	var err error
	switch fields[0] {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
	case "state":
		err = sh.addState(fields[1:])
	case "trans":
		err = sh.addTransition(fields[1:])
	case "start":
		var id automaton.StateID
		if id, err = sh.lookup(fields[1:]); err == nil {
			if err = a.SetStartState(id); err == nil {
				fmt.Fprintf(sh.out, "Start state: %s\n", a.Label(id))
			}
		}
	case "accept":
		var id automaton.StateID
		if id, err = sh.lookup(fields[1:]); err == nil {
			var on bool
			if on, err = a.ToggleAccepting(id); err == nil {
				fmt.Fprintf(sh.out, "%s accepting: %v\n", a.Label(id), on)
			}
		}
	case "type":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: type dfa|nfa")
			break
		}
		var t automaton.Type
		if t, err = automaton.ParseType(fields[1]); err == nil {
			if err = a.SetType(t); err == nil {
				fmt.Fprintf(sh.out, "Type: %s\n", t)
			}
		}
	case "test":
		sh.test(testArgument(line))
	case "history":
		sh.printHistory()
	case "check":
		sh.check()
	case "show":
		fmt.Fprint(sh.out, a.String())
		if summary := sh.scene.Summary(); summary != "" {
			fmt.Fprintln(sh.out, "Drawing:")
			for _, l := range strings.Split(strings.TrimSuffix(summary, "\n"), "\n") {
				fmt.Fprintf(sh.out, "  %s\n", l)
			}
		}
	case "clear":
		sh.sess.Clear()
		fmt.Fprintln(sh.out, "Cleared")
	case "save":
		path := sh.path
		if len(fields) > 1 {
			path = fields[1]
		}
		if path == "" {
			path = machinefile.DefaultFileName
		}
		err = sh.save(path)
	case "load":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: load FILE")
			break
		}
		err = sh.load(fields[1])
	default:
		err = fmt.Errorf("unknown command %q (try \"help\")", fields[0])
	}
	if err != nil {
		fmt.Fprintf(sh.errOut, "Error: %v\n", err)
	}
	return false
}

// testArgument returns everything after "test " so that spaces are kept as
// input symbols.
func testArgument(line string) string {
	line = strings.TrimLeft(line, " \t")
	line = strings.TrimPrefix(line, "test")
	return strings.TrimPrefix(line, " ")
}

func (sh *shell) addState(args []string) error {
	a := sh.sess.Automaton()
	var s automaton.State
	switch len(args) {
	case 0:
		s = a.AddState()
	case 2:
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("bad x: %w", err)
		}
		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("bad y: %w", err)
		}
		s = a.AddStateAt(automaton.Position{X: x, Y: y})
	default:
		return fmt.Errorf("usage: state [x y]")
	}
	fmt.Fprintf(sh.out, "Added %s at (%g, %g)\n", s.Label, s.Pos.X, s.Pos.Y)
	return nil
}

func (sh *shell) addTransition(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: trans SRC DST SYM")
	}
	a := sh.sess.Automaton()
	src, err := sh.lookup(args[:1])
	if err != nil {
		return err
	}
	dst, err := sh.lookup(args[1:2])
	if err != nil {
		return err
	}
	t, err := a.ConfirmTransition(src, dst, args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%s --%s--> %s\n", a.Label(t.Source), t.Label(), a.Label(t.Target))
	return nil
}

func (sh *shell) lookup(args []string) (automaton.StateID, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected one state label")
	}
	s, ok := sh.sess.Automaton().StateByLabel(args[0])
	if !ok {
		return "", fmt.Errorf("%w: %s", automaton.ErrUnknownState, args[0])
	}
	return s.ID, nil
}

func (sh *shell) test(input string) {
	sh.sess.SetTestInput(input)
	fmt.Fprintln(sh.out, formatResult(sh.sess.RunTest()))
}

func (sh *shell) printHistory() {
	res := sh.sess.Result()
	if res == nil || len(res.Path) < 2 {
		fmt.Fprintln(sh.out, "No history yet")
		return
	}
	symbols := []rune(sh.sess.TestInput())
	fmt.Fprintln(sh.out, "History:")
	for i := 1; i < len(res.Path); i++ {
		fmt.Fprintf(sh.out, "  %d: %s --%c--> %s\n", i, res.Path[i-1], symbols[i-1], res.Path[i])
	}
}

func (sh *shell) check() {
	a := sh.sess.Automaton()
	if err := a.Validate(); err != nil {
		fmt.Fprintf(sh.out, "Invalid: %v\n", err)
	} else {
		fmt.Fprintf(sh.out, "Valid %s with %d states, %d transitions\n", machineType(a), a.Len(), len(a.Transitions()))
	}
	for _, w := range a.Analyse() {
		fmt.Fprintf(sh.out, "  %s\n", warnStyle.Render(w.String()))
	}
}

func (sh *shell) save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sh.sess.Save(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	sh.path = path
	fmt.Fprintf(sh.out, "Saved %s\n", path)
	return nil
}

func (sh *shell) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := sh.sess.Load(f); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	sh.path = path
	a := sh.sess.Automaton()
	fmt.Fprintf(sh.out, "Loaded %s: %d states, %d transitions\n", path, a.Len(), len(a.Transitions()))
	return nil
}
