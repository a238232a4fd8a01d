// Package session ties an automaton, its drawing and the current test input
// together the way an editor front end uses them.
package session

import (
	"encoding/json"
	"fmt"
	"io"

	u "github.com/araddon/gou"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/machinefile"
	"github.com/ha1tch/dfa-toolkit/pkg/visual"
)

// Session is one editing session. It is not safe for concurrent use.
type Session struct {
	a    *automaton.Automaton
	sync *visual.Sync

	input  string
	result *automaton.Result
}

// New creates a session drawing onto r.
func New(r visual.Renderer, opts ...Option) *Session {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	a := automaton.New(c.automaton...)
	return &Session{
		a:    a,
		sync: visual.NewSync(a, r, c.sync...),
	}
}

type config struct {
	automaton []automaton.Option
	sync      []visual.SyncOption
}

// Option configures a Session.
type Option func(*config)

// WithAutomatonOptions passes options to the underlying automaton.
func WithAutomatonOptions(opts ...automaton.Option) Option {
	return func(c *config) {
		c.automaton = append(c.automaton, opts...)
	}
}

// WithSyncOptions passes options to the visual sync.
func WithSyncOptions(opts ...visual.SyncOption) Option {
	return func(c *config) {
		c.sync = append(c.sync, opts...)
	}
}

// Automaton returns the automaton being edited. Edits made through it are
// mirrored onto the renderer.
func (s *Session) Automaton() *automaton.Automaton {
	return s.a
}

// Sync returns the visual sync.
func (s *Session) Sync() *visual.Sync {
	return s.sync
}

// TestInput returns the current test string.
func (s *Session) TestInput() string {
	return s.input
}

// SetTestInput replaces the test string. Any change drops the last result
// and clears the highlighting.
func (s *Session) SetTestInput(input string) {
	if input == s.input {
		return
	}
	s.input = input
	s.result = nil
	s.sync.Reset()
}

// RunTest simulates the current test string and highlights the path.
func (s *Session) RunTest() automaton.Result {
	res := s.a.TestRun(s.input)
	s.result = &res
	s.sync.Highlight(res)
	u.Debugf("session: test %q: %s [%s]", s.input, res.Message(), res.PathString())
	return res
}

// Result returns the last test result, or nil when none is current.
func (s *Session) Result() *automaton.Result {
	return s.result
}

// Clear empties the automaton and forgets the test string and result.
func (s *Session) Clear() {
	s.a.Clear()
	s.input = ""
	s.result = nil
}

// Save writes the automaton as an indented JSON document.
func (s *Session) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(machinefile.Export(s.a)); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// Load replaces the automaton with the document read from r. The test
// result is dropped; the test string is kept. On error nothing changes.
func (s *Session) Load(r io.Reader) error {
	var d machinefile.Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return fmt.Errorf("session: load: %w", err)
	}
	if err := machinefile.Load(s.a, &d); err != nil {
		return err
	}
	s.result = nil
	u.Infof("session: loaded %d states, %d transitions", s.a.Len(), len(s.a.Transitions()))
	return nil
}
