package session

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/canvas"
	"github.com/ha1tch/dfa-toolkit/pkg/visual"
)

func newSession(t *testing.T) (*Session, *canvas.Scene) {
	t.Helper()
	sc := canvas.NewScene(visual.DefaultPalette())
	s := New(sc, WithAutomatonOptions(automaton.WithIDSource(automaton.SequentialIDs("s"))))

	a := s.Automaton()
	q0, q1 := a.AddState(), a.AddState()
	require.NoError(t, a.SetStartState(q0.ID))
	_, err := a.ToggleAccepting(q1.ID)
	require.NoError(t, err)
	_, err = a.ConfirmTransition(q0.ID, q1.ID, "a")
	require.NoError(t, err)
	return s, sc
}

func TestRunTestHighlights(t *testing.T) {
	s, sc := newSession(t)
	p := visual.DefaultPalette()

	s.SetTestInput("a")
	res := s.RunTest()
	assert.True(t, res.Accepted)
	require.NotNil(t, s.Result())
	assert.Equal(t, []string{"q0", "q1"}, s.Result().Path)
	assert.Equal(t, p.Final, sc.Nodes()[1].Fill)
	assert.Equal(t, p.PathEdge, sc.Edges()[0].Stroke)
}

func TestChangingInputResets(t *testing.T) {
	s, sc := newSession(t)
	p := visual.DefaultPalette()

	s.SetTestInput("a")
	s.RunTest()

	// Same input keeps the result.
	s.SetTestInput("a")
	assert.NotNil(t, s.Result())

	s.SetTestInput("ab")
	assert.Nil(t, s.Result())
	assert.Equal(t, p.Start, sc.Nodes()[0].Fill)
	assert.Equal(t, p.Accepting, sc.Nodes()[1].Fill)
	assert.Equal(t, p.Edge, sc.Edges()[0].Stroke)

	res := s.RunTest()
	assert.False(t, res.Accepted)
	assert.Equal(t, automaton.ReasonNoTransition, res.Reason)
	assert.Equal(t, p.Failure, sc.Nodes()[1].Fill)
}

func TestClear(t *testing.T) {
	s, sc := newSession(t)
	s.SetTestInput("a")
	s.RunTest()

	s.Clear()
	assert.Empty(t, s.TestInput())
	assert.Nil(t, s.Result())
	assert.Zero(t, s.Automaton().Len())
	assert.Equal(t, automaton.TypeUnset, s.Automaton().Type())
	assert.Empty(t, sc.Nodes())
	assert.Equal(t, "q0", s.Automaton().AddState().Label)
}

func TestSaveLoad(t *testing.T) {
	s, _ := newSession(t)
	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	assert.Contains(t, buf.String(), `"machineType": ""`)

	other, sc := newSession(t)
	other.Automaton().Clear()
	other.SetTestInput("a")
	require.NoError(t, other.Load(&buf))

	assert.Len(t, sc.Nodes(), 2)
	assert.Len(t, sc.Edges(), 1)
	assert.Equal(t, "a", other.TestInput())
	assert.True(t, other.RunTest().Accepted)
}

func TestLoadFailureKeepsModel(t *testing.T) {
	s, sc := newSession(t)
	err := s.Load(strings.NewReader(`{"machineType":"DFA","states":[{"id":"x","label":"q0"}],"transitions":[{"sourceId":"x","targetId":"y","label":"a"}]}`))
	assert.Error(t, err)
	assert.Equal(t, 2, s.Automaton().Len())
	assert.Len(t, sc.Nodes(), 2)

	assert.Error(t, s.Load(strings.NewReader("not json")))
}
