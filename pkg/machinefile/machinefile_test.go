package machinefile

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
)

func sample(t *testing.T) *automaton.Automaton {
	t.Helper()
	a := automaton.New(automaton.WithIDSource(automaton.SequentialIDs("id")))
	q0, q1 := a.AddState(), a.AddState()
	require.NoError(t, a.SetType(automaton.TypeDFA))
	require.NoError(t, a.SetStartState(q0.ID))
	_, err := a.ToggleAccepting(q1.ID)
	require.NoError(t, err)
	_, err = a.ConfirmTransition(q0.ID, q1.ID, "a")
	require.NoError(t, err)
	_, err = a.ConfirmTransition(q0.ID, q1.ID, "b")
	require.NoError(t, err)
	_, err = a.ConfirmTransition(q1.ID, q1.ID, "a")
	require.NoError(t, err)
	return a
}

func TestExport(t *testing.T) {
	d := Export(sample(t))

	assert.Equal(t, "DFA", d.MachineType)
	require.NotNil(t, d.StartState)
	assert.Equal(t, "id1", *d.StartState)
	assert.Equal(t, []StateEntry{
		{Label: "q0", ID: "id1", X: 120, Y: 100},
		{Label: "q1", ID: "id2", X: 260, Y: 100, IsAccepting: true},
	}, d.States)
	assert.Equal(t, []TransitionEntry{
		{SourceID: "id1", TargetID: "id2", Label: "a", Source: "q0", Target: "q1"},
		{SourceID: "id1", TargetID: "id2", Label: "b", Source: "q0", Target: "q1"},
		{SourceID: "id2", TargetID: "id2", Label: "a", Source: "q1", Target: "q1"},
	}, d.Transitions)
}

func TestMarshalKeys(t *testing.T) {
	a := automaton.New()
	data, err := Marshal(a, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"machineType":"","startState":null,"states":[],"transitions":[]}`, string(data))

	data, err = Marshal(sample(t), true)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	states := raw["states"].([]any)
	assert.Contains(t, states[1].(map[string]any), "isAccepting")
	trans := raw["transitions"].([]any)
	for _, k := range []string{"sourceId", "targetId", "label", "source", "target"} {
		assert.Contains(t, trans[0].(map[string]any), k)
	}
}

func TestRoundTrip(t *testing.T) {
	a := sample(t)
	data, err := Marshal(a, true)
	require.NoError(t, err)

	d, err := Parse(data)
	require.NoError(t, err)
	b := automaton.New()
	require.NoError(t, Load(b, d))

	assert.Equal(t, a.Snapshot(), b.Snapshot())
	assert.True(t, b.TestRun("ba").Accepted)
	assert.Equal(t, "q2", b.NextLabel())
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	start := "nope"
	tests := []struct {
		name string
		doc  Document
	}{
		{"bad type", Document{MachineType: "PDA"}},
		{"missing id", Document{States: []StateEntry{{Label: "q0"}}}},
		{"duplicate id", Document{States: []StateEntry{{ID: "x", Label: "q0"}, {ID: "x", Label: "q1"}}}},
		{"dangling start", Document{States: []StateEntry{{ID: "x", Label: "q0"}}, StartState: &start}},
		{"dangling target", Document{
			States:      []StateEntry{{ID: "x", Label: "q0"}},
			Transitions: []TransitionEntry{{SourceID: "x", TargetID: "y", Label: "a"}},
		}},
		{"long label", Document{
			States:      []StateEntry{{ID: "x", Label: "q0"}},
			Transitions: []TransitionEntry{{SourceID: "x", TargetID: "x", Label: "ab"}},
		}},
		{"duplicate label", Document{States: []StateEntry{{ID: "x", Label: "q0"}, {ID: "y", Label: "q0"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := sample(t)
			before := a.Snapshot()
			err := Load(a, &tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument), "got %v", err)
			assert.Equal(t, before, a.Snapshot())
		})
	}
}

func TestParseError(t *testing.T) {
	_, err := Parse([]byte("{"))
	assert.Error(t, err)
}

func TestFiles(t *testing.T) {
	a := sample(t)
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, WriteFile(path, a))

	d, err := ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, Validate(d))
	assert.Len(t, d.Transitions, 3)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestGenerateDOT(t *testing.T) {
	a := sample(t)
	out := GenerateDOT(a, `my "dfa"`, nil)

	assert.True(t, strings.HasPrefix(out, "digraph DFA {"))
	assert.Contains(t, out, `label="my \"dfa\""`)
	assert.Contains(t, out, `__start -> "q0";`)
	assert.Contains(t, out, `"q1" [shape=doublecircle, fillcolor="#90ee90"];`)
	assert.Contains(t, out, `"q0" [shape=circle, fillcolor="#ffe4e1"];`)
	assert.Contains(t, out, `"q0" -> "q1" [label="a, b"];`)
	assert.Contains(t, out, `"q1" -> "q1" [label="a"];`)
}

func TestGenerateDOTHighlight(t *testing.T) {
	a := sample(t)
	res := a.TestRun("aa")
	out := GenerateDOT(a, "", &res)

	assert.Contains(t, out, `"q0" [shape=circle, fillcolor="#ffb6c1"];`)
	assert.Contains(t, out, `"q1" [shape=doublecircle, fillcolor="#ff69b4"];`)
	assert.Contains(t, out, `"q0" -> "q1" [label="a, b", color="#ff69b4", penwidth=3];`)
	assert.Contains(t, out, `"q1" -> "q1" [label="a", color="#ff69b4", penwidth=3];`)

	rej := a.TestRun("c")
	out = GenerateDOT(a, "", &rej)
	assert.Contains(t, out, `"q0" [shape=circle, fillcolor="#ff6347"];`)
	assert.NotContains(t, out, "penwidth")
}
