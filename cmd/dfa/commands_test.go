package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/machinefile"
)

// writeMachine saves the two-state machine accepting a(b)* and returns its
// path.
func writeMachine(t *testing.T) string {
	t.Helper()
	a := automaton.New()
	q0, q1 := a.AddState(), a.AddState()
	require.NoError(t, a.SetStartState(q0.ID))
	_, err := a.ToggleAccepting(q1.ID)
	require.NoError(t, err)
	_, err = a.ConfirmTransition(q0.ID, q1.ID, "a")
	require.NoError(t, err)
	_, err = a.ConfirmTransition(q1.ID, q1.ID, "b")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "machine.json")
	require.NoError(t, machinefile.WriteFile(path, a))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cmd.SetArgs(append(args, "--config", cfgPath))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	path := writeMachine(t)

	out, err := execute(t, "run", path, "abb")
	require.NoError(t, err)
	assert.Contains(t, out, "Accepted")
	assert.Contains(t, out, "q0 → q1 → q1 → q1")

	out, err = execute(t, "run", path, "ba")
	require.NoError(t, err)
	assert.Contains(t, out, "No transition found from state q0 with symbol b")

	out, err = execute(t, "run", path, "ab", "--plot")
	require.NoError(t, err)
	assert.Contains(t, out, "state per step (0=q0, 1=q1)")
}

func TestRunCommandMissingFile(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "nope.json"), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading")
}

func TestInfoCommand(t *testing.T) {
	out, err := execute(t, "info", writeMachine(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Type:        unset")
	assert.Contains(t, out, "States:      2")
	assert.Contains(t, out, "Initial:     q0")
	assert.Contains(t, out, "Accepting:   [q1]")
	assert.Contains(t, out, "Alphabet:    [a b]")
	assert.Contains(t, out, "incomplete")
}

func TestValidateCommand(t *testing.T) {
	path := writeMachine(t)
	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid unset with 2 states, 2 transitions")

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, machinefile.WriteFile(empty, automaton.New()))
	_, err = execute(t, "validate", empty)
	require.ErrorIs(t, err, automaton.ErrNoStates)
}

func TestDotCommand(t *testing.T) {
	path := writeMachine(t)
	out, err := execute(t, "dot", path, "--input", "ab")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph DFA {"))
	assert.Contains(t, out, `label="machine"`)
	assert.Contains(t, out, "penwidth=3")

	dst := filepath.Join(t.TempDir(), "m.dot")
	_, err = execute(t, "dot", path, "-o", dst, "--title", "demo")
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), `label="demo"`)
	assert.NotContains(t, string(data), "penwidth=3")
}

func TestRenderCommand(t *testing.T) {
	path := writeMachine(t)
	dir := t.TempDir()

	png := filepath.Join(dir, "m.png")
	out, err := execute(t, "render", path, "-o", png, "--input", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "Accepted")
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	svg := filepath.Join(dir, "m.svg")
	_, err = execute(t, "render", path, "-o", svg)
	require.NoError(t, err)
	data, err = os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	_, err = execute(t, "render", path, "-o", filepath.Join(dir, "m.gif"))
	require.Error(t, err)
}

func TestGenCommand(t *testing.T) {
	out, err := execute(t, "gen", writeMachine(t), "--package", "abstar", "--name", "ab star")
	require.NoError(t, err)
	assert.Contains(t, out, "package abstar")
	assert.Contains(t, out, "type AbStar struct")
}
