// Package codegen turns a drawn DFA into source code for a standalone
// recognizer.
package codegen

import (
	"errors"
	"fmt"
	"go/format"
	"strings"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
)

// ErrNotDeterministic is returned for machines typed NFA.
var ErrNotDeterministic = errors.New("codegen: only DFAs can be generated")

// GenerateGo generates a dependency-free Go recognizer for a. The machine
// must pass Validate and must not be typed NFA. The recognizer follows the
// same rules as TestRun: one rune at a time, stopping at the first rune
// with no transition.
func GenerateGo(a *automaton.Automaton, packageName, typeName string) (string, error) {
	if a.Type() == automaton.TypeNFA {
		return "", ErrNotDeterministic
	}
	if err := a.Validate(); err != nil {
		return "", fmt.Errorf("codegen: %w", err)
	}
	if packageName == "" {
		packageName = "dfa"
	}
	typeName = toPascalCase(sanitizeName(typeName))
	if typeName == "Unnamed" {
		typeName = "DFA"
	}

	states := a.States()
	consts := stateConstNames(typeName, states)
	start, _ := a.StartState()
	lower := strings.ToLower(typeName[:1]) + typeName[1:]

	var sb strings.Builder
	fmt.Fprintf(&sb, `// Code generated by dfa gen. DO NOT EDIT.
// States: %d, alphabet: %s

package %s

`, len(states), strings.Join(a.Alphabet(), " "), packageName)

	fmt.Fprintf(&sb, "// %sState identifies a state of %s.\n", typeName, typeName)
	fmt.Fprintf(&sb, "type %sState uint16\n\n", typeName)

	sb.WriteString("const (\n")
	for i, s := range states {
		if i == 0 {
			fmt.Fprintf(&sb, "\t%s %sState = iota\n", consts[s.ID], typeName)
		} else {
			fmt.Fprintf(&sb, "\t%s\n", consts[s.ID])
		}
	}
	sb.WriteString(")\n\n")

	fmt.Fprintf(&sb, "var %sStateNames = [...]string{\n", lower)
	for _, s := range states {
		fmt.Fprintf(&sb, "\t%q,\n", s.Label)
	}
	sb.WriteString("}\n\n")

	fmt.Fprintf(&sb, "func (s %sState) String() string {\n", typeName)
	fmt.Fprintf(&sb, "\tif int(s) < len(%sStateNames) {\n", lower)
	fmt.Fprintf(&sb, "\t\treturn %sStateNames[s]\n", lower)
	sb.WriteString("\t}\n\treturn \"unknown\"\n}\n\n")

	fmt.Fprintf(&sb, "// %s recognises strings one rune at a time.\n", typeName)
	fmt.Fprintf(&sb, "type %s struct {\n\tstate %sState\n}\n\n", typeName, typeName)

	fmt.Fprintf(&sb, "// New%s returns a recognizer in the start state.\n", typeName)
	fmt.Fprintf(&sb, "func New%s() *%s {\n\treturn &%s{state: %s}\n}\n\n", typeName, typeName, typeName, consts[start.ID])

	fmt.Fprintf(&sb, "// State returns the current state.\nfunc (m *%s) State() %sState {\n\treturn m.state\n}\n\n", typeName, typeName)

	fmt.Fprintf(&sb, "// Reset returns to the start state.\nfunc (m *%s) Reset() {\n\tm.state = %s\n}\n\n", typeName, consts[start.ID])

	sb.WriteString("// Step follows the transition for r. It returns false, and stays put,\n")
	sb.WriteString("// when the current state has none.\n")
	fmt.Fprintf(&sb, "func (m *%s) Step(r rune) bool {\n", typeName)
	sb.WriteString("\tswitch m.state {\n")
	for _, s := range states {
		cases := stepCases(a, s.ID, consts)
		if len(cases) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\tcase %s:\n\t\tswitch r {\n", consts[s.ID])
		for _, c := range cases {
			sb.WriteString(c)
		}
		sb.WriteString("\t\t}\n")
	}
	sb.WriteString("\t}\n\treturn false\n}\n\n")

	sb.WriteString("// IsAccepting reports whether the current state is accepting.\n")
	fmt.Fprintf(&sb, "func (m *%s) IsAccepting() bool {\n", typeName)
	if acc := a.Accepting(); len(acc) > 0 {
		names := make([]string, len(acc))
		for i, id := range acc {
			names[i] = consts[id]
		}
		fmt.Fprintf(&sb, "\tswitch m.state {\n\tcase %s:\n\t\treturn true\n\t}\n", strings.Join(names, ", "))
	}
	sb.WriteString("\treturn false\n}\n\n")

	sb.WriteString("// Accepts runs input from the start state and reports whether it ends in\n")
	sb.WriteString("// an accepting state.\n")
	fmt.Fprintf(&sb, "func (m *%s) Accepts(input string) bool {\n", typeName)
	sb.WriteString("\tm.Reset()\n\tfor _, r := range input {\n\t\tif !m.Step(r) {\n\t\t\treturn false\n\t\t}\n\t}\n")
	sb.WriteString("\treturn m.IsAccepting()\n}\n")

	out, err := format.Source([]byte(sb.String()))
	if err != nil {
		return "", fmt.Errorf("codegen: format: %w", err)
	}
	return string(out), nil
}

// stepCases returns one case clause per symbol leaving id, in the order
// the transitions were created. A symbol already handled is skipped.
func stepCases(a *automaton.Automaton, id automaton.StateID, consts map[automaton.StateID]string) []string {
	var cases []string
	seen := make(map[string]bool)
	for _, t := range a.Transitions() {
		if t.Source != id {
			continue
		}
		var syms []string
		for _, sym := range t.Symbols {
			if seen[sym] {
				continue
			}
			seen[sym] = true
			syms = append(syms, fmt.Sprintf("%q", []rune(sym)[0]))
		}
		if len(syms) == 0 {
			continue
		}
		cases = append(cases, fmt.Sprintf("\t\tcase %s:\n\t\t\tm.state = %s\n\t\t\treturn true\n",
			strings.Join(syms, ", "), consts[t.Target]))
	}
	return cases
}
