package codegen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
)

func sanitizeName(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) || r == '_' {
			result.WriteRune(r)
		} else if r == ' ' || r == '-' {
			result.WriteRune('_')
		}
	}
	if result.Len() == 0 {
		return "unnamed"
	}
	return result.String()
}

func toPascalCase(s string) string {
	var result strings.Builder
	for _, word := range splitWords(s) {
		r := []rune(word)
		result.WriteString(strings.ToUpper(string(r[0])))
		result.WriteString(string(r[1:]))
	}
	if result.Len() == 0 {
		return "Unknown"
	}
	return result.String()
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// stateConstNames derives a constant name per state from its label. Labels
// that collapse to the same name get the state's position appended.
func stateConstNames(typeName string, states []automaton.State) map[automaton.StateID]string {
	names := make(map[automaton.StateID]string, len(states))
	used := make(map[string]bool, len(states))
	for i, s := range states {
		name := typeName + "State" + toPascalCase(s.Label)
		if used[name] {
			name = fmt.Sprintf("%s%d", name, i)
		}
		used[name] = true
		names[s.ID] = name
	}
	return names
}
