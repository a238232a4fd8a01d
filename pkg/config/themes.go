package config

import "sort"

var themes = map[string]map[string]string{
	"default": {},
	"contrast": {
		"plain":     "#ffffff",
		"accepting": "#00c000",
		"start":     "#ffd700",
		"on_path":   "#00bfff",
		"final":     "#0000ff",
		"failure":   "#ff0000",
		"path_edge": "#0000ff",
	},
	"mono": {
		"plain":     "#ffffff",
		"accepting": "#d0d0d0",
		"start":     "#e8e8e8",
		"on_path":   "#a0a0a0",
		"final":     "#606060",
		"failure":   "#303030",
		"path_edge": "#606060",
	},
}

// ListThemes returns the built-in theme names.
func ListThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
