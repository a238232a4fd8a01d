// Package config holds the settings shared by the dfa and dfaedit commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/dfa-toolkit/pkg/visual"
)

const (
	DefaultLogLevel     = "warn"
	DefaultRenderFormat = "png"
	DefaultRenderWidth  = 800
	DefaultRenderHeight = 600
	DefaultGridX        = 10
	DefaultGridY        = 20

	// EnvPath overrides the config file location.
	EnvPath = "DFA_CONFIG"
)

type Config struct {
	LogLevel string            `yaml:"log_level"`
	Render   RenderConfig      `yaml:"render"`
	Theme    string            `yaml:"theme"`
	Palette  map[string]string `yaml:"palette,omitempty"`
	LastDir  string            `yaml:"last_dir,omitempty"`
	Editor   EditorConfig      `yaml:"editor"`
}

type RenderConfig struct {
	Format string `yaml:"format"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// EditorConfig sets how many scene units one terminal cell covers.
type EditorConfig struct {
	GridX int `yaml:"grid_x"`
	GridY int `yaml:"grid_y"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Render: RenderConfig{
			Format: DefaultRenderFormat,
			Width:  DefaultRenderWidth,
			Height: DefaultRenderHeight,
		},
		Theme: "default",
		Editor: EditorConfig{
			GridX: DefaultGridX,
			GridY: DefaultGridY,
		},
	}
}

// Path returns the config file location: $DFA_CONFIG when set, otherwise
// dfa-toolkit/config.yaml under the user config directory.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dfa-toolkit", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// VisualPalette builds the palette: the theme first, then the individual
// colour overrides.
func (c *Config) VisualPalette() (visual.Palette, error) {
	theme := c.Theme
	if theme == "" {
		theme = "default"
	}
	base, ok := themes[theme]
	if !ok {
		return visual.Palette{}, fmt.Errorf("config: unknown theme %q", theme)
	}
	p, err := visual.DefaultPalette().WithOverrides(base)
	if err != nil {
		return visual.Palette{}, err
	}
	return p.WithOverrides(c.Palette)
}

// RenderSize returns the configured output size, falling back to the
// defaults for non-positive values.
func (c *Config) RenderSize() (int, int) {
	w, h := c.Render.Width, c.Render.Height
	if w <= 0 {
		w = DefaultRenderWidth
	}
	if h <= 0 {
		h = DefaultRenderHeight
	}
	return w, h
}
