package theme

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// themeFile is the YAML representation of a custom theme.
type themeFile struct {
	Name       string   `yaml:"name"`
	Foreground string   `yaml:"foreground"`
	Background string   `yaml:"background"`
	Palette    []string `yaml:"palette"`
}

// Load reads a custom theme from a YAML file. The file must carry
// foreground, background, and exactly 16 palette entries, all as
// "#rrggbb" hex colors.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing theme file %s: %w", path, err)
	}
	return tf.build(path)
}

func (tf *themeFile) build(path string) (*Theme, error) {
	if len(tf.Palette) != 16 {
		return nil, fmt.Errorf("theme %s: palette has %d entries, want 16", path, len(tf.Palette))
	}

	t := &Theme{Name: tf.Name}
	if t.Name == "" {
		t.Name = path
	}

	var err error
	if t.Foreground, err = parseHexColor(tf.Foreground); err != nil {
		return nil, fmt.Errorf("theme %s: foreground: %w", path, err)
	}
	if t.Background, err = parseHexColor(tf.Background); err != nil {
		return nil, fmt.Errorf("theme %s: background: %w", path, err)
	}
	for i, entry := range tf.Palette {
		if t.Palette[i], err = parseHexColor(entry); err != nil {
			return nil, fmt.Errorf("theme %s: palette[%d]: %w", path, i, err)
		}
	}
	return t, nil
}

// parseHexColor parses a "#rrggbb" color string.
func parseHexColor(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, fmt.Errorf("invalid color %q, want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}
