// Package theme maps terminal colors to concrete RGB values. A theme
// supplies the default foreground/background and the 16 base ANSI
// colors; indices 16-255 resolve through the fixed xterm 256-color
// table. Custom themes load from YAML files.
package theme

import (
	"image/color"

	"github.com/katharostech/cast2gif/types"
)

// RGB is a resolved 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Theme resolves terminal colors to pixels.
type Theme struct {
	// Name identifies the theme in logs.
	Name string
	// Foreground is the default text color.
	Foreground RGB
	// Background is the default background color.
	Background RGB
	// Palette holds the 16 base ANSI colors.
	Palette [16]RGB
}

// Default returns the built-in theme, the base16 default-dark palette.
func Default() *Theme {
	return &Theme{
		Name:       "base16-default-dark",
		Foreground: RGB{216, 216, 216},
		Background: RGB{24, 24, 24},
		Palette: [16]RGB{
			{24, 24, 24},
			{171, 70, 66},
			{161, 181, 108},
			{247, 202, 136},
			{124, 175, 194},
			{186, 139, 175},
			{134, 193, 185},
			{216, 216, 216},
			{88, 88, 88},
			{171, 70, 66},
			{161, 181, 108},
			{247, 202, 136},
			{124, 175, 194},
			{186, 139, 175},
			{134, 193, 185},
			{248, 248, 248},
		},
	}
}

// ResolveFG resolves a cell foreground color.
func (t *Theme) ResolveFG(c types.Color) RGB {
	return t.resolve(c, t.Foreground)
}

// ResolveBG resolves a cell background color.
func (t *Theme) ResolveBG(c types.Color) RGB {
	return t.resolve(c, t.Background)
}

func (t *Theme) resolve(c types.Color, def RGB) RGB {
	switch c.Mode {
	case types.ColorIndexed:
		if c.Index < 16 {
			return t.Palette[c.Index]
		}
		return xterm256(c.Index)
	case types.ColorRGB:
		return RGB{c.R, c.G, c.B}
	default:
		return def
	}
}

// GIFPalette returns the theme as a 256-entry GIF palette: background,
// foreground, the 16 base colors, the 216-color cube, and the grayscale
// ramp. The last two grayscale steps are dropped to make room for the
// default colors.
func (t *Theme) GIFPalette() color.Palette {
	pal := make(color.Palette, 0, 256)
	add := func(c RGB) {
		pal = append(pal, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	}
	add(t.Background)
	add(t.Foreground)
	for _, c := range t.Palette {
		add(c)
	}
	for i := 16; i < 254; i++ {
		add(xterm256(uint8(i)))
	}
	return pal
}

// cubeLevels are the channel intensities of the xterm 6x6x6 color cube.
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// xterm256 resolves palette indices 16-255: the 6x6x6 color cube
// followed by the 24-step grayscale ramp.
func xterm256(i uint8) RGB {
	if i < 16 {
		// Callers resolve 0-15 through the theme palette; this is the
		// standard fallback for completeness.
		i = 7
	}
	if i >= 232 {
		v := 8 + 10*(i-232)
		return RGB{v, v, v}
	}
	n := i - 16
	return RGB{
		R: cubeLevels[(n/36)%6],
		G: cubeLevels[(n/6)%6],
		B: cubeLevels[n%6],
	}
}
