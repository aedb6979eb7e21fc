// Package term wraps the vt10x terminal emulator behind the pipeline's
// emulator boundary. The emulator owns the live, mutating grid; Snapshot
// produces deep copies that are safe to share across rendering workers.
package term

import (
	"github.com/hinshun/vt10x"

	"github.com/katharostech/cast2gif/types"
)

// Glyph attribute bits as encoded in vt10x's Glyph.Mode.
const (
	glyphAttrReverse = 1 << 0
	glyphAttrBold    = 1 << 2
)

// VT is a terminal emulator for one conversion job. It is not safe for
// concurrent use; the sampler drives it from a single goroutine.
type VT struct {
	t vt10x.Terminal
}

// New creates an emulator with the given grid dimensions.
func New(cols, rows int) *VT {
	return &VT{t: vt10x.New(vt10x.WithSize(cols, rows))}
}

// Feed processes raw terminal output bytes, advancing the grid state.
func (v *VT) Feed(p []byte) error {
	_, err := v.t.Write(p)
	return err
}

// Snapshot returns an owned copy of the current screen. The copy shares
// nothing with the emulator, so it stays valid while the emulator keeps
// consuming output.
func (v *VT) Snapshot() *types.Screen {
	v.t.Lock()
	defer v.t.Unlock()

	cols, rows := v.t.Size()
	screen := &types.Screen{
		Cols:          cols,
		Rows:          rows,
		Cells:         make([]types.Cell, cols*rows),
		CursorVisible: v.t.CursorVisible(),
	}

	cursor := v.t.Cursor()
	screen.CursorX = cursor.X
	screen.CursorY = cursor.Y

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			g := v.t.Cell(x, y)
			screen.Cells[y*cols+x] = types.Cell{
				Ch:      g.Char,
				FG:      convertColor(g.FG, vt10x.DefaultFG),
				BG:      convertColor(g.BG, vt10x.DefaultBG),
				Bold:    g.Mode&glyphAttrBold != 0,
				Inverse: g.Mode&glyphAttrReverse != 0,
			}
		}
	}
	return screen
}

// convertColor maps a vt10x color to the pipeline's palette model.
// Values above the 256-color range that are not the known default
// sentinel are treated as default; the output palette is a fixed
// 16/256-color approximation.
func convertColor(c, def vt10x.Color) types.Color {
	switch {
	case c == def:
		return types.DefaultColor()
	case c <= 255:
		return types.IndexedColor(uint8(c))
	default:
		return types.DefaultColor()
	}
}
