package types

// ColorMode discriminates how a cell color is specified.
type ColorMode uint8

// Color modes.
const (
	// ColorDefault is the terminal's default foreground or background.
	ColorDefault ColorMode = iota
	// ColorIndexed is one of the 256 ANSI palette entries.
	ColorIndexed
	// ColorRGB is a direct 24-bit color.
	ColorRGB
)

// Color is a terminal color: the default color, an ANSI palette index,
// or a direct RGB value. The zero value is the default color.
type Color struct {
	Mode  ColorMode
	Index uint8
	R     uint8
	G     uint8
	B     uint8
}

// DefaultColor returns the terminal default color.
func DefaultColor() Color { return Color{Mode: ColorDefault} }

// IndexedColor returns an ANSI 256-palette color.
func IndexedColor(i uint8) Color { return Color{Mode: ColorIndexed, Index: i} }

// RGBColor returns a direct 24-bit color.
func RGBColor(r, g, b uint8) Color { return Color{Mode: ColorRGB, R: r, G: g, B: b} }

// Cell is one character cell of a terminal screen.
type Cell struct {
	// Ch is the cell contents. Zero means the cell is empty.
	Ch rune
	// FG is the foreground color.
	FG Color
	// BG is the background color.
	BG Color
	// Bold reports whether the cell is rendered with the bold attribute.
	Bold bool
	// Inverse reports whether foreground and background are swapped.
	Inverse bool
}

// Screen is an owned, immutable copy of the terminal grid at one instant.
// It does not alias emulator state: the emulator keeps mutating after a
// Screen is taken, so every Screen carries its own cell buffer. Screens
// must never be modified after creation; filler snapshots share the same
// Screen value and rely on that.
type Screen struct {
	// Cols and Rows are the grid dimensions.
	Cols int
	Rows int
	// Cells holds the grid in row-major order, len == Cols*Rows.
	Cells []Cell
	// CursorX and CursorY are the cursor position in cells.
	CursorX int
	CursorY int
	// CursorVisible reports whether the cursor should be drawn.
	CursorVisible bool
}

// Cell returns the cell at column x, row y. Out-of-range coordinates
// return an empty cell.
func (s *Screen) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= s.Cols || y >= s.Rows {
		return Cell{}
	}
	return s.Cells[y*s.Cols+x]
}
