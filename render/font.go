package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/katharostech/cast2gif/theme"
	"github.com/katharostech/cast2gif/types"
)

// DefaultFontSize is the glyph size in points used when none is configured.
const DefaultFontSize = 13

// facePair holds the regular and bold faces for one worker. font.Face is
// not safe for concurrent use, so faces are pooled rather than shared.
type facePair struct {
	regular font.Face
	bold    font.Face
}

// FontRenderer rasterizes screens as a monospace cell grid using the Go
// Mono face. Cell dimensions derive from the face metrics; the terminal
// grid size therefore fixes the pixel dimensions of every frame.
type FontRenderer struct {
	theme    *theme.Theme
	fontSize float64

	cellW  int
	cellH  int
	ascent int

	faces sync.Pool
}

// NewFontRenderer builds a renderer for the given theme and font size in
// points. Pass 0 for the default size.
func NewFontRenderer(th *theme.Theme, fontSize float64) (*FontRenderer, error) {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}

	r := &FontRenderer{theme: th, fontSize: fontSize}
	r.faces.New = func() any {
		pair, err := r.newFaces()
		if err != nil {
			return nil
		}
		return pair
	}

	// Probe faces once for cell metrics.
	pair, err := r.newFaces()
	if err != nil {
		return nil, err
	}
	advance, ok := pair.regular.GlyphAdvance('M')
	if !ok {
		return nil, fmt.Errorf("font has no glyph for 'M'")
	}
	metrics := pair.regular.Metrics()
	r.cellW = advance.Ceil()
	r.cellH = metrics.Height.Ceil()
	r.ascent = metrics.Ascent.Ceil()
	r.faces.Put(pair)

	return r, nil
}

func (r *FontRenderer) newFaces() (*facePair, error) {
	opts := &opentype.FaceOptions{
		Size:    r.fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}

	regularFont, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing regular font: %w", err)
	}
	regular, err := opentype.NewFace(regularFont, opts)
	if err != nil {
		return nil, fmt.Errorf("building regular face: %w", err)
	}

	boldFont, err := opentype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold font: %w", err)
	}
	bold, err := opentype.NewFace(boldFont, opts)
	if err != nil {
		return nil, fmt.Errorf("building bold face: %w", err)
	}

	return &facePair{regular: regular, bold: bold}, nil
}

// CellSize returns the pixel dimensions of one character cell.
func (r *FontRenderer) CellSize() (w, h int) { return r.cellW, r.cellH }

// Render rasterizes one snapshot. Safe for concurrent use.
func (r *FontRenderer) Render(snap *types.TerminalSnapshot) (*types.RenderedImage, error) {
	screen := snap.Screen
	width := screen.Cols * r.cellW
	height := screen.Rows * r.cellH
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("cannot render empty %dx%d screen", screen.Cols, screen.Rows)
	}

	pairAny := r.faces.Get()
	if pairAny == nil {
		return nil, fmt.Errorf("building font faces failed")
	}
	pair := pairAny.(*facePair)
	defer r.faces.Put(pair)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(rgba(r.theme.Background)), image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: img}
	for y := 0; y < screen.Rows; y++ {
		for x := 0; x < screen.Cols; x++ {
			cell := screen.Cell(x, y)

			fg := r.theme.ResolveFG(cell.FG)
			bg := r.theme.ResolveBG(cell.BG)
			if cell.Inverse {
				fg, bg = bg, fg
			}
			if screen.CursorVisible && x == screen.CursorX && y == screen.CursorY {
				fg, bg = bg, fg
			}

			if bg != r.theme.Background {
				cellRect := image.Rect(x*r.cellW, y*r.cellH, (x+1)*r.cellW, (y+1)*r.cellH)
				draw.Draw(img, cellRect, image.NewUniform(rgba(bg)), image.Point{}, draw.Src)
			}

			if cell.Ch <= ' ' {
				continue
			}
			drawer.Face = pair.regular
			if cell.Bold {
				drawer.Face = pair.bold
			}
			drawer.Src = image.NewUniform(rgba(fg))
			drawer.Dot = fixed.P(x*r.cellW, y*r.cellH+r.ascent)
			drawer.DrawString(string(cell.Ch))
		}
	}

	return &types.RenderedImage{Index: snap.Index, Time: snap.Time, Image: img}, nil
}

func rgba(c theme.RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
