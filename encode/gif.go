package encode

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/katharostech/cast2gif/types"
)

// GIFSink encodes the frame stream as an animated GIF with infinite
// looping. Frames quantize to a fixed 256-color palette; per-frame
// delays derive from the timestamp deltas between consecutive frames,
// in the GIF's native hundredths of a second.
//
// The GIF container is written whole, so frames accumulate until Close.
type GIFSink struct {
	w       io.Writer
	palette color.Palette

	width  int
	height int

	images   []*image.Paletted
	delays   []int
	lastTime float64
	closed   bool
}

// NewGIFSink creates a sink writing the finished GIF to w on Close.
func NewGIFSink(w io.Writer, palette color.Palette) *GIFSink {
	return &GIFSink{w: w, palette: palette}
}

// Append quantizes one frame onto the palette and records its delay.
func (s *GIFSink) Append(frame *types.RenderedImage) error {
	bounds := frame.Image.Bounds()
	if s.images == nil {
		s.width = bounds.Dx()
		s.height = bounds.Dy()
	} else if bounds.Dx() != s.width || bounds.Dy() != s.height {
		return fmt.Errorf("frame %d is %dx%d, want %dx%d set by the first frame",
			frame.Index, bounds.Dx(), bounds.Dy(), s.width, s.height)
	}

	paletted := image.NewPaletted(bounds, s.palette)
	draw.Draw(paletted, bounds, frame.Image, bounds.Min, draw.Src)

	delay := int(math.Round((frame.Time - s.lastTime) * 100))
	if delay < 0 {
		delay = 0
	}
	s.lastTime = frame.Time

	s.images = append(s.images, paletted)
	s.delays = append(s.delays, delay)
	return nil
}

// Close encodes and writes the GIF. Closing a sink that received no
// frames is an error: a conversion with zero frames has no usable output.
func (s *GIFSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if len(s.images) == 0 {
		return errors.New("no frames to encode")
	}
	return gif.EncodeAll(s.w, &gif.GIF{
		Image:     s.images,
		Delay:     s.delays,
		LoopCount: 0,
	})
}
