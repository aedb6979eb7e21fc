// Package encode writes the ordered frame stream to its final form.
// Sinks are strictly sequential consumers: frames must arrive in
// ascending index order with valid timestamps, which is exactly what the
// pipeline's sequencer guarantees.
package encode

import "github.com/katharostech/cast2gif/types"

// Sink consumes the ordered rendered-frame stream and produces the
// output artifact.
//
// Implementations may buffer; Close finalizes the artifact and must be
// called exactly once after the last Append.
type Sink interface {
	// Append consumes the next frame. Frames arrive in ascending index
	// order; the first frame establishes the pixel dimensions for all
	// subsequent frames.
	Append(frame *types.RenderedImage) error

	// Close finalizes and flushes the artifact.
	Close() error
}
