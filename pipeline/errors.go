// Package pipeline turns a snapshot sequence into an ordered stream of
// rendered frames: a dispatcher fans snapshots out to a bounded worker
// pool, and a sequencer reassembles the out-of-order results into a
// strictly ascending, gapless index stream for the encoder.
package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvariant indicates a pipeline bug (duplicate or missing frame
// index), not a recoverable condition. Wrapped errors carry detail.
var ErrInvariant = errors.New("frame sequence invariant violated")

// RenderError reports the failure of one rendering task. The failing
// frame's index is preserved so callers can observe which frame broke
// instead of the whole process terminating opaquely. A failed index is
// never silently dropped: the conversion fails, because skipping would
// leave a gap in the output sequence.
type RenderError struct {
	// Index is the snapshot index whose render failed.
	Index uint64
	// Err is the backend failure.
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering frame %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *RenderError) Unwrap() error {
	return e.Err
}
