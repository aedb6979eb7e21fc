package types

import "image"

// TerminalSnapshot is an indexed, timestamped copy of the terminal screen
// at one sampling instant. Index is dense, zero-based, and strictly
// increasing in emission order. Created by the sampler, consumed read-only
// by exactly one rendering worker, then discarded.
type TerminalSnapshot struct {
	// Index is the sequence number assigned at emission.
	Index uint64
	// Time is the snapshot timestamp in seconds since recording start.
	Time float64
	// Screen is the owned screen state. Shared between filler snapshots,
	// never mutated.
	Screen *Screen
}

// RenderedImage is the rasterized form of one snapshot. Index and Time
// carry over unchanged from the originating snapshot; Index is the
// correlation key the sequencer reorders on.
type RenderedImage struct {
	Index uint64
	Time  float64
	// Image is the rendered RGBA pixel buffer.
	Image *image.RGBA
}
