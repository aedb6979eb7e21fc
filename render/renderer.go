// Package render rasterizes terminal screen snapshots into RGBA images.
// The pipeline imposes nothing on how a backend rasterizes; font, color
// resolution, and cell sizing are backend concerns.
package render

import "github.com/katharostech/cast2gif/types"

// Renderer turns one snapshot into one rendered frame. Implementations
// must be safe for concurrent use: the dispatcher invokes Render from
// many workers at once.
type Renderer interface {
	Render(snap *types.TerminalSnapshot) (*types.RenderedImage, error)
}
