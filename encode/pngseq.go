package encode

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/katharostech/cast2gif/types"
)

// PNGDirSink writes each frame as an individual PNG file named
// frame-%05d.png inside a directory, for piping into external encoders.
type PNGDirSink struct {
	dir string
}

// NewPNGDirSink creates the directory if needed and returns the sink.
func NewPNGDirSink(dir string) (*PNGDirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating frame directory: %w", err)
	}
	return &PNGDirSink{dir: dir}, nil
}

// Append writes one frame to its own file.
func (s *PNGDirSink) Append(frame *types.RenderedImage) error {
	path := filepath.Join(s.dir, fmt.Sprintf("frame-%05d.png", frame.Index))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, frame.Image); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// Close is a no-op; frames are flushed as they are appended.
func (s *PNGDirSink) Close() error { return nil }
