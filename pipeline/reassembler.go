package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/katharostech/cast2gif/log"
	"github.com/katharostech/cast2gif/types"
)

// skewWarnThreshold is the reorder-buffer depth above which pathological
// out-of-order skew is logged. The buffer itself stays correct at any
// depth; the warning flags the memory-growth risk.
const skewWarnThreshold = 256

// reassembler consumes rendered frames in arbitrary arrival order from
// the many-producer result channel and re-emits them one at a time in
// ascending index order starting at 0, buffering early arrivals until
// their predecessors appear. Driven by a single consumer goroutine.
type reassembler struct {
	in         <-chan result
	nextWanted uint64
	buffer     map[uint64]*types.RenderedImage
	highWater  int
	warned     bool
	logger     *log.Logger
}

func newReassembler(in <-chan result, logger *log.Logger) *reassembler {
	return &reassembler{
		in:     in,
		buffer: make(map[uint64]*types.RenderedImage),
		logger: logger,
	}
}

// next returns the frame with the next wanted index, blocking until it
// arrives. Returns io.EOF after the final frame of a complete sequence,
// a RenderError as soon as any index's failure arrives, an ErrInvariant
// wrapper on duplicate or missing indices, and ctx.Err() on cancellation
// so the consumer is never left blocked forever.
func (r *reassembler) next(ctx context.Context) (*types.RenderedImage, error) {
	if frame, ok := r.buffer[r.nextWanted]; ok {
		delete(r.buffer, r.nextWanted)
		r.nextWanted++
		return frame, nil
	}

	for {
		select {
		case res, ok := <-r.in:
			if !ok {
				if len(r.buffer) > 0 {
					return nil, fmt.Errorf("%w: stream ended waiting for frame %d with %d later frames buffered",
						ErrInvariant, r.nextWanted, len(r.buffer))
				}
				return nil, io.EOF
			}
			if res.err != nil {
				return nil, res.err
			}

			index := res.frame.Index
			if index < r.nextWanted {
				return nil, fmt.Errorf("%w: frame %d arrived after being emitted", ErrInvariant, index)
			}
			if index == r.nextWanted {
				r.nextWanted++
				return res.frame, nil
			}
			if _, dup := r.buffer[index]; dup {
				return nil, fmt.Errorf("%w: duplicate frame %d", ErrInvariant, index)
			}

			r.buffer[index] = res.frame
			if len(r.buffer) > r.highWater {
				r.highWater = len(r.buffer)
				if !r.warned && r.highWater > skewWarnThreshold {
					r.warned = true
					r.logger.Warn("reorder buffer growing, out-of-order skew is unusually high", map[string]any{
						"buffered":    r.highWater,
						"next_wanted": r.nextWanted,
					})
				}
			}

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
