package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/katharostech/cast2gif/encode"
	"github.com/katharostech/cast2gif/log"
	"github.com/katharostech/cast2gif/progress"
	"github.com/katharostech/cast2gif/render"
)

// Pipeline owns the worker pool configuration for conversion jobs. One
// Pipeline can run any number of jobs, sequentially or not; each Run call
// is independent.
type Pipeline struct {
	config   Config
	logger   *log.Logger
	progress *progress.Aggregator
}

// New creates a pipeline. logger must be non-nil; prog may be nil to run
// without progress reporting.
func New(config Config, logger *log.Logger, prog *progress.Aggregator) *Pipeline {
	return &Pipeline{
		config:   config,
		logger:   logger,
		progress: prog,
	}
}

// Run converts one snapshot sequence: fan out to the rendering backend,
// reassemble into ascending index order, and feed the sink sequentially.
// For a source that samples N snapshots, the sink receives exactly N
// frames with indices 0..N-1, each exactly once, in order.
//
// Cancellation propagates into the worker pool: submission stops, workers
// unblock, and the sequencer is never left waiting forever. All fatal
// errors are returned typed; there is no partial-success mode.
func (p *Pipeline) Run(ctx context.Context, src SnapshotSource, renderer render.Renderer, sink encode.Sink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := p.config.workers()
	d := &dispatcher{
		renderer: renderer,
		workers:  workers,
		progress: p.progress,
		logger:   p.logger,
	}

	results := make(chan result, workers)
	dispatchDone := make(chan error, 1)
	go func() {
		err := d.run(ctx, src, results)
		close(results)
		dispatchDone <- err
	}()

	seq := newReassembler(results, p.logger)
	var seqErr error
	for {
		frame, err := seq.next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			seqErr = err
			break
		}
		if err := sink.Append(frame); err != nil {
			seqErr = fmt.Errorf("encoding frame %d: %w", frame.Index, err)
			break
		}
		p.progress.IncSequenced()
	}

	// Unblock any workers still sending, then wait for the dispatcher.
	if seqErr != nil {
		cancel()
	}
	dispatchErr := <-dispatchDone

	// A real source error outranks the sequencer's view of the truncated
	// stream; a cancellation we induced ourselves does not.
	if dispatchErr != nil && !errors.Is(dispatchErr, context.Canceled) {
		return dispatchErr
	}
	if seqErr != nil {
		return seqErr
	}
	return dispatchErr
}
