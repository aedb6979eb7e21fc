package pipeline

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/katharostech/cast2gif/log"
	"github.com/katharostech/cast2gif/progress"
	"github.com/katharostech/cast2gif/render"
	"github.com/katharostech/cast2gif/types"
)

// admissionFactor sizes the task-admission window relative to the worker
// count. Submission runs ahead of rendering by at most this multiple, so
// a slow backend applies backpressure to the sampler instead of queuing
// every snapshot of a long recording at once.
const admissionFactor = 4

// SnapshotSource is the sampler boundary: a lazy, finite, forward-only
// snapshot sequence. Next returns io.EOF at end of sequence.
type SnapshotSource interface {
	Next() (*types.TerminalSnapshot, error)
}

// result carries one worker outcome: a rendered frame, or the error that
// prevented it, tagged with the frame index either way.
type result struct {
	index uint64
	frame *types.RenderedImage
	err   error
}

// Config sizes the worker pool for one or more conversion jobs. The pool
// is caller-owned and explicitly constructed; there is no process-global
// pool state.
type Config struct {
	// Workers is the number of parallel rendering tasks.
	// Zero means runtime.NumCPU().
	Workers int
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// dispatcher pulls snapshots sequentially and fans each one out as an
// independent rendering task. Submission does not wait for completion;
// the admission window bounds how far it runs ahead.
type dispatcher struct {
	renderer render.Renderer
	workers  int
	progress *progress.Aggregator
	logger   *log.Logger
}

// run pulls from src until io.EOF, a source error, or cancellation, then
// waits for all submitted tasks before returning. It never closes out;
// the orchestrator does, after run returns.
func (d *dispatcher) run(ctx context.Context, src SnapshotSource, out chan<- result) error {
	sem := make(chan struct{}, d.workers*admissionFactor)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		snap, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		d.progress.IncTotal()

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}

		wg.Add(1)
		go func(snap *types.TerminalSnapshot) {
			defer wg.Done()
			defer func() { <-sem }()

			res := d.renderTask(snap)
			select {
			case out <- res:
				if res.err == nil {
					d.progress.IncRasterized()
				}
			case <-ctx.Done():
			}
		}(snap)
	}
}

// renderTask invokes the rendering backend with panic isolation: a
// crashing render surfaces as that index's error and must not corrupt
// other tasks or the pool.
func (d *dispatcher) renderTask(snap *types.TerminalSnapshot) (res result) {
	res.index = snap.Index
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("render worker panicked", map[string]any{
				"frame": snap.Index,
				"panic": fmt.Sprint(r),
			})
			res.frame = nil
			res.err = &RenderError{Index: snap.Index, Err: fmt.Errorf("worker panic: %v", r)}
		}
	}()

	frame, err := d.renderer.Render(snap)
	if err != nil {
		res.err = &RenderError{Index: snap.Index, Err: err}
		return res
	}
	res.frame = frame
	return res
}
