// Package progress serializes progress events from all pipeline stages
// into one owned set of counters. Stages only ever send events; a single
// consumer goroutine applies them, which is what keeps the counters
// consistent without locking them across stages.
package progress

import "sync"

// Counters is a point-in-time view of conversion progress. Values are
// monotonically non-decreasing for the lifetime of one conversion job.
type Counters struct {
	// Total is the number of snapshots sampled so far.
	Total uint64
	// Rasterized is the number of frames rendered so far.
	Rasterized uint64
	// Sequenced is the number of frames emitted in order so far.
	Sequenced uint64
}

// Observer receives a consistent snapshot after every applied event. It
// runs on the aggregator goroutine; a slow observer slows progress
// reporting, not the pipeline stages themselves beyond the event buffer.
type Observer func(Counters)

type eventKind uint8

const (
	eventTotal eventKind = iota
	eventRasterized
	eventSequenced
)

// Aggregator owns the progress counters for one conversion job.
// All increment methods are safe to call from any goroutine and are
// nil-receiver safe, so components can run without progress reporting.
type Aggregator struct {
	events   chan eventKind
	observer Observer
	done     chan struct{}

	mu       sync.Mutex
	counters Counters
}

// NewAggregator starts the consumer goroutine. observer may be nil.
// Callers must Close the aggregator to release the goroutine.
func NewAggregator(observer Observer) *Aggregator {
	a := &Aggregator{
		events:   make(chan eventKind, 256),
		observer: observer,
		done:     make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Aggregator) run() {
	defer close(a.done)
	for ev := range a.events {
		a.mu.Lock()
		switch ev {
		case eventTotal:
			a.counters.Total++
		case eventRasterized:
			a.counters.Rasterized++
		case eventSequenced:
			a.counters.Sequenced++
		}
		snapshot := a.counters
		a.mu.Unlock()

		if a.observer != nil {
			a.observer(snapshot)
		}
	}
}

// IncTotal records one snapshot entering the pipeline.
func (a *Aggregator) IncTotal() {
	if a == nil {
		return
	}
	a.events <- eventTotal
}

// IncRasterized records one frame rendered by a worker.
func (a *Aggregator) IncRasterized() {
	if a == nil {
		return
	}
	a.events <- eventRasterized
}

// IncSequenced records one frame emitted in order to the sink.
func (a *Aggregator) IncSequenced() {
	if a == nil {
		return
	}
	a.events <- eventSequenced
}

// Counters returns the current snapshot. Never blocks producers.
func (a *Aggregator) Counters() Counters {
	if a == nil {
		return Counters{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counters
}

// Close drains and applies all previously sent events, then stops the
// consumer goroutine. No increment may be sent after Close.
func (a *Aggregator) Close() {
	if a == nil {
		return
	}
	close(a.events)
	<-a.done
}
