package cast

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/katharostech/cast2gif/types"
)

const supportedVersion = types.FormatVersion

// maxLineBytes bounds a single source line. Recorded output bursts can be
// large (full-screen redraws), so this is generous.
const maxLineBytes = 16 * 1024 * 1024

// Emulator is the terminal-emulation collaborator. The sampler feeds it
// raw output bytes and takes owned screen copies at sampling instants.
// Snapshot copies must not alias emulator state: the emulator keeps
// mutating after the copy is taken.
type Emulator interface {
	// Feed processes raw terminal output, mutating the internal grid.
	Feed(p []byte) error
	// Snapshot returns an owned, immutable copy of the current grid.
	Snapshot() *types.Screen
}

// EmulatorFactory creates an emulator sized to the recording's terminal
// dimensions. Called once, after the header has been validated.
type EmulatorFactory func(cols, rows int) Emulator

// Sampler converts the event stream of a cast recording into a lazy,
// finite, forward-only sequence of terminal snapshots at a fixed target
// interval. When input events are sparser than the interval, it
// synthesizes duplicate filler snapshots so the output rate stays
// constant regardless of how bursty the recording was.
//
// A Sampler is not seekable; restarting requires re-opening the source.
// It is driven by a single goroutine.
type Sampler struct {
	meta     types.SourceMeta
	interval float64
	emu      Emulator
	scanner  *bufio.Scanner

	nextIndex   uint64
	lastEmitted float64
	// pending holds filler snapshots queued ahead of the next real read.
	pending []*types.TerminalSnapshot
	// dirty reports whether the emulator consumed events since the last
	// emission; drives the end-of-stream flush.
	dirty         bool
	lastEventTime float64
	done          bool
}

// NewSampler parses and validates the recording header, constructs the
// emulator via factory, and returns a sampler emitting one snapshot per
// interval seconds of recorded time.
func NewSampler(r io.Reader, interval float64, factory EmulatorFactory) (*Sampler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sampling interval must be positive, got %v", interval)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading cast header: %w", err)
		}
		return nil, ErrMissingHeader
	}
	header := scanner.Text()

	var meta types.SourceMeta
	if err := json.Unmarshal([]byte(header), &meta); err != nil {
		return nil, &ParseError{Line: header, Err: err}
	}
	if meta.Version != supportedVersion {
		return nil, &VersionError{Version: meta.Version}
	}

	return &Sampler{
		meta:     meta,
		interval: interval,
		emu:      factory(int(meta.Width), int(meta.Height)),
		scanner:  scanner,
	}, nil
}

// Meta returns the validated recording header.
func (s *Sampler) Meta() types.SourceMeta { return s.meta }

// Interval returns the sampling interval in seconds.
func (s *Sampler) Interval() float64 { return s.interval }

// Next returns the next snapshot in the sequence, or io.EOF when the
// source is exhausted. Any other error is fatal and terminates the
// sequence; subsequent calls return io.EOF.
//
// Events closer together than the interval update emulator state but
// produce no snapshot: intermediate states are coalesced into the next
// retained one. An event arriving after a gap of dt >= interval produces
// floor(dt/interval) snapshots: the first at the event's own timestamp
// with the just-updated screen, the rest duplicating that screen with
// timestamps advancing by one interval each.
//
// Flush policy: if the stream ends with state consumed since the last
// emission, one final snapshot is emitted carrying the last event's
// timestamp, so short recordings that never span a full interval still
// produce a frame.
func (s *Sampler) Next() (*types.TerminalSnapshot, error) {
	if len(s.pending) > 0 {
		snap := s.pending[0]
		s.pending = s.pending[1:]
		return snap, nil
	}
	if s.done {
		return nil, io.EOF
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" {
			continue
		}

		ev, err := parseEvent(line)
		if err != nil {
			s.done = true
			return nil, err
		}
		if ev.Kind != types.EventOutput {
			s.done = true
			return nil, &EventKindError{Kind: string(ev.Kind), Line: line}
		}

		if err := s.emu.Feed([]byte(ev.Data)); err != nil {
			s.done = true
			return nil, fmt.Errorf("feeding terminal emulator: %w", err)
		}
		s.dirty = true
		s.lastEventTime = ev.Time

		dt := ev.Time - s.lastEmitted
		if dt < s.interval {
			continue
		}

		repeats := int(math.Floor(dt / s.interval))
		screen := s.emu.Snapshot()
		first := s.emit(screen, ev.Time)
		for i := 1; i < repeats; i++ {
			s.pending = append(s.pending, s.emit(screen, ev.Time+float64(i)*s.interval))
		}
		s.lastEmitted = ev.Time
		s.dirty = false
		return first, nil
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cast source: %w", err)
	}
	if s.dirty {
		s.dirty = false
		return s.emit(s.emu.Snapshot(), s.lastEventTime), nil
	}
	return nil, io.EOF
}

// emit builds a snapshot with the next dense index. Indices are assigned
// only to snapshots that are actually emitted.
func (s *Sampler) emit(screen *types.Screen, t float64) *types.TerminalSnapshot {
	snap := &types.TerminalSnapshot{
		Index:  s.nextIndex,
		Time:   t,
		Screen: screen,
	}
	s.nextIndex++
	return snap
}

// parseEvent decodes one event record: a 3-element JSON array
// [time, kind, data].
func parseEvent(line string) (types.Event, error) {
	var rec []any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return types.Event{}, &ParseError{Line: line, Err: err}
	}
	if len(rec) != 3 {
		return types.Event{}, &ParseError{Line: line, Err: fmt.Errorf("event record has %d elements, want 3", len(rec))}
	}
	t, ok := rec[0].(float64)
	if !ok {
		return types.Event{}, &ParseError{Line: line, Err: errors.New("event time is not a number")}
	}
	kind, ok := rec[1].(string)
	if !ok {
		return types.Event{}, &ParseError{Line: line, Err: errors.New("event kind is not a string")}
	}
	data, ok := rec[2].(string)
	if !ok {
		return types.Event{}, &ParseError{Line: line, Err: errors.New("event payload is not a string")}
	}
	return types.Event{Time: t, Kind: types.EventKind(kind), Data: data}, nil
}
