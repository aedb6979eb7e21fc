// Package types defines the shared data model for the cast2gif pipeline:
// the source recording format, terminal screen snapshots, and rendered
// frames exchanged between pipeline stages.
package types

// FormatVersion is the only asciinema cast file version understood.
const FormatVersion = 2

// EventKind is the discriminator in the second position of a cast event record.
type EventKind string

// Event kind constants. Only output events are understood; any other
// kind is an unsupported-feature error at parse time.
const (
	EventOutput EventKind = "o"
)

// SourceMeta is the header record of a cast recording, the first line of
// the file. Version must equal FormatVersion before any snapshot is produced.
type SourceMeta struct {
	// Version is the cast file format version.
	Version uint16 `json:"version"`
	// Width is the terminal width in columns.
	Width uint16 `json:"width"`
	// Height is the terminal height in rows.
	Height uint16 `json:"height"`
	// Timestamp is the recording start time as a Unix timestamp.
	Timestamp int32 `json:"timestamp"`
	// Env is the captured environment of the recorded session.
	Env map[string]string `json:"env"`
}

// Event is one parsed record from the source stream. On the wire it is a
// 3-element JSON array [time, kind, data]. Immutable once parsed and
// consumed exactly once by the terminal emulator.
type Event struct {
	// Time is the event timestamp in seconds since recording start.
	Time float64
	// Kind is the record discriminator.
	Kind EventKind
	// Data is the raw terminal output payload.
	Data string
}
