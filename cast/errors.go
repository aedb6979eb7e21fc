// Package cast parses asciinema v2 recordings and samples them into a
// fixed-interval sequence of terminal screen snapshots.
//
// This file defines the error taxonomy for source parsing. All parse
// failures are fatal: the sampler terminates immediately and no partial
// output is salvaged. Use errors.Is/errors.As for typed assertions
// rather than string matching.
package cast

import (
	"errors"
	"fmt"
)

// Sentinel errors for source failure classification.
var (
	// ErrMissingHeader indicates an empty source with no header line.
	ErrMissingHeader = errors.New("missing cast header line")

	// ErrInvalidVersion indicates a header declaring an unsupported
	// format version. Only version 2 is understood.
	ErrInvalidVersion = errors.New("unsupported cast file version")

	// ErrUnsupportedEvent indicates an event record whose kind is not
	// understood. Events are not skipped; the conversion fails.
	ErrUnsupportedEvent = errors.New("unsupported event kind")
)

// ParseError wraps a malformed header or event record with the offending
// line for diagnostics. It preserves the underlying error in the chain.
type ParseError struct {
	// Line is the raw source line that failed to parse.
	Line string
	// Err is the underlying decode error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing cast record %q: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// VersionError reports the version a rejected header declared.
type VersionError struct {
	// Version is the declared format version.
	Version uint16
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("only asciinema file version %d is supported, got version: %d", supportedVersion, e.Version)
}

// Is reports whether the error matches ErrInvalidVersion.
func (e *VersionError) Is(target error) bool {
	return target == ErrInvalidVersion
}

// EventKindError reports the kind of a rejected event record.
type EventKindError struct {
	// Kind is the unrecognized record discriminator.
	Kind string
	// Line is the raw source line carrying the record.
	Line string
}

func (e *EventKindError) Error() string {
	return fmt.Sprintf("cast event kind %q is not understood: %s", e.Kind, e.Line)
}

// Is reports whether the error matches ErrUnsupportedEvent.
func (e *EventKindError) Is(target error) bool {
	return target == ErrUnsupportedEvent
}
