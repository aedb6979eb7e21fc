package cast

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/katharostech/cast2gif/types"
)

const testHeader = `{"version": 2, "width": 80, "height": 24}`

// stubEmulator accumulates fed bytes so tests can verify which terminal
// state each snapshot carries.
type stubEmulator struct {
	content []rune
}

func (e *stubEmulator) Feed(p []byte) error {
	e.content = append(e.content, []rune(string(p))...)
	return nil
}

func (e *stubEmulator) Snapshot() *types.Screen {
	cells := make([]types.Cell, len(e.content))
	for i, r := range e.content {
		cells[i] = types.Cell{Ch: r}
	}
	return &types.Screen{Cols: len(cells), Rows: 1, Cells: cells}
}

func newStub(_, _ int) Emulator { return &stubEmulator{} }

func screenText(s *types.Screen) string {
	var b strings.Builder
	for _, c := range s.Cells {
		b.WriteRune(c.Ch)
	}
	return b.String()
}

// drain pulls snapshots until io.EOF or a fatal error.
func drain(s *Sampler) ([]*types.TerminalSnapshot, error) {
	var snaps []*types.TerminalSnapshot
	for {
		snap, err := s.Next()
		if err == io.EOF {
			return snaps, nil
		}
		if err != nil {
			return snaps, err
		}
		snaps = append(snaps, snap)
	}
}

func TestNewSampler_InvalidInterval(t *testing.T) {
	_, err := NewSampler(strings.NewReader(testHeader), 0, newStub)
	if err == nil {
		t.Error("expected error for zero interval")
	}
	_, err = NewSampler(strings.NewReader(testHeader), -0.1, newStub)
	if err == nil {
		t.Error("expected error for negative interval")
	}
}

func TestNewSampler_MissingHeader(t *testing.T) {
	_, err := NewSampler(strings.NewReader(""), 0.1, newStub)
	if !errors.Is(err, ErrMissingHeader) {
		t.Errorf("expected ErrMissingHeader, got %v", err)
	}
}

func TestNewSampler_MalformedHeader(t *testing.T) {
	_, err := NewSampler(strings.NewReader("not json\n"), 0.1, newStub)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

func TestNewSampler_RejectsUnsupportedVersion(t *testing.T) {
	header := `{"version": 1, "width": 80, "height": 24}`
	_, err := NewSampler(strings.NewReader(header), 0.1, newStub)
	if !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("expected ErrInvalidVersion, got %v", err)
	}
	var verErr *VersionError
	if !errors.As(err, &verErr) {
		t.Fatalf("expected VersionError, got %T", err)
	}
	if verErr.Version != 1 {
		t.Errorf("expected version 1 in error, got %d", verErr.Version)
	}
}

func TestNewSampler_SizesEmulatorFromHeader(t *testing.T) {
	var gotCols, gotRows int
	factory := func(cols, rows int) Emulator {
		gotCols, gotRows = cols, rows
		return &stubEmulator{}
	}
	s, err := NewSampler(strings.NewReader(testHeader), 0.1, factory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCols != 80 || gotRows != 24 {
		t.Errorf("expected emulator sized 80x24, got %dx%d", gotCols, gotRows)
	}
	if s.Meta().Width != 80 || s.Meta().Height != 24 {
		t.Errorf("unexpected meta: %+v", s.Meta())
	}
}

func TestSampler_HeaderOnlyIsEmpty(t *testing.T) {
	s, err := NewSampler(strings.NewReader(testHeader+"\n"), 0.1, newStub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps, err := drain(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected no snapshots, got %d", len(snaps))
	}
	// EOF is sticky.
	if _, err := s.Next(); err != io.EOF {
		t.Errorf("expected io.EOF on repeat call, got %v", err)
	}
}

func TestSampler_CoalescesDenseEvents(t *testing.T) {
	src := testHeader + "\n" +
		`[0.00, "o", "a"]` + "\n" +
		`[0.02, "o", "b"]` + "\n" +
		`[0.04, "o", "c"]` + "\n" +
		`[0.06, "o", "d"]` + "\n"
	s, err := NewSampler(strings.NewReader(src), 0.1, newStub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps, err := drain(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// All events land inside one interval; the end-of-stream flush emits a
	// single snapshot with the accumulated state.
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if got := screenText(snaps[0].Screen); got != "abcd" {
		t.Errorf("expected coalesced content %q, got %q", "abcd", got)
	}
	if snaps[0].Index != 0 {
		t.Errorf("expected index 0, got %d", snaps[0].Index)
	}
	if snaps[0].Time != 0.06 {
		t.Errorf("expected flush timestamp 0.06, got %v", snaps[0].Time)
	}
}

func TestSampler_EndOfStreamFlush(t *testing.T) {
	src := testHeader + "\n" +
		`[0.0, "o", "A"]` + "\n" +
		`[0.05, "o", "B"]` + "\n"
	s, err := NewSampler(strings.NewReader(src), 0.1, newStub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps, err := drain(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if snaps[0].Index != 0 || snaps[0].Time != 0.05 {
		t.Errorf("expected index 0 at time 0.05, got index %d at %v", snaps[0].Index, snaps[0].Time)
	}
	if got := screenText(snaps[0].Screen); got != "AB" {
		t.Errorf("expected content %q, got %q", "AB", got)
	}
}

func TestSampler_FillerFramesAcrossGap(t *testing.T) {
	// A 0.25s gap at a 0.1s interval yields floor(2.5) = 2 snapshots
	// sharing the post-event screen.
	src := testHeader + "\n" +
		`[0.0, "o", "a"]` + "\n" +
		`[0.25, "o", "b"]` + "\n"
	s, err := NewSampler(strings.NewReader(src), 0.1, newStub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps, err := drain(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	for i, snap := range snaps {
		if snap.Index != uint64(i) {
			t.Errorf("snapshot %d has index %d", i, snap.Index)
		}
		if got := screenText(snap.Screen); got != "ab" {
			t.Errorf("snapshot %d carries content %q, want %q", i, got, "ab")
		}
	}
	if snaps[0].Time != 0.25 {
		t.Errorf("expected first snapshot at 0.25, got %v", snaps[0].Time)
	}
	if math.Abs(snaps[1].Time-0.35) > 1e-9 {
		t.Errorf("expected filler snapshot near 0.35, got %v", snaps[1].Time)
	}
}

func TestSampler_IndicesAreDense(t *testing.T) {
	src := testHeader + "\n" +
		`[0.0, "o", "a"]` + "\n" +
		`[0.05, "o", "b"]` + "\n" +
		`[0.5, "o", "c"]` + "\n" +
		`[0.65, "o", "d"]` + "\n"
	s, err := NewSampler(strings.NewReader(src), 0.1, newStub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps, err := drain(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snaps) == 0 {
		t.Fatal("expected snapshots")
	}
	for i, snap := range snaps {
		if snap.Index != uint64(i) {
			t.Errorf("expected dense index %d, got %d", i, snap.Index)
		}
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].Time < snaps[i-1].Time {
			t.Errorf("timestamps not ascending: %v after %v", snaps[i].Time, snaps[i-1].Time)
		}
	}
}

func TestSampler_SkipsEmptyLines(t *testing.T) {
	src := testHeader + "\n\n" +
		`[0.0, "o", "x"]` + "\n\n\n" +
		`[0.2, "o", "y"]` + "\n"
	s, err := NewSampler(strings.NewReader(src), 0.1, newStub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps, err := drain(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snaps) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(snaps))
	}
}

func TestSampler_UnsupportedEventKind(t *testing.T) {
	src := testHeader + "\n" +
		`[1.0, "x", "data"]` + "\n"
	s, err := NewSampler(strings.NewReader(src), 0.1, newStub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = s.Next()
	if !errors.Is(err, ErrUnsupportedEvent) {
		t.Errorf("expected ErrUnsupportedEvent, got %v", err)
	}
	// The sequence terminates after a fatal error.
	if _, err := s.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after fatal error, got %v", err)
	}
}

func TestSampler_MalformedEvent(t *testing.T) {
	cases := []string{
		`[0.0, "o"]`,
		`["zero", "o", "data"]`,
		`[0.0, 5, "data"]`,
		`[0.0, "o", 42]`,
		`{not an array}`,
	}
	for _, line := range cases {
		src := testHeader + "\n" + line + "\n"
		s, err := NewSampler(strings.NewReader(src), 0.1, newStub)
		if err != nil {
			t.Fatalf("unexpected header error: %v", err)
		}
		_, err = s.Next()
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("line %q: expected ParseError, got %v", line, err)
		}
	}
}

func TestSampler_RerunIsDeterministic(t *testing.T) {
	src := testHeader + "\n" +
		`[0.0, "o", "a"]` + "\n" +
		`[0.3, "o", "b"]` + "\n" +
		`[0.45, "o", "c"]` + "\n"

	run := func() []*types.TerminalSnapshot {
		s, err := NewSampler(strings.NewReader(src), 0.1, newStub)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		snaps, err := drain(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return snaps
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("runs disagree on length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Index != second[i].Index || first[i].Time != second[i].Time {
			t.Errorf("snapshot %d differs between runs: (%d, %v) vs (%d, %v)",
				i, first[i].Index, first[i].Time, second[i].Index, second[i].Time)
		}
		if screenText(first[i].Screen) != screenText(second[i].Screen) {
			t.Errorf("snapshot %d content differs between runs", i)
		}
	}
}
