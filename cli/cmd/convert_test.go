package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/katharostech/cast2gif/cast"
	"github.com/katharostech/cast2gif/pipeline"
)

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"bad version", &cast.VersionError{Version: 1}, exitFormatError},
		{"unsupported event", &cast.EventKindError{Kind: "x"}, exitFormatError},
		{"missing header", cast.ErrMissingHeader, exitFormatError},
		{"parse error", &cast.ParseError{Line: "junk", Err: errors.New("bad json")}, exitFormatError},
		{"wrapped parse error", fmt.Errorf("reading: %w", &cast.ParseError{Line: "junk", Err: errors.New("bad json")}), exitFormatError},
		{"render error", &pipeline.RenderError{Index: 3, Err: errors.New("boom")}, exitInternalError},
		{"invariant violation", fmt.Errorf("%w: duplicate frame 2", pipeline.ErrInvariant), exitInternalError},
		{"plain io error", errors.New("open /missing: no such file"), exitIOError},
	}
	for _, c := range cases {
		if got := exitCodeFor(c.err); got != c.want {
			t.Errorf("%s: exitCodeFor() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestConvertCommand_Definition(t *testing.T) {
	cmd := ConvertCommand()
	if cmd.Name != "convert" {
		t.Errorf("command name = %q", cmd.Name)
	}
	names := map[string]bool{}
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"fps", "font-size", "workers", "theme", "frames", "quiet"} {
		if !names[want] {
			t.Errorf("missing flag %q", want)
		}
	}
}
