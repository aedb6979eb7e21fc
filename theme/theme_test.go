package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katharostech/cast2gif/types"
)

func TestResolve_Defaults(t *testing.T) {
	th := Default()
	if got := th.ResolveFG(types.DefaultColor()); got != th.Foreground {
		t.Errorf("default FG resolved to %+v", got)
	}
	if got := th.ResolveBG(types.DefaultColor()); got != th.Background {
		t.Errorf("default BG resolved to %+v", got)
	}
}

func TestResolve_BasePalette(t *testing.T) {
	th := Default()
	for i := 0; i < 16; i++ {
		got := th.ResolveFG(types.IndexedColor(uint8(i)))
		if got != th.Palette[i] {
			t.Errorf("index %d resolved to %+v, want %+v", i, got, th.Palette[i])
		}
	}
}

func TestResolve_TrueColor(t *testing.T) {
	th := Default()
	got := th.ResolveFG(types.RGBColor(1, 2, 3))
	if got != (RGB{1, 2, 3}) {
		t.Errorf("true color resolved to %+v", got)
	}
}

func TestXterm256_KnownValues(t *testing.T) {
	cases := []struct {
		index uint8
		want  RGB
	}{
		{16, RGB{0, 0, 0}},       // cube origin
		{21, RGB{0, 0, 255}},     // pure blue corner
		{196, RGB{255, 0, 0}},    // pure red corner
		{231, RGB{255, 255, 255}}, // cube white
		{232, RGB{8, 8, 8}},      // first gray step
		{255, RGB{238, 238, 238}}, // last gray step
	}
	for _, c := range cases {
		if got := xterm256(c.index); got != c.want {
			t.Errorf("xterm256(%d) = %+v, want %+v", c.index, got, c.want)
		}
	}
}

func TestGIFPalette_Size(t *testing.T) {
	pal := Default().GIFPalette()
	if len(pal) != 256 {
		t.Errorf("palette has %d entries, want 256", len(pal))
	}
}

func TestParseHexColor(t *testing.T) {
	got, err := parseHexColor("#a1b2c3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (RGB{0xa1, 0xb2, 0xc3}) {
		t.Errorf("parsed %+v", got)
	}

	for _, bad := range []string{"", "a1b2c3", "#a1b2", "#zzzzzz", "#a1b2c3d4"} {
		if _, err := parseHexColor(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestLoad_ValidTheme(t *testing.T) {
	var palette strings.Builder
	for i := 0; i < 16; i++ {
		palette.WriteString("  - \"#101010\"\n")
	}
	src := "name: test-theme\nforeground: \"#ffffff\"\nbackground: \"#000000\"\npalette:\n" + palette.String()

	path := filepath.Join(t.TempDir(), "theme.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	th, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Name != "test-theme" {
		t.Errorf("name = %q", th.Name)
	}
	if th.Foreground != (RGB{255, 255, 255}) || th.Background != (RGB{0, 0, 0}) {
		t.Errorf("fg/bg = %+v / %+v", th.Foreground, th.Background)
	}
	if th.Palette[15] != (RGB{0x10, 0x10, 0x10}) {
		t.Errorf("palette[15] = %+v", th.Palette[15])
	}
}

func TestLoad_RejectsShortPalette(t *testing.T) {
	src := "foreground: \"#ffffff\"\nbackground: \"#000000\"\npalette:\n  - \"#101010\"\n"
	path := filepath.Join(t.TempDir(), "theme.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for 1-entry palette")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
