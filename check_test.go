package icongen

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	goico "github.com/sergeymakinen/go-ico"
)

var checkTargets = []Target{
	{Path: "icons/icon-16.png", Size: 16},
	{Path: "icons/icon-48.png", Size: 48},
	{Path: "icons/icon-192.png", Size: 192},
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
	}{
		{"fill", ModeFill},
		{"crop", ModeCrop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sourceFile(t, framedImage(256, 256, 160, 120, red))
			g, _ := newTestGenerator(t, WithMode(tt.mode), WithTargets(checkTargets))
			if _, err := g.Generate(t.Context(), src); err != nil {
				t.Fatal(err)
			}
			report, err := g.Check(t.Context(), src)
			if err != nil {
				t.Fatal(err)
			}
			if !report.OK() {
				t.Errorf("report has problems: %+v", report.Findings)
			}
			if got, want := len(report.Findings), len(checkTargets)+1; got != want {
				t.Errorf("findings = %d, want %d", got, want)
			}
		})
	}
}

func TestCheckStale(t *testing.T) {
	src := sourceFile(t, framedImage(256, 256, 160, 120, red))
	g, out := newTestGenerator(t, WithTargets(checkTargets))
	if _, err := g.Generate(t.Context(), src); err != nil {
		t.Fatal(err)
	}
	// wrong size
	writePNG(t, filepath.Join(out, "icons/icon-48.png"), imaging.New(32, 32, color.NRGBA{A: 255}))
	// missing
	if err := os.Remove(filepath.Join(out, "icons/icon-192.png")); err != nil {
		t.Fatal(err)
	}

	report, err := g.Check(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}
	if report.OK() {
		t.Fatal("report should have problems")
	}
	problems := map[string][]string{}
	for _, f := range report.Findings {
		if !f.OK() {
			problems[f.Path] = f.Problems
		}
	}
	if len(problems) != 2 {
		t.Errorf("stale outputs = %v, want 2", problems)
	}
	if ps := problems["icons/icon-48.png"]; len(ps) == 0 || !strings.Contains(ps[0], "size is 32x32") {
		t.Errorf("icon-48 problems = %v", ps)
	}
	if ps := problems["icons/icon-192.png"]; len(ps) == 0 || !strings.Contains(ps[0], "cannot open") {
		t.Errorf("icon-192 problems = %v", ps)
	}
}

func TestCheckDifferentSource(t *testing.T) {
	g, _ := newTestGenerator(t, WithMode(ModeCrop), WithTargets(checkTargets[2:]), WithICO(""))
	if _, err := g.Generate(t.Context(), sourceFile(t, checkerboard(256, 32))); err != nil {
		t.Fatal(err)
	}
	report, err := g.Check(t.Context(), sourceFile(t, stripes(256, 64)))
	if err != nil {
		t.Fatal(err)
	}
	if report.OK() {
		t.Error("outputs of another source should be reported")
	}
}

func TestCheckICOInvalid(t *testing.T) {
	src := sourceFile(t, framedImage(256, 256, 160, 120, red))
	g, out := newTestGenerator(t, WithTargets(checkTargets[:1]))
	if _, err := g.Generate(t.Context(), src); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(out, DefaultICOPath), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	report, err := g.Check(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}
	last := report.Findings[len(report.Findings)-1]
	if last.Path != DefaultICOPath || last.OK() {
		t.Errorf("ICO finding = %+v, want a problem", last)
	}
}

func checkerboard(size, cell int) *image.NRGBA {
	img := imaging.New(size, size, color.NRGBA{A: 255})
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for y := range size {
		for x := range size {
			if (x/cell+y/cell)%2 == 0 {
				img.SetNRGBA(x, y, white)
			}
		}
	}
	return img
}

func stripes(size, width int) *image.NRGBA {
	img := imaging.New(size, size, color.NRGBA{A: 255})
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for y := range size {
		for x := range size {
			if (y/width)%2 == 0 {
				img.SetNRGBA(x, y, white)
			}
		}
	}
	return img
}

func TestCheckICOMissingSize(t *testing.T) {
	src := sourceFile(t, framedImage(256, 256, 160, 120, red))
	g, out := newTestGenerator(t, WithTargets(checkTargets[:1]))
	if _, err := g.Generate(t.Context(), src); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filepath.Join(out, DefaultICOPath))
	if err != nil {
		t.Fatal(err)
	}
	imgs := []image.Image{imaging.New(16, 16, DefaultBackground), imaging.New(32, 32, DefaultBackground)}
	if err := goico.EncodeAll(f, imgs); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	report, err := g.Check(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}
	last := report.Findings[len(report.Findings)-1]
	found := false
	for _, p := range last.Problems {
		if strings.Contains(p, "embeds sizes [16 32]") {
			found = true
		}
	}
	if !found {
		t.Errorf("ICO problems = %v, want missing sizes reported", last.Problems)
	}
}
