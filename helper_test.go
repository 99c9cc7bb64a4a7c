package icongen

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// framedImage returns a w x h transparent image with an opaque c rectangle of cw x ch centered in it.
func framedImage(w, h, cw, ch int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	x0, y0 := (w-cw)/2, (h-ch)/2
	for y := y0; y < y0+ch; y++ {
		for x := x0; x < x0+cw; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return img
}

// sourceFile writes img to a temp PNG and returns its path.
func sourceFile(t *testing.T, img image.Image) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "source_icon.png")
	writePNG(t, p, img)
	return p
}

func newTestGenerator(t *testing.T, opts ...Option) (*Generator, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out")
	g, err := New(append([]Option{WithLogger(testLogger), WithOutDir(out)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return g, out
}
