package ico

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	goico "github.com/sergeymakinen/go-ico"
)

func square(size int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestDecodeDir(t *testing.T) {
	tests := []struct {
		name    string
		sizes   []int
		wantPNG []bool
	}{
		{"favicon set", []int{16, 32, 48, 64}, []bool{false, false, false, false}},
		{"single", []int{32}, []bool{false}},
		{"256 is stored as png", []int{16, 256}, []bool{false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var imgs []image.Image
			for _, s := range tt.sizes {
				imgs = append(imgs, square(s, color.NRGBA{R: 18, G: 45, B: 74, A: 200}))
			}
			buf := &bytes.Buffer{}
			if err := goico.EncodeAll(buf, imgs); err != nil {
				t.Fatal(err)
			}
			entries, err := DecodeDir(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatal(err)
			}
			var (
				sizes []int
				pngs  []bool
			)
			for _, e := range entries {
				if e.Width != e.Height {
					t.Errorf("entry %dx%d is not square", e.Width, e.Height)
				}
				if e.BPP == 0 || e.Size == 0 {
					t.Errorf("entry %d: bpp = %d, size = %d", e.Width, e.BPP, e.Size)
				}
				sizes = append(sizes, e.Width)
				pngs = append(pngs, e.PNG)
			}
			if diff := cmp.Diff(tt.sizes, sizes); diff != "" {
				t.Errorf("sizes mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPNG, pngs); diff != "" {
				t.Errorf("formats mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeDirErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"png file", []byte("\x89PNG\r\n\x1a\n")},
		{"truncated directory", []byte{0, 0, 1, 0, 2, 0, 16, 16}},
		{"entry out of range", []byte{
			0, 0, 1, 0, 1, 0,
			16, 16, 0, 0, 1, 0, 32, 0,
			0xff, 0, 0, 0, // size
			22, 0, 0, 0, // offset
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeDir(bytes.NewReader(tt.in)); err == nil {
				t.Error("DecodeDir() should fail")
			}
		})
	}
}
