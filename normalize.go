package icongen

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Mode selects how the source is normalized before resizing.
type Mode string

const (
	// ModeFill composites every resized icon onto an opaque background.
	ModeFill Mode = "fill"
	// ModeCrop trims the source to the bounding box of its non-transparent pixels.
	ModeCrop Mode = "crop"
)

func (m Mode) validate() error {
	switch m {
	case ModeFill, ModeCrop:
		return nil
	default:
		return fmt.Errorf("unsupported mode: %q (fill, crop)", m)
	}
}

// DefaultBackground is #122d4a.
var DefaultBackground = color.NRGBA{R: 18, G: 45, B: 74, A: 255}

// ParseColor parses #rrggbb or #rgb into an opaque color.
func ParseColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rgb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// HexColor formats c as #rrggbb.
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// OpaqueBounds returns the smallest rectangle enclosing every pixel with alpha above zero.
// ok is false when the image has no such pixel.
func OpaqueBounds(img *image.NRGBA) (r image.Rectangle, ok bool) {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[(x-b.Min.X)*4+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// cropToContent crops img to OpaqueBounds. The returned image is rebased at the origin.
func cropToContent(img *image.NRGBA) (*image.NRGBA, error) {
	r, ok := OpaqueBounds(img)
	if !ok {
		return nil, newError(KindEmptyImage, "", fmt.Errorf("source has no non-transparent pixels"))
	}
	return imaging.Crop(img, r), nil
}

// composite draws icon over an opaque canvas of bg at the origin.
func composite(icon *image.NRGBA, bg color.NRGBA) *image.NRGBA {
	b := icon.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(canvas, icon, image.Pt(0, 0), 1.0)
}
