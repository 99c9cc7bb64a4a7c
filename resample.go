package icongen

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// Filter is a resampling filter used to scale the source to each target size.
type Filter string

const (
	FilterLanczos    Filter = "lanczos"
	FilterCatmullRom Filter = "catmullrom"
	FilterMitchell   Filter = "mitchell"
	FilterBox        Filter = "box"
)

func (f Filter) validate() error {
	switch f {
	case FilterLanczos, FilterCatmullRom, FilterMitchell, FilterBox:
		return nil
	default:
		return fmt.Errorf("unsupported resample filter: %q (lanczos, catmullrom, mitchell, box)", f)
	}
}

// Resize scales img to exactly w x h, ignoring the aspect ratio.
func (f Filter) Resize(img image.Image, w, h int) *image.NRGBA {
	switch f {
	case FilterCatmullRom:
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		return dst
	case FilterMitchell:
		return imaging.Clone(resize.Resize(uint(w), uint(h), img, resize.MitchellNetravali))
	case FilterBox:
		return imaging.Resize(img, w, h, imaging.Box)
	default:
		return imaging.Resize(img, w, h, imaging.Lanczos)
	}
}
