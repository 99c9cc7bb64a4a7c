package icongen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"runtime"
	"slices"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/k1LoW/errors"
	goico "github.com/sergeymakinen/go-ico"
	"golang.org/x/sync/errgroup"
)

// similarityThreshold is the largest perceptual hash distance still considered the same icon.
const similarityThreshold = 5

// Finding is the outcome of verifying one output file.
type Finding struct {
	Path     string
	Problems []string
}

func (f Finding) OK() bool {
	return len(f.Problems) == 0
}

// CheckReport collects one Finding per expected output file.
type CheckReport struct {
	Findings []Finding
}

func (r *CheckReport) OK() bool {
	for _, f := range r.Findings {
		if !f.OK() {
			return false
		}
	}
	return true
}

// Check verifies that the outputs on disk match what Generate would produce for source.
func (g *Generator) Check(ctx context.Context, source string) (_ *CheckReport, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	targets, err := g.Targets()
	if err != nil {
		return nil, err
	}
	src, err := g.loadSource(ctx, source)
	if err != nil {
		return nil, err
	}
	work, err := g.normalize(src)
	if err != nil {
		return nil, err
	}

	n := len(targets)
	if g.icoPath != "" {
		n++
	}
	findings := make([]Finding, n)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, t := range targets {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			findings[i] = g.checkIcon(work, t)
			return nil
		})
	}
	if g.icoPath != "" {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			findings[n-1] = g.checkICO(work)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	report := &CheckReport{Findings: findings}
	for _, f := range findings {
		if f.OK() {
			g.logger.Info("checked icon", slog.String("path", f.Path))
			continue
		}
		for _, p := range f.Problems {
			g.logger.Warn("check failed", slog.String("path", f.Path), slog.String("problem", p))
		}
	}
	return report, nil
}

func (g *Generator) checkIcon(work *image.NRGBA, t Target) Finding {
	f := Finding{Path: t.Path}
	img, err := imaging.Open(g.outPath(t.Path))
	if err != nil {
		f.Problems = append(f.Problems, fmt.Sprintf("cannot open: %v", err))
		return f
	}
	if b := img.Bounds(); b.Dx() != t.Size || b.Dy() != t.Size {
		f.Problems = append(f.Problems, fmt.Sprintf("size is %dx%d, want %dx%d", b.Dx(), b.Dy(), t.Size, t.Size))
	}
	got := imaging.Clone(img)
	if g.mode == ModeFill && hasTransparency(got) {
		f.Problems = append(f.Problems, "contains transparent pixels")
	}
	if p := compareHash(got, g.render(work, t.Size)); p != "" {
		f.Problems = append(f.Problems, p)
	}
	return f
}

func (g *Generator) checkICO(work *image.NRGBA) Finding {
	f := Finding{Path: g.icoPath}
	b, err := os.ReadFile(g.outPath(g.icoPath))
	if err != nil {
		f.Problems = append(f.Problems, fmt.Sprintf("cannot open: %v", err))
		return f
	}
	imgs, err := goico.DecodeAll(bytes.NewReader(b))
	if err != nil {
		f.Problems = append(f.Problems, fmt.Sprintf("invalid icon: %v", err))
		return f
	}
	want := map[int]image.Image{}
	for i, img := range g.renderICO(work) {
		want[ICOSizes[i]] = img
	}
	var sizes []int
	for _, img := range imgs {
		ib := img.Bounds()
		if ib.Dx() != ib.Dy() {
			f.Problems = append(f.Problems, fmt.Sprintf("entry %dx%d is not square", ib.Dx(), ib.Dy()))
			continue
		}
		sizes = append(sizes, ib.Dx())
		w, ok := want[ib.Dx()]
		if !ok {
			continue
		}
		if p := compareHash(imaging.Clone(img), w); p != "" {
			f.Problems = append(f.Problems, fmt.Sprintf("%dx%d entry %s", ib.Dx(), ib.Dy(), p))
		}
	}
	slices.Sort(sizes)
	if !slices.Equal(sizes, ICOSizes) {
		f.Problems = append(f.Problems, fmt.Sprintf("embeds sizes %v, want %v", sizes, ICOSizes))
	}
	return f
}

func hasTransparency(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return true
		}
	}
	return false
}

func compareHash(got, want image.Image) string {
	gh, err := goimagehash.PerceptionHash(got)
	if err != nil {
		return fmt.Sprintf("failed to compute perceptual hash: %v", err)
	}
	wh, err := goimagehash.PerceptionHash(want)
	if err != nil {
		return fmt.Sprintf("failed to compute perceptual hash: %v", err)
	}
	d, err := gh.Distance(wh)
	if err != nil {
		return fmt.Sprintf("failed to compare perceptual hash: %v", err)
	}
	if d >= similarityThreshold {
		return fmt.Sprintf("differs from source (distance %d)", d)
	}
	return ""
}
