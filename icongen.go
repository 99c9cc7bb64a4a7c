package icongen

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/k1LoW/errors"
)

// Generator renders a source image into a set of square icons and a combined favicon.
type Generator struct {
	mode         Mode
	background   color.NRGBA
	filter       Filter
	targets      []Target
	icoPath      string
	outDir       string
	publicDir    string
	filterExpr   string
	manifest     *Manifest
	manifestPath string
	svgSize      int
	sourceCmd    string
	httpClient   *http.Client
	logger       *slog.Logger
}

type Option func(*Generator) error

func WithMode(m Mode) Option {
	return func(g *Generator) error {
		if err := m.validate(); err != nil {
			return err
		}
		g.mode = m
		return nil
	}
}

func WithBackground(c color.NRGBA) Option {
	return func(g *Generator) error {
		c.A = 255
		g.background = c
		return nil
	}
}

func WithFilter(f Filter) Option {
	return func(g *Generator) error {
		if err := f.validate(); err != nil {
			return err
		}
		g.filter = f
		return nil
	}
}

// WithTargets replaces the default target table.
func WithTargets(targets []Target) Option {
	return func(g *Generator) error {
		g.targets = targets
		return nil
	}
}

// WithICO sets the path of the combined favicon. An empty path disables it.
func WithICO(path string) Option {
	return func(g *Generator) error {
		g.icoPath = path
		return nil
	}
}

// WithOutDir sets the directory all output paths are relative to.
func WithOutDir(dir string) Option {
	return func(g *Generator) error {
		g.outDir = dir
		return nil
	}
}

// WithPublicDir sets the directory served at the site root, used for manifest URLs.
func WithPublicDir(dir string) Option {
	return func(g *Generator) error {
		g.publicDir = dir
		return nil
	}
}

// WithFilterExpr restricts the targets to those matching a CEL expression over `path` and `size`.
func WithFilterExpr(expr string) Option {
	return func(g *Generator) error {
		g.filterExpr = expr
		return nil
	}
}

// WithManifest enables writing a web manifest to path.
func WithManifest(m *Manifest, path string) Option {
	return func(g *Generator) error {
		g.manifest = m
		if path == "" {
			path = DefaultManifestPath
		}
		g.manifestPath = path
		return nil
	}
}

// WithSVGSize sets the square size SVG sources are rasterized at.
func WithSVGSize(size int) Option {
	return func(g *Generator) error {
		if size <= 0 || size > maxSize {
			return fmt.Errorf("invalid SVG size %d: must be between 1 and %d", size, maxSize)
		}
		g.svgSize = size
		return nil
	}
}

// WithSourceCommand sets a shell command whose stdout is used as the source image.
func WithSourceCommand(cmd string) Option {
	return func(g *Generator) error {
		g.sourceCmd = cmd
		return nil
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) error {
		g.httpClient = c
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		g.logger = logger
		return nil
	}
}

// Result lists the files written by Generate.
type Result struct {
	Icons    []Target
	ICO      string
	Manifest string
}

// New creates a new Generator.
func New(opts ...Option) (_ *Generator, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	g := &Generator{
		mode:       ModeFill,
		background: DefaultBackground,
		filter:     FilterLanczos,
		targets:    DefaultTargets(),
		icoPath:    DefaultICOPath,
		publicDir:  DefaultPublicDir,
		svgSize:    DefaultSVGSize,
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.httpClient == nil {
		g.httpClient = newHTTPClient(g.logger)
	}
	return g, nil
}

// Targets returns the targets selected by the filter expression and per-target conditions.
func (g *Generator) Targets() (_ []Target, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	seen := map[string]struct{}{}
	for _, t := range g.targets {
		if err := t.validate(); err != nil {
			return nil, err
		}
		p := filepath.Clean(filepath.FromSlash(t.Path))
		if _, ok := seen[p]; ok {
			return nil, fmt.Errorf("duplicate target path: %s", t.Path)
		}
		seen[p] = struct{}{}
	}
	if g.icoPath != "" {
		if _, ok := seen[filepath.Clean(filepath.FromSlash(g.icoPath))]; ok {
			return nil, fmt.Errorf("favicon path %s collides with a target", g.icoPath)
		}
	}
	s, err := newTargetSelector(g.filterExpr)
	if err != nil {
		return nil, err
	}
	return s.Select(g.targets)
}

func (g *Generator) outPath(p string) string {
	return filepath.Join(g.outDir, filepath.FromSlash(p))
}

// normalize prepares the working image all outputs are resized from.
func (g *Generator) normalize(src *image.NRGBA) (*image.NRGBA, error) {
	if g.mode != ModeCrop {
		return src, nil
	}
	cropped, err := cropToContent(src)
	if err != nil {
		return nil, err
	}
	g.logger.Info("cropped source", slog.Int("width", cropped.Bounds().Dx()), slog.Int("height", cropped.Bounds().Dy()))
	return cropped, nil
}

// render resizes the working image to size x size and, in fill mode, flattens it onto the background.
func (g *Generator) render(work *image.NRGBA, size int) *image.NRGBA {
	resized := g.filter.Resize(work, size, size)
	if g.mode == ModeFill {
		return composite(resized, g.background)
	}
	return resized
}

// renderICO returns the favicon entries, each downscaled from a single base rendering.
func (g *Generator) renderICO(work *image.NRGBA) []image.Image {
	base := g.render(work, icoBaseSize)
	imgs := make([]image.Image, 0, len(ICOSizes))
	for _, s := range ICOSizes {
		imgs = append(imgs, g.filter.Resize(base, s, s))
	}
	return imgs
}

// Generate writes every selected target, the combined favicon and, if configured, the web manifest.
// Files written before a failure are left in place.
func (g *Generator) Generate(ctx context.Context, source string) (_ *Result, err error) {
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

	res := &Result{}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		b, err := encodePNG(g.render(work, t.Size))
		if err != nil {
			return res, newError(KindEncodeFailure, t.Path, err)
		}
		if err := writeFile(g.outPath(t.Path), b); err != nil {
			g.logger.Error("failed to write icon", slog.String("path", t.Path), slog.String("error", err.Error()))
			return res, err
		}
		res.Icons = append(res.Icons, t)
		g.logger.Info("generated icon", slog.String("path", t.Path), slog.Int("size", t.Size), slog.String("mode", string(g.mode)))
	}

	if g.icoPath != "" {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		b, err := encodeICO(g.renderICO(work))
		if err != nil {
			return res, newError(KindEncodeFailure, g.icoPath, err)
		}
		if err := writeFile(g.outPath(g.icoPath), b); err != nil {
			g.logger.Error("failed to write favicon", slog.String("path", g.icoPath), slog.String("error", err.Error()))
			return res, err
		}
		res.ICO = g.icoPath
		g.logger.Info("generated favicon", slog.String("path", g.icoPath), slog.Any("sizes", ICOSizes))
	}

	if g.manifest != nil {
		m := buildManifest(*g.manifest, g.publicDir, res.ICO, HexColor(g.background), res.Icons)
		b, err := m.marshal()
		if err != nil {
			return res, newError(KindEncodeFailure, g.manifestPath, err)
		}
		if err := writeFile(g.outPath(g.manifestPath), b); err != nil {
			g.logger.Error("failed to write manifest", slog.String("path", g.manifestPath), slog.String("error", err.Error()))
			return res, err
		}
		res.Manifest = g.manifestPath
		g.logger.Info("generated manifest", slog.String("path", g.manifestPath), slog.Int("icons", len(m.Icons)))
	}

	g.logger.Info("generation completed", slog.Int("icons", len(res.Icons)))
	return res, nil
}
