/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/k1LoW/icongen"
	"github.com/k1LoW/icongen/config"
	"github.com/spf13/cobra"
)

const defaultSource = "source_icon.png"

// outputFlags are the flags shared by every command that resolves the target set.
type outputFlags struct {
	mode       string
	background string
	resample   string
	filterExpr string
	outDir     string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "normalization mode (fill, crop)")
	cmd.Flags().StringVarP(&f.background, "background", "b", "", "background color for fill mode (#rrggbb)")
	cmd.Flags().StringVarP(&f.resample, "resample", "r", "", "resampling filter (lanczos, catmullrom, mitchell, box)")
	cmd.Flags().StringVarP(&f.filterExpr, "filter-expr", "f", "", "CEL expression selecting targets by path and size")
	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "", "directory output paths are relative to")
}

// buildOptions merges the config file and flags into generator options. Flags take precedence.
func buildOptions(cfg *config.Config, f *outputFlags, manifest bool, logger *slog.Logger) ([]icongen.Option, error) {
	opts := []icongen.Option{icongen.WithLogger(logger)}

	mode := firstNonEmpty(f.mode, cfg.Mode)
	if mode != "" {
		opts = append(opts, icongen.WithMode(icongen.Mode(mode)))
	}
	if bg := firstNonEmpty(f.background, cfg.Background); bg != "" {
		c, err := icongen.ParseColor(bg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, icongen.WithBackground(c))
	}
	if r := firstNonEmpty(f.resample, cfg.Resample); r != "" {
		opts = append(opts, icongen.WithFilter(icongen.Filter(r)))
	}
	if expr := firstNonEmpty(f.filterExpr, cfg.Filter); expr != "" {
		opts = append(opts, icongen.WithFilterExpr(expr))
	}
	if dir := firstNonEmpty(f.outDir, cfg.OutDir); dir != "" {
		opts = append(opts, icongen.WithOutDir(dir))
	}
	if cfg.PublicDir != "" {
		opts = append(opts, icongen.WithPublicDir(cfg.PublicDir))
	}
	if cfg.SVGSize != 0 {
		opts = append(opts, icongen.WithSVGSize(cfg.SVGSize))
	}
	if cfg.SourceCommand != "" {
		opts = append(opts, icongen.WithSourceCommand(cfg.SourceCommand))
	}
	if len(cfg.Targets) > 0 {
		opts = append(opts, icongen.WithTargets(cfg.Targets))
	}
	switch cfg.ICO {
	case "":
	case "-":
		opts = append(opts, icongen.WithICO(""))
	default:
		opts = append(opts, icongen.WithICO(cfg.ICO))
	}
	switch {
	case cfg.Manifest != nil:
		m := cfg.Manifest.Manifest
		opts = append(opts, icongen.WithManifest(&m, cfg.Manifest.Path))
	case manifest:
		opts = append(opts, icongen.WithManifest(&icongen.Manifest{}, ""))
	}
	return opts, nil
}

func newGenerator(f *outputFlags, manifest bool) (*icongen.Generator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	opts, err := buildOptions(cfg, f, manifest, logger)
	if err != nil {
		return nil, err
	}
	g, err := icongen.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return g, nil
}

func sourceArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultSource
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
