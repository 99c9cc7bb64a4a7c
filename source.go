package icongen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/exec"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// EnvSource is set for the source command to the source argument.
	EnvSource = "ICONGEN_SOURCE"

	DefaultSVGSize = 1024
	userAgent      = "icongen (+https://github.com/k1LoW/icongen)"
	maxSourceBytes = 64 << 20
)

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func isSVG(source string) bool {
	return strings.EqualFold(filepath.Ext(source), ".svg")
}

// svgSniffLen is how far into the data an <svg element is looked for,
// leaving room for an XML prolog, doctype or leading comments.
const svgSniffLen = 512

func looksLikeSVG(b []byte) bool {
	head := b[:min(len(b), svgSniffLen)]
	return bytes.Contains(head, []byte("<svg"))
}

// loadSource reads and decodes the source image into NRGBA.
func (g *Generator) loadSource(ctx context.Context, source string) (_ *image.NRGBA, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var b []byte
	switch {
	case g.sourceCmd != "":
		b, err = g.runSourceCommand(ctx, source)
	case isRemote(source):
		b, err = g.fetch(ctx, source)
	default:
		b, err = readLocal(source)
	}
	if err != nil {
		return nil, err
	}
	if isSVG(source) || looksLikeSVG(b) {
		return g.rasterizeSVG(source, b)
	}
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, newError(KindSourceInvalid, source, fmt.Errorf("failed to decode image: %w", err))
	}
	g.logger.Info("loaded source", slog.String("source", source), slog.Int("width", img.Bounds().Dx()), slog.Int("height", img.Bounds().Dy()))
	return imaging.Clone(img), nil
}

func readLocal(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(KindSourceNotFound, path, nil)
		}
		return nil, newError(KindSourceNotFound, path, err)
	}
	if fi.IsDir() {
		return nil, newError(KindSourceInvalid, path, fmt.Errorf("source is a directory"))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(KindSourceNotFound, path, err)
	}
	return b, nil
}

func (g *Generator) fetch(ctx context.Context, source string) ([]byte, error) {
	if _, err := url.Parse(source); err != nil {
		return nil, newError(KindSourceInvalid, source, fmt.Errorf("invalid URL: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, newError(KindSourceInvalid, source, err)
	}
	req.Header.Set("User-Agent", userAgent)
	res, err := g.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindSourceNotFound, source, fmt.Errorf("failed to fetch image: %w", err))
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, newError(KindSourceNotFound, source, fmt.Errorf("failed to fetch image: status code %d", res.StatusCode))
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, maxSourceBytes))
	if err != nil {
		return nil, newError(KindSourceNotFound, source, fmt.Errorf("failed to read response body: %w", err))
	}
	return b, nil
}

func (g *Generator) runSourceCommand(ctx context.Context, source string) ([]byte, error) {
	c, args, err := buildCommand(g.sourceCmd)
	if err != nil {
		return nil, fmt.Errorf("failed to build source command: %w", err)
	}
	cmd := exec.CommandContext(ctx, c, args...)
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", EnvSource, source))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, newError(KindSourceNotFound, source, fmt.Errorf("failed to run source command: %w\nstderr: %s", err, stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, newError(KindSourceInvalid, source, fmt.Errorf("source command produced no output"))
	}
	return stdout.Bytes(), nil
}

func (g *Generator) rasterizeSVG(source string, b []byte) (*image.NRGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(b))
	if err != nil {
		return nil, newError(KindSourceInvalid, source, fmt.Errorf("failed to parse SVG: %w", err))
	}
	size := g.svgSize
	icon.SetTarget(0, 0, float64(size), float64(size))
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	g.logger.Info("loaded source", slog.String("source", source), slog.Int("width", size), slog.Int("height", size))
	return imaging.Clone(rgba), nil
}

// buildCommand runs cmdStr through the user's shell.
func buildCommand(cmdStr string) (string, []string, error) {
	shell, err := detectShell()
	if err != nil {
		return "", nil, err
	}
	return shell, []string{"-c", cmdStr}, nil
}

func detectShell() (string, error) {
	shells := []string{
		os.Getenv("SHELL"),
		"/bin/bash",
		"/bin/sh",
	}
	for _, shell := range shells {
		if shell == "" {
			continue
		}
		if _, err := os.Stat(shell); err == nil {
			return shell, nil
		}
	}
	return "", fmt.Errorf("failed to detect shell")
}

func newHTTPClient(logger *slog.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{
		Timeout: 30 * time.Second,
	}
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = newFetchLogger(logger)
	return retryClient.StandardClient()
}

var _ retryablehttp.LeveledLogger = (*fetchLogger)(nil)

type fetchLogger struct {
	l *slog.Logger
}

func newFetchLogger(l *slog.Logger) retryablehttp.LeveledLogger {
	return &fetchLogger{
		l: l.WithGroup("fetch"),
	}
}

func (l *fetchLogger) Error(msg string, keysAndValues ...any) {
	l.l.Error(msg, keysAndValues...)
}

func (l *fetchLogger) Info(msg string, keysAndValues ...any) {
	l.l.Info(msg, keysAndValues...)
}

func (l *fetchLogger) Debug(msg string, keysAndValues ...any) {
	if strings.HasPrefix(msg, "retrying") {
		// surfaced as info so the progress spinner can see it
		l.l.Info(msg, keysAndValues...)
		return
	}
	l.l.Debug(msg, keysAndValues...)
}

func (l *fetchLogger) Warn(msg string, keysAndValues ...any) {
	l.l.Warn(msg, keysAndValues...)
}
