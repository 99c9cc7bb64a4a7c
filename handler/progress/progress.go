package progress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/k1LoW/errors"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

var _ slog.Handler = (*progressHandler)(nil)

type progressHandler struct {
	handler slog.Handler
	spinner *spinner.Spinner
	out     io.Writer
	attrs   []slog.Attr
	group   string
	mu      *sync.Mutex
}

// New returns a handler that renders generator records on out as human-readable lines.
// Records it does not know are passed to h.
func New(out io.Writer, h slog.Handler) (_ *progressHandler, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	if err := s.Color("yellow"); err != nil {
		return nil, err
	}
	s.Suffix = " retrying"
	return &progressHandler{
		handler: h,
		spinner: s,
		out:     out,
		mu:      &sync.Mutex{},
	}, nil
}

func (h *progressHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo || h.handler.Enabled(ctx, level)
}

func (h *progressHandler) Handle(ctx context.Context, r slog.Record) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	h.mu.Lock()
	defer h.mu.Unlock()

	if strings.HasPrefix(r.Message, "retrying") {
		if !h.spinner.Active() {
			h.spinner.Start()
		}
		return nil
	}
	if h.spinner.Active() {
		h.spinner.Stop()
	}

	attrs := h.collect(r)
	switch r.Message {
	case "loaded source":
		return h.printf("%s %s (%sx%s)\n", gray("Loaded"), attrs["source"], attrs["width"], attrs["height"])
	case "cropped source":
		return h.printf("%s to %sx%s\n", cyan("Cropped"), attrs["width"], attrs["height"])
	case "generated icon":
		return h.printf("%s %s (%sx%s)\n", green("Generated"), attrs["path"], attrs["size"], attrs["size"])
	case "generated favicon":
		return h.printf("%s %s %s\n", green("Generated"), attrs["path"], attrs["sizes"])
	case "generated manifest":
		return h.printf("%s %s (%s icons)\n", green("Generated"), attrs["path"], attrs["icons"])
	case "checked icon":
		return h.printf("%s %s\n", green("✓"), attrs["path"])
	case "check failed":
		return h.printf("%s %s: %s\n", red("✗"), attrs["path"], attrs["problem"])
	case "watching source":
		return h.printf("%s %s\n", cyan("Watching"), attrs["source"])
	case "source changed":
		return h.printf("%s %s\n", yellow("Changed"), attrs["source"])
	case "generation completed":
		return h.printf("%s\n", green("All icons generated successfully."))
	}
	if r.Level >= slog.LevelError || strings.Contains(r.Message, "failed to") {
		msg := r.Message
		if e, ok := attrs["error"]; ok {
			msg = fmt.Sprintf("%s: %s", msg, e)
		}
		return h.printf("%s %s\n", red("!"), msg)
	}
	if !h.handler.Enabled(ctx, r.Level) {
		return nil
	}
	return h.handler.Handle(ctx, r)
}

func (h *progressHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &progressHandler{
		handler: h.handler.WithAttrs(attrs),
		spinner: h.spinner,
		out:     h.out,
		attrs:   append(append([]slog.Attr{}, h.attrs...), attrs...),
		group:   h.group,
		mu:      h.mu,
	}
}

func (h *progressHandler) WithGroup(name string) slog.Handler {
	return &progressHandler{
		handler: h.handler.WithGroup(name),
		spinner: h.spinner,
		out:     h.out,
		attrs:   h.attrs,
		group:   name,
		mu:      h.mu,
	}
}

func (h *progressHandler) collect(r slog.Record) map[string]string {
	m := map[string]string{}
	for _, a := range h.attrs {
		m[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.String()
		return true
	})
	return m
}

func (h *progressHandler) printf(format string, a ...any) error {
	_, err := fmt.Fprintf(h.out, format, a...)
	return err
}
