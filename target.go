package icongen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/k1LoW/errors"
)

const (
	DefaultICOPath = "public/favicon.ico"
	// icoBaseSize is the edge of the square the ICO entries are downscaled from.
	icoBaseSize = 256
	maxSize     = 4096
)

// ICOSizes are the resolutions embedded in the combined favicon.
var ICOSizes = []int{16, 32, 48, 64}

// Target is a single square PNG output.
type Target struct {
	Path string `json:"path" yaml:"path"`
	Size int    `json:"size" yaml:"size"`
	// If is an optional CEL condition over `path` and `size`.
	If string `json:"if,omitempty" yaml:"if,omitempty"`
}

// DefaultTargets returns the favicon and app icon set referenced by the site layout and manifest.
func DefaultTargets() []Target {
	return []Target{
		{Path: "public/icons/favicon-16x16.png", Size: 16},
		{Path: "public/icons/favicon-32x32.png", Size: 32},
		{Path: "public/icons/icon-48x48.png", Size: 48},
		{Path: "public/icons/icon-192.png", Size: 192},
		{Path: "public/icons/icon-192x192.png", Size: 192},
		{Path: "public/icons/icon-384x384.png", Size: 384},
		{Path: "public/icons/icon-512.png", Size: 512},
		{Path: "public/icons/icon-512x512.png", Size: 512},
		{Path: "public/apple-touch-icon.png", Size: 180},
	}
}

func (t Target) String() string {
	return fmt.Sprintf("%s (%dx%d)", t.Path, t.Size, t.Size)
}

func (t Target) validate() error {
	if strings.TrimSpace(t.Path) == "" {
		return fmt.Errorf("target path is empty")
	}
	if t.Size <= 0 || t.Size > maxSize {
		return fmt.Errorf("invalid size %d for %s: must be between 1 and %d", t.Size, t.Path, maxSize)
	}
	if !strings.EqualFold(filepath.Ext(t.Path), ".png") {
		return fmt.Errorf("target %s must have a .png extension", t.Path)
	}
	return nil
}

// targetSelector evaluates CEL conditions against targets.
type targetSelector struct {
	env    *cel.Env
	global cel.Program
}

func newTargetSelector(expr string) (_ *targetSelector, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	env, err := cel.NewEnv(
		cel.Variable("path", cel.StringType),
		cel.Variable("size", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	s := &targetSelector{env: env}
	if expr != "" {
		prg, err := s.compile(expr)
		if err != nil {
			return nil, err
		}
		s.global = prg
	}
	return s, nil
}

func (s *targetSelector) compile(expr string) (cel.Program, error) {
	ast, issues := s.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile condition %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("condition %q must evaluate to bool, got %s", expr, ast.OutputType())
	}
	prg, err := s.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for condition %q: %w", expr, err)
	}
	return prg, nil
}

func eval(prg cel.Program, t Target) (bool, error) {
	out, _, err := prg.Eval(map[string]any{
		"path": t.Path,
		"size": int64(t.Size),
	})
	if err != nil {
		return false, err
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition returned %T, want bool", out.Value())
	}
	return b, nil
}

// Select returns the targets whose own condition and the global condition both hold.
// Every per-target condition is compiled first, so a broken one fails even when the global condition excludes its target.
func (s *targetSelector) Select(targets []Target) (_ []Target, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	conds := make([]cel.Program, len(targets))
	for i, t := range targets {
		if t.If == "" {
			continue
		}
		prg, err := s.compile(t.If)
		if err != nil {
			return nil, fmt.Errorf("invalid condition for %s: %w", t.Path, err)
		}
		conds[i] = prg
	}
	var selected []Target
	for i, t := range targets {
		if s.global != nil {
			ok, err := eval(s.global, t)
			if err != nil {
				return nil, fmt.Errorf("failed to evaluate filter for %s: %w", t.Path, err)
			}
			if !ok {
				continue
			}
		}
		if conds[i] != nil {
			ok, err := eval(conds[i], t)
			if err != nil {
				return nil, fmt.Errorf("failed to evaluate condition for %s: %w", t.Path, err)
			}
			if !ok {
				continue
			}
		}
		selected = append(selected, t)
	}
	return selected, nil
}
