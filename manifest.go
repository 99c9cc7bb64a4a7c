package icongen

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

const (
	DefaultManifestPath = "public/site.webmanifest"
	DefaultPublicDir    = "public"
)

// Manifest is a web app manifest that references the generated icons.
type Manifest struct {
	Name                      string         `json:"name,omitempty" yaml:"name,omitempty"`
	ShortName                 string         `json:"short_name,omitempty" yaml:"shortName,omitempty"`
	Description               string         `json:"description,omitempty" yaml:"description,omitempty"`
	StartURL                  string         `json:"start_url,omitempty" yaml:"startURL,omitempty"`
	Display                   string         `json:"display,omitempty" yaml:"display,omitempty"`
	BackgroundColor           string         `json:"background_color,omitempty" yaml:"backgroundColor,omitempty"`
	ThemeColor                string         `json:"theme_color,omitempty" yaml:"themeColor,omitempty"`
	Orientation               string         `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	PreferRelatedApplications bool           `json:"prefer_related_applications" yaml:"preferRelatedApplications,omitempty"`
	Icons                     []ManifestIcon `json:"icons" yaml:"-"`
}

type ManifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose,omitempty"`
}

// publicURL maps an output path to its URL path under publicDir.
// ok is false when p is outside publicDir.
func publicURL(publicDir, p string) (string, bool) {
	rel, err := filepath.Rel(filepath.FromSlash(publicDir), filepath.FromSlash(p))
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return path.Join("/", rel), true
}

// buildManifest fills the icon list and colors of base from the written targets.
func buildManifest(base Manifest, publicDir, icoPath string, bg string, targets []Target) *Manifest {
	m := base
	if m.BackgroundColor == "" {
		m.BackgroundColor = bg
	}
	if m.ThemeColor == "" {
		m.ThemeColor = bg
	}
	m.Icons = nil
	if icoPath != "" {
		if src, ok := publicURL(publicDir, icoPath); ok {
			sizes := make([]string, 0, len(ICOSizes))
			for _, s := range ICOSizes {
				sizes = append(sizes, fmt.Sprintf("%dx%d", s, s))
			}
			m.Icons = append(m.Icons, ManifestIcon{
				Src:   src,
				Sizes: strings.Join(sizes, " "),
				Type:  "image/x-icon",
			})
		}
	}
	seen := map[int]struct{}{}
	for _, t := range targets {
		if strings.HasPrefix(path.Base(filepath.ToSlash(t.Path)), "apple-touch-icon") {
			continue
		}
		if _, ok := seen[t.Size]; ok {
			continue
		}
		src, ok := publicURL(publicDir, t.Path)
		if !ok {
			continue
		}
		seen[t.Size] = struct{}{}
		purpose := "maskable"
		if t.Size >= 192 {
			purpose = "any maskable"
		}
		m.Icons = append(m.Icons, ManifestIcon{
			Src:     src,
			Sizes:   fmt.Sprintf("%dx%d", t.Size, t.Size),
			Type:    "image/png",
			Purpose: purpose,
		})
	}
	return &m
}

func (m *Manifest) marshal() ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
