package icongen

import (
	"os"
	"testing"

	"github.com/tenntenn/golden"
)

func TestBuildManifest(t *testing.T) {
	base := Manifest{
		Name:        "Bible Assistant",
		ShortName:   "Bible",
		Description: "A modern AI-powered Bible study assistant",
		StartURL:    "/",
		Display:     "standalone",
		Orientation: "portrait-primary",
	}
	m := buildManifest(base, DefaultPublicDir, DefaultICOPath, HexColor(DefaultBackground), DefaultTargets())
	got, err := m.marshal()
	if err != nil {
		t.Fatal(err)
	}
	if os.Getenv("UPDATE_GOLDEN") != "" {
		golden.Update(t, "testdata", "manifest", got)
		return
	}
	if diff := golden.Diff(t, "testdata", "manifest", got); diff != "" {
		t.Error(diff)
	}
}

func TestBuildManifestKeepsColors(t *testing.T) {
	m := buildManifest(Manifest{ThemeColor: "#ffffff"}, DefaultPublicDir, "", "#122d4a", nil)
	if m.ThemeColor != "#ffffff" {
		t.Errorf("ThemeColor = %q, want %q", m.ThemeColor, "#ffffff")
	}
	if m.BackgroundColor != "#122d4a" {
		t.Errorf("BackgroundColor = %q, want %q", m.BackgroundColor, "#122d4a")
	}
	if len(m.Icons) != 0 {
		t.Errorf("Icons = %v, want none", m.Icons)
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		publicDir string
		path      string
		want      string
		wantOK    bool
	}{
		{"public", "public/icons/icon-192.png", "/icons/icon-192.png", true},
		{"public", "public/favicon.ico", "/favicon.ico", true},
		{"public/", "./public/apple-touch-icon.png", "/apple-touch-icon.png", true},
		{"public", "static/icon.png", "", false},
		{".", "icon.png", "/icon.png", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := publicURL(tt.publicDir, tt.path)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("publicURL(%q, %q) = %q, %v; want %q, %v", tt.publicDir, tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
