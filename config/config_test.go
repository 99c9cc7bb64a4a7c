package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/k1LoW/icongen"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		configYAML string
		want       *Config
	}{
		{
			name: "fill mode with background",
			configYAML: `
mode: fill
background: "#122d4a"
resample: lanczos
`,
			want: &Config{Mode: "fill", Background: "#122d4a", Resample: "lanczos"},
		},
		{
			name: "crop mode with targets",
			configYAML: `
mode: crop
filter: size <= 48
targets:
  - path: public/icons/a.png
    size: 16
  - path: public/icons/b.png
    size: 32
    if: path.endsWith("b.png")
ico: "-"
`,
			want: &Config{
				Mode:   "crop",
				Filter: "size <= 48",
				Targets: []icongen.Target{
					{Path: "public/icons/a.png", Size: 16},
					{Path: "public/icons/b.png", Size: 32, If: `path.endsWith("b.png")`},
				},
				ICO: "-",
			},
		},
		{
			name: "manifest",
			configYAML: `
manifest:
  path: public/manifest.webmanifest
  name: Bible Assistant
  shortName: Bible
  display: standalone
`,
			want: &Config{
				Manifest: &Manifest{
					Path: "public/manifest.webmanifest",
					Manifest: icongen.Manifest{
						Name:      "Bible Assistant",
						ShortName: "Bible",
						Display:   "standalone",
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", tmpDir)
			configHomePath = ""
			t.Cleanup(func() { configHomePath = "" })

			configDir := filepath.Join(tmpDir, "icongen")
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("Failed to create config directory: %v", err)
			}
			if err := os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(tt.configYAML), 0o644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			t.Chdir(t.TempDir())

			got, err := Load("")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadExplicitPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "custom.yml")
	if err := os.WriteFile(p, []byte("mode: crop\nsvgSize: 512\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := &Config{Mode: "crop", SVGSize: 512}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("Load() with missing explicit path should fail")
	}
}

func TestLoadWorkingDirectoryFirst(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configHomePath = ""
	t.Cleanup(func() { configHomePath = "" })
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "icongen.yaml"), []byte("resample: box\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Resample != "box" {
		t.Errorf("Resample = %q, want %q", got.Resample, "box")
	}
}

func TestLoadNoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configHomePath = ""
	t.Cleanup(func() { configHomePath = "" })
	t.Chdir(t.TempDir())
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(&Config{}, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadExpandEnv(t *testing.T) {
	t.Setenv("ICONGEN_TEST_OUT", "dist")
	t.Setenv("ICONGEN_TEST_BUCKET", "assets")
	p := filepath.Join(t.TempDir(), "icongen.yml")
	in := `outDir: ${ICONGEN_TEST_OUT}
sourceCommand: gsutil cat gs://${ICONGEN_TEST_BUCKET}/$ICONGEN_SOURCE
targets:
  - path: ${ICONGEN_TEST_OUT}/icon-32.png
    size: 32
`
	if err := os.WriteFile(p, []byte(in), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := &Config{
		OutDir:        "dist",
		SourceCommand: "gsutil cat gs://assets/$ICONGEN_SOURCE",
		Targets:       []icongen.Target{{Path: "dist/icon-32.png", Size: 32}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}
