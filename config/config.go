package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/expand"
	"github.com/k1LoW/icongen"
)

const appName = "icongen"

var (
	homePath       string
	configHomePath string
	stateHomePath  string
)

type Config struct {
	// fill or crop
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`
	// background color used in fill mode (#rrggbb)
	Background string `yaml:"background,omitempty" json:"background,omitempty"`
	// resampling filter: lanczos, catmullrom, mitchell, box
	Resample string `yaml:"resample,omitempty" json:"resample,omitempty"`
	// directory output paths are relative to
	OutDir string `yaml:"outDir,omitempty" json:"outDir,omitempty"`
	// directory served at the site root
	PublicDir string `yaml:"publicDir,omitempty" json:"publicDir,omitempty"`
	// raster size for SVG sources
	SVGSize int `yaml:"svgSize,omitempty" json:"svgSize,omitempty"`
	// command whose stdout is the source image
	SourceCommand string `yaml:"sourceCommand,omitempty" json:"sourceCommand,omitempty"`
	// CEL expression selecting targets
	Filter string `yaml:"filter,omitempty" json:"filter,omitempty"`
	// replaces the default target table
	Targets []icongen.Target `yaml:"targets,omitempty" json:"targets,omitempty"`
	// favicon path; "-" disables it
	ICO string `yaml:"ico,omitempty" json:"ico,omitempty"`
	// web manifest settings
	Manifest *Manifest `yaml:"manifest,omitempty" json:"manifest,omitempty"`
}

type Manifest struct {
	Path             string `yaml:"path,omitempty" json:"path,omitempty"`
	icongen.Manifest `yaml:",inline"`
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration file.
// When path is empty it searches in the following order:
// 1. ./icongen.yml, ./icongen.yaml
// 2. $XDG_CONFIG_HOME/icongen/config.yml, config.yaml
// If no config file is found, it returns an empty Config struct.
// ${VAR} references in values are replaced with environment variables.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := unmarshal(path, b, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	basePaths := []string{
		appName,
		filepath.Join(configPath(), "config"),
	}
	for _, basePath := range basePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			p := basePath + ext
			if b, err := os.ReadFile(p); err == nil {
				if err := unmarshal(p, b, cfg); err != nil {
					return nil, err
				}
				return cfg, nil
			}
		}
	}
	// If no config file is found, return an empty config
	return cfg, nil
}

// unmarshal expands ${VAR} in YAML values from the environment before decoding.
// $VAR without braces is kept, so sourceCommand can refer to $ICONGEN_SOURCE.
func unmarshal(p string, b []byte, cfg *Config) error {
	if err := yaml.Unmarshal(expand.ExpandenvYAMLBytes(b), cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config %s: %w", p, err)
	}
	return nil
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, appName)
	} else {
		configHomePath = filepath.Join(homePath, ".config", appName)
	}
	return configHomePath
}

func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, appName)
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", appName)
	}
	return stateHomePath
}
