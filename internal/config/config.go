package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/roach88/jafar/internal/discovery"
	"github.com/roach88/jafar/internal/reporting"
)

// FileName is the project config file looked up in the working directory.
const FileName = ".jafar.yaml"

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ValidColors lists the accepted colour modes.
var ValidColors = []string{ColorAuto, ColorAlways, ColorNever}

// Config holds run settings.
type Config struct {
	// Paths to discover when none are given on the command line.
	Paths []string `yaml:"paths,omitempty"`
	// Ext is the spec file extension.
	Ext string `yaml:"ext,omitempty"`
	// Charset selects terminal markers: utf-8 or ascii.
	Charset string `yaml:"charset,omitempty"`
	// Color is auto, always or never.
	Color string `yaml:"color,omitempty"`
	// DB is a SQLite path for run history. Empty disables recording.
	DB string `yaml:"db,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Ext:     discovery.DefaultExt,
		Charset: string(reporting.CharsetUTF8),
		Color:   ColorAuto,
	}
}

// Load layers the file at path over Default. An empty path means FileName
// in the working directory, which may be absent; an explicit path must exist.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	file, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	cfg = Merge(cfg, file)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, rejecting unknown keys. An empty document yields a
// zero Config.
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Merge returns base with every non-empty field of overlay applied.
func Merge(base, overlay Config) Config {
	merged := base
	if len(overlay.Paths) > 0 {
		merged.Paths = slices.Clone(overlay.Paths)
	}
	if overlay.Ext != "" {
		merged.Ext = overlay.Ext
	}
	if overlay.Charset != "" {
		merged.Charset = overlay.Charset
	}
	if overlay.Color != "" {
		merged.Color = overlay.Color
	}
	if overlay.DB != "" {
		merged.DB = overlay.DB
	}
	return merged
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	var errs []error
	if _, err := reporting.ParseCharset(c.Charset); err != nil {
		errs = append(errs, err)
	}
	if c.Color != "" && !slices.Contains(ValidColors, c.Color) {
		errs = append(errs, fmt.Errorf("invalid color %q: must be one of auto, always, never", c.Color))
	}
	return errors.Join(errs...)
}
