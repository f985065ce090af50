// Package config loads the optional recast.yaml defaults file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"recast/internal/format"
	"recast/internal/processor"
)

// Config mirrors the converter settings a user can pin in a file.
// Command-line flags override every field.
type Config struct {
	Format      string `yaml:"format"`
	Quality     int    `yaml:"quality"`
	Compression int    `yaml:"compression"`
	Rescale     int    `yaml:"rescale"`
	Output      string `yaml:"output"`
	Background  string `yaml:"background"`
	Recursive   bool   `yaml:"recursive"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	req := processor.DefaultRequest()
	return &Config{
		Format:      req.Target.Ext(),
		Quality:     req.Quality,
		Compression: req.Compression,
		Rescale:     req.Rescale,
		Output:      homeDir(),
		Background:  "#ffffff",
	}
}

// DefaultPath is $XDG_CONFIG_HOME/recast/config.yaml or its platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "recast", "config.yaml"), nil
}

// Load reads and parses the configuration file. Keys missing from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Resolve loads path when given. With an empty path it tries DefaultPath
// and falls back to Default when that file does not exist.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	def, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(def)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks every field against the converter's ranges.
func (c *Config) Validate() error {
	if _, err := format.Parse(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality)
	}
	if c.Compression < 0 || c.Compression > 9 {
		return fmt.Errorf("compression must be between 0 and 9, got %d", c.Compression)
	}
	if c.Rescale < processor.MinRescale || c.Rescale > processor.MaxRescale {
		return fmt.Errorf("rescale must be between %d and %d, got %d", processor.MinRescale, processor.MaxRescale, c.Rescale)
	}
	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	if _, err := ParseBackground(c.Background); err != nil {
		return err
	}
	return nil
}

// Request builds the engine parameters for one batch.
func (c *Config) Request() (processor.Request, error) {
	target, err := format.Parse(c.Format)
	if err != nil {
		return processor.Request{}, err
	}
	bg, err := ParseBackground(c.Background)
	if err != nil {
		return processor.Request{}, err
	}

	req := processor.Request{
		Target:      target,
		Quality:     c.Quality,
		Compression: c.Compression,
		Rescale:     c.Rescale,
		OutputDir:   c.Output,
		Background:  bg,
	}
	return req, req.Validate()
}

// ParseBackground turns a #rrggbb or #rgb string into an opaque color.
func ParseBackground(s string) (color.RGBA, error) {
	if s == "" {
		return processor.White, nil
	}
	if s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("background %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
