// Package config loads gostamp settings from YAML. Missing fields keep
// their defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Canvas is the logical size of the overlay editor
type Canvas struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// Placement controls where new layers appear
type Placement struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	MaxWidth float64 `yaml:"maxWidth"`
}

// Bake tunes texture baking
type Bake struct {
	Debounce time.Duration `yaml:"debounce"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Window is the desktop window size
type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the full settings file
type Config struct {
	Pattern   string    `yaml:"pattern"`
	Model     string    `yaml:"model"`
	Canvas    Canvas    `yaml:"canvas"`
	Placement Placement `yaml:"placement"`
	Bake      Bake      `yaml:"bake"`
	Watch     bool      `yaml:"watch"`
	Window    Window    `yaml:"window"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Canvas:    Canvas{Width: 600, Height: 600, Scale: 1},
		Placement: Placement{X: 60, Y: 60, MaxWidth: 300},
		Bake:      Bake{Debounce: 150 * time.Millisecond, Timeout: 10 * time.Second},
		Watch:     true,
		Window:    Window{Width: 1400, Height: 800},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes YAML from r over the defaults
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the editor cannot work with
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Canvas.Scale <= 0 {
		errs = append(errs, fmt.Errorf("canvas scale must be positive, got %g", c.Canvas.Scale))
	}
	if c.Placement.MaxWidth <= 0 {
		errs = append(errs, fmt.Errorf("placement maxWidth must be positive, got %g", c.Placement.MaxWidth))
	}
	if c.Bake.Debounce < 0 || c.Bake.Timeout < 0 {
		errs = append(errs, errors.New("bake durations must not be negative"))
	}
	return errors.Join(errs...)
}
