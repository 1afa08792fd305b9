package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 600, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height)
	assert.Equal(t, 60.0, cfg.Placement.X)
	assert.Equal(t, 300.0, cfg.Placement.MaxWidth)
	assert.Equal(t, 150*time.Millisecond, cfg.Bake.Debounce)
	assert.Equal(t, 10*time.Second, cfg.Bake.Timeout)
	assert.True(t, cfg.Watch)
	assert.NoError(t, cfg.Validate())
}

func TestReadOverridesDefaults(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
pattern: assets/pattern.png
model: shirt.stl
canvas:
  width: 800
bake:
  debounce: 300ms
watch: false
`))
	require.NoError(t, err)

	assert.Equal(t, "assets/pattern.png", cfg.Pattern)
	assert.Equal(t, "shirt.stl", cfg.Model)
	assert.Equal(t, 800, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height, "untouched fields keep defaults")
	assert.Equal(t, 300*time.Millisecond, cfg.Bake.Debounce)
	assert.Equal(t, 10*time.Second, cfg.Bake.Timeout)
	assert.False(t, cfg.Watch)
}

func TestReadEmpty(t *testing.T) {
	cfg, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestReadRejectsUnknownFields(t *testing.T) {
	_, err := Read(strings.NewReader("canvass:\n  width: 1\n"))
	assert.Error(t, err)
}

func TestReadValidates(t *testing.T) {
	_, err := Read(strings.NewReader("canvas:\n  width: 0\n  scale: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canvas size")
	assert.Contains(t, err.Error(), "canvas scale")
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gostamp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("placement:\n  x: 10\n  y: 20\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10.0, cfg.Placement.X)
	assert.Equal(t, 20.0, cfg.Placement.Y)
}
