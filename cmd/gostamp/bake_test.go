package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gostamp/internal/config"
	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSolidPNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestRunBake(t *testing.T) {
	dir := t.TempDir()
	pattern := filepath.Join(dir, "pattern.png")
	logo := filepath.Join(dir, "logo.png")
	out := filepath.Join(dir, "out.png")
	writeSolidPNG(t, pattern, 20, 20, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	writeSolidPNG(t, logo, 4, 4, color.RGBA{G: 255, A: 255})

	var stdout bytes.Buffer
	err := runBake(context.Background(), config.Default(), bakeOptions{
		Pattern: pattern,
		Images:  []string{logo},
		Out:     out,
		Places:  []string{"0,0,10,10"},
		Canvas:  "20x20",
	}, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Baked 1 layer(s)")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())
	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, [3]uint32{0, 0xffff, 0}, [3]uint32{r, g, b})
	r, g, b, _ = img.At(15, 15).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}

func TestRunBakeTooManyPlaces(t *testing.T) {
	err := runBake(context.Background(), config.Default(), bakeOptions{
		Pattern: "p.png",
		Places:  []string{"0,0,1,1"},
	}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunBakeMissingPattern(t *testing.T) {
	err := runBake(context.Background(), config.Default(), bakeOptions{
		Pattern: filepath.Join(t.TempDir(), "missing.png"),
		Out:     filepath.Join(t.TempDir(), "out.png"),
	}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load pattern")
}

func TestParseRect(t *testing.T) {
	r, err := parseRect("10, 20,-30,40.5")
	require.NoError(t, err)
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, W: -30, H: 40.5}, r)

	_, err = parseRect("1,2,3")
	assert.Error(t, err)
	_, err = parseRect("1,2,3,a")
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("800X600")
	require.NoError(t, err)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	for _, bad := range []string{"800", "0x10", "ax10", "10x-1"} {
		_, _, err := parseSize(bad)
		assert.Error(t, err, bad)
	}
}
