package session

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/philipparndt/gostamp/pkg/imagefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClipboard(t *testing.T, data []byte, err error) {
	old := readClipboardImage
	t.Cleanup(func() { readClipboardImage = old })
	readClipboardImage = func() ([]byte, error) { return data, err }
}

func TestPasteImageAddsLayer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 200))))
	fakeClipboard(t, buf.Bytes(), nil)

	s := newSession(t, &textures{})
	id, err := s.PasteImage()
	require.NoError(t, err)

	l, ok := s.Editor.Selected()
	require.True(t, ok)
	assert.Equal(t, id, l.ID)
	assert.Equal(t, "clipboard.png", l.Name)
	assert.Equal(t, 300.0, l.W)
	assert.Equal(t, 150.0, l.H)
}

func TestPasteImageEmptyClipboard(t *testing.T) {
	fakeClipboard(t, nil, nil)

	s := newSession(t, &textures{})
	_, err := s.PasteImage()
	assert.ErrorIs(t, err, ErrNoClipboardImage)
	assert.Zero(t, s.Editor.Len())
}

func TestPasteImageClipboardUnavailable(t *testing.T) {
	boom := errors.New("no display")
	fakeClipboard(t, nil, boom)

	s := newSession(t, &textures{})
	_, err := s.PasteImage()
	assert.ErrorIs(t, err, boom)
}

func TestAddImageDataRejectsGarbage(t *testing.T) {
	s := newSession(t, &textures{})
	_, err := s.AddImageData("junk.png", []byte("junk"))

	var decodeErr *imagefile.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
	assert.Zero(t, s.Editor.Len())
}
