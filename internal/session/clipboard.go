package session

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/philipparndt/gostamp/pkg/imagefile"
	"github.com/philipparndt/gostamp/pkg/overlay"
)

// ErrNoClipboardImage is returned by PasteImage when the clipboard holds no image
var ErrNoClipboardImage = errors.New("clipboard holds no image")

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// readClipboardImage returns the clipboard image as PNG. Tests replace it.
var readClipboardImage = func() ([]byte, error) {
	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	if clipboardErr != nil {
		return nil, fmt.Errorf("clipboard unavailable: %w", clipboardErr)
	}
	return clipboard.Read(clipboard.FmtImage), nil
}

// PasteImage adds the clipboard image as the topmost, selected layer
func (s *Session) PasteImage() (overlay.LayerID, error) {
	data, err := readClipboardImage()
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNoClipboardImage
	}
	return s.AddImageData("clipboard.png", data)
}

// AddImageData decodes an in-memory image and adds it as a layer
func (s *Session) AddImageData(name string, data []byte) (overlay.LayerID, error) {
	img, _, err := imagefile.Decode(bytes.NewReader(data), name)
	if err != nil {
		s.log.Warn("Failed to add image", "name", name, "error", err)
		return "", err
	}
	id, err := s.Editor.AddLayerNamed(name, img)
	if err != nil {
		return "", fmt.Errorf("failed to add %s: %w", name, err)
	}
	s.log.Info("Layer added", "id", id, "name", name)
	return id, nil
}
