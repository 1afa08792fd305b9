package compositor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"

	"github.com/philipparndt/gostamp/pkg/imagefile"
)

// PatternLoadError reports a base pattern that could not be loaded for a bake.
// The bake is abandoned; the caller may retry.
type PatternLoadError struct {
	Ref string
	Err error
}

func (e *PatternLoadError) Error() string {
	return fmt.Sprintf("failed to load pattern %s: %v", e.Ref, e.Err)
}

func (e *PatternLoadError) Unwrap() error {
	return e.Err
}

// Retryable is always true: a pattern that failed once may load later
func (e *PatternLoadError) Retryable() bool {
	return true
}

// Timeout reports whether the load gave up because its deadline passed
func (e *PatternLoadError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// PatternSource provides the base image the overlay is baked onto
type PatternSource interface {
	Load(ctx context.Context) (image.Image, error)
	String() string
}

// Open picks a source for ref: http(s) URLs are fetched, file:// and plain
// paths are read from disk.
func Open(ref string) PatternSource {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return URLPattern{URL: ref}
	case strings.HasPrefix(ref, "file://"):
		return FilePattern(strings.TrimPrefix(ref, "file://"))
	default:
		return FilePattern(ref)
	}
}

// FilePattern is a pattern image on disk
type FilePattern string

func (p FilePattern) String() string {
	return string(p)
}

// Load reads and decodes the file, giving up when ctx is done
func (p FilePattern) Load(ctx context.Context) (image.Image, error) {
	return loadWithContext(ctx, p.String(), func() (image.Image, error) {
		return imagefile.Load(string(p))
	})
}

// URLPattern is a pattern image fetched over HTTP
type URLPattern struct {
	URL    string
	Client *http.Client
}

func (p URLPattern) String() string {
	return p.URL
}

// Load fetches and decodes the image
func (p URLPattern) Load(ctx context.Context) (image.Image, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	return loadWithContext(ctx, p.URL, func() (image.Image, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		img, _, err := imagefile.Decode(resp.Body, p.URL)
		return img, err
	})
}

// ImagePattern is an already decoded pattern
type ImagePattern struct {
	Name  string
	Image image.Image
}

func (p ImagePattern) String() string {
	if p.Name == "" {
		return "<memory>"
	}
	return p.Name
}

// Load returns the image, or a PatternLoadError when it is nil
func (p ImagePattern) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, &PatternLoadError{Ref: p.String(), Err: err}
	}
	if p.Image == nil {
		return nil, &PatternLoadError{Ref: p.String(), Err: errors.New("no image")}
	}
	return p.Image, nil
}

// loadWithContext runs load in the background so a stuck read cannot outlive
// ctx. Every failure is reported as a PatternLoadError.
func loadWithContext(ctx context.Context, ref string, load func() (image.Image, error)) (image.Image, error) {
	type result struct {
		img image.Image
		err error
	}

	if err := ctx.Err(); err != nil {
		return nil, &PatternLoadError{Ref: ref, Err: err}
	}

	done := make(chan result, 1)
	go func() {
		img, err := load()
		done <- result{img: img, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, &PatternLoadError{Ref: ref, Err: ctx.Err()}
	case r := <-done:
		if r.err != nil {
			return nil, &PatternLoadError{Ref: ref, Err: r.err}
		}
		return r.img, nil
	}
}
