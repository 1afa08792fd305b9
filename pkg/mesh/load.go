package mesh

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/gostamp/pkg/openscad"
	"github.com/philipparndt/gostamp/pkg/stl"
)

// Supported reports whether path has a loadable model extension
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl", ".scad":
		return true
	}
	return false
}

// LoadModel reads the raw triangles of path. OpenSCAD sources are rendered
// into a temporary STL that is removed afterwards.
func LoadModel(ctx context.Context, path string) (*stl.Model, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		model, err := stl.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STL file: %w", err)
		}
		return model, nil

	case ".scad":
		tmp, err := os.MkdirTemp("", "gostamp-scad-")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer os.RemoveAll(tmp)

		out := filepath.Join(tmp, "model.stl")
		renderer := openscad.NewRenderer(filepath.Dir(path))
		if err := renderer.RenderToSTL(ctx, path, out); err != nil {
			return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
		}

		model, err := stl.Parse(out)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rendered STL: %w", err)
		}
		if model.Name == "" {
			model.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unsupported file type: %s (expected .stl or .scad)", ext)
	}
}

// Load reads path and builds its mesh group
func Load(ctx context.Context, path string) (*Group, error) {
	model, err := LoadModel(ctx, path)
	if err != nil {
		return nil, err
	}
	g := FromModel(model)
	g.Source = path
	if g.Name == "" {
		g.Name = filepath.Base(path)
	}
	return g, nil
}

// WatchList returns the files whose change should reload path
func WatchList(path string) ([]string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".scad" {
		return []string{path}, nil
	}
	deps, err := openscad.NewRenderer(filepath.Dir(path)).ResolveDependencies(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
	}
	return deps, nil
}
