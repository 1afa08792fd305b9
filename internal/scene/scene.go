// Package scene owns the raylib side of the 3D view: the loaded mesh group,
// its material and the baked texture. Everything that touches the GPU runs
// in Sync, Draw and Close, which must be called from the render thread.
package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/philipparndt/gostamp/pkg/mesh"
)

// ErrEmptyTexture is returned for an empty texture payload
var ErrEmptyTexture = errors.New("empty texture")

// Options configures a Context
type Options struct {
	Logger *slog.Logger
}

// Context is the handle the editor pushes textures into. It replaces any
// global mesh, material or texture state.
type Context struct {
	log *slog.Logger

	pendingGroup   slot[*mesh.Group]
	pendingTexture slot[[]byte]

	group    *mesh.Group
	meshes   []rl.Mesh
	material rl.Material
	texture  rl.Texture2D
}

// Changes reports what a Sync call swapped in
type Changes struct {
	Model   bool
	Texture bool
}

// New is called once the window exists
func New(opts Options) *Context {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Context{
		log:      log.With("component", "scene"),
		material: rl.LoadMaterialDefault(),
	}
}

// LoadModel reads path and queues its mesh group for the next Sync, which
// disposes of the current group first. Safe to call from any goroutine.
func (c *Context) LoadModel(ctx context.Context, path string) (*mesh.Group, error) {
	g, err := mesh.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	c.pendingGroup.put(g)
	c.log.Info("Model loaded", "path", path, "triangles", g.TriangleCount(), "meshes", len(g.Meshes))
	return g, nil
}

// SetGroup queues an already loaded group
func (c *Context) SetGroup(g *mesh.Group) {
	c.pendingGroup.put(g)
}

// ApplyTexture queues an encoded image as the diffuse texture of every mesh
// in the current group. Safe to call from any goroutine; only the newest
// image is uploaded.
func (c *Context) ApplyTexture(png []byte) error {
	if len(png) == 0 {
		return ErrEmptyTexture
	}
	c.pendingTexture.put(png)
	return nil
}

// Sync uploads whatever was queued since the last call
func (c *Context) Sync() Changes {
	var ch Changes

	if g, ok := c.pendingGroup.take(); ok {
		c.unloadMeshes()
		c.group = g
		c.meshes = make([]rl.Mesh, 0, len(g.Meshes))
		for _, m := range g.Meshes {
			c.meshes = append(c.meshes, upload(m))
		}
		ch.Model = true
	}

	if data, ok := c.pendingTexture.take(); ok {
		if err := c.swapTexture(data); err != nil {
			c.log.Warn("Failed to upload texture", "error", err)
		} else {
			ch.Texture = true
		}
	}
	return ch
}

func (c *Context) swapTexture(data []byte) error {
	img := rl.LoadImageFromMemory(".png", data, int32(len(data)))
	if img == nil || img.Width == 0 || img.Height == 0 {
		return errors.New("texture is not a decodable PNG")
	}
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if tex.ID == 0 {
		return errors.New("texture upload failed")
	}
	rl.SetTextureFilter(tex, rl.FilterBilinear)

	old := c.texture
	rl.SetMaterialTexture(&c.material, rl.MapDiffuse, tex)
	c.texture = tex
	if old.ID != 0 {
		rl.UnloadTexture(old)
	}
	return nil
}

// upload mirrors m into a raylib mesh. The Go slices stay referenced by the
// returned mesh for as long as it is drawn.
func upload(m *mesh.Mesh) rl.Mesh {
	rm := rl.Mesh{
		VertexCount:   int32(m.VertexCount()),
		TriangleCount: int32(m.TriangleCount()),
	}
	if len(m.Positions) > 0 {
		rm.Vertices = &m.Positions[0]
	}
	if len(m.Normals) > 0 {
		rm.Normals = &m.Normals[0]
	}
	if len(m.UVs) > 0 {
		rm.Texcoords = &m.UVs[0]
	}
	if len(m.Colors) > 0 {
		rm.Colors = &m.Colors[0]
	}
	rl.UploadMesh(&rm, false)
	return rm
}

func (c *Context) unloadMeshes() {
	for i := range c.meshes {
		rl.UnloadMesh(&c.meshes[i])
	}
	c.meshes = nil
	c.group = nil
}

// Draw renders the current group with the baked texture
func (c *Context) Draw(camera rl.Camera3D) {
	rl.BeginMode3D(camera)
	for _, m := range c.meshes {
		rl.DrawMesh(m, c.material, rl.MatrixIdentity())
	}
	rl.EndMode3D()
}

// Group returns the uploaded group, or nil before the first model
func (c *Context) Group() *mesh.Group {
	return c.group
}

// Bounds returns the bounds of the uploaded group
func (c *Context) Bounds() (geometry.BoundingBox, bool) {
	if c.group == nil || c.group.Bounds.IsEmpty() {
		return geometry.BoundingBox{}, false
	}
	return c.group.Bounds, true
}

// HasTexture reports whether a baked texture has been uploaded
func (c *Context) HasTexture() bool {
	return c.texture.ID != 0
}

// Close releases the meshes, the material and its texture
func (c *Context) Close() {
	c.unloadMeshes()
	// UnloadMaterial also unloads the assigned texture
	rl.UnloadMaterial(c.material)
	c.texture = rl.Texture2D{}
}
