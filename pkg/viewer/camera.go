package viewer

import (
	"math"

	"github.com/philipparndt/gostamp/pkg/geometry"
)

const nearPlane = 0.01

// Camera orbits a target at a fixed distance
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // Field of view in radians
	Distance  float64
	RotationX float64 // Rotation around X axis (vertical)
	RotationY float64 // Rotation around Y axis (horizontal)
}

// NewCamera creates a camera looking at the front of bbox
func NewCamera(bbox geometry.BoundingBox) *Camera {
	c := &Camera{
		Up:  geometry.NewVector3(0, 1, 0),
		FOV: math.Pi / 4, // 45 degrees
	}
	c.Frame(bbox)
	return c
}

// Frame centers the camera on bbox and resets the rotation
func (c *Camera) Frame(bbox geometry.BoundingBox) {
	c.Target = bbox.Center()
	c.Distance = bbox.MaxDimension() * 2.0
	if c.Distance <= 0 {
		c.Distance = 10
	}
	c.RotationX = 0
	c.RotationY = 0
	c.UpdatePosition()
}

// UpdatePosition updates camera position based on rotation angles
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate rotates the camera by the given angles
func (c *Camera) Rotate(deltaX, deltaY float64) {
	// Clamp X rotation to prevent gimbal lock
	maxAngle := math.Pi/2 - 0.1
	c.RotationX = math.Max(-maxAngle, math.Min(maxAngle, c.RotationX+deltaX))
	c.RotationY += deltaY
	c.UpdatePosition()
}

// Zoom changes the camera distance
func (c *Camera) Zoom(delta float64) {
	c.Distance = math.Max(0.1, c.Distance*(1.0+delta))
	c.UpdatePosition()
}

// Project maps a world point to screen coordinates and camera depth. ok is
// false for points behind the near plane.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (x, y, z float64, ok bool) {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	relative := point.Sub(c.Position)
	cx := relative.Dot(right)
	cy := relative.Dot(up)
	z = relative.Dot(forward)
	if z <= nearPlane {
		return 0, 0, z, false
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	x = (cx/(z*fovScale*aspect))*(width/2) + width/2
	y = (-cy/(z*fovScale))*(height/2) + height/2
	return x, y, z, true
}
