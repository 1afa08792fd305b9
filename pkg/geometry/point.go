package geometry

import "math"

// Point is a 2D position in canvas logical coordinates
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both components by s
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Rect is an axis-aligned rectangle given by an anchor and a signed size.
// A negative W or H is a mirrored rectangle whose anchor sits on the
// right (bottom) edge; Normalize yields the covered area.
type Rect struct {
	X, Y, W, H float64
}

// Normalize returns the same area with a top-left anchor and non-negative size
func (r Rect) Normalize() Rect {
	minX, maxX := math.Min(r.X, r.X+r.W), math.Max(r.X, r.X+r.W)
	minY, maxY := math.Min(r.Y, r.Y+r.H), math.Max(r.Y, r.Y+r.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Min returns the top-left corner of the covered area
func (r Rect) Min() Point {
	n := r.Normalize()
	return Point{X: n.X, Y: n.Y}
}

// Max returns the bottom-right corner of the covered area
func (r Rect) Max() Point {
	n := r.Normalize()
	return Point{X: n.X + n.W, Y: n.Y + n.H}
}

// Center returns the midpoint of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside the covered area. Edges count as inside.
func (r Rect) Contains(p Point) bool {
	n := r.Normalize()
	return p.X >= n.X && p.X <= n.X+n.W && p.Y >= n.Y && p.Y <= n.Y+n.H
}

// Square returns a size×size rectangle centered on c
func Square(c Point, size float64) Rect {
	return Rect{X: c.X - size/2, Y: c.Y - size/2, W: size, H: size}
}

// FlipX reports whether the rectangle is mirrored horizontally
func (r Rect) FlipX() bool {
	return r.W < 0
}

// FlipY reports whether the rectangle is mirrored vertically
func (r Rect) FlipY() bool {
	return r.H < 0
}
