package overlay

import "github.com/philipparndt/gostamp/pkg/geometry"

// HandleSize is the edge length of a resize handle square in logical units
const HandleSize = 8.0

// Handle is a grip on the selected layer's bounding box
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleLeft
	HandleRight
	HandleBottomLeft
	HandleBottom
	HandleBottomRight
	HandleMove
)

// resizeHandles is the hit-test priority order
var resizeHandles = [...]Handle{
	HandleTopLeft, HandleTop, HandleTopRight,
	HandleLeft, HandleRight,
	HandleBottomLeft, HandleBottom, HandleBottomRight,
}

// ResizeHandles returns the 8 resize handles in hit-test order
func ResizeHandles() []Handle {
	return resizeHandles[:]
}

func (h Handle) String() string {
	switch h {
	case HandleTopLeft:
		return "tl"
	case HandleTop:
		return "t"
	case HandleTopRight:
		return "tr"
	case HandleLeft:
		return "l"
	case HandleRight:
		return "r"
	case HandleBottomLeft:
		return "bl"
	case HandleBottom:
		return "b"
	case HandleBottomRight:
		return "br"
	case HandleMove:
		return "move"
	default:
		return "none"
	}
}

// ParseHandle is the inverse of Handle.String
func ParseHandle(s string) (Handle, bool) {
	for h := HandleTopLeft; h <= HandleMove; h++ {
		if h.String() == s {
			return h, true
		}
	}
	return HandleNone, false
}

// HandlePosition returns the center of handle h on the covered area of r
func HandlePosition(r geometry.Rect, h Handle) geometry.Point {
	n := r.Normalize()
	minX, minY := n.X, n.Y
	maxX, maxY := n.X+n.W, n.Y+n.H
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	switch h {
	case HandleTopLeft:
		return geometry.Pt(minX, minY)
	case HandleTop:
		return geometry.Pt(midX, minY)
	case HandleTopRight:
		return geometry.Pt(maxX, minY)
	case HandleLeft:
		return geometry.Pt(minX, midY)
	case HandleRight:
		return geometry.Pt(maxX, midY)
	case HandleBottomLeft:
		return geometry.Pt(minX, maxY)
	case HandleBottom:
		return geometry.Pt(midX, maxY)
	case HandleBottomRight:
		return geometry.Pt(maxX, maxY)
	default:
		return geometry.Pt(midX, midY)
	}
}

// HandleRect returns the square occupied by handle h on r
func HandleRect(r geometry.Rect, h Handle) geometry.Rect {
	return geometry.Square(HandlePosition(r, h), HandleSize)
}

// handleAt returns the first handle of r containing p, falling back to
// HandleMove inside the bounds and HandleNone outside.
func handleAt(r geometry.Rect, p geometry.Point) Handle {
	for _, h := range resizeHandles {
		if HandleRect(r, h).Contains(p) {
			return h
		}
	}
	if r.Contains(p) {
		return HandleMove
	}
	return HandleNone
}

// CursorHint is the pointer shape a front end should show
type CursorHint int

const (
	CursorDefault CursorHint = iota
	CursorMove
	CursorNWSE
	CursorNESW
	CursorEW
	CursorNS
)

func (c CursorHint) String() string {
	switch c {
	case CursorMove:
		return "move"
	case CursorNWSE:
		return "nwse-resize"
	case CursorNESW:
		return "nesw-resize"
	case CursorEW:
		return "ew-resize"
	case CursorNS:
		return "ns-resize"
	default:
		return "default"
	}
}

// Cursor maps a handle to its cursor hint
func (h Handle) Cursor() CursorHint {
	switch h {
	case HandleTopLeft, HandleBottomRight:
		return CursorNWSE
	case HandleTopRight, HandleBottomLeft:
		return CursorNESW
	case HandleLeft, HandleRight:
		return CursorEW
	case HandleTop, HandleBottom:
		return CursorNS
	case HandleMove:
		return CursorMove
	default:
		return CursorDefault
	}
}
