// Package geometry holds the pure screen-space primitives shared by the draw
// and hit-test passes. Nothing here draws.
package geometry

// MinSpan is the narrowest horizontal span, in pixels, a time range is drawn with
const MinSpan = 8.0

// Point is a screen position in pixels
type Point struct {
	X float64
	Y float64
}

// Segment is a straight line between two screen positions
type Segment struct {
	From Point
	To   Point
}

// Rect is an axis-aligned rectangle. X0 <= X1 and Y0 <= Y1 for rectangles built
// with NewRect.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewRect builds a normalised rectangle from a position and size
func NewRect(x, y, width, height float64) Rect {
	r := Rect{X0: x, Y0: y, X1: x + width, Y1: y + height}
	if r.X1 < r.X0 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y1 < r.Y0 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Width of the rectangle
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height of the rectangle
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Contains reports whether p lies inside r. Edges count as inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Center of the rectangle
func (r Rect) Center() Point {
	return Point{X: (r.X0 + r.X1) / 2, Y: (r.Y0 + r.Y1) / 2}
}

// WidenSpan orders a horizontal span and grows it symmetrically around its
// midpoint until it is at least min pixels wide.
func WidenSpan(x0, x1, min float64) (float64, float64) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if x1-x0 >= min {
		return x0, x1
	}
	mid := (x0 + x1) / 2
	return mid - min/2, mid + min/2
}

// Interpolate returns the value at fraction f between a and b
func Interpolate(a, b, f float64) float64 {
	return a + (b-a)*f
}

// Clamp restricts v to [lo, hi]. When hi < lo the result is lo.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Distance2 is the squared distance between two points
func Distance2(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
