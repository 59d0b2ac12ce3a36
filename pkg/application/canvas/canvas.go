// Package canvas defines the drawing surface the chart and its overlays paint
// on. Concrete surfaces live under pkg/infrastructure/render.
package canvas

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// Shape of a scatter marker
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeTriangle
	ShapeTriangleDown
	ShapeDiamond
	ShapeSquare
	ShapeCross
	ShapeStar
)

// String method for Shape enum
func (s Shape) String() string {
	switch s {
	case ShapeTriangle:
		return "triangle"
	case ShapeTriangleDown:
		return "triangle-down"
	case ShapeDiamond:
		return "diamond"
	case ShapeSquare:
		return "square"
	case ShapeCross:
		return "cross"
	case ShapeStar:
		return "star"
	default:
		return "circle"
	}
}

// Anchor is the horizontal alignment of text relative to its position
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Stroke describes a line. An empty Dash draws solid.
type Stroke struct {
	Color drawing.Color
	Width float64
	Dash  []float64
}

// TextStyle describes a text run. Text is positioned by its baseline.
type TextStyle struct {
	Color  drawing.Color
	Size   float64
	Anchor Anchor
	Bold   bool
}

// Canvas is an immediate-mode drawing surface. A transparent fill or a zero
// stroke width means "do not paint" for that part.
type Canvas interface {
	Size() (width, height float64)
	Line(from, to geometry.Point, stroke Stroke)
	Polyline(points []geometry.Point, stroke Stroke)
	Rect(r geometry.Rect, stroke Stroke, fill drawing.Color)
	Marker(at geometry.Point, shape Shape, radius float64, stroke Stroke, fill drawing.Color)
	Text(at geometry.Point, text string, style TextStyle)
	BeginGroup(name string)
	EndGroup()
}

// TextMeasurer reports the rendered width of a string at a font size
type TextMeasurer interface {
	MeasureText(text string, size float64) float64
}

// FixedMeasurer approximates every glyph as Advance × size pixels wide
type FixedMeasurer struct {
	Advance float64
}

// MeasureText implements TextMeasurer
func (m FixedMeasurer) MeasureText(text string, size float64) float64 {
	return float64(len([]rune(text))) * m.Advance * size
}
