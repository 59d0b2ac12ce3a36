// Package svg implements the chart canvas as a standalone SVG document.
package svg

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vsinha/planviz/pkg/application/canvas"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// Canvas accumulates SVG elements in call order
type Canvas struct {
	Width  float64
	Height float64
	Title  string

	body  strings.Builder
	depth int
}

// New creates an empty SVG canvas
func New(width, height float64) *Canvas {
	return &Canvas{Width: width, Height: height}
}

var _ canvas.Canvas = (*Canvas)(nil)

// Size implements canvas.Canvas
func (c *Canvas) Size() (float64, float64) {
	return c.Width, c.Height
}

// Line implements canvas.Canvas
func (c *Canvas) Line(from, to geometry.Point, stroke canvas.Stroke) {
	c.body.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`,
		num(from.X), num(from.Y), num(to.X), num(to.Y), strokeAttrs(stroke)))
}

// Polyline implements canvas.Canvas
func (c *Canvas) Polyline(points []geometry.Point, stroke canvas.Stroke) {
	if len(points) == 0 {
		return
	}
	c.body.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none"%s/>`, pointList(points), strokeAttrs(stroke)))
}

// Rect implements canvas.Canvas
func (c *Canvas) Rect(r geometry.Rect, stroke canvas.Stroke, fill drawing.Color) {
	c.body.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s"%s%s/>`,
		num(r.X0), num(r.Y0), num(r.Width()), num(r.Height()), fillAttrs(fill), strokeAttrs(stroke)))
}

// Marker implements canvas.Canvas
func (c *Canvas) Marker(at geometry.Point, shape canvas.Shape, radius float64, stroke canvas.Stroke, fill drawing.Color) {
	attrs := fillAttrs(fill) + strokeAttrs(stroke)
	x, y, r := at.X, at.Y, radius

	switch shape {
	case canvas.ShapeCircle:
		c.body.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s"%s/>`, num(x), num(y), num(r), attrs))
	case canvas.ShapeSquare:
		h := r * 0.8
		c.body.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s"%s/>`,
			num(x-h), num(y-h), num(2*h), num(2*h), attrs))
	case canvas.ShapeCross:
		h := r * 0.7
		c.body.WriteString(fmt.Sprintf(`<path d="M%s %sL%s %sM%s %sL%s %s" fill="none"%s/>`,
			num(x-h), num(y-h), num(x+h), num(y+h), num(x-h), num(y+h), num(x+h), num(y-h), strokeAttrs(stroke)))
	default:
		c.body.WriteString(fmt.Sprintf(`<polygon points="%s"%s/>`, pointList(shapePoints(shape, at, r)), attrs))
	}
}

// shapePoints returns the outline of a polygonal marker
func shapePoints(shape canvas.Shape, at geometry.Point, r float64) []geometry.Point {
	x, y := at.X, at.Y
	switch shape {
	case canvas.ShapeTriangle:
		return []geometry.Point{{X: x, Y: y - r}, {X: x + r*0.866, Y: y + r/2}, {X: x - r*0.866, Y: y + r/2}}
	case canvas.ShapeTriangleDown:
		return []geometry.Point{{X: x, Y: y + r}, {X: x + r*0.866, Y: y - r/2}, {X: x - r*0.866, Y: y - r/2}}
	case canvas.ShapeDiamond:
		return []geometry.Point{{X: x, Y: y - r}, {X: x + r, Y: y}, {X: x, Y: y + r}, {X: x - r, Y: y}}
	case canvas.ShapeStar:
		pts := make([]geometry.Point, 0, 10)
		for i := 0; i < 10; i++ {
			rr := r
			if i%2 == 1 {
				rr = r * 0.45
			}
			a := -math.Pi/2 + float64(i)*math.Pi/5
			pts = append(pts, geometry.Point{X: x + rr*math.Cos(a), Y: y + rr*math.Sin(a)})
		}
		return pts
	default:
		return []geometry.Point{{X: x - r, Y: y - r}, {X: x + r, Y: y - r}, {X: x + r, Y: y + r}, {X: x - r, Y: y + r}}
	}
}

// Text implements canvas.Canvas
func (c *Canvas) Text(at geometry.Point, text string, style canvas.TextStyle) {
	anchor := "start"
	switch style.Anchor {
	case canvas.AnchorMiddle:
		anchor = "middle"
	case canvas.AnchorEnd:
		anchor = "end"
	}
	weight := ""
	if style.Bold {
		weight = ` font-weight="bold"`
	}
	c.body.WriteString(fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" text-anchor="%s"%s%s>%s</text>`,
		num(at.X), num(at.Y), num(style.Size), anchor, weight, fillAttrs(style.Color), html.EscapeString(text)))
}

// BeginGroup implements canvas.Canvas
func (c *Canvas) BeginGroup(name string) {
	c.depth++
	c.body.WriteString(fmt.Sprintf(`<g class="%s">`, html.EscapeString(name)))
}

// EndGroup implements canvas.Canvas
func (c *Canvas) EndGroup() {
	if c.depth == 0 {
		return
	}
	c.depth--
	c.body.WriteString(`</g>`)
}

// String returns the complete SVG document
func (c *Canvas) String() string {
	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">`,
		num(c.Width), num(c.Height), num(c.Width), num(c.Height)))
	svg.WriteString(`<defs>`)
	svg.WriteString(`<style>`)
	svg.WriteString(`text { font-family: Arial, sans-serif; }`)
	svg.WriteString(`.tooltip text, .legend text { dominant-baseline: auto; }`)
	svg.WriteString(`</style>`)
	svg.WriteString(`</defs>`)
	if c.Title != "" {
		svg.WriteString(fmt.Sprintf(`<title>%s</title>`, html.EscapeString(c.Title)))
	}
	svg.WriteString(c.body.String())
	for i := 0; i < c.depth; i++ {
		svg.WriteString(`</g>`)
	}
	svg.WriteString(`</svg>`)
	return svg.String()
}

// WriteTo writes the document to w
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.String())
	return int64(n), err
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func pointList(points []geometry.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func rgb(c drawing.Color) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func opacity(c drawing.Color) string {
	return strconv.FormatFloat(math.Round(float64(c.A)/255*100)/100, 'f', -1, 64)
}

func fillAttrs(c drawing.Color) string {
	if c.A == 0 {
		return ` fill="none"`
	}
	if c.A == 255 {
		return fmt.Sprintf(` fill="%s"`, rgb(c))
	}
	return fmt.Sprintf(` fill="%s" fill-opacity="%s"`, rgb(c), opacity(c))
}

func strokeAttrs(s canvas.Stroke) string {
	if s.Width <= 0 || s.Color.A == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf(` stroke="%s" stroke-width="%s"`, rgb(s.Color), num(s.Width)))
	if s.Color.A != 255 {
		b.WriteString(fmt.Sprintf(` stroke-opacity="%s"`, opacity(s.Color)))
	}
	if len(s.Dash) > 0 {
		dash := make([]string, len(s.Dash))
		for i, d := range s.Dash {
			dash[i] = num(d)
		}
		b.WriteString(fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(dash, " ")))
	}
	return b.String()
}
