package canvas

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// Op is one recorded drawing call
type Op struct {
	Kind   string
	Group  string
	Points []geometry.Point
	Rect   geometry.Rect
	Shape  Shape
	Radius float64
	Stroke Stroke
	Fill   drawing.Color
	Text   string
	Style  TextStyle
}

// Recorder is a Canvas that keeps every call, for tests and hit inspection
type Recorder struct {
	Width, Height float64
	Ops           []Op
	groups        []string
}

// NewRecorder creates a recorder of the given size
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

var _ Canvas = (*Recorder)(nil)

func (r *Recorder) group() string {
	if len(r.groups) == 0 {
		return ""
	}
	return r.groups[len(r.groups)-1]
}

// Size implements Canvas
func (r *Recorder) Size() (float64, float64) { return r.Width, r.Height }

// Line implements Canvas
func (r *Recorder) Line(from, to geometry.Point, stroke Stroke) {
	r.Ops = append(r.Ops, Op{Kind: "line", Group: r.group(), Points: []geometry.Point{from, to}, Stroke: stroke})
}

// Polyline implements Canvas
func (r *Recorder) Polyline(points []geometry.Point, stroke Stroke) {
	pts := append([]geometry.Point(nil), points...)
	r.Ops = append(r.Ops, Op{Kind: "polyline", Group: r.group(), Points: pts, Stroke: stroke})
}

// Rect implements Canvas
func (r *Recorder) Rect(rect geometry.Rect, stroke Stroke, fill drawing.Color) {
	r.Ops = append(r.Ops, Op{Kind: "rect", Group: r.group(), Rect: rect, Stroke: stroke, Fill: fill})
}

// Marker implements Canvas
func (r *Recorder) Marker(at geometry.Point, shape Shape, radius float64, stroke Stroke, fill drawing.Color) {
	r.Ops = append(r.Ops, Op{Kind: "marker", Group: r.group(), Points: []geometry.Point{at}, Shape: shape, Radius: radius, Stroke: stroke, Fill: fill})
}

// Text implements Canvas
func (r *Recorder) Text(at geometry.Point, text string, style TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: "text", Group: r.group(), Points: []geometry.Point{at}, Text: text, Style: style})
}

// BeginGroup implements Canvas
func (r *Recorder) BeginGroup(name string) { r.groups = append(r.groups, name) }

// EndGroup implements Canvas
func (r *Recorder) EndGroup() {
	if len(r.groups) > 0 {
		r.groups = r.groups[:len(r.groups)-1]
	}
}

// Filter returns the recorded ops of a kind drawn inside group. An empty
// group matches every group.
func (r *Recorder) Filter(kind, group string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind && (group == "" || op.Group == group) {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns every recorded text run in order
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// Reset drops every recorded op
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.groups = r.groups[:0]
}
