package visualizer

import (
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vsinha/planviz/pkg/application/canvas"
	"github.com/vsinha/planviz/pkg/application/services/overlay"
	"github.com/vsinha/planviz/pkg/application/services/projection"
	"github.com/vsinha/planviz/pkg/application/services/thresholds"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/format"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

const (
	legendSwatch = 14.0
	legendGap    = 18.0
)

// Render paints the chart and its overlays onto cv, back to front: zones,
// threshold lines, series, markers, highlight, tracking lines, coverage bars,
// tooltip and legend.
func (c *Controller) Render(cv canvas.Canvas) error {
	if c.chart == nil {
		return ErrNoChart
	}
	ch := c.chart
	width, height := cv.Size()

	cv.Rect(geometry.Rect{X1: width, Y1: height}, canvas.Stroke{}, c.style.Background)
	c.drawAxes(cv)
	c.drawAnnotations(cv, true)
	c.drawAnnotations(cv, false)
	c.drawSeries(cv)
	c.drawMarkers(cv)
	c.drawHighlight(cv)

	if c.state.ShowTracking {
		overlay.DrawTracking(cv, c.TrackingSegments(), c.style.Overlay)
	}
	if c.state.ShowCoverage {
		ch.coverage.Draw(cv, ch.CoverageBars(), c.measurer, c.style.Overlay)
	}

	if h := c.state.Hover; h.Kind != HoverNone && !h.Tooltip.Empty() {
		box := overlay.PlaceTooltip(h.Tooltip, h.Pointer, width, height, c.measurer, c.style.Overlay)
		overlay.DrawTooltip(cv, h.Tooltip, box, c.style.Overlay)
	}

	c.drawLegend(cv, height)
	return nil
}

// TrackingSegments resolves the tracking pairs against the visible markers
func (c *Controller) TrackingSegments() []geometry.Segment {
	if c.chart == nil {
		return nil
	}
	return overlay.TrackingLines(c.chart.payload.TrackingPairs, c.chart, c.state.CategoryVisible)
}

func (c *Controller) drawAxes(cv canvas.Canvas) {
	ch := c.chart
	plot := ch.plot
	cv.BeginGroup("axes")
	defer cv.EndGroup()

	yText := c.style.AxisText
	yText.Anchor = canvas.AnchorEnd
	for _, v := range ch.yAxis.Ticks() {
		y := ch.yAxis.PixelForValue(v)
		cv.Line(geometry.Point{X: plot.X0, Y: y}, geometry.Point{X: plot.X1, Y: y}, c.style.Grid)
		cv.Text(geometry.Point{X: plot.X0 - 6, Y: y + yText.Size*0.35}, format.Qty(decimal.NewFromFloat(v)), yText)
	}

	xText := c.style.AxisText
	xText.Anchor = canvas.AnchorMiddle
	step := 1
	if limit := c.config.MaxXLabels; limit > 0 && ch.xAxis.Len() > limit {
		step = (ch.xAxis.Len() + limit - 1) / limit
	}
	for i, label := range ch.xAxis.Labels() {
		if i%step != 0 {
			continue
		}
		x := ch.xAxis.PixelForIndex(i)
		cv.Line(geometry.Point{X: x, Y: plot.Y1}, geometry.Point{X: x, Y: plot.Y1 + 4}, c.style.Axis)
		cv.Text(geometry.Point{X: x, Y: plot.Y1 + 6 + xText.Size}, format.ShortDate(label), xText)
	}

	cv.Line(geometry.Point{X: plot.X0, Y: plot.Y1}, geometry.Point{X: plot.X1, Y: plot.Y1}, c.style.Axis)
	cv.Line(geometry.Point{X: plot.X0, Y: plot.Y0}, geometry.Point{X: plot.X0, Y: plot.Y1}, c.style.Axis)

	title := c.style.AxisText
	title.Anchor = canvas.AnchorMiddle
	title.Bold = true
	cv.Text(geometry.Point{X: (plot.X0 + plot.X1) / 2, Y: plot.Y1 + 24 + title.Size}, "Date", title)
	title.Anchor = canvas.AnchorStart
	cv.Text(geometry.Point{X: 4, Y: plot.Y0 - 10}, "Inventory Quantity", title)
}

// drawAnnotations paints the zone fills or the threshold lines with labels
func (c *Controller) drawAnnotations(cv canvas.Canvas, zones bool) {
	ch := c.chart
	plot := ch.plot
	group := "threshold-lines"
	if zones {
		group = "threshold-zones"
	}
	cv.BeginGroup(group)
	defer cv.EndGroup()

	for _, a := range ch.annotations {
		if a.IsZone() != zones {
			continue
		}
		st := c.style.Annotations[a.Kind]
		y0 := ch.yAxis.PixelForValue(a.From.InexactFloat64())
		y1 := ch.yAxis.PixelForValue(a.To.InexactFloat64())

		if zones {
			r := geometry.Rect{X0: plot.X0, X1: plot.X1, Y0: y1, Y1: y0}
			r.Y0 = geometry.Clamp(r.Y0, plot.Y0, plot.Y1)
			r.Y1 = geometry.Clamp(r.Y1, plot.Y0, plot.Y1)
			cv.Rect(r, canvas.Stroke{}, st.Fill)
			continue
		}

		cv.Line(geometry.Point{X: plot.X0, Y: y0}, geometry.Point{X: plot.X1, Y: y0}, st.Stroke)
		if a.Label != "" {
			c.drawAnnotationLabel(cv, a, st, geometry.Point{X: plot.X0 + 4, Y: y0})
		}
	}
}

func (c *Controller) drawAnnotationLabel(cv canvas.Canvas, a thresholds.Annotation, st AnnotationStyle, at geometry.Point) {
	size := 11.0
	w := c.measurer.MeasureText(a.Label, size) + 8
	box := geometry.NewRect(at.X, at.Y-size*0.8, w, size*1.6)
	cv.Rect(box, canvas.Stroke{}, st.LabelFill)
	cv.Text(geometry.Point{X: at.X + 4, Y: at.Y + size*0.35}, a.Label, canvas.TextStyle{Color: st.LabelText, Size: size})
}

func (c *Controller) drawSeries(cv canvas.Canvas) {
	ch := c.chart
	cv.BeginGroup("series")
	defer cv.EndGroup()

	for _, s := range ch.series {
		if !c.state.ProjectionVisible(s.Variant) {
			continue
		}
		stroke := c.style.Series[s.Variant].Stroke
		if !s.Colored {
			cv.Polyline(c.pixels(s.StepVertices()), stroke)
			continue
		}
		c.drawColoredSeries(cv, s, stroke)
	}
}

// drawColoredSeries paints each step in its threshold colour: from the
// previous point up or down to the arriving value, then across to the new date
func (c *Controller) drawColoredSeries(cv canvas.Canvas, s projection.Series, stroke canvas.Stroke) {
	ch := c.chart
	if len(s.Points) == 1 {
		if p, ok := ch.Point(s.Points[0]); ok {
			cv.Marker(p, canvas.ShapeCircle, stroke.Width, canvas.Stroke{}, stroke.Color)
		}
		return
	}
	for i, seg := range s.Segments {
		prev, okPrev := ch.Point(s.Points[i])
		next, okNext := ch.Point(s.Points[i+1])
		if !okPrev || !okNext {
			continue
		}
		st := stroke
		st.Color = c.style.Levels[seg.Level]
		cv.Polyline([]geometry.Point{prev, {X: prev.X, Y: next.Y}, next}, st)
	}
}

// pixels maps step vertices to canvas points, dropping unmappable ones
func (c *Controller) pixels(vertices []projection.Vertex) []geometry.Point {
	ch := c.chart
	out := make([]geometry.Point, 0, len(vertices))
	for _, v := range vertices {
		x, ok := ch.xAxis.PixelForDate(v.Date)
		if !ok {
			continue
		}
		out = append(out, geometry.Point{X: x, Y: ch.yAxis.PixelForValue(v.Value.InexactFloat64())})
	}
	return out
}

func (c *Controller) drawMarkers(cv canvas.Canvas) {
	for _, category := range entities.Categories {
		markers := c.chart.markers[category]
		if len(markers) == 0 || !c.state.CategoryVisible(category) {
			continue
		}
		st := c.style.Markers[category]
		cv.BeginGroup("markers-" + category.Key())
		for _, m := range markers {
			cv.Marker(m.At, st.Shape, st.Radius, st.Stroke, st.Fill)
		}
		cv.EndGroup()
	}
}

func (c *Controller) drawHighlight(cv canvas.Canvas) {
	if c.state.Highlight == 0 {
		return
	}
	m, ok := c.findMarker(c.state.Highlight)
	if !ok || !c.state.CategoryVisible(m.Category) {
		return
	}
	st := c.style.Markers[m.Category]
	cv.BeginGroup("highlight")
	cv.Marker(m.At, canvas.ShapeCircle, st.Radius+5, c.style.Highlight, drawing.ColorTransparent)
	cv.EndGroup()
}

// drawLegend lists the visible series and categories along the bottom edge
func (c *Controller) drawLegend(cv canvas.Canvas, height float64) {
	ch := c.chart
	cv.BeginGroup("legend")
	defer cv.EndGroup()

	x := ch.plot.X0
	y := height - 16
	text := c.style.Legend

	entry := func(label string) {
		cv.Text(geometry.Point{X: x + legendSwatch + 4, Y: y + text.Size*0.35}, label, text)
		x += legendSwatch + 4 + c.measurer.MeasureText(label, text.Size) + legendGap
	}

	for _, s := range ch.series {
		if !c.state.ProjectionVisible(s.Variant) {
			continue
		}
		stroke := c.style.Series[s.Variant].Stroke
		cv.Line(geometry.Point{X: x, Y: y}, geometry.Point{X: x + legendSwatch, Y: y}, stroke)
		entry(s.Variant.String())
	}
	for _, category := range entities.Categories {
		if len(ch.markers[category]) == 0 || !c.state.CategoryVisible(category) {
			continue
		}
		st := c.style.Markers[category]
		cv.Marker(geometry.Point{X: x + legendSwatch/2, Y: y}, st.Shape, legendSwatch/3, st.Stroke, st.Fill)
		entry(category.String())
	}
}
