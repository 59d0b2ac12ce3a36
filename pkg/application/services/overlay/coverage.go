package overlay

import (
	"github.com/vsinha/planviz/pkg/application/axis"
	"github.com/vsinha/planviz/pkg/application/canvas"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/format"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// Layout fixes the vertical band every coverage row occupies and the size of
// the decorations drawn inside it
type Layout struct {
	Top          float64
	TopPadding   float64
	OrderHeight  float64
	OrderGap     float64
	BarHeight    float64
	RowGap       float64
	TickInset    float64
	MarkerRadius float64
	LabelPadding float64
	FontSize     float64
}

// DefaultLayout returns the row layout anchored at the plot's top edge
func DefaultLayout(top float64) Layout {
	return Layout{
		Top:          top,
		TopPadding:   6,
		OrderHeight:  10,
		OrderGap:     2,
		BarHeight:    14,
		RowGap:       6,
		TickInset:    2,
		MarkerRadius: 3,
		LabelPadding: 6,
		FontSize:     10,
	}
}

// RowHeight is the height of one row band
func (l Layout) RowHeight() float64 {
	return l.OrderHeight + l.OrderGap + l.BarHeight + l.RowGap
}

// BarGeometry is the screen placement of one coverage row
type BarGeometry struct {
	Coverage geometry.Rect
	Order    geometry.Rect
	HasOrder bool
}

// CoverageLayout places coverage bars. Geometry is the only place positions
// are computed; Draw and HitTest both go through it.
type CoverageLayout struct {
	mapper axis.DateMapper
	layout Layout
}

// NewCoverageLayout creates a layout over a date mapper
func NewCoverageLayout(mapper axis.DateMapper, layout Layout) *CoverageLayout {
	return &CoverageLayout{mapper: mapper, layout: layout}
}

// Layout returns the row layout in use
func (c *CoverageLayout) Layout() Layout {
	return c.layout
}

// Geometry computes the rectangles of the bar in row i. ok is false when the
// coverage window cannot be placed on the axis. The order rectangle is only
// present when both order dates map.
func (c *CoverageLayout) Geometry(i int, bar entities.CoverageBar) (BarGeometry, bool) {
	x0, ok := c.mapper.PixelForDate(bar.StartDate)
	if !ok {
		return BarGeometry{}, false
	}
	x1, ok := c.mapper.PixelForDate(bar.End())
	if !ok {
		return BarGeometry{}, false
	}

	l := c.layout
	rowTop := l.Top + l.TopPadding + float64(i)*l.RowHeight()
	barTop := rowTop + l.OrderHeight + l.OrderGap

	x0, x1 = geometry.WidenSpan(x0, x1, geometry.MinSpan)
	g := BarGeometry{
		Coverage: geometry.Rect{X0: x0, Y0: barTop, X1: x1, Y1: barTop + l.BarHeight},
	}

	if bar.HasOrderWindow() {
		o0, ok0 := c.mapper.PixelForDate(bar.OrderStartDate)
		o1, ok1 := c.mapper.PixelForDate(bar.OrderEndDate)
		if ok0 && ok1 {
			o0, o1 = geometry.WidenSpan(o0, o1, geometry.MinSpan)
			g.Order = geometry.Rect{X0: o0, Y0: rowTop, X1: o1, Y1: rowTop + l.OrderHeight}
			g.HasOrder = true
		}
	}
	return g, true
}

// HitTest returns the index of the first bar whose order or coverage
// rectangle contains (x, y). Edges count as inside.
func (c *CoverageLayout) HitTest(bars []entities.CoverageBar, x, y float64) (int, bool) {
	for i := range bars {
		g, ok := c.Geometry(i, bars[i])
		if !ok {
			continue
		}
		if g.HasOrder && g.Order.Contains(x, y) {
			return i, true
		}
		if g.Coverage.Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// TickPositions returns the pixels of the tracked demands that fall strictly
// inside the bar's inset interior
func (c *CoverageLayout) TickPositions(g BarGeometry, bar entities.CoverageBar) []float64 {
	lo := g.Coverage.X0 + c.layout.TickInset
	hi := g.Coverage.X1 - c.layout.TickInset

	var ticks []float64
	for _, d := range bar.TrackedDemand {
		px, ok := c.mapper.PixelForDate(d.Date)
		if !ok || px <= lo || px >= hi {
			continue
		}
		ticks = append(ticks, px)
	}
	return ticks
}

// fits reports whether text plus padding fits inside width
func (c *CoverageLayout) fits(m canvas.TextMeasurer, text string, width float64) bool {
	if m == nil || text == "" {
		return false
	}
	return m.MeasureText(text, c.layout.FontSize)+c.layout.LabelPadding <= width
}

// Draw paints every placeable bar: the order bar above, the coverage bar
// below with start and end markers, demand ticks and inline labels that fit.
func (c *CoverageLayout) Draw(cv canvas.Canvas, bars []entities.CoverageBar, m canvas.TextMeasurer, style Style) {
	if len(bars) == 0 {
		return
	}
	cv.BeginGroup("coverage")
	defer cv.EndGroup()

	for i, bar := range bars {
		g, ok := c.Geometry(i, bar)
		if !ok {
			continue
		}
		c.drawBar(cv, g, bar, m, style)
	}
}

func (c *CoverageLayout) drawBar(cv canvas.Canvas, g BarGeometry, bar entities.CoverageBar, m canvas.TextMeasurer, style Style) {
	label := style.Label
	label.Size = c.layout.FontSize

	if g.HasOrder {
		cv.Rect(g.Order, style.OrderStroke, style.OrderFill)
		text := format.DateRange(bar.OrderStartDate, bar.OrderEndDate)
		if c.fits(m, text, g.Order.Width()) {
			cv.Text(baseline(g.Order, c.layout.FontSize), text, label)
		}
	}

	r := g.Coverage
	cv.Rect(r, style.CoverageStroke, style.CoverageFill)

	mid := r.Center().Y
	cv.Marker(geometry.Point{X: r.X0, Y: mid}, canvas.ShapeCircle, c.layout.MarkerRadius, canvas.Stroke{}, style.StartMarker)
	cv.Line(geometry.Point{X: r.X1, Y: r.Y0}, geometry.Point{X: r.X1, Y: r.Y1}, style.EndMarker)

	for _, px := range c.TickPositions(g, bar) {
		cv.Line(geometry.Point{X: px, Y: r.Y0}, geometry.Point{X: px, Y: r.Y1}, style.Tick)
	}

	text := format.Qty(bar.SupplyQty)
	if c.fits(m, text, r.Width()) {
		cv.Text(baseline(r, c.layout.FontSize), text, label)
	}
}

// baseline centres a text run of the given size inside r
func baseline(r geometry.Rect, size float64) geometry.Point {
	center := r.Center()
	return geometry.Point{X: center.X, Y: center.Y + size*0.35}
}

// Extent is the vertical space the overlay needs for n rows
func (l Layout) Extent(n int) float64 {
	if n <= 0 {
		return 0
	}
	return l.TopPadding + float64(n)*l.RowHeight()
}
