package visualizer

import (
	"github.com/vsinha/planviz/pkg/application/axis"
	"github.com/vsinha/planviz/pkg/application/services/classify"
	"github.com/vsinha/planviz/pkg/application/services/overlay"
	"github.com/vsinha/planviz/pkg/application/services/projection"
	"github.com/vsinha/planviz/pkg/application/services/thresholds"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// Marker is an event placed on screen
type Marker struct {
	Event    entities.Event
	Category entities.Category
	At       geometry.Point
}

// Chart is the static layer built from one chart payload. A new Chart is built
// on every load and the previous one destroyed.
type Chart struct {
	payload     *entities.ChartPayload
	classes     classify.Result
	series      []projection.Series
	annotations []thresholds.Annotation

	plot     geometry.Rect
	xAxis    *axis.Category
	yAxis    *axis.Linear
	coverage *overlay.CoverageLayout

	markers map[entities.Category][]Marker
	located map[entities.Category]map[int]geometry.Point
}

func newChart(payload *entities.ChartPayload, cfg Config) *Chart {
	plot := geometry.Rect{
		X0: cfg.MarginLeft,
		Y0: cfg.MarginTop,
		X1: cfg.Width - cfg.MarginRight,
		Y1: cfg.Height - cfg.MarginBottom,
	}

	c := &Chart{
		payload:     payload,
		classes:     classify.Classify(payload.Events),
		series:      projection.Build(payload),
		annotations: thresholds.Build(payload.Thresholds),
		plot:        plot,
		xAxis:       axis.NewCategory(axis.CollectLabels(payload), plot.X0, plot.X1),
	}
	c.yAxis = axis.NewLinear(c.values(), plot.Y0, plot.Y1, cfg.YTicks)

	layout := cfg.Coverage
	layout.Top = plot.Y0
	c.coverage = overlay.NewCoverageLayout(c.xAxis, layout)

	c.placeMarkers()
	return c
}

// values collects every balance the value axis must cover
func (c *Chart) values() []float64 {
	values := []float64{0}
	for _, s := range c.series {
		for _, p := range s.Points {
			values = append(values, p.Balance.InexactFloat64())
		}
	}
	for _, events := range c.classes.Buckets {
		for _, evt := range events {
			values = append(values, evt.BalanceAfter.InexactFloat64())
		}
	}
	return append(values, thresholds.Values(c.payload.Thresholds)...)
}

func (c *Chart) placeMarkers() {
	c.markers = make(map[entities.Category][]Marker, len(entities.Categories))
	c.located = make(map[entities.Category]map[int]geometry.Point, len(entities.Categories))

	for _, category := range entities.Categories {
		events := c.classes.Buckets[category]
		if len(events) == 0 {
			continue
		}
		index := make(map[int]geometry.Point, len(events))
		for _, evt := range events {
			x, ok := c.xAxis.PixelForDate(evt.Date)
			if !ok {
				continue
			}
			at := geometry.Point{X: x, Y: c.yAxis.PixelForValue(evt.BalanceAfter.InexactFloat64())}
			c.markers[category] = append(c.markers[category], Marker{Event: evt, Category: category, At: at})
			index[evt.EntryNo] = at
		}
		c.located[category] = index
	}
}

// Locate implements overlay.Locator over the cached marker positions
func (c *Chart) Locate(category entities.Category, entryNo int) (geometry.Point, bool) {
	p, ok := c.located[category][entryNo]
	return p, ok
}

var _ overlay.Locator = (*Chart)(nil)

// Destroy releases the cached positions. A destroyed chart locates nothing.
func (c *Chart) Destroy() {
	c.markers = nil
	c.located = nil
	c.payload = nil
}

// Payload returns the payload the chart was built from
func (c *Chart) Payload() *entities.ChartPayload {
	return c.payload
}

// Classes returns the category buckets and the entry index
func (c *Chart) Classes() classify.Result {
	return c.classes
}

// Series returns the projection series in draw order
func (c *Chart) Series() []projection.Series {
	return c.series
}

// Annotations returns the threshold annotations in draw order
func (c *Chart) Annotations() []thresholds.Annotation {
	return c.annotations
}

// Markers returns the placed markers of one category
func (c *Chart) Markers(category entities.Category) []Marker {
	return c.markers[category]
}

// Plot is the plotting area in canvas pixels
func (c *Chart) Plot() geometry.Rect {
	return c.plot
}

// XAxis returns the date axis
func (c *Chart) XAxis() *axis.Category {
	return c.xAxis
}

// YAxis returns the balance axis
func (c *Chart) YAxis() *axis.Linear {
	return c.yAxis
}

// Coverage returns the coverage bar layout
func (c *Chart) Coverage() *overlay.CoverageLayout {
	return c.coverage
}

// CoverageBars returns the coverage records in row order
func (c *Chart) CoverageBars() []entities.CoverageBar {
	if c.payload == nil {
		return nil
	}
	return c.payload.CoverageBars
}

// Point maps a projection point to canvas pixels
func (c *Chart) Point(p entities.ProjectionPoint) (geometry.Point, bool) {
	x, ok := c.xAxis.PixelForDate(p.Date)
	if !ok {
		return geometry.Point{}, false
	}
	return geometry.Point{X: x, Y: c.yAxis.PixelForValue(p.Balance.InexactFloat64())}, true
}
