// Package png renders a static preview of a chart with go-chart: projection
// series, threshold lines and event dots, without the interactive overlays.
package png

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/format"
)

// Preview renders charts loaded into a controller
type Preview struct {
	Width  int
	Height int
}

// NewPreview creates a preview sized like the controller's canvas
func NewPreview(cfg visualizer.Config) *Preview {
	return &Preview{Width: int(cfg.Width), Height: int(cfg.Height)}
}

// Render writes the PNG preview of the controller's chart to w
func (p *Preview) Render(w io.Writer, c *visualizer.Controller) error {
	graph, err := p.Build(c)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render PNG preview: %w", err)
	}
	return nil
}

// Build assembles the go-chart definition. X values are label indexes so the
// preview keeps the categorical spacing of the interactive chart.
func (p *Preview) Build(c *visualizer.Controller) (*chart.Chart, error) {
	ch := c.Chart()
	if ch == nil {
		return nil, visualizer.ErrNoChart
	}
	state := c.State()
	style := c.Style()
	xAxis := ch.XAxis()
	if xAxis.Len() == 0 {
		return nil, fmt.Errorf("chart has no dates to plot")
	}

	index := make(map[string]float64, xAxis.Len())
	for i, label := range xAxis.Labels() {
		index[label] = float64(i)
	}

	var series []chart.Series
	for _, s := range ch.Series() {
		if !state.ProjectionVisible(s.Variant) {
			continue
		}
		st := style.Series[s.Variant].Stroke
		cs := chart.ContinuousSeries{
			Name: s.Variant.String(),
			Style: chart.Style{
				StrokeColor:     st.Color,
				StrokeWidth:     st.Width,
				StrokeDashArray: st.Dash,
			},
		}
		for _, v := range s.StepVertices() {
			x, ok := index[v.Date]
			if !ok {
				continue
			}
			cs.XValues = append(cs.XValues, x)
			cs.YValues = append(cs.YValues, v.Value.InexactFloat64())
		}
		switch len(cs.XValues) {
		case 0:
			continue
		case 1:
			cs.XValues = append(cs.XValues, cs.XValues[0])
			cs.YValues = append(cs.YValues, cs.YValues[0])
		}
		series = append(series, cs)
	}

	last := float64(xAxis.Len() - 1)
	for _, a := range ch.Annotations() {
		if a.IsZone() {
			continue
		}
		st := style.Annotations[a.Kind].Stroke
		y := a.From.InexactFloat64()
		series = append(series, chart.ContinuousSeries{
			Name: a.Label,
			Style: chart.Style{
				StrokeColor:     st.Color,
				StrokeWidth:     st.Width,
				StrokeDashArray: st.Dash,
			},
			XValues: []float64{0, last},
			YValues: []float64{y, y},
		})
	}

	for _, category := range entities.Categories {
		if !state.CategoryVisible(category) {
			continue
		}
		events := ch.Classes().Buckets[category]
		if len(events) == 0 {
			continue
		}
		ms := style.Markers[category]
		cs := chart.ContinuousSeries{
			Name: category.String(),
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    ms.Fill,
				DotWidth:    ms.Radius / 2,
			},
		}
		for _, evt := range events {
			x, ok := index[evt.Date]
			if !ok {
				continue
			}
			cs.XValues = append(cs.XValues, x)
			cs.YValues = append(cs.YValues, evt.BalanceAfter.InexactFloat64())
		}
		if len(cs.XValues) > 0 {
			series = append(series, cs)
		}
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("nothing visible to render")
	}

	lo, hi := ch.YAxis().Range()
	graph := &chart.Chart{
		Width:  p.Width,
		Height: p.Height,
		Background: chart.Style{
			Padding:   chart.Box{Top: 30, Left: 20, Right: 20, Bottom: 20},
			FillColor: drawing.ColorWhite,
		},
		XAxis: chart.XAxis{
			Name:  "Date",
			Ticks: ticks(xAxis.Labels(), c.Config().MaxXLabels),
			Range: &chart.ContinuousRange{Min: -0.5, Max: last + 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "Inventory Quantity",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(graph)}
	return graph, nil
}

// ticks labels every step-th date so at most limit labels are shown
func ticks(labels []string, limit int) []chart.Tick {
	step := 1
	if limit > 0 && len(labels) > limit {
		step = (len(labels) + limit - 1) / limit
	}
	var out []chart.Tick
	for i, label := range labels {
		if i%step != 0 {
			continue
		}
		out = append(out, chart.Tick{Value: float64(i), Label: format.ShortDate(label)})
	}
	return out
}
