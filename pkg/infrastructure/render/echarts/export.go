// Package echarts exports a loaded chart as a standalone interactive ECharts
// page: step projection lines, threshold mark lines and one scatter series
// per visible event category.
package echarts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vsinha/planviz/pkg/application/canvas"
	"github.com/vsinha/planviz/pkg/application/services/thresholds"
	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/format"
)

// Exporter builds ECharts pages from a controller
type Exporter struct {
	Title string
}

// NewExporter creates an exporter with the given page title
func NewExporter(title string) *Exporter {
	if title == "" {
		title = "Inventory Projection"
	}
	return &Exporter{Title: title}
}

// Render writes the HTML page for the controller's chart
func (e *Exporter) Render(w io.Writer, c *visualizer.Controller) error {
	line, err := e.Build(c)
	if err != nil {
		return err
	}
	page := components.NewPage()
	page.PageTitle = e.Title
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render ECharts page: %w", err)
	}
	return nil
}

// Build assembles the line chart with the event scatter overlapped on it
func (e *Exporter) Build(c *visualizer.Controller) (*charts.Line, error) {
	ch := c.Chart()
	if ch == nil {
		return nil, visualizer.ErrNoChart
	}
	cfg := c.Config()
	state := c.State()
	style := c.Style()
	labels := ch.XAxis().Labels()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%.0fpx", cfg.Width),
			Height: fmt.Sprintf("%.0fpx", cfg.Height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    e.Title,
			Subtitle: fmt.Sprintf("%d events, %d day horizon", ch.Classes().Count(), state.HorizonDays),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Date",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Inventory Quantity",
		}),
	)
	line.SetXAxis(labels)

	first := true
	for _, s := range ch.Series() {
		if !state.ProjectionVisible(s.Variant) {
			continue
		}
		data := make([]opts.LineData, 0, len(s.Points))
		for _, p := range s.Points {
			data = append(data, opts.LineData{Value: []interface{}{p.Date, p.Balance.InexactFloat64()}})
		}
		st := style.Series[s.Variant].Stroke
		options := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{
				Step:       "start",
				ShowSymbol: opts.Bool(true),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: st.Color.String(),
				Width: float32(st.Width),
				Type:  lineType(st.Dash),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: st.Color.String()}),
		}
		// thresholds ride on the first visible series so they share its axis
		if first {
			options = append(options, thresholdOpts(ch.Annotations())...)
			first = false
		}
		line.AddSeries(s.Variant.String(), data, options...)
	}

	scatter := charts.NewScatter()
	scatter.SetXAxis(labels)
	for _, category := range entities.Categories {
		if !state.CategoryVisible(category) {
			continue
		}
		events := ch.Classes().Buckets[category]
		if len(events) == 0 {
			continue
		}
		ms := style.Markers[category]
		data := make([]opts.ScatterData, 0, len(events))
		for _, evt := range events {
			data = append(data, opts.ScatterData{
				Name:       fmt.Sprintf("%s %s", evt.Type, format.Qty(evt.Qty)),
				Value:      []interface{}{evt.Date, evt.BalanceAfter.InexactFloat64()},
				Symbol:     symbol(ms.Shape),
				SymbolSize: int(ms.Radius * 2),
			})
		}
		scatter.AddSeries(category.String(), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: ms.Fill.String()}),
		)
	}
	line.Overlap(scatter)
	return line, nil
}

func thresholdOpts(annotations []thresholds.Annotation) []charts.SeriesOpts {
	var items []opts.MarkLineNameYAxisItem
	for _, a := range annotations {
		if a.IsZone() {
			continue
		}
		items = append(items, opts.MarkLineNameYAxisItem{
			Name:  a.Label,
			YAxis: a.From.InexactFloat64(),
		})
	}
	if len(items) == 0 {
		return nil
	}
	return []charts.SeriesOpts{
		charts.WithMarkLineNameYAxisItemOpts(items...),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol: []string{"none", "none"},
			Label: &opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}",
			},
		}),
	}
}

func lineType(dash []float64) string {
	if len(dash) > 0 {
		return "dashed"
	}
	return "solid"
}

// symbol maps marker shapes onto ECharts built-in symbols
func symbol(shape canvas.Shape) string {
	switch shape {
	case canvas.ShapeTriangle, canvas.ShapeTriangleDown:
		return "triangle"
	case canvas.ShapeDiamond:
		return "diamond"
	case canvas.ShapeSquare:
		return "rect"
	case canvas.ShapeCross, canvas.ShapeStar:
		return "pin"
	default:
		return "circle"
	}
}
