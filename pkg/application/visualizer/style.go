package visualizer

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vsinha/planviz/pkg/application/canvas"
	"github.com/vsinha/planviz/pkg/application/services/overlay"
	"github.com/vsinha/planviz/pkg/application/services/projection"
	"github.com/vsinha/planviz/pkg/application/services/thresholds"
	"github.com/vsinha/planviz/pkg/domain/entities"
)

// MarkerStyle is how the events of one category are drawn
type MarkerStyle struct {
	Shape  canvas.Shape
	Radius float64
	Fill   drawing.Color
	Stroke canvas.Stroke
}

// HitRadius is how far from the centre a pointer still hovers the marker
func (m MarkerStyle) HitRadius() float64 {
	return m.Radius + 4
}

// SeriesStyle is how one projection variant is drawn
type SeriesStyle struct {
	Stroke canvas.Stroke
}

// AnnotationStyle is how one threshold annotation is drawn
type AnnotationStyle struct {
	Stroke    canvas.Stroke
	Fill      drawing.Color
	LabelFill drawing.Color
	LabelText drawing.Color
}

// Style is the full palette of a chart
type Style struct {
	Markers     map[entities.Category]MarkerStyle
	Series      map[entities.Variant]SeriesStyle
	Levels      map[projection.Level]drawing.Color
	Annotations map[thresholds.Kind]AnnotationStyle
	Highlight   canvas.Stroke
	Grid        canvas.Stroke
	Axis        canvas.Stroke
	AxisText    canvas.TextStyle
	Legend      canvas.TextStyle
	Background  drawing.Color
	Overlay     overlay.Style
}

func rgba(r, g, b uint8, a float64) drawing.Color {
	return drawing.Color{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}

// DefaultStyle returns the chart palette
func DefaultStyle() Style {
	blue := rgba(30, 80, 200, 1)
	ink := rgba(52, 58, 64, 1)

	return Style{
		Markers: map[entities.Category]MarkerStyle{
			entities.CategorySupply: {
				Shape: canvas.ShapeTriangle, Radius: 8,
				Fill: rgba(40, 167, 69, 0.8), Stroke: canvas.Stroke{Color: rgba(40, 167, 69, 1), Width: 1},
			},
			entities.CategoryDemand: {
				Shape: canvas.ShapeTriangleDown, Radius: 8,
				Fill: rgba(220, 53, 69, 0.8), Stroke: canvas.Stroke{Color: rgba(220, 53, 69, 1), Width: 1},
			},
			entities.CategorySuggestedSupply: {
				Shape: canvas.ShapeDiamond, Radius: 10,
				Fill: rgba(111, 66, 193, 0.8), Stroke: canvas.Stroke{Color: rgba(111, 66, 193, 1), Width: 2},
			},
			entities.CategoryPendingRequisition: {
				Shape: canvas.ShapeSquare, Radius: 7,
				Fill: rgba(23, 162, 184, 0.6), Stroke: canvas.Stroke{Color: rgba(23, 162, 184, 1), Width: 2, Dash: []float64{3, 2}},
			},
			entities.CategoryPlanningComponent: {
				Shape: canvas.ShapeCross, Radius: 8,
				Fill: rgba(255, 133, 27, 0.8), Stroke: canvas.Stroke{Color: rgba(255, 133, 27, 1), Width: 2},
			},
			entities.CategoryForecast: {
				Shape: canvas.ShapeStar, Radius: 10,
				Fill: rgba(255, 215, 0, 0.7), Stroke: canvas.Stroke{Color: rgba(218, 165, 32, 1), Width: 2},
			},
		},
		Series: map[entities.Variant]SeriesStyle{
			entities.VariantBefore:     {Stroke: canvas.Stroke{Color: rgba(100, 149, 237, 0.5), Width: 2, Dash: []float64{6, 4}}},
			entities.VariantAfter:      {Stroke: canvas.Stroke{Color: blue, Width: 2}},
			entities.VariantForecasted: {Stroke: canvas.Stroke{Color: rgba(23, 162, 184, 0.8), Width: 2, Dash: []float64{2, 3}}},
		},
		Levels: map[projection.Level]drawing.Color{
			projection.LevelNormal:   blue,
			projection.LevelWarning:  rgba(255, 165, 0, 1),
			projection.LevelCritical: rgba(220, 20, 20, 1),
		},
		Annotations: map[thresholds.Kind]AnnotationStyle{
			thresholds.ReorderPointLine: {
				Stroke: canvas.Stroke{Color: rgba(255, 193, 7, 0.8), Width: 2, Dash: []float64{6, 3}},
				LabelFill: rgba(255, 193, 7, 0.7), LabelText: ink,
			},
			thresholds.SafetyStockLine: {
				Stroke: canvas.Stroke{Color: rgba(220, 53, 69, 0.8), Width: 2, Dash: []float64{6, 3}},
				LabelFill: rgba(220, 53, 69, 0.7), LabelText: drawing.ColorWhite,
			},
			thresholds.DangerZone:  {Fill: rgba(220, 53, 69, 0.05)},
			thresholds.WarningZone: {Fill: rgba(255, 193, 7, 0.05)},
			thresholds.MaxInventoryLine: {
				Stroke: canvas.Stroke{Color: rgba(40, 167, 69, 0.6), Width: 1, Dash: []float64{4, 4}},
				LabelFill: rgba(40, 167, 69, 0.7), LabelText: drawing.ColorWhite,
			},
		},
		Highlight:  canvas.Stroke{Color: rgba(255, 193, 7, 1), Width: 3},
		Grid:       canvas.Stroke{Color: rgba(0, 0, 0, 0.08), Width: 1},
		Axis:       canvas.Stroke{Color: rgba(108, 117, 125, 1), Width: 1},
		AxisText:   canvas.TextStyle{Color: ink, Size: 11},
		Legend:     canvas.TextStyle{Color: ink, Size: 12},
		Background: drawing.ColorWhite,
		Overlay:    overlay.DefaultStyle(),
	}
}
