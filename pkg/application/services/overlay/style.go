// Package overlay draws and hit-tests the interactive layers on top of the
// static chart: tracking lines between linked events and coverage bars.
package overlay

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vsinha/planviz/pkg/application/canvas"
)

// Style holds the colours and strokes of both overlays and their tooltips
type Style struct {
	Tracking canvas.Stroke

	CoverageFill   drawing.Color
	CoverageStroke canvas.Stroke
	OrderFill      drawing.Color
	OrderStroke    canvas.Stroke
	Tick           canvas.Stroke
	StartMarker    drawing.Color
	EndMarker      canvas.Stroke
	Label          canvas.TextStyle

	TooltipFill   drawing.Color
	TooltipBorder canvas.Stroke
	TooltipTitle  canvas.TextStyle
	TooltipText   canvas.TextStyle
}

// DefaultStyle returns the overlay palette
func DefaultStyle() Style {
	blue := drawing.Color{R: 30, G: 80, B: 200, A: 255}
	purple := drawing.Color{R: 111, G: 66, B: 193, A: 255}
	ink := drawing.Color{R: 33, G: 37, B: 41, A: 255}

	return Style{
		Tracking: canvas.Stroke{
			Color: drawing.Color{R: 128, G: 128, B: 128, A: 102},
			Width: 1,
			Dash:  []float64{3, 3},
		},
		CoverageFill:   blue.WithAlpha(56),
		CoverageStroke: canvas.Stroke{Color: blue.WithAlpha(220), Width: 1},
		OrderFill:      purple.WithAlpha(46),
		OrderStroke:    canvas.Stroke{Color: purple.WithAlpha(200), Width: 1, Dash: []float64{4, 2}},
		Tick:           canvas.Stroke{Color: drawing.Color{R: 220, G: 53, B: 69, A: 255}, Width: 1.5},
		StartMarker:    blue,
		EndMarker:      canvas.Stroke{Color: blue, Width: 2},
		Label:          canvas.TextStyle{Color: ink, Size: 10, Anchor: canvas.AnchorMiddle},

		TooltipFill:   drawing.Color{R: 255, G: 255, B: 255, A: 240},
		TooltipBorder: canvas.Stroke{Color: drawing.Color{R: 173, G: 181, B: 189, A: 255}, Width: 1},
		TooltipTitle:  canvas.TextStyle{Color: ink, Size: 12, Bold: true},
		TooltipText:   canvas.TextStyle{Color: ink, Size: 11},
	}
}
