package visualizer

import "github.com/vsinha/planviz/pkg/application/services/overlay"

// HorizonOptions are the planning horizons offered by the toolbar, in days
var HorizonOptions = []int{30, 60, 90, 180, 365}

// DefaultHorizonDays is the horizon selected before the user picks one
const DefaultHorizonDays = 90

// Config sizes the canvas and the plot inside it
type Config struct {
	Width        float64
	Height       float64
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
	YTicks       int
	MaxXLabels   int
	Coverage     overlay.Layout
}

// DefaultConfig returns the layout of a 1000x560 chart
func DefaultConfig() Config {
	return Config{
		Width:        1000,
		Height:       560,
		MarginLeft:   70,
		MarginRight:  30,
		MarginTop:    30,
		MarginBottom: 90,
		YTicks:       6,
		MaxXLabels:   20,
		Coverage:     overlay.DefaultLayout(0),
	}
}
