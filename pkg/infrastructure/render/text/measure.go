// Package text measures label widths with a real bitmap font face.
package text

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/vsinha/planviz/pkg/application/canvas"
)

// Measurer measures strings with a font face and scales the result from the
// face's pixel height to the requested size
type Measurer struct {
	face   font.Face
	height float64
}

// NewMeasurer measures with basicfont's 7x13 face
func NewMeasurer() *Measurer {
	return &Measurer{face: basicfont.Face7x13, height: float64(basicfont.Face7x13.Height)}
}

var _ canvas.TextMeasurer = (*Measurer)(nil)

// MeasureText implements canvas.TextMeasurer
func (m *Measurer) MeasureText(s string, size float64) float64 {
	if s == "" {
		return 0
	}
	width := float64(font.MeasureString(m.face, s).Ceil())
	if size <= 0 {
		return width
	}
	return width * size / m.height
}
