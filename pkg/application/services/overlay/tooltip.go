package overlay

import (
	"fmt"

	"github.com/vsinha/planviz/pkg/application/canvas"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/format"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

const (
	tooltipOffset  = 12.0
	tooltipPadding = 6.0
	lineSpacing    = 1.4
)

// Tooltip is the content of a floating hover box
type Tooltip struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Empty reports whether there is anything to show
func (t Tooltip) Empty() bool {
	return t.Title == "" && len(t.Lines) == 0
}

// CoverageTooltip lists what the bar covers
func CoverageTooltip(bar entities.CoverageBar) Tooltip {
	t := Tooltip{Title: fmt.Sprintf("Supply: %s", format.Qty(bar.SupplyQty))}

	if bar.ActionMessage != "" {
		t.Lines = append(t.Lines, "Action: "+bar.ActionMessage)
	}
	if bar.HasOrderWindow() {
		t.Lines = append(t.Lines, "Order: "+format.DateRange(bar.OrderStartDate, bar.OrderEndDate))
	}
	t.Lines = append(t.Lines, "Coverage: "+format.DateRange(bar.StartDate, bar.End()))

	if len(bar.TrackedDemand) > 0 {
		t.Lines = append(t.Lines, "Covers:")
		for _, d := range bar.TrackedDemand {
			t.Lines = append(t.Lines, fmt.Sprintf("  %s (%s): %s", d.Source, format.ShortDate(d.Date), format.Qty(d.Qty)))
		}
	}
	if len(bar.UntrackedElements) > 0 {
		t.Lines = append(t.Lines, "Untracked:")
		for _, u := range bar.UntrackedElements {
			t.Lines = append(t.Lines, fmt.Sprintf("  %s: %s", u.Source, format.Qty(u.Qty)))
		}
	}
	return t
}

// PlaceTooltip sizes the box for t and positions it at the pointer plus a
// fixed offset, clamped inside the canvas
func PlaceTooltip(t Tooltip, pointer geometry.Point, canvasW, canvasH float64, m canvas.TextMeasurer, style Style) geometry.Rect {
	width := 0.0
	if m != nil {
		width = m.MeasureText(t.Title, style.TooltipTitle.Size)
		for _, line := range t.Lines {
			if w := m.MeasureText(line, style.TooltipText.Size); w > width {
				width = w
			}
		}
	}
	width += 2 * tooltipPadding
	height := 2*tooltipPadding + style.TooltipTitle.Size*lineSpacing + float64(len(t.Lines))*style.TooltipText.Size*lineSpacing

	x := geometry.Clamp(pointer.X+tooltipOffset, 0, canvasW-width)
	y := geometry.Clamp(pointer.Y+tooltipOffset, 0, canvasH-height)
	return geometry.NewRect(x, y, width, height)
}

// DrawTooltip paints t inside box
func DrawTooltip(c canvas.Canvas, t Tooltip, box geometry.Rect, style Style) {
	c.BeginGroup("tooltip")
	defer c.EndGroup()

	c.Rect(box, style.TooltipBorder, style.TooltipFill)

	x := box.X0 + tooltipPadding
	y := box.Y0 + tooltipPadding + style.TooltipTitle.Size
	c.Text(geometry.Point{X: x, Y: y}, t.Title, style.TooltipTitle)
	y += style.TooltipTitle.Size * (lineSpacing - 1)
	for _, line := range t.Lines {
		y += style.TooltipText.Size * lineSpacing
		c.Text(geometry.Point{X: x, Y: y}, line, style.TooltipText)
	}
}
