package visualizer

import (
	"context"
	"fmt"

	"github.com/vsinha/planviz/pkg/application/services/overlay"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/format"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// projectionHitRadius is how close the pointer must be to a projection point
const projectionHitRadius = 5.0

// PointerMove updates the hover state for a pointer at (x, y). Coverage bars
// are tested first, then event markers, then projection points.
func (c *Controller) PointerMove(x, y float64) (Hover, bool) {
	if c.chart == nil {
		c.state.Hover = Hover{}
		return Hover{}, false
	}
	pointer := geometry.Point{X: x, Y: y}

	if c.state.ShowCoverage {
		bars := c.chart.CoverageBars()
		if i, ok := c.chart.coverage.HitTest(bars, x, y); ok {
			c.state.Hover = Hover{
				Kind:    HoverCoverage,
				Index:   i,
				Pointer: pointer,
				Tooltip: overlay.CoverageTooltip(bars[i]),
			}
			return c.state.Hover, true
		}
	}

	if m, ok := c.markerAt(pointer); ok {
		c.state.Hover = Hover{
			Kind:    HoverEvent,
			Index:   int(m.Category),
			EntryNo: m.Event.EntryNo,
			Pointer: pointer,
			Tooltip: EventTooltip(m.Event),
		}
		return c.state.Hover, true
	}

	if v, p, ok := c.projectionAt(pointer); ok {
		c.state.Hover = Hover{
			Kind:    HoverProjection,
			Index:   int(v),
			Pointer: pointer,
			Tooltip: overlay.Tooltip{
				Title: p.Date,
				Lines: []string{fmt.Sprintf("%s: %s", v, format.Qty(p.Balance))},
			},
		}
		return c.state.Hover, true
	}

	c.state.Hover = Hover{}
	return Hover{Pointer: pointer}, false
}

// PointerLeave hides the tooltip
func (c *Controller) PointerLeave() {
	c.state.Hover = Hover{}
}

// Click fires the event click-through for the marker under (x, y). The host is
// only called for events that link to a source page.
func (c *Controller) Click(ctx context.Context, x, y float64) (int, bool, error) {
	if c.chart == nil {
		return 0, false, ErrNoChart
	}
	m, ok := c.markerAt(geometry.Point{X: x, Y: y})
	if !ok {
		return 0, false, nil
	}
	evt := m.Event
	if !evt.Navigable() {
		return evt.EntryNo, false, nil
	}
	if err := c.bridge.NotifyEventClicked(ctx, evt.EntryNo, evt.SourcePageID, evt.SourceDocNo, evt.SourceLineNo); err != nil {
		c.logger.Error("event click callback failed", "entryNo", evt.EntryNo, "error", err)
		return evt.EntryNo, false, fmt.Errorf("failed to notify event click: %w", err)
	}
	c.logger.Debug("event clicked", "entryNo", evt.EntryNo, "sourcePageId", evt.SourcePageID)
	return evt.EntryNo, true, nil
}

// markerAt returns the nearest visible marker whose hit radius covers p
func (c *Controller) markerAt(p geometry.Point) (Marker, bool) {
	var best Marker
	bestDist := -1.0
	for _, category := range entities.Categories {
		if !c.state.CategoryVisible(category) {
			continue
		}
		r := c.style.Markers[category].HitRadius()
		for _, m := range c.chart.markers[category] {
			d := geometry.Distance2(p, m.At)
			if d > r*r {
				continue
			}
			if bestDist < 0 || d < bestDist {
				best, bestDist = m, d
			}
		}
	}
	return best, bestDist >= 0
}

// projectionAt returns the nearest visible projection point near p
func (c *Controller) projectionAt(p geometry.Point) (entities.Variant, entities.ProjectionPoint, bool) {
	var (
		bestVariant entities.Variant
		bestPoint   entities.ProjectionPoint
		bestDist    = -1.0
	)
	for _, s := range c.chart.series {
		if !c.state.ProjectionVisible(s.Variant) {
			continue
		}
		for _, pt := range s.Points {
			at, ok := c.chart.Point(pt)
			if !ok {
				continue
			}
			d := geometry.Distance2(p, at)
			if d > projectionHitRadius*projectionHitRadius {
				continue
			}
			if bestDist < 0 || d < bestDist {
				bestVariant, bestPoint, bestDist = s.Variant, pt, d
			}
		}
	}
	return bestVariant, bestPoint, bestDist >= 0
}

// EventTooltip describes one event the way the chart's hover box shows it
func EventTooltip(evt entities.Event) overlay.Tooltip {
	t := overlay.Tooltip{
		Title: evt.Date,
		Lines: []string{fmt.Sprintf("%s: %s", evt.Type, format.Qty(evt.Qty))},
	}
	if evt.Description != "" {
		t.Lines = append(t.Lines, evt.Description)
	}
	if evt.ActionMessage != "" {
		t.Lines = append(t.Lines, "Action: "+evt.ActionMessage)
	}
	t.Lines = append(t.Lines, "Projected Inventory: "+format.Qty(evt.BalanceAfter))
	return t
}
