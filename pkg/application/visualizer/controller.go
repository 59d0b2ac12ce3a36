// Package visualizer owns the chart of one item: it rebuilds the static layer
// on every load, keeps the user's toggles and drives the interactive overlays.
package visualizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vsinha/planviz/pkg/application/canvas"
	"github.com/vsinha/planviz/pkg/application/services/explain"
	"github.com/vsinha/planviz/pkg/domain/entities"
)

// ErrNoChart is returned by operations that need a loaded chart
var ErrNoChart = errors.New("no chart loaded")

// Controller is the single entry point the host drives. It is not safe for
// concurrent use; callers serialise access.
type Controller struct {
	config   Config
	style    Style
	measurer canvas.TextMeasurer
	bridge   HostBridge
	logger   *slog.Logger

	state VisualizerState
	chart *Chart
	panel *explain.Panel
}

// NewController creates a controller with no chart loaded. A nil bridge drops
// callbacks and a nil logger uses slog.Default.
func NewController(config Config, bridge HostBridge, logger *slog.Logger) *Controller {
	if bridge == nil {
		bridge = NopBridge{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		config:   config,
		style:    DefaultStyle(),
		measurer: canvas.FixedMeasurer{Advance: 0.6},
		bridge:   bridge,
		logger:   logger,
		state:    NewVisualizerState(),
		panel:    explain.NewPanel(nil),
	}
}

// SetMeasurer replaces the text measurer used for label fitting and tooltips
func (c *Controller) SetMeasurer(m canvas.TextMeasurer) {
	if m != nil {
		c.measurer = m
	}
}

// SetStyle replaces the palette
func (c *Controller) SetStyle(s Style) {
	c.style = s
}

// Config returns the canvas configuration
func (c *Controller) Config() Config {
	return c.config
}

// Style returns the palette in use
func (c *Controller) Style() Style {
	return c.style
}

// State returns a copy of the current toggles
func (c *Controller) State() VisualizerState {
	return c.state.Clone()
}

// Chart returns the loaded chart, or nil
func (c *Controller) Chart() *Chart {
	return c.chart
}

// Panel returns the explanation panel
func (c *Controller) Panel() *explain.Panel {
	return c.panel
}

// LoadChartData replaces the chart with one built from a JSON payload. On a
// parse failure the previous chart stays in place.
func (c *Controller) LoadChartData(data string) error {
	payload, err := entities.DecodeChartPayload([]byte(data))
	if err != nil {
		c.logger.Error("failed to load chart data", "error", err)
		return fmt.Errorf("failed to load chart data: %w", err)
	}
	c.LoadChart(payload)
	return nil
}

// LoadChart replaces the chart with one built from a decoded payload
func (c *Controller) LoadChart(payload *entities.ChartPayload) {
	if c.chart != nil {
		c.chart.Destroy()
	}
	c.chart = newChart(payload, c.config)
	c.state.Hover = Hover{}

	if c.state.Highlight != 0 {
		if _, ok := c.findMarker(c.state.Highlight); !ok {
			c.state.Highlight = 0
		}
	}

	c.logger.Info("chart loaded",
		"events", len(payload.Events),
		"labels", c.chart.xAxis.Len(),
		"series", len(c.chart.series),
		"annotations", len(c.chart.annotations),
		"trackingPairs", len(payload.TrackingPairs),
		"coverageBars", len(payload.CoverageBars),
	)
}

// LoadExplanations replaces the explanation panel. On a parse failure the
// previous panel stays in place.
func (c *Controller) LoadExplanations(data string) error {
	payload, err := entities.DecodeExplanationPayload([]byte(data))
	if err != nil {
		c.logger.Error("failed to load explanations", "error", err)
		return fmt.Errorf("failed to load explanations: %w", err)
	}
	c.panel = explain.NewPanel(payload)
	c.logger.Info("explanations loaded", "count", c.panel.Len())
	return nil
}

// Destroy drops the chart
func (c *Controller) Destroy() {
	if c.chart != nil {
		c.chart.Destroy()
		c.chart = nil
	}
	c.state.Hover = Hover{}
}

// UpdateVisibility shows or hides existing supply, suggested supply and demand
func (c *Controller) UpdateVisibility(showExisting, showSuggested, showDemand bool) {
	if c.chart == nil {
		return
	}
	c.state.Categories[entities.CategorySupply] = showExisting
	c.state.Categories[entities.CategorySuggestedSupply] = showSuggested
	c.state.Categories[entities.CategoryDemand] = showDemand
	c.afterToggle()
}

// ToggleProjection shows or hides the before and after series
func (c *Controller) ToggleProjection(showBefore, showAfter bool) {
	if c.chart == nil {
		return
	}
	c.state.Projections[entities.VariantBefore] = showBefore
	c.state.Projections[entities.VariantAfter] = showAfter
	c.afterToggle()
}

// SetCategoryVisible shows or hides one event category
func (c *Controller) SetCategoryVisible(category entities.Category, visible bool) {
	if c.chart == nil {
		return
	}
	c.state.Categories[category] = visible
	c.afterToggle()
}

// SetProjectionVisible shows or hides one projection series
func (c *Controller) SetProjectionVisible(variant entities.Variant, visible bool) {
	if c.chart == nil {
		return
	}
	c.state.Projections[variant] = visible
	c.afterToggle()
}

// ShowTrackingLines shows or hides the tracking line overlay
func (c *Controller) ShowTrackingLines(visible bool) {
	if c.chart == nil {
		return
	}
	c.state.ShowTracking = visible
}

// ShowCoverageBars shows or hides the coverage bar overlay
func (c *Controller) ShowCoverageBars(visible bool) {
	if c.chart == nil {
		return
	}
	c.state.ShowCoverage = visible
	c.afterToggle()
}

// afterToggle drops a hover that points at something no longer drawn
func (c *Controller) afterToggle() {
	h := c.state.Hover
	switch {
	case h.Kind == HoverCoverage && !c.state.ShowCoverage:
		c.state.Hover = Hover{}
	case h.Kind == HoverEvent:
		if m, ok := c.findMarker(h.EntryNo); !ok || !c.state.CategoryVisible(m.Category) {
			c.state.Hover = Hover{}
		}
	case h.Kind == HoverProjection && !c.state.ProjectionVisible(entities.Variant(h.Index)):
		c.state.Hover = Hover{}
	}
}

// ChangeHorizon records the planning horizon and tells the host, which reloads
// the payload for the new window
func (c *Controller) ChangeHorizon(ctx context.Context, days int) error {
	if days <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", days)
	}
	c.state.HorizonDays = days
	if err := c.bridge.NotifyHorizonChanged(ctx, days); err != nil {
		c.logger.Error("horizon callback failed", "days", days, "error", err)
		return fmt.Errorf("failed to notify horizon change: %w", err)
	}
	c.logger.Debug("horizon changed", "days", days)
	return nil
}

// HighlightEvent marks one plotted event. An unknown entry clears the mark.
func (c *Controller) HighlightEvent(entryNo int) bool {
	if c.chart == nil {
		return false
	}
	if _, ok := c.findMarker(entryNo); !ok {
		c.state.Highlight = 0
		return false
	}
	c.state.Highlight = entryNo
	return true
}

// ToggleExplanation flips the details of explanation card i
func (c *Controller) ToggleExplanation(i int) (bool, error) {
	return c.panel.Toggle(i)
}

// ActivateExplanation asks the host to open the worksheet line behind a card.
// Zero never navigates.
func (c *Controller) ActivateExplanation(ctx context.Context, reqLineNo int) (bool, error) {
	if !c.panel.Activate(reqLineNo) {
		return false, nil
	}
	if err := c.bridge.NotifyExplanationClicked(ctx, reqLineNo); err != nil {
		c.logger.Error("explanation callback failed", "reqLineNo", reqLineNo, "error", err)
		return false, fmt.Errorf("failed to notify explanation click: %w", err)
	}
	return true, nil
}

// findMarker looks an entry up among the placed markers of every category
func (c *Controller) findMarker(entryNo int) (Marker, bool) {
	if c.chart == nil {
		return Marker{}, false
	}
	for _, category := range entities.Categories {
		for _, m := range c.chart.markers[category] {
			if m.Event.EntryNo == entryNo {
				return m, true
			}
		}
	}
	return Marker{}, false
}
