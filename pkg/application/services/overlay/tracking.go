package overlay

import (
	"github.com/vsinha/planviz/pkg/application/canvas"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// Locator resolves where the marker of an event is drawn within one category
type Locator interface {
	Locate(category entities.Category, entryNo int) (geometry.Point, bool)
}

// Visibility reports whether a category is currently drawn
type Visibility func(entities.Category) bool

// TrackingLines resolves every pair to a screen segment. The supply end is
// only searched among supply-side categories and the demand end among
// demand-side ones; hidden categories are skipped. Pairs with an unresolved
// end are dropped.
func TrackingLines(pairs []entities.TrackingPair, loc Locator, visible Visibility) []geometry.Segment {
	var segments []geometry.Segment
	for _, pair := range pairs {
		from, ok := resolve(loc, visible, entities.SupplySide, pair.SupplyEntryNo)
		if !ok {
			continue
		}
		to, ok := resolve(loc, visible, entities.DemandSide, pair.DemandEntryNo)
		if !ok {
			continue
		}
		segments = append(segments, geometry.Segment{From: from, To: to})
	}
	return segments
}

func resolve(loc Locator, visible Visibility, side []entities.Category, entryNo int) (geometry.Point, bool) {
	for _, category := range side {
		if visible != nil && !visible(category) {
			continue
		}
		if p, ok := loc.Locate(category, entryNo); ok {
			return p, true
		}
	}
	return geometry.Point{}, false
}

// DrawTracking paints tracking segments as dashed connectors
func DrawTracking(c canvas.Canvas, segments []geometry.Segment, style Style) {
	if len(segments) == 0 {
		return
	}
	c.BeginGroup("tracking")
	defer c.EndGroup()

	for _, s := range segments {
		c.Line(s.From, s.To, style.Tracking)
	}
}
