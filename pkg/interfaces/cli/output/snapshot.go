package output

import (
	"fmt"

	"github.com/vsinha/planviz/pkg/application/services/overlay"
	"github.com/vsinha/planviz/pkg/application/services/projection"
	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/format"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// Snapshot is the machine-readable view of a loaded chart: what is plotted,
// where the overlays sit and which toggles are set
type Snapshot struct {
	Events       map[string]int       `json:"events"`
	Series       []SeriesSnapshot     `json:"series"`
	Annotations  []AnnotationSnapshot `json:"annotations"`
	Tracking     []geometry.Segment   `json:"tracking"`
	Coverage     []CoverageRow        `json:"coverage"`
	Explanations int                  `json:"explanations"`
	State        StateSnapshot        `json:"state"`
}

// SeriesSnapshot summarises one projection series
type SeriesSnapshot struct {
	Name    string         `json:"name"`
	Visible bool           `json:"visible"`
	Points  int            `json:"points"`
	Levels  map[string]int `json:"levels,omitempty"`
}

// AnnotationSnapshot is one threshold line or zone
type AnnotationSnapshot struct {
	Kind  string `json:"kind"`
	Label string `json:"label,omitempty"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// CoverageRow is the placed geometry of one coverage bar
type CoverageRow struct {
	Index    int             `json:"index"`
	Coverage geometry.Rect   `json:"coverage"`
	Order    *geometry.Rect  `json:"order,omitempty"`
	Tooltip  overlay.Tooltip `json:"tooltip"`
}

// StateSnapshot is the toggle state keyed by readable names
type StateSnapshot struct {
	Categories   map[string]bool `json:"categories"`
	Projections  map[string]bool `json:"projections"`
	ShowTracking bool            `json:"showTracking"`
	ShowCoverage bool            `json:"showCoverage"`
	HorizonDays  int             `json:"horizonDays"`
	Highlight    int             `json:"highlight,omitempty"`
}

// BuildSnapshot captures the controller's current chart
func BuildSnapshot(c *visualizer.Controller) (*Snapshot, error) {
	ch := c.Chart()
	if ch == nil {
		return nil, fmt.Errorf("cannot snapshot: %w", visualizer.ErrNoChart)
	}
	state := c.State()

	snap := &Snapshot{
		Events:       make(map[string]int, len(entities.Categories)),
		Tracking:     c.TrackingSegments(),
		Explanations: c.Panel().Len(),
		State: StateSnapshot{
			Categories:   make(map[string]bool, len(entities.Categories)),
			Projections:  make(map[string]bool, len(entities.Variants)),
			ShowTracking: state.ShowTracking,
			ShowCoverage: state.ShowCoverage,
			HorizonDays:  state.HorizonDays,
			Highlight:    state.Highlight,
		},
	}

	for _, category := range entities.Categories {
		snap.Events[category.Key()] = len(ch.Classes().Buckets[category])
		snap.State.Categories[category.Key()] = state.CategoryVisible(category)
	}
	for _, v := range entities.Variants {
		snap.State.Projections[v.String()] = state.ProjectionVisible(v)
	}

	for _, s := range ch.Series() {
		ss := SeriesSnapshot{
			Name:    s.Variant.String(),
			Visible: state.ProjectionVisible(s.Variant),
			Points:  len(s.Points),
		}
		if s.Colored {
			ss.Levels = levelCounts(s)
		}
		snap.Series = append(snap.Series, ss)
	}

	for _, a := range ch.Annotations() {
		snap.Annotations = append(snap.Annotations, AnnotationSnapshot{
			Kind:  a.Kind.String(),
			Label: a.Label,
			From:  format.Qty(a.From),
			To:    format.Qty(a.To),
		})
	}

	for i, bar := range ch.CoverageBars() {
		g, ok := ch.Coverage().Geometry(i, bar)
		if !ok {
			continue
		}
		row := CoverageRow{
			Index:    i,
			Coverage: g.Coverage,
			Tooltip:  overlay.CoverageTooltip(bar),
		}
		if g.HasOrder {
			order := g.Order
			row.Order = &order
		}
		snap.Coverage = append(snap.Coverage, row)
	}
	return snap, nil
}

func levelCounts(s projection.Series) map[string]int {
	counts := make(map[string]int)
	for _, seg := range s.Segments {
		counts[seg.Level.String()]++
	}
	return counts
}
