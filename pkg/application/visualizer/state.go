package visualizer

import (
	"github.com/vsinha/planviz/pkg/application/services/overlay"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// HoverKind is what the pointer is currently over
type HoverKind int

const (
	HoverNone HoverKind = iota
	HoverCoverage
	HoverEvent
	HoverProjection
)

// String method for HoverKind enum
func (h HoverKind) String() string {
	switch h {
	case HoverCoverage:
		return "coverage"
	case HoverEvent:
		return "event"
	case HoverProjection:
		return "projection"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name
func (h HoverKind) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// Hover is the result of the last pointer move
type Hover struct {
	Kind    HoverKind       `json:"kind"`
	Index   int             `json:"index"`
	EntryNo int             `json:"entryNo,omitempty"`
	Pointer geometry.Point  `json:"pointer"`
	Tooltip overlay.Tooltip `json:"tooltip"`
}

// VisualizerState is everything the user toggles. It survives reloads.
type VisualizerState struct {
	Projections  map[entities.Variant]bool
	Categories   map[entities.Category]bool
	ShowTracking bool
	ShowCoverage bool
	HorizonDays  int
	Highlight    int
	Hover        Hover
}

// NewVisualizerState shows every series and category, hides tracking lines
// and shows coverage bars
func NewVisualizerState() VisualizerState {
	s := VisualizerState{
		Projections:  make(map[entities.Variant]bool, len(entities.Variants)),
		Categories:   make(map[entities.Category]bool, len(entities.Categories)),
		ShowCoverage: true,
		HorizonDays:  DefaultHorizonDays,
	}
	for _, v := range entities.Variants {
		s.Projections[v] = true
	}
	for _, c := range entities.Categories {
		s.Categories[c] = true
	}
	return s
}

// CategoryVisible reports whether events of c are drawn
func (s VisualizerState) CategoryVisible(c entities.Category) bool {
	return s.Categories[c]
}

// ProjectionVisible reports whether the series of v is drawn
func (s VisualizerState) ProjectionVisible(v entities.Variant) bool {
	return s.Projections[v]
}

// Clone returns a deep copy
func (s VisualizerState) Clone() VisualizerState {
	out := s
	out.Projections = make(map[entities.Variant]bool, len(s.Projections))
	for k, v := range s.Projections {
		out.Projections[k] = v
	}
	out.Categories = make(map[entities.Category]bool, len(s.Categories))
	for k, v := range s.Categories {
		out.Categories[k] = v
	}
	return out
}
