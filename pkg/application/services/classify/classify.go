// Package classify sorts payload events into display categories.
package classify

import "github.com/vsinha/planviz/pkg/domain/entities"

// Result holds the category buckets and the entry number index of one payload
type Result struct {
	Buckets map[entities.Category][]entities.Event
	Index   map[int]entities.Event
}

// Classify partitions events into mutually exclusive categories. Initial
// Inventory events are indexed but not bucketed. When an entry number repeats,
// the last occurrence wins in the index.
func Classify(events []entities.Event) Result {
	result := Result{
		Buckets: make(map[entities.Category][]entities.Event, len(entities.Categories)),
		Index:   make(map[int]entities.Event, len(events)),
	}

	for _, evt := range events {
		result.Index[evt.EntryNo] = evt
		category, ok := CategoryOf(evt)
		if !ok {
			continue
		}
		result.Buckets[category] = append(result.Buckets[category], evt)
	}
	return result
}

// CategoryOf applies the precedence rule: type-based categories first, then
// the suggestion flag, then the supply flag, and demand for everything else.
// ok is false for Initial Inventory.
func CategoryOf(evt entities.Event) (entities.Category, bool) {
	switch {
	case evt.Type == entities.InitialInventory:
		return 0, false
	case evt.Type == entities.DemandForecast:
		return entities.CategoryForecast, true
	case evt.Type == entities.PlanningComponent:
		return entities.CategoryPlanningComponent, true
	case evt.Type == entities.PendingRequisitionLine:
		return entities.CategoryPendingRequisition, true
	case evt.IsSuggestion:
		return entities.CategorySuggestedSupply, true
	case evt.IsSupply:
		return entities.CategorySupply, true
	default:
		return entities.CategoryDemand, true
	}
}

// Count returns the number of bucketed events
func (r Result) Count() int {
	n := 0
	for _, events := range r.Buckets {
		n += len(events)
	}
	return n
}

// Lookup returns the indexed event with entryNo
func (r Result) Lookup(entryNo int) (entities.Event, bool) {
	evt, ok := r.Index[entryNo]
	return evt, ok
}
