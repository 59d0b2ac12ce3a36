package entities

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EventType is the planning engine's tag for a discrete supply or demand event
type EventType int

const (
	UnknownEventType EventType = iota
	InitialInventory
	DemandForecast
	PlanningComponent
	PendingRequisitionLine
	SupplyEvent
	DemandEvent
	SuggestedSupplyEvent
)

var eventTypeNames = map[EventType]string{
	InitialInventory:       "Initial Inventory",
	DemandForecast:         "Demand Forecast",
	PlanningComponent:      "Planning Component",
	PendingRequisitionLine: "Pending Requisition Line",
	SupplyEvent:            "Supply",
	DemandEvent:            "Demand",
	SuggestedSupplyEvent:   "Suggested Supply",
}

// String method for EventType enum
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseEventType maps a payload type label to an EventType. Unrecognised labels
// yield UnknownEventType rather than an error.
func ParseEventType(label string) EventType {
	label = strings.TrimSpace(label)
	for t, name := range eventTypeNames {
		if strings.EqualFold(name, label) {
			return t
		}
	}
	return UnknownEventType
}

// UnmarshalJSON accepts the type label as sent by the planning engine
func (t *EventType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = UnknownEventType
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("event type must be a string: %w", err)
	}
	*t = ParseEventType(label)
	return nil
}

// MarshalJSON writes the type label
func (t EventType) MarshalJSON() ([]byte, error) {
	if t == UnknownEventType {
		return []byte(`""`), nil
	}
	return json.Marshal(t.String())
}

// Event is a discrete supply or demand occurrence on the projection
type Event struct {
	EntryNo       int             `json:"entryNo"`
	Type          EventType       `json:"type"`
	Date          string          `json:"date"`
	Qty           decimal.Decimal `json:"qty"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	IsSupply      bool            `json:"isSupply"`
	IsSuggestion  bool            `json:"isSuggestion"`
	Description   string          `json:"description"`
	ActionMessage string          `json:"actionMessage"`
	SourcePageID  int             `json:"sourcePageId"`
	SourceDocNo   string          `json:"sourceDocNo"`
	SourceLineNo  int             `json:"sourceLineNo"`
}

// NewEvent creates a validated Event
func NewEvent(entryNo int, eventType EventType, date string, qty, balanceAfter decimal.Decimal) (*Event, error) {
	if entryNo <= 0 {
		return nil, fmt.Errorf("entry number must be positive, got %d", entryNo)
	}
	if date == "" {
		return nil, fmt.Errorf("date cannot be empty")
	}
	if _, ok := ParseDate(date); !ok {
		return nil, fmt.Errorf("invalid date %q", date)
	}

	return &Event{
		EntryNo:      entryNo,
		Type:         eventType,
		Date:         date,
		Qty:          qty,
		BalanceAfter: balanceAfter,
		IsSupply:     eventType == SupplyEvent || eventType == SuggestedSupplyEvent || eventType == PendingRequisitionLine,
		IsSuggestion: eventType == SuggestedSupplyEvent,
	}, nil
}

// Navigable reports whether the event links back to a source document page
func (e Event) Navigable() bool {
	return e.SourcePageID > 0
}
