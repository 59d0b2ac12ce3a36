package events

// Callback event types, one per host bridge method
const (
	HorizonChangedEvent     = "horizon.changed"
	EventClickedEvent       = "event.clicked"
	ExplanationClickedEvent = "explanation.clicked"
)

// CallbackEventTypes lists every callback event type
var CallbackEventTypes = []string{
	HorizonChangedEvent,
	EventClickedEvent,
	ExplanationClickedEvent,
}

type HorizonChanged struct {
	Days int `json:"days"`
}

type EventClicked struct {
	EntryNo      int    `json:"entryNo"`
	SourcePageID int    `json:"sourcePageId"`
	SourceDocNo  string `json:"sourceDocNo"`
	SourceLineNo int    `json:"sourceLineNo"`
}

type ExplanationClicked struct {
	ReqLineNo int `json:"reqLineNo"`
}
