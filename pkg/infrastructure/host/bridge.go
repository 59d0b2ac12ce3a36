// Package host connects controller callbacks to the host application: the
// EventBridge records them per session and the WebhookForwarder pushes them
// to the host over HTTP.
package host

import (
	"context"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/infrastructure/events"
)

// EventBridge is a visualizer.HostBridge that appends every callback to the
// session's event stream
type EventBridge struct {
	store     events.EventStore
	sessionID string
}

var _ visualizer.HostBridge = (*EventBridge)(nil)

// NewEventBridge creates a bridge writing to the stream named sessionID
func NewEventBridge(store events.EventStore, sessionID string) *EventBridge {
	return &EventBridge{store: store, sessionID: sessionID}
}

func (b *EventBridge) NotifyHorizonChanged(ctx context.Context, days int) error {
	return b.append(ctx, events.HorizonChangedEvent, events.HorizonChanged{Days: days})
}

func (b *EventBridge) NotifyEventClicked(ctx context.Context, entryNo, sourcePageID int, sourceDocNo string, sourceLineNo int) error {
	return b.append(ctx, events.EventClickedEvent, events.EventClicked{
		EntryNo:      entryNo,
		SourcePageID: sourcePageID,
		SourceDocNo:  sourceDocNo,
		SourceLineNo: sourceLineNo,
	})
}

func (b *EventBridge) NotifyExplanationClicked(ctx context.Context, reqLineNo int) error {
	return b.append(ctx, events.ExplanationClickedEvent, events.ExplanationClicked{ReqLineNo: reqLineNo})
}

func (b *EventBridge) append(ctx context.Context, eventType string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.store.AppendEvent(b.sessionID, events.NewEvent(eventType, b.sessionID, data))
}
