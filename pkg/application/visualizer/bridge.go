package visualizer

import "context"

// HostBridge carries callbacks back to the application embedding the chart
type HostBridge interface {
	NotifyHorizonChanged(ctx context.Context, days int) error
	NotifyEventClicked(ctx context.Context, entryNo, sourcePageID int, sourceDocNo string, sourceLineNo int) error
	NotifyExplanationClicked(ctx context.Context, reqLineNo int) error
}

// NopBridge drops every callback
type NopBridge struct{}

// NotifyHorizonChanged implements HostBridge
func (NopBridge) NotifyHorizonChanged(context.Context, int) error { return nil }

// NotifyEventClicked implements HostBridge
func (NopBridge) NotifyEventClicked(context.Context, int, int, string, int) error { return nil }

// NotifyExplanationClicked implements HostBridge
func (NopBridge) NotifyExplanationClicked(context.Context, int) error { return nil }
