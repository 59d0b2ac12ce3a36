package host

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/infrastructure/events"
	testhelpers "github.com/vsinha/planviz/pkg/infrastructure/testing"
)

func quietStore() *events.InMemoryEventStore {
	return events.NewInMemoryEventStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEventBridge_RecordsCallbacks(t *testing.T) {
	store := quietStore()
	bridge := NewEventBridge(store, "session-1")
	ctx := context.Background()

	bridge.NotifyHorizonChanged(ctx, 180)
	bridge.NotifyEventClicked(ctx, 2, 42, "SO100", 10000)
	bridge.NotifyExplanationClicked(ctx, 20000)

	recorded, _ := store.ReadEvents("session-1", 1)
	if len(recorded) != 3 {
		t.Fatalf("Expected 3 callbacks, got %d", len(recorded))
	}

	testCases := []struct {
		eventType string
		data      interface{}
	}{
		{events.HorizonChangedEvent, events.HorizonChanged{Days: 180}},
		{events.EventClickedEvent, events.EventClicked{EntryNo: 2, SourcePageID: 42, SourceDocNo: "SO100", SourceLineNo: 10000}},
		{events.ExplanationClickedEvent, events.ExplanationClicked{ReqLineNo: 20000}},
	}
	for i, tc := range testCases {
		if recorded[i].Type() != tc.eventType {
			t.Errorf("Callback %d: expected %s, got %s", i, tc.eventType, recorded[i].Type())
		}
		if recorded[i].Data() != tc.data {
			t.Errorf("Callback %d: expected %+v, got %+v", i, tc.data, recorded[i].Data())
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := bridge.NotifyHorizonChanged(cancelled, 30); err == nil {
		t.Errorf("Expected a cancelled context to be rejected")
	}
}

func TestEventBridge_DrivenByController(t *testing.T) {
	store := quietStore()
	c := visualizer.NewController(visualizer.DefaultConfig(), NewEventBridge(store, "s"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := c.LoadChartData(testhelpers.SampleChartJSON()); err != nil {
		t.Fatalf("Expected sample to load, got %v", err)
	}
	if err := c.ChangeHorizon(context.Background(), 60); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	recorded, _ := store.ReadAllEvents(0)
	if len(recorded) != 1 || recorded[0].Data().(events.HorizonChanged).Days != 60 {
		t.Errorf("Expected one horizon callback for 60 days, got %+v", recorded)
	}
}

func TestWebhookForwarder(t *testing.T) {
	var mu sync.Mutex
	var received []Callback
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %s", r.Header.Get("Content-Type"))
		}
		var cb Callback
		if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
			t.Errorf("Expected a JSON body, got %v", err)
		}
		mu.Lock()
		received = append(received, cb)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	store := quietStore()
	forwarder := NewWebhookForwarder(server.URL, 0)
	store.Subscribe(events.CallbackEventTypes, forwarder)

	bridge := NewEventBridge(store, "session-9")
	bridge.NotifyExplanationClicked(context.Background(), 10000)

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("Expected 1 webhook call, got %d", len(received))
	}
	if received[0].Type != events.ExplanationClickedEvent || received[0].SessionID != "session-9" {
		t.Errorf("Expected explanation callback for session-9, got %+v", received[0])
	}
	data, _ := received[0].Data.(map[string]interface{})
	if data["reqLineNo"] != float64(10000) {
		t.Errorf("Expected reqLineNo 10000, got %v", received[0].Data)
	}
}

func TestWebhookForwarder_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	event := events.NewEvent(events.HorizonChangedEvent, "s", events.HorizonChanged{Days: 30})

	if err := NewWebhookForwarder(server.URL, 0).Forward(context.Background(), event); err == nil {
		t.Errorf("Expected an error for a 502 answer")
	}
	if err := NewWebhookForwarder("", 0).Forward(context.Background(), event); err != nil {
		t.Errorf("Expected no-op without a URL, got %v", err)
	}
	if NewWebhookForwarder("", 0).CanHandle("order.planned") {
		t.Errorf("Expected unknown event types to be ignored")
	}
}
