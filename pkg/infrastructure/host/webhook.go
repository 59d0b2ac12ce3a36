package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vsinha/planviz/pkg/infrastructure/events"
)

// Callback is the JSON body posted to the host
type Callback struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Version   int         `json:"version"`
	Time      time.Time   `json:"time"`
	Data      interface{} `json:"data"`
}

// WebhookForwarder posts callback events to the host URL
type WebhookForwarder struct {
	url    string
	client *http.Client
}

var _ events.EventHandler = (*WebhookForwarder)(nil)

// NewWebhookForwarder creates a forwarder. A zero timeout means 5 seconds.
func NewWebhookForwarder(url string, timeout time.Duration) *WebhookForwarder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookForwarder{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (f *WebhookForwarder) CanHandle(eventType string) bool {
	for _, t := range events.CallbackEventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}

func (f *WebhookForwarder) Handle(event events.Event) error {
	return f.Forward(context.Background(), event)
}

// Forward posts one event and fails on any non-2xx answer
func (f *WebhookForwarder) Forward(ctx context.Context, event events.Event) error {
	if f.url == "" {
		return nil
	}

	body, err := json.Marshal(Callback{
		Type:      event.Type(),
		SessionID: event.StreamID(),
		Version:   event.Version(),
		Time:      event.Timestamp(),
		Data:      event.Data(),
	})
	if err != nil {
		return fmt.Errorf("marshaling callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "planviz/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending callback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("host returned status %d", resp.StatusCode)
	}
	return nil
}
