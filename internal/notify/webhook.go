package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type Event string

const (
	EventUpstreamDown Event = "upstream_down"
	EventUpstreamUp   Event = "upstream_up"
)

// Payload is the wire body of one notification. Group is null for grouped-less
// entities; ResponseMS is null on down events.
type Payload struct {
	Event      Event    `json:"event"`
	Host       string   `json:"host"`
	Upstream   string   `json:"upstream"`
	Group      *string  `json:"group"`
	Timestamp  string   `json:"timestamp"` // RFC 3339
	ResponseMS *float64 `json:"response_ms"`
	Message    string   `json:"message"`
}

// Sender delivers one payload to one URL, best-effort.
type Sender interface {
	Send(ctx context.Context, url string, p Payload) error
}

// Webhook posts JSON notifications. Delivery is fire-and-forget: the response
// status is not inspected, because the payload left the process either way and
// there is no retry path that could act on it.
type Webhook struct {
	Client *http.Client
}

func NewWebhook() *Webhook {
	return &Webhook{
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Webhook) Send(ctx context.Context, url string, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
