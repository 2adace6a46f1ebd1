package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhook_PostsJSONPayload(t *testing.T) {
	var (
		gotType string
		got     map[string]any
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(200)
	}))
	defer ts.Close()

	ms := 42.5
	group := "backend"
	wh := NewWebhook()
	err := wh.Send(context.Background(), ts.URL, Payload{
		Event:      EventUpstreamUp,
		Host:       "app.example.com",
		Upstream:   "10.0.0.5:8080",
		Group:      &group,
		Timestamp:  "2026-08-26T10:00:00Z",
		ResponseMS: &ms,
		Message:    "upstream recovered",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotType != "application/json" {
		t.Fatalf("content type: %q", gotType)
	}
	if got["event"] != "upstream_up" || got["upstream"] != "10.0.0.5:8080" {
		t.Fatalf("payload wrong: %+v", got)
	}
	if got["group"] != "backend" {
		t.Fatalf("group wrong: %+v", got["group"])
	}
	if got["response_ms"] != 42.5 {
		t.Fatalf("response_ms wrong: %+v", got["response_ms"])
	}
}

func TestWebhook_NullFieldsOnDown(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer ts.Close()

	wh := NewWebhook()
	err := wh.Send(context.Background(), ts.URL, Payload{
		Event:    EventUpstreamDown,
		Host:     "app.example.com",
		Upstream: "10.0.0.5:8080",
		Message:  "connection refused",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	// nullable fields must be present as explicit nulls, not omitted
	if v, ok := got["group"]; !ok || v != nil {
		t.Fatalf("group should be null: %+v ok=%v", v, ok)
	}
	if v, ok := got["response_ms"]; !ok || v != nil {
		t.Fatalf("response_ms should be null: %+v ok=%v", v, ok)
	}
}

func TestWebhook_Non2xxIsStillDelivered(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	wh := NewWebhook()
	if err := wh.Send(context.Background(), ts.URL, Payload{Event: EventUpstreamDown}); err != nil {
		t.Fatalf("non-2xx should not error, payload was sent: %v", err)
	}
}

func TestWebhook_TransportErrorSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listening anymore

	wh := NewWebhook()
	if err := wh.Send(context.Background(), ts.URL, Payload{Event: EventUpstreamDown}); err == nil {
		t.Fatalf("expected transport error")
	}
}
