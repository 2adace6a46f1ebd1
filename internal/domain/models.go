package domain

import (
	"net"
	"strconv"
	"time"
)

type EntityKind string

const (
	KindProxyRoute EntityKind = "proxy_route"
	KindStreamPort EntityKind = "stream_port"
)

// Status is the outcome of a single probe. "Never probed" is a third state,
// represented by the absence of any record (nil *HealthRecord), not by a
// Status value.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Upstream is one weighted endpoint inside an upstream group. Weight matters
// to the balancer, not to health probing.
type Upstream struct {
	Server string `json:"server"`
	Port   int    `json:"port"`
	Weight int    `json:"weight"`
}

// Key returns the stable identifier joining live probes to stored history.
func (u Upstream) Key() string {
	return net.JoinHostPort(u.Server, strconv.Itoa(u.Port))
}

type LocationKind string

const (
	LocationProxy    LocationKind = "proxy"
	LocationStatic   LocationKind = "static"
	LocationRedirect LocationKind = "redirect"
)

// Location is one routed path under a proxy host. Only proxy locations carry
// upstreams; static and redirect locations resolve locally.
type Location struct {
	Kind      LocationKind `json:"kind"`
	Path      string       `json:"path"`
	Upstreams []Upstream   `json:"upstreams,omitempty"`
	Root      string       `json:"root,omitempty"`
	TargetURL string       `json:"target_url,omitempty"`
}

type StreamProtocol string

const (
	StreamTCP StreamProtocol = "tcp"
	StreamUDP StreamProtocol = "udp"
)

// ProxyHost is an HTTP routable unit as configured in the admin app.
type ProxyHost struct {
	ID         int64
	Domain     string
	Enabled    bool
	GroupID    *int64
	WebhookURL string
	Locations  []Location
}

// Stream is a raw TCP/UDP forwarded port.
type Stream struct {
	ID         int64
	ListenPort int
	Protocol   StreamProtocol
	Enabled    bool
	GroupID    *int64
	WebhookURL string
	Upstreams  []Upstream
}

type Group struct {
	ID         int64
	Name       string
	WebhookURL string
}

// ProbeTarget is built fresh each cycle from configuration; it never outlives
// the cycle that created it.
type ProbeTarget struct {
	EntityID    int64
	EntityKind  EntityKind
	EntityLabel string
	GroupID     *int64
	WebhookURL  string
	UpstreamKey string
	Server      string
	Port        int
}

// HealthRecord is one stored probe result. Records are append-only; ResponseMS
// is nil whenever Status is down.
type HealthRecord struct {
	ID          int64      `json:"id"`
	EntityID    int64      `json:"entity_id"`
	EntityKind  EntityKind `json:"entity_kind"`
	UpstreamKey string     `json:"upstream_key"`
	Status      Status     `json:"status"`
	ResponseMS  *float64   `json:"response_ms"`
	CheckedAt   time.Time  `json:"checked_at"`
}
