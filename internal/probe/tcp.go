package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

const DefaultTimeout = 3000 * time.Millisecond

// TCPChecker establishes a TCP connection and closes it immediately; no
// application data is sent or expected. A completed handshake within the
// timeout means Up.
type TCPChecker struct {
	Timeout time.Duration
}

func NewTCPChecker(timeout time.Duration) *TCPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TCPChecker{Timeout: timeout}
}

func (c *TCPChecker) Check(ctx context.Context, server string, port int) Result {
	addr := net.JoinHostPort(server, strconv.Itoa(port))

	// The dial is bound to a single deadline covering DNS resolution and the
	// handshake, so the connect/timeout race resolves exactly once: a socket
	// that completes after the deadline fired is closed by the dialer.
	cctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	var d net.Dialer
	start := time.Now()
	conn, err := d.DialContext(cctx, "tcp", addr)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return Result{Up: false, LatencyMS: latency, Message: err.Error()}
	}
	_ = conn.Close()

	return Result{Up: true, LatencyMS: latency}
}
