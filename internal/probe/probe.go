package probe

import "context"

// Result is the outcome of a single reachability probe. LatencyMS is the
// wall-clock elapsed from probe start to resolution, reported for both
// outcomes; Message carries the dial error text when Up is false.
type Result struct {
	Up        bool
	LatencyMS float64
	Message   string
}

// Checker performs one reachability check against a (server, port) pair.
type Checker interface {
	Check(ctx context.Context, server string, port int) Result
}
