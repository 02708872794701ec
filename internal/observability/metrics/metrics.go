// Package metrics holds the metric names and tag conventions shared by the API
// client and the session gate.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/target/libris-ui/internal/observability/errors"
	"github.com/target/libris-ui/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metric names.
const (
	APIRequestCount    = "api.request"
	APIRequestDuration = "api.request.duration"
	SessionResolve     = "session.resolve"
)

// APICall describes one library API round trip.
type APICall struct {
	Method   string
	Endpoint string
	Status   int
	Duration time.Duration
	Err      error
}

// EmitAPICall records a request counter and, when known, its latency.
func EmitAPICall(sink statsd.Sink, in APICall) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"method":   in.Method,
		"endpoint": in.Endpoint,
		"result":   ResultSuccess,
	}
	if in.Status > 0 {
		tags["status"] = strconv.Itoa(in.Status)
	}
	if in.Err != nil {
		tags["result"] = ResultError
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count(APIRequestCount, 1, tags)
	if in.Duration > 0 {
		sink.Timing(APIRequestDuration, in.Duration, CloneTags(tags))
	}
}

// SessionOutcome describes how the session gate resolved a request.
type SessionOutcome struct {
	// Outcome is one of "authenticated", "anonymous" or "token_only".
	Outcome string
	// Redirected is set when the request was answered with a navigation.
	Redirected bool
}

// EmitSessionResolve counts session gate decisions.
func EmitSessionResolve(sink statsd.Sink, in SessionOutcome) {
	if sink == nil {
		return
	}
	sink.Count(SessionResolve, 1, map[string]string{
		"outcome":    in.Outcome,
		"redirected": strconv.FormatBool(in.Redirected),
	})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
