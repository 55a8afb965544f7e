package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Reason classifies a failed translation call so callers can produce
// differentiated diagnostics without leaking provider internals.
type Reason string

const (
	// ReasonHTTP means the completion API answered with a non-2xx status.
	ReasonHTTP Reason = "http"
	// ReasonEmpty means a 2xx response held no extractable output text.
	ReasonEmpty Reason = "empty"
	// ReasonTimeout means the per-call deadline expired.
	ReasonTimeout Reason = "timeout"
	// ReasonNetwork covers every other transport failure.
	ReasonNetwork Reason = "network"
	// ReasonConfig means the call could not be attempted, typically
	// because no API key is configured.
	ReasonConfig Reason = "config"
)

// Error is a classified translation failure.
type Error struct {
	Reason     Reason
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	detail := strings.TrimSpace(e.Detail)
	switch {
	case e.Reason == ReasonHTTP && detail != "":
		return fmt.Sprintf("completion API status %d: %s", e.StatusCode, detail)
	case e.Reason == ReasonHTTP:
		return fmt.Sprintf("completion API status %d", e.StatusCode)
	case detail != "":
		return fmt.Sprintf("translation %s failure: %s", e.Reason, detail)
	default:
		return fmt.Sprintf("translation %s failure", e.Reason)
	}
}

// ReasonOf extracts the failure reason from an error chain. Unclassified
// errors count as network failures.
func ReasonOf(err error) Reason {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Reason
	}
	return ReasonNetwork
}

// classifyTransport maps a transport-level error to timeout or network.
func classifyTransport(ctx context.Context, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return &Error{Reason: ReasonTimeout, Detail: "request deadline exceeded"}
	}
	return &Error{Reason: ReasonNetwork, Detail: err.Error()}
}
