package xapi

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// ErrNoToken reports a missing credential. It is returned before any
// network activity and is a configuration problem, not a call failure.
var ErrNoToken = errors.New("X API bearer token is not configured. Set X_BEARER_TOKEN to enable X API tools")

// TransportError wraps a failure to complete the HTTP exchange
// (DNS, connection refused, timeout). Timeout distinguishes an expired
// deadline from other transport faults.
type TransportError struct {
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return "Network error: request timed out: " + e.Err.Error()
	}
	return "Network error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response. Body carries the upstream payload
// verbatim; X returns problem-detail JSON worth showing as-is.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("X API error (HTTP %d): %s", e.Status, e.Body)
}

// APIError is a 2xx response carrying an errors array in the body.
type APIError struct {
	Details []ErrorDetail
}

func (e *APIError) Error() string {
	msgs := make([]string, len(e.Details))
	for i, d := range e.Details {
		switch {
		case d.Detail != "":
			msgs[i] = d.Detail
		case d.Title != "":
			msgs[i] = d.Title
		default:
			msgs[i] = "Unknown error"
		}
	}
	return "X API returned errors: " + strings.Join(msgs, "; ")
}
