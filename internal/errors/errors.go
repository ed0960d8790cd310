// Package errors defines the stable error taxonomy for metric fetches.
// Every failed operation against a Glances agent is reduced to one of the
// Kind values below before it crosses the tool-call boundary, so callers
// always receive a machine-readable kind plus a one-line message.
//
// NOTE: Important for developers
// When adding a new Kind here, you MUST consider how it is surfaced at the
// tool facade (internal/tools) and the daemon status API. Unclassified
// errors fall back to KindUnknown.
package errors

import (
	"errors"
	"fmt"
)

const (
	// KindUnknownServer indicates the logical server id is not present in the registry.
	// No network request is attempted for this kind.
	KindUnknownServer Kind = "unknown_server"

	// KindConnectionFailed indicates the connection could not be established
	// (DNS failure, refused connection, TLS failure).
	KindConnectionFailed Kind = "connection_failed"

	// KindTimeout indicates the request exceeded its timeout budget.
	KindTimeout Kind = "timeout"

	// KindHTTPStatus indicates a response was received but the HTTP status
	// was outside the 2xx success range.
	KindHTTPStatus Kind = "http_status"

	// KindMalformedResponse indicates the response body could not be parsed
	// as well-formed JSON of the expected top-level shape.
	KindMalformedResponse Kind = "malformed_response"

	// KindUnknown indicates any other transport-level failure.
	// The underlying message is preserved for logging.
	KindUnknown Kind = "unknown"
)

// Kind is the stable machine-readable tag attached to every FetchError.
type Kind string

// Sentinel errors, one per Kind, usable with errors.Is.
var (
	ErrUnknownServer     = errors.New("unknown server")
	ErrConnectionFailed  = errors.New("connection failed")
	ErrTimeout           = errors.New("request timed out")
	ErrHTTPStatus        = errors.New("unexpected HTTP status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrUnknown           = errors.New("unknown fetch error")
)

// ErrHealthNotTracked indicates that a server id is not present in the
// daemon's health tracker.
var ErrHealthNotTracked = errors.New("health not tracked for server")

// FetchError is the tagged result of a failed fetch operation.
// It is never silently dropped; the tool facade converts it into a
// structured result for the caller.
type FetchError struct {
	// Kind is the stable classification tag.
	Kind Kind

	// Message is a one-line human-readable explanation.
	// It never contains a raw stack trace.
	Message string

	// StatusCode carries the HTTP status for KindHTTPStatus, zero otherwise.
	StatusCode int

	// BodyExcerpt optionally carries a truncated response body for diagnostics.
	BodyExcerpt string
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap maps the error onto its Kind's sentinel so callers can use errors.Is
// without inspecting the struct.
func (e *FetchError) Unwrap() error {
	switch e.Kind {
	case KindUnknownServer:
		return ErrUnknownServer
	case KindConnectionFailed:
		return ErrConnectionFailed
	case KindTimeout:
		return ErrTimeout
	case KindHTTPStatus:
		return ErrHTTPStatus
	case KindMalformedResponse:
		return ErrMalformedResponse
	default:
		return ErrUnknown
	}
}

// NewUnknownServer returns a FetchError for a server id absent from the registry.
func NewUnknownServer(id string) *FetchError {
	return &FetchError{
		Kind:    KindUnknownServer,
		Message: fmt.Sprintf("no server configured with id '%s'", id),
	}
}

// NewConnectionFailed returns a FetchError for a connection that could not be established.
func NewConnectionFailed(err error) *FetchError {
	return &FetchError{
		Kind:    KindConnectionFailed,
		Message: fmt.Sprintf("cannot reach agent: %v", err),
	}
}

// NewTimeout returns a FetchError for a request that exceeded its deadline.
func NewTimeout(err error) *FetchError {
	return &FetchError{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("request exceeded timeout: %v", err),
	}
}

// NewHTTPStatus returns a FetchError for a non-2xx response,
// keeping a truncated body excerpt for diagnostics.
func NewHTTPStatus(code int, excerpt string) *FetchError {
	return &FetchError{
		Kind:        KindHTTPStatus,
		Message:     fmt.Sprintf("agent returned HTTP %d", code),
		StatusCode:  code,
		BodyExcerpt: excerpt,
	}
}

// NewMalformedResponse returns a FetchError for a body that failed to parse or validate.
func NewMalformedResponse(reason string) *FetchError {
	return &FetchError{
		Kind:    KindMalformedResponse,
		Message: fmt.Sprintf("response body is not well-formed: %s", reason),
	}
}

// NewUnknownFetchError returns a FetchError for an unclassified transport failure.
func NewUnknownFetchError(err error) *FetchError {
	return &FetchError{
		Kind:    KindUnknown,
		Message: err.Error(),
	}
}

// KindOf extracts the Kind from an error, falling back to KindUnknown
// for anything that is not a FetchError.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
