package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no bearer credential was available for an
	// affinity-sourced flow. Surfaced before any upstream call.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrInvalidRequest covers caller mistakes caught before I/O, such as
	// an unknown affinity kind or time range.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMissingAPIKey means a server-side provider credential is absent.
	// A configuration fault, distinct from ErrUnauthenticated.
	ErrMissingAPIKey = errors.New("missing provider API key")
)

// UpstreamError reports a failed required upstream call, either a non-2xx
// status or a transport error. Per-item fan-out failures are never wrapped
// in this; they are skipped at the item boundary instead.
type UpstreamError struct {
	Provider string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 && e.Err != nil {
		return fmt.Sprintf("%s upstream request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s upstream request failed: status %d", e.Provider, e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
