package registry

import (
	"errors"
	"fmt"
)

// ErrUpstream matches every failure reported by the registry or the
// transport in front of it.
var ErrUpstream = errors.New("registry request failed")

// UpstreamError describes a failed registry request.
type UpstreamError struct {
	Endpoint   string
	StatusCode int   // 0 when the request never got a response
	Err        error // transport or read error, if any
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("registry returned HTTP %d for %s: %v", e.StatusCode, e.Endpoint, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("registry returned HTTP %d for %s", e.StatusCode, e.Endpoint)
	case e.Err != nil:
		return fmt.Sprintf("requesting %s: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("requesting %s failed", e.Endpoint)
	}
}

// Is reports ErrUpstream so callers can use errors.Is without a type assertion.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsNotFound returns true if the registry answered 404.
func IsNotFound(err error) bool {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.StatusCode == 404
	}
	return false
}
