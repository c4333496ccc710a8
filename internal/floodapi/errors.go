package floodapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"floodwatch/internal/cfg"
)

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Endpoint cfg.Endpoint
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means the hard per-request timeout fired before a response.
type TimeoutError struct {
	Endpoint cfg.Endpoint
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout fetching %s after %v", e.Endpoint, e.Timeout)
}

// HTTPStatusError means the backend answered with a non-2xx status.
type HTTPStatusError struct {
	Endpoint   cfg.Endpoint
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// ParseError means the response body was not the expected JSON shape.
type ParseError struct {
	Endpoint cfg.Endpoint
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s response: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// isTimeout distinguishes a fired deadline from other transport failures.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
