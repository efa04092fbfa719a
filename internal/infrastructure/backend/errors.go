package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError is a response outside 2xx.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s %s: status=%d body=%s", e.Method, e.Path, e.StatusCode, abbreviateBody(e.Body))
}

// Retryable reports whether the backend itself failed, as opposed to
// rejecting the request.
func (e *TransportError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// NetworkError means the request never got a response: dial, TLS, a
// canceled context or an open circuit.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend %s %s: network: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// StatusCode returns the HTTP status of a TransportError in err's chain, or 0.
func StatusCode(err error) int {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode
	}
	return 0
}

func isCircuitFailure(err error) bool {
	if IsNetwork(err) {
		return true
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Retryable()
	}
	return false
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
