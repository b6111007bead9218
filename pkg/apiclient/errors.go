package apiclient

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse reports a success status whose body is not JSON.
var ErrMalformedResponse = errors.New("apiclient: response body is not valid JSON")

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apiclient: unexpected status %d", e.StatusCode)
}

// TransportError wraps failures that prevented a response from arriving.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("apiclient: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsProtocol reports whether err came from a bad status or body rather than
// the network.
func IsProtocol(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) || errors.Is(err, ErrMalformedResponse)
}

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsRetryable reports whether repeating the request could succeed: network
// failures, 5xx responses and 429.
func IsRetryable(err error) bool {
	if IsTransport(err) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == 429
	}
	return false
}
