package translation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies a backend failure. Transient kinds are eligible
// for retry with backoff; everything else propagates immediately.
type ErrorKind string

const (
	KindBadRequest         ErrorKind = "bad_request"
	KindAuthFailed         ErrorKind = "auth_failed"
	KindForbidden          ErrorKind = "forbidden"
	KindPayloadTooLarge    ErrorKind = "payload_too_large"
	KindRateLimited        ErrorKind = "rate_limited"
	KindQuotaExceeded      ErrorKind = "quota_exceeded"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindTimeout            ErrorKind = "timeout"
	KindNetworkError       ErrorKind = "network_error"
)

// BackendError is a typed translation backend failure.
type BackendError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("translation backend %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("translation backend %s: %s", e.Kind, e.Message)
}

// Transient reports whether the failure is worth retrying.
func (e *BackendError) Transient() bool {
	switch e.Kind {
	case KindRateLimited, KindServiceUnavailable, KindTimeout, KindNetworkError:
		return true
	}
	return false
}

// IsTransient unwraps err looking for a retryable backend failure.
func IsTransient(err error) bool {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Transient()
	}
	return false
}

// classifyStatus maps an HTTP response status to an error kind.
func classifyStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindAuthFailed
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusRequestEntityTooLarge:
		return KindPayloadTooLarge
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusPaymentRequired:
		return KindQuotaExceeded
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return KindServiceUnavailable
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return KindTimeout
	}
	if status >= 500 {
		return KindServiceUnavailable
	}
	return KindBadRequest
}

// classifyTransportError maps a client-side error to an error kind.
func classifyTransportError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetworkError
}
