// Package clients is the resilient outbound HTTP client used to reach remote
// services. It knows nothing about the domain; adapters in acl translate.
package clients

import "errors"

var (
	// ErrCircuitOpen means the breaker rejected the request without sending it.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt has failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrServerStatus marks a 5xx answer. Such answers are retried.
	ErrServerStatus = errors.New("server error status")
)
