package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quotesboard/internal/adapters/clients"
	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// errorBodyLimit caps how much of an error body is read for its message.
const errorBodyLimit = 4 << 10

// remoteError covers the error bodies quote APIs send: {"statusMessage": ...}
// from quotable, or a plain {"message": ...}.
type remoteError struct {
	StatusMessage string `json:"statusMessage"`
	Message       string `json:"message"`
}

func (e remoteError) text() string {
	if e.StatusMessage != "" {
		return e.StatusMessage
	}

	return e.Message
}

// mapClientError turns a failure of the outbound client into domain.ErrUnavailable.
func mapClientError(service string, err error) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(service, "circuit breaker open")
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(service, err.Error())
	default:
		return domain.NewUnavailableError(service, fmt.Sprintf("request failed: %v", err))
	}
}

// mapStatus turns a non-200 answer into a domain error. Nothing a quote
// source says is the caller's fault, so every status maps to unavailable,
// except 404 which means the source has nothing to give.
func mapStatus(service string, resp *http.Response) error {
	message := http.StatusText(resp.StatusCode)

	var body remoteError
	if err := json.NewDecoder(io.LimitReader(resp.Body, errorBodyLimit)).Decode(&body); err == nil && body.text() != "" {
		message = body.text()
	}

	if resp.StatusCode == http.StatusNotFound {
		return domain.NewNotFoundErrorByKey("remote quote", message)
	}

	return domain.NewUnavailableError(service, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, message))
}
