package api

import (
	"net/http"

	"github.com/jtallard/biblio/internal/domain"
)

const fallbackMessage = "Request failed"

// Error is the normalized failure every caller receives. Status is the
// HTTP status code, or 0 for transport-level failures. The view layer
// owns what to do with it (error screen, inline alert); the client never
// navigates on its own.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap maps well-known statuses onto domain sentinels so callers can
// use errors.Is without inspecting status codes.
func (e *Error) Unwrap() error {
	switch e.Status {
	case 0:
		return domain.ErrServerOffline
	case http.StatusUnauthorized:
		return domain.ErrAuthFailed
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return nil
	}
}

// errorBody is the server's error envelope. DRF uses "detail"; a few
// custom actions use "message" or "error".
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Err     string `json:"error"`
}

// normalizeError picks one message for a failed response, by priority:
// server detail field, server message field, HTTP status text, generic
// fallback.
func normalizeError(status int, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	message := eb.Detail
	if message == "" {
		message = eb.Message
	}
	if message == "" {
		message = eb.Err
	}
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = fallbackMessage
	}

	return &Error{Status: status, Message: message}
}

// transportError wraps a transport-level failure (connection refused, DNS,
// timeout) in the same normalized shape, with status 0.
func transportError(err error) *Error {
	message := err.Error()
	if message == "" {
		message = fallbackMessage
	}
	return &Error{Status: 0, Message: message}
}
