package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches errors caused by a 401 response.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidResponse is returned when a successful response does not
	// have the expected shape.
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError is a non-2xx response.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the human readable reason reported by the API, or the
	// status text when the body carried none.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	msg := extractMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}

// extractMessage reads "message", falling back to "detail". Either may be
// a string or an array of strings, which are joined with ", ".
func extractMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := flatten(payload.Message); msg != "" {
		return msg
	}
	return flatten(payload.Detail)
}

func flatten(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return ""
}

// Message returns the text to show a user for err: the API's message for
// API errors, the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
