package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Common errors
var (
	// ErrInvalidConfig is returned when the configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrBackendNotConfigured is returned when no backend base URL is set
	ErrBackendNotConfigured = errors.New("backend URL is not configured: set API_BASE_URL, backend_url or --backend-url")

	// ErrNotFound is returned when the backend reports a missing resource
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when input fails validation
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when the backend rejects credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict is returned when the backend reports a conflicting resource
	ErrConflict = errors.New("conflict")
)

// BackendError is a non-2xx response from the commerce backend.
type BackendError struct {
	Op     string // Operation that failed
	Status int    // HTTP status returned by the backend
	Body   []byte // Raw response body
}

// Error implements the error interface
func (e *BackendError) Error() string {
	if msgs := e.Messages(); len(msgs) > 0 {
		return fmt.Sprintf("%s: backend status %d: %s", e.Op, e.Status, strings.Join(msgs, ", "))
	}
	return fmt.Sprintf("%s: backend status %d", e.Op, e.Status)
}

// Unwrap maps the backend status to one of the package sentinels.
func (e *BackendError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return nil
}

// Messages extracts the human readable messages from the body.
// The backend sends either {"message": "..."} or {"message": ["...", "..."]}.
func (e *BackendError) Messages() []string {
	return ParseErrorMessages(e.Body)
}

// ParseErrorMessages extracts the "message" field of a backend error body.
// It returns nil when the body is not JSON or carries no message.
func ParseErrorMessages(body []byte) []string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(payload.Message, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}

	var many []string
	if err := json.Unmarshal(payload.Message, &many); err == nil {
		return many
	}
	return nil
}

// NewBackendError creates a new BackendError
func NewBackendError(op string, status int, body []byte) *BackendError {
	return &BackendError{
		Op:     op,
		Status: status,
		Body:   body,
	}
}

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	// Fields maps a field name ("name", "email", ...) to its message.
	Fields map[string]string

	// General is set when the failure is not tied to a single field.
	General string

	// Err is set when the form could not be submitted at all, e.g. the
	// backend was unreachable or failed. The error then unwraps to Err
	// instead of ErrValidation.
	Err error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.General != "" {
			return "validation failed: " + e.General
		}
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Messages(), ", ")
}

// Unwrap returns Err when set, otherwise ErrValidation.
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrValidation
}

// Messages returns the field messages ordered by field name.
func (e *ValidationError) Messages() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return msgs
}

// Add records a message for field. The first message for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Field returns the message for field, if any.
func (e *ValidationError) Field(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}

// OrNil returns e when it carries at least one message, otherwise nil.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 && e.General == "" {
		return nil
	}
	return e
}
