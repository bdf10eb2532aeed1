package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorType is the backend's domain rejection code, carried in the
// error body's raw.type field.
type ErrorType int

const (
	ErrInvalidUser     ErrorType = 0
	ErrInvalidRole     ErrorType = 1
	ErrInvalidSubject  ErrorType = 2
	ErrInvalidTime     ErrorType = 3
	ErrStorage         ErrorType = 4
	ErrInvalidProposal ErrorType = 5
)

// RawError is the raw.{type,message} pair inside a structured rejection.
// Type is a pointer because the backend sometimes omits it, and the
// user-facing message differs between "unknown code" and "no code at all".
type RawError struct {
	Type    *ErrorType `json:"type"`
	Message string     `json:"message"`
}

// Error is a non-2xx response from the backend. Structured is true when the
// body carried the marketplace error envelope; false means a transport-level
// failure with nothing usable in the body.
type Error struct {
	StatusCode int
	Structured bool
	Message    string
	Raw        *RawError
}

func (e *Error) Error() string {
	if e.Raw != nil && e.Raw.Type != nil {
		return fmt.Sprintf("backend: %s (type %d, status %d)", e.Raw.Message, *e.Raw.Type, e.StatusCode)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("backend: request failed (status %d)", e.StatusCode)
}

// HasType reports whether the error carries a usable domain code.
func (e *Error) HasType() bool {
	return e.Structured && e.Raw != nil && e.Raw.Type != nil
}

// Type returns the domain code; only meaningful when HasType is true.
func (e *Error) Type() ErrorType {
	if !e.HasType() {
		return -1
	}
	return *e.Raw.Type
}

// AsError unwraps a backend error from err, mirroring errors.As.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorBody is the wire shape of a rejection:
//
//	{"error": ..., "message": "...", "raw": {"type": 4, "message": "..."}}
//
// The outer "error" key's presence is what distinguishes a structured
// rejection from a transport failure.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Raw     *RawError       `json:"raw"`
}

func decodeError(status int, body []byte) *Error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Error) == 0 {
		return &Error{StatusCode: status}
	}
	return &Error{
		StatusCode: status,
		Structured: true,
		Message:    eb.Message,
		Raw:        eb.Raw,
	}
}
