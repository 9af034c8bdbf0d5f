// Package httpx owns the JSON envelope contract shared by every API route.
// A route either returns a success envelope or an error envelope; it never
// returns a bare string or an unwrapped 500.
package httpx

import (
	"strings"
	"time"
)

// ErrorType classifies an API failure. The set is closed; each server-side
// type maps to exactly one HTTP status.
type ErrorType string

const (
	TypeValidation     ErrorType = "validation"
	TypeUnauthorized   ErrorType = "unauthorized"
	TypeForbidden      ErrorType = "forbidden"
	TypeNotFound       ErrorType = "not_found"
	TypeConflict       ErrorType = "conflict"
	TypePartialFailure ErrorType = "partial_failure"
	TypeServerError    ErrorType = "server_error"

	// TypeNetwork and TypeTimeout are produced only by the client-side
	// executor; no route emits them.
	TypeNetwork ErrorType = "network"
	TypeTimeout ErrorType = "timeout"
)

// Status returns the HTTP status conventionally paired with the type.
func (t ErrorType) Status() int {
	switch t {
	case TypeValidation:
		return 400
	case TypeUnauthorized:
		return 401
	case TypeForbidden:
		return 403
	case TypeNotFound:
		return 404
	case TypeConflict:
		return 409
	case TypePartialFailure:
		return 207
	default:
		return 500
	}
}

// ErrorBody is the inner error object of the envelope.
type ErrorBody struct {
	Code      string         `json:"code"`
	Type      ErrorType      `json:"type"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp string         `json:"timestamp"`
}

// ErrorEnvelope is the fixed error response shape.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// SuccessEnvelope is the fixed success response shape.
type SuccessEnvelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"requestId"`
}

// NewError builds an error envelope with a fresh request id and timestamp.
// The code defaults to the uppercased type when not overridden later.
func NewError(typ ErrorType, message string, details map[string]any) ErrorEnvelope {
	return ErrorEnvelope{
		Success: false,
		Error: ErrorBody{
			Code:      strings.ToUpper(string(typ)),
			Type:      typ,
			Message:   message,
			Details:   details,
			RequestID: NewRequestID(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// NewSuccess builds a success envelope with a fresh request id.
func NewSuccess(data any) SuccessEnvelope {
	return SuccessEnvelope{Success: true, Data: data, RequestID: NewRequestID()}
}
