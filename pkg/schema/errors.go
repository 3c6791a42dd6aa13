package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeTransport  = "TRANSPORT_ERROR"
	ErrCodeBadInput   = "BAD_INPUT"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// BridgeError is the structured error type for in-process failures.
// Errors coming back from the n8n API itself are not BridgeErrors; they
// travel as error-shaped result maps (see internal/n8n).
type BridgeError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *BridgeError) Unwrap() error {
	return e.Cause
}

// NewError creates a new BridgeError.
func NewError(code, message string) *BridgeError {
	return &BridgeError{Code: code, Message: message}
}

// NewErrorf creates a new BridgeError with a formatted message.
func NewErrorf(code, format string, args ...any) *BridgeError {
	return &BridgeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause attaches an underlying cause.
func (e *BridgeError) WithCause(err error) *BridgeError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *BridgeError) WithDetails(details map[string]any) *BridgeError {
	e.Details = details
	return e
}
