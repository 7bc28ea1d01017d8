package hostfuncs

import (
	"bytes"
	"encoding/json"
)

// Error identifiers carried in ErrorResponse.Error.
const (
	ErrValidation = "VALIDATION_ERROR"
	ErrNotFound   = "NOT_FOUND"
	ErrInternal   = "INTERNAL_ERROR"
)

// ErrorResponse is the payload a handler invocation produces instead of a
// result when the call itself failed. The host module rethrows it inside the
// calling script as a guest exception, see GuestType.
type ErrorResponse struct {
	// Error is one of ErrValidation, ErrNotFound or ErrInternal.
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ToJSON serializes the ErrorResponse. It returns nil if encoding fails.
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// GuestType names the built-in guest error constructor the response is
// rethrown as.
func (e ErrorResponse) GuestType() string {
	switch e.Error {
	case ErrValidation:
		return "TypeError"
	case ErrNotFound:
		return "ReferenceError"
	default:
		return "Error"
	}
}

// ParseErrorResponse reports whether data is an ErrorResponse. Handler
// results that merely carry an "error" member of their own shape are not.
func ParseErrorResponse(data []byte) (ErrorResponse, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return ErrorResponse{}, false
	}
	var probe struct {
		Error   *string `json:"error"`
		Message string  `json:"message"`
		Code    int     `json:"code"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ErrorResponse{}, false
	}
	if probe.Error == nil || probe.Code == 0 {
		return ErrorResponse{}, false
	}
	switch *probe.Error {
	case ErrValidation, ErrNotFound, ErrInternal:
		return ErrorResponse{Error: *probe.Error, Message: probe.Message, Code: probe.Code}, true
	}
	return ErrorResponse{}, false
}

// NewValidationError reports a payload the handler could not decode.
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{Error: ErrValidation, Message: message, Code: 400}
}

// NewNotFoundError reports a call to an unregistered host function.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{Error: ErrNotFound, Message: "unknown host function: " + name, Code: 404}
}

func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{Error: ErrInternal, Message: message, Code: 500}
}

// NewPanicError reports a handler panic recovered by PanicRecoveryMiddleware.
func NewPanicError(panicValue any) ErrorResponse {
	msg := "panic recovered"
	switch v := panicValue.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	}
	return NewInternalError("panic: " + msg)
}
