package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kpcrmv4/manusdentalos/internal/domain"
)

// Error codes returned in the "error" field of a response body
const (
	CodeInvalidRequest     = "InvalidRequest"
	CodeValidation         = "ValidationError"
	CodeNotFound           = "NotFound"
	CodeInsufficientStock  = "InsufficientStock"
	CodeInvalidState       = "InvalidState"
	CodeConflict           = "Conflict"
	CodeUnauthorized       = "Unauthorized"
	CodeTooManyRequests    = "TooManyRequests"
	CodeServiceUnavailable = "ServiceUnavailable"
	CodeDatabase           = "DatabaseError"
	CodeInternal           = "InternalError"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "InvalidRequest", "NotFound")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (field name, validation info, etc.)
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidRequest, CodeValidation, CodeInsufficientStock:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidState, CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

// FromDomain translates a service error into its response form.
// Errors that are already a StandardError pass through unchanged.
func FromDomain(err error) *StandardError {
	var std *StandardError
	if errors.As(err, &std) {
		return std
	}

	var de *domain.DomainError
	if !errors.As(err, &de) {
		return NewInternalError("internal server error", err)
	}

	switch de.Code {
	case domain.CodeNotFound:
		return NewStandardError(CodeNotFound, de.Message, "")
	case domain.CodeInsufficientStock:
		return NewStandardError(CodeInsufficientStock, de.Message, "")
	case domain.CodeInvalidState:
		return NewStandardError(CodeInvalidState, de.Message, "")
	case domain.CodeInvalidArgument:
		return NewStandardError(CodeInvalidRequest, de.Message, "")
	case domain.CodeConflict:
		return NewStandardError(CodeConflict, de.Message, "")
	default:
		return NewInternalError(de.Message, nil)
	}
}

func NewInvalidRequest(message, details string) *StandardError {
	return NewStandardError(CodeInvalidRequest, message, details)
}

func NewValidationError(message, field string) *StandardError {
	return NewStandardError(CodeValidation, message, fmt.Sprintf("Field: %s", field))
}

func NewInvalidID(field, value string) *StandardError {
	return NewStandardError(CodeInvalidRequest, fmt.Sprintf("invalid %s", field), fmt.Sprintf("Value: %s", value))
}

func NewUnauthorized(message string) *StandardError {
	return NewStandardError(CodeUnauthorized, message, "")
}

func NewTooManyRequests(limit int) *StandardError {
	return NewStandardError(CodeTooManyRequests, "rate limit exceeded", fmt.Sprintf("Limit: %d requests per minute", limit))
}

func NewRequestInProgress(requestID string) *StandardError {
	return NewStandardError(CodeConflict, "request is already being processed", fmt.Sprintf("X-Request-ID: %s", requestID))
}

func NewServiceUnavailable(component string, err error) *StandardError {
	return NewStandardError(CodeServiceUnavailable, fmt.Sprintf("%s unavailable", component), err.Error())
}

func NewDatabaseError(operation string, err error) *StandardError {
	return NewStandardError(CodeDatabase, fmt.Sprintf("database operation failed: %s", operation), err.Error())
}

func NewInternalError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return NewStandardError(CodeInternal, message, details)
}
