package domain

import "fmt"

// ErrorCode classifies a DomainError
type ErrorCode string

const (
	CodeNotFound          ErrorCode = "NotFound"
	CodeInsufficientStock ErrorCode = "InsufficientStock"
	CodeInvalidState      ErrorCode = "InvalidState"
	CodeInvalidArgument   ErrorCode = "InvalidArgument"
	CodeConflict          ErrorCode = "Conflict"
)

// Domain errors. Use errors.Is against these to match any error of the same code.
var (
	ErrNotFound          = &DomainError{Code: CodeNotFound, Message: "resource not found"}
	ErrInsufficientStock = &DomainError{Code: CodeInsufficientStock, Message: "insufficient stock available"}
	ErrInvalidState      = &DomainError{Code: CodeInvalidState, Message: "invalid state transition"}
	ErrInvalidArgument   = &DomainError{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrConflict          = &DomainError{Code: CodeConflict, Message: "resource already exists"}
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    ErrorCode
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, format string, args ...interface{}) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) error {
	return newError(CodeNotFound, format, args...)
}

func InsufficientStockf(format string, args ...interface{}) error {
	return newError(CodeInsufficientStock, format, args...)
}

func InvalidStatef(format string, args ...interface{}) error {
	return newError(CodeInvalidState, format, args...)
}

func InvalidArgumentf(format string, args ...interface{}) error {
	return newError(CodeInvalidArgument, format, args...)
}

func Conflictf(format string, args ...interface{}) error {
	return newError(CodeConflict, format, args...)
}
