package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError carrying the same code, so
// the sentinel values below work with the standard errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeDataLoad         = "DATA_LOAD_ERROR"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeEmptyInput       = "EMPTY_INPUT"
)

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrConfigInvalid    = &AppError{Code: CodeConfigInvalid, Message: "invalid configuration"}
	ErrInvalidInput     = &AppError{Code: CodeInvalidInput, Message: "invalid input"}
	ErrDataLoad         = &AppError{Code: CodeDataLoad, Message: "data load failed"}
	ErrInsufficientData = &AppError{Code: CodeInsufficientData, Message: "insufficient data"}
	ErrEmptyInput       = &AppError{Code: CodeEmptyInput, Message: "empty input"}
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// DataLoadError reports a missing or malformed input file.
func DataLoadError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeDataLoad,
		Message: message,
		Cause:   cause,
	}
}

// InsufficientData reports a statistic requested over too few values.
func InsufficientData(message string) *AppError {
	return New(CodeInsufficientData, message)
}

// EmptyInput reports a view builder given zero rows.
func EmptyInput(message string) *AppError {
	return New(CodeEmptyInput, message)
}

// IsDataLoad reports whether err carries CodeDataLoad
func IsDataLoad(err error) bool { return stderrors.Is(err, ErrDataLoad) }

// IsInsufficientData reports whether err carries CodeInsufficientData
func IsInsufficientData(err error) bool { return stderrors.Is(err, ErrInsufficientData) }

// IsEmptyInput reports whether err carries CodeEmptyInput
func IsEmptyInput(err error) bool { return stderrors.Is(err, ErrEmptyInput) }
