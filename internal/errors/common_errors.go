package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// Inference and lookup failure kinds. Warnings are reported alongside a
// successful result; every other kind aborts the operation that raised it.
const (
	ErrTypeAmbiguousSeparatorTie        ErrorType = "AMBIGUOUS_SEPARATOR_TIE"
	ErrTypeUnsupportedDateSeparator     ErrorType = "UNSUPPORTED_DATE_SEPARATOR"
	ErrTypeAmbiguousDateFormat          ErrorType = "AMBIGUOUS_DATE_FORMAT"
	ErrTypeUnknownTimeFormat            ErrorType = "UNKNOWN_TIME_FORMAT"
	ErrTypeInconsistentTimeFormat       ErrorType = "INCONSISTENT_TIME_FORMAT"
	ErrTypeMixedSeparators              ErrorType = "MIXED_SEPARATORS"
	ErrTypeUnsupportedDatetimeSeparator ErrorType = "UNSUPPORTED_DATETIME_SEPARATOR"
	ErrTypeMalformedDate                ErrorType = "MALFORMED_DATE"
	ErrTypeNumericParse                 ErrorType = "NUMERIC_PARSE_FAILURE"
	ErrTypeLookupExhausted              ErrorType = "LOOKUP_EXHAUSTED"
	ErrTypeIndexOutOfRange              ErrorType = "INDEX_OUT_OF_RANGE"
)

// Sentinels for errors.Is. They match any AppError of the same type.
var (
	ErrAmbiguousSeparatorTie        = &AppError{Type: ErrTypeAmbiguousSeparatorTie}
	ErrUnsupportedDateSeparator     = &AppError{Type: ErrTypeUnsupportedDateSeparator}
	ErrAmbiguousDateFormat          = &AppError{Type: ErrTypeAmbiguousDateFormat}
	ErrUnknownTimeFormat            = &AppError{Type: ErrTypeUnknownTimeFormat}
	ErrInconsistentTimeFormat       = &AppError{Type: ErrTypeInconsistentTimeFormat}
	ErrMixedSeparators              = &AppError{Type: ErrTypeMixedSeparators}
	ErrUnsupportedDatetimeSeparator = &AppError{Type: ErrTypeUnsupportedDatetimeSeparator}
	ErrMalformedDate                = &AppError{Type: ErrTypeMalformedDate}
	ErrNumericParse                 = &AppError{Type: ErrTypeNumericParse}
	ErrLookupExhausted              = &AppError{Type: ErrTypeLookupExhausted}
	ErrIndexOutOfRange              = &AppError{Type: ErrTypeIndexOutOfRange}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	if e.Message == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a bare sentinel of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Cause == nil && t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Newf creates an application error with a formatted message and no cause.
func Newf(errType ErrorType, format string, args ...interface{}) *AppError {
	return NewAppError(errType, fmt.Sprintf(format, args...), nil)
}

// TypeOf returns the type of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err's chain holds an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// Helper functions for common error types

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewNumericParseError reports a value that is not a decimal number.
func NewNumericParseError(raw string, cause error) *AppError {
	return NewAppError(ErrTypeNumericParse, fmt.Sprintf("cannot parse %q as a number", raw), cause).
		WithContext("value", raw)
}

// NewIndexOutOfRangeError reports a column index outside a row of the given width.
func NewIndexOutOfRangeError(index, width int) *AppError {
	return Newf(ErrTypeIndexOutOfRange, "column index %d out of range for %d columns", index, width).
		WithContext("index", index).
		WithContext("width", width)
}

// IsWarning reports whether the type is a non-fatal signal.
func (t ErrorType) IsWarning() bool {
	return t == ErrTypeAmbiguousSeparatorTie || t == ErrTypeInconsistentTimeFormat
}
