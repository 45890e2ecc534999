package errors

import (
	"fmt"
)

// PipelineError is the structured error type for the packaging pipeline.
// It provides rich context for error handling, logging, and user presentation.
type PipelineError struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Chunking, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with PipelineError.
func (e *PipelineError) Is(target error) bool {
	if t, ok := target.(*PipelineError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *PipelineError) WithDetail(key, value string) *PipelineError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *PipelineError) WithSuggestion(suggestion string) *PipelineError {
	e.Suggestion = suggestion
	return e
}

// New creates a new PipelineError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *PipelineError {
	return &PipelineError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a PipelineError from an existing error.
// The error's message becomes the PipelineError message.
func Wrap(code string, err error) *PipelineError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *PipelineError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *PipelineError {
	return New(ErrCodeFileRead, message, cause)
}

// ChunkingError creates a chunking-related error.
func ChunkingError(message string, cause error) *PipelineError {
	return New(ErrCodeSplitFailed, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *PipelineError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *PipelineError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if pe, ok := err.(*PipelineError); ok {
		return pe.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a PipelineError.
// Returns empty string if not a PipelineError.
func GetCode(err error) string {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Code
	}
	return ""
}

// GetCategory extracts the category from a PipelineError.
// Returns empty string if not a PipelineError.
func GetCategory(err error) Category {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Category
	}
	return ""
}
