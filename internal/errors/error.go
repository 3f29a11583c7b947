package errors

import "fmt"

// Category represents the kind of navigation failure.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryLocation   Category = "location"
	CategoryResolution Category = "resolution"
	CategoryGuard      Category = "guard"
	CategoryAsyncLoad  Category = "asyncload"
)

// NavError is a structured navigation error with a stable code,
// a category, and optional detail and fix suggestion.
type NavError struct {
	// Code is a unique error identifier (e.g., "W001").
	Code string

	// Category is the error kind (config, location, ...).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this specific occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *NavError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *NavError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *NavError) WithDetail(format string, args ...any) *NavError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *NavError) WithSuggestion(s string) *NavError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *NavError) Wrap(err error) *NavError {
	e.Wrapped = err
	return e
}

// New creates a NavError from a registered error code.
func New(code string) *NavError {
	template, ok := registry[code]
	if !ok {
		return &NavError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &NavError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a NavError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *NavError {
	return &NavError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a NavError. A *NavError passes
// through unchanged.
func FromError(err error, code string) *NavError {
	if err == nil {
		return nil
	}
	if ne, ok := err.(*NavError); ok {
		return ne
	}
	return New(code).Wrap(err)
}
