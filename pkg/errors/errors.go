// Package errors provides custom error types for the soulbase pipeline.
// These errors enable programmatic error checking across the reconciliation
// stages and map onto the process exit contract of the CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the soulbase pipeline
var (
	// ErrNotFound indicates that a referenced record was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that a record or patch failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicate indicates a uniqueness conflict on a platform identifier
	ErrDuplicate = errors.New("duplicate identifier")

	// ErrNoPayload indicates no structured payload was found in proposal text
	ErrNoPayload = errors.New("no structured payload found")

	// ErrMalformedPayload indicates a structured payload was found but did not parse
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrResolution indicates a handle could not be resolved to a platform ID
	ErrResolution = errors.New("handle resolution failed")
)

// NotFoundError represents an error when a record is not found.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a schema violation on a single field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ValidationErrors collects every violation found while validating a single
// record so callers can report all of them at once.
type ValidationErrors struct {
	Record     string
	Violations []*ValidationError
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	if e.Record != "" {
		return fmt.Sprintf("record %s: %s", e.Record, strings.Join(msgs, "; "))
	}
	return strings.Join(msgs, "; ")
}

// Is implements errors.Is support
func (e *ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

// UniquenessError represents a platform identifier already carried by
// another non-removed record.
type UniquenessError struct {
	Field      string
	Value      string
	ExistingID string
}

// Error implements the error interface
func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s identifier %q already used by record %s", e.Field, e.Value, e.ExistingID)
}

// Is implements errors.Is support
func (e *UniquenessError) Is(target error) bool {
	return target == ErrDuplicate
}

// NewUniquenessError creates a new UniquenessError
func NewUniquenessError(field, value, existingID string) *UniquenessError {
	return &UniquenessError{Field: field, Value: value, ExistingID: existingID}
}

// ExtractionError represents a failure to recover a structured payload from
// proposal text. Malformed reports whether a fenced block was located but
// failed to parse, as opposed to no block being present at all.
type ExtractionError struct {
	Malformed bool
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.Malformed {
		return fmt.Sprintf("malformed payload: %s", e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("no structured payload found: %s", e.Message)
	}
	return "no structured payload found"
}

// Unwrap implements errors.Unwrap
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ExtractionError) Is(target error) bool {
	if e.Malformed {
		return target == ErrMalformedPayload
	}
	return target == ErrNoPayload
}

// ResolutionError represents a failed handle lookup against the external
// resolution service.
type ResolutionError struct {
	Handle     string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("resolving handle %s (status %d): %s", e.Handle, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("resolving handle %s: %s", e.Handle, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// APIError represents an error from the ticketing collaborator API.
type APIError struct {
	Host       string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Host, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Host, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ParseError represents an error when parsing record or payload data.
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during record file I/O.
type IOError struct {
	Operation string // "read", "write", "create", "delete"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDuplicate checks if an error is a uniqueness conflict
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsNoPayload checks if an error indicates no structured payload was found
func IsNoPayload(err error) bool {
	return errors.Is(err, ErrNoPayload)
}

// IsMalformedPayload checks if an error indicates an unparsable payload
func IsMalformedPayload(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}

// IsResolution checks if an error is a handle resolution failure
func IsResolution(err error) bool {
	return errors.Is(err, ErrResolution)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
