package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrNotFound is returned when a document id has no vector in the corpus
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed corpus rows or unreadable sources
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError represents a failed lookup of a document id
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document '%s' not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

// InvalidInputError describes malformed data read from a corpus or stopword source.
// Line is 1-based; zero means the error is not tied to a line.
type InvalidInputError struct {
	Source  string
	Line    int
	Message string
	Err     error
}

func (e *InvalidInputError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("invalid input in '%s' at line %d: %s", e.Source, e.Line, msg)
	}
	return fmt.Sprintf("invalid input in '%s': %s", e.Source, msg)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// NewInvalidInputError creates a new InvalidInputError
func NewInvalidInputError(source string, line int, message string, err error) *InvalidInputError {
	return &InvalidInputError{Source: source, Line: line, Message: message, Err: err}
}
