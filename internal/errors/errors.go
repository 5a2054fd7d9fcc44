package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Pipeline error taxonomy

var (
	// ErrMissingInput indicates a required stage produced no records
	ErrMissingInput = errors.New("missing input")

	// ErrSchemaMismatch indicates required fields are absent from ingested data
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInsufficientData indicates fewer than 2 paired observations
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUndefinedCorrelation indicates a zero-variance series
	ErrUndefinedCorrelation = errors.New("correlation undefined")

	// ErrComputeFailure indicates an optional derived computation failed
	ErrComputeFailure = errors.New("compute failure")
)

// MissingInputError names the collaborator whose output is missing
type MissingInputError struct {
	Collaborator string
	Detail       string
}

func (e *MissingInputError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("missing input from %s: %s", e.Collaborator, e.Detail)
	}
	return fmt.Sprintf("missing input from %s", e.Collaborator)
}

func (e *MissingInputError) Unwrap() error {
	return ErrMissingInput
}

// NewMissingInput creates a MissingInputError
func NewMissingInput(collaborator, detail string) *MissingInputError {
	return &MissingInputError{Collaborator: collaborator, Detail: detail}
}

// SchemaError lists the required fields absent from a source
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch in %s: missing fields [%s]", e.Source, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// NewSchemaError creates a SchemaError
func NewSchemaError(source string, missing []string) *SchemaError {
	return &SchemaError{Source: source, Missing: missing}
}

// Wrap wraps an error with a message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
