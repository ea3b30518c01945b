package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for the trigger domain.
var (
	// ErrValidation indicates a required trigger field resolved empty
	// after defaulting. Surfaced to the caller as a client error.
	ErrValidation = errors.New("validation failed")

	// ErrFormat indicates an unrecognized upstream timestamp
	// representation. Always fatal: it means the data contract with the
	// upstream changed.
	ErrFormat = errors.New("unrecognized time format")
)

// ValidationError reports which trigger field failed to resolve.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required trigger field %q is empty", e.Field)
}

// Unwrap makes errors.Is(err, ErrValidation) hold for ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FormatError reports a timestamp value that matched none of the
// supported upstream representations.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized time format: %q", e.Value)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// FetchError wraps a network or HTTP failure reaching an upstream feed or
// query endpoint. It is not retried and surfaces as a server error.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExtractError reports a feed entry whose summary markup was missing the
// structure a trigger's extraction hook expects. The feed triggers assume
// well-formed markup, so this propagates and fails the whole batch.
type ExtractError struct {
	Selector string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("markup extraction: no node matches %q", e.Selector)
}
