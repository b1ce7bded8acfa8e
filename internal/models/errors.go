package models

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField marks a required field or element that is absent or unparseable.
	// It aborts the whole parse.
	ErrMissingField = errors.New("missing field")

	// ErrMalformedRecord marks a row too short for its format. The row is skipped.
	ErrMalformedRecord = errors.New("malformed record")
)

// MissingFieldError reports which field was missing and where.
type MissingFieldError struct {
	Field string
	Line  int
	Err   error
}

func (e *MissingFieldError) Error() string {
	msg := fmt.Sprintf("missing field %q", e.Field)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s at record %d", msg, e.Line)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

func (e *MissingFieldError) Unwrap() error {
	return e.Err
}

// MissingField builds a MissingFieldError.
func MissingField(field string, line int, err error) error {
	return &MissingFieldError{Field: field, Line: line, Err: err}
}

// Malformed wraps ErrMalformedRecord with the record position.
func Malformed(line int, format string, args ...any) error {
	return fmt.Errorf("record %d: %s: %w", line, fmt.Sprintf(format, args...), ErrMalformedRecord)
}
