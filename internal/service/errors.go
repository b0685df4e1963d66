package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets a missing or soft-deleted transaction.
var ErrNotFound = errors.New("transaction not found")

// ValidationError reports a malformed or missing field on a draft, patch or filter.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// ParseError reports a CSV document that cannot be read as a whole.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse CSV: %s: %v", e.Reason, e.Err)
	}
	return "parse CSV: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// RowValidationError reports a single bad row; it aborts the whole batch.
// Row counts data rows from 1, Line is the physical line in the source (0 if unknown).
type RowValidationError struct {
	Row   int
	Line  int
	Field string
	Value string
	Err   error
}

func (e *RowValidationError) Error() string {
	msg := fmt.Sprintf("row %d", e.Row)
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": invalid %s %q", e.Field, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RowValidationError) Unwrap() error { return e.Err }
