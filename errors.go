package slab

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the slab package.
var (
	// ErrUnsupportedInput is returned when no backend matched the input and
	// capability combination.
	ErrUnsupportedInput = errors.New("unsupported input for array construction")

	// ErrMissingShape is returned by the fill constructors when no datashape
	// was supplied.
	ErrMissingShape = errors.New("datashape required")

	// ErrCorrupted is returned when a chunk fails its integrity check.
	ErrCorrupted = errors.New("chunk checksum mismatch")

	// ErrNotImplemented is returned by reserved entry points.
	ErrNotImplemented = errors.New("not implemented")
)

// ParseError reports a malformed datashape expression.
type ParseError struct {
	Expr    string
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse datashape %q: %s (at token %d)", e.Expr, e.Message, e.Pos)
}

// CoercionError reports input data that could not be converted to the
// requested or inferred element type and shape.
type CoercionError struct {
	Want  string
	Got   string
	Cause error
}

func (e *CoercionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot coerce %s to %s: %v", e.Got, e.Want, e.Cause)
	}
	return fmt.Sprintf("cannot coerce %s to %s", e.Got, e.Want)
}

func (e *CoercionError) Unwrap() error {
	return e.Cause
}

func coercionError(dt DType, v any) error {
	return &CoercionError{Want: dt.String(), Got: fmt.Sprintf("%T", v)}
}
