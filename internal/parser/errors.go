package parser

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is matched by every FormatError.
var ErrInvalidFormat = errors.New("invalid XER file")

// FormatError reports input that cannot be tokenized at all.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrInvalidFormat, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidFormat, e.Reason)
}

func (e *FormatError) Is(target error) bool { return target == ErrInvalidFormat }

func (e *FormatError) Unwrap() error { return e.Err }

// FieldError reports a column value that could not be converted to its type.
type FieldError struct {
	Table  string
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: invalid value %q: %v", e.Table, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
