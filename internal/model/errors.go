package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount marks an amount that is missing, negative or not a number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidDate marks a date that is missing or cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidKind marks a type other than income or expense.
	ErrInvalidKind = errors.New("invalid transaction type")
)

// ValidationError describes one rejected record field.
// Row is 1-based when the record came from a file or feed, 0 otherwise.
type ValidationError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	prefix := e.Field
	if e.Row > 0 {
		prefix = fmt.Sprintf("row %d: %s", e.Row, e.Field)
	}
	if e.Value != "" {
		return fmt.Sprintf("%s %q: %v", prefix, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AtRow returns err with its row set when it is a *ValidationError.
func AtRow(err error, row int) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		cp := *ve
		cp.Row = row
		return &cp
	}
	return err
}
