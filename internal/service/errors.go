package service

import (
	"errors"
	"fmt"
)

// ErrInvoiceNotFound is returned when an id names no stored invoice.
var ErrInvoiceNotFound = errors.New("invoice not found")

// ConflictError rejects an update whose revision precondition no longer holds.
type ConflictError struct {
	ID       string
	Expected int64
	Actual   int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("invoice %s is at revision %d, not %d", e.ID, e.Actual, e.Expected)
}

// PersistenceError wraps a storage failure. Its message is for logs only.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
