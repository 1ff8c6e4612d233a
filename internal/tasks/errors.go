package tasks

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("title is required")
	ErrNotFound   = errors.New("task not found")
)

// StoreError wraps a failure of the underlying persistence backend.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Wrap returns err as a *StoreError unless it is nil or one of the
// package sentinels.
func Wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
