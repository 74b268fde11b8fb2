package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for persistence errors.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageWrite       = errors.New("storage write failed")
)

var (
	errEmpty      = errors.New("no season stored")
	errNilSeason  = errors.New("nil season")
	errNoDocument = errors.New("document has no season")
)

// OpError reports which backend failed an operation. It unwraps to
// ErrStorageUnavailable or ErrStorageWrite and the underlying cause.
type OpError struct {
	Op     string
	Source string
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("repository: %s %s: %v", e.Op, e.Source, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func loadErr(source string, cause error) error {
	return &OpError{Op: opLoad, Source: source, Err: fmt.Errorf("%w: %w", ErrStorageUnavailable, cause)}
}

func saveErr(source string, cause error) error {
	return &OpError{Op: opSave, Source: source, Err: fmt.Errorf("%w: %w", ErrStorageWrite, cause)}
}
