package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotFound reports an operation referencing an id absent from the
	// live collection.
	ErrNotFound = errors.New("note not found")
)

// LoadError reports that the stored collection could not be read or
// decoded. The underlying blob is left untouched; callers treat the
// collection as empty and surface the error.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load note collection: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PersistError reports that a write-through failed. The in-memory
// collection has been rolled back to its pre-mutation state, so memory
// never diverges from the last known-durable state.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist note collection (%s): %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
