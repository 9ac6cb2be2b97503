package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no snapshot or summary exists for the requested id.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt indicates a stored payload failed schema validation.
	ErrCorrupt = errors.New("stored workspace is corrupt")

	// ErrStorageUnavailable indicates the underlying store could not be used.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidOperation indicates a mutation referenced a missing note,
	// item or block, or carried arguments that cannot be applied.
	ErrInvalidOperation = errors.New("invalid operation")
)

// OperationError describes a rejected mutation. It unwraps to ErrInvalidOperation.
type OperationError struct {
	Op     string
	Kind   string // "note", "item", "block", ...
	ID     string
	Reason string
}

func (e *OperationError) Error() string {
	switch {
	case e.ID != "" && e.Reason != "":
		return fmt.Sprintf("%s: %s %q: %s", e.Op, e.Kind, e.ID, e.Reason)
	case e.ID != "":
		return fmt.Sprintf("%s: %s %q not found", e.Op, e.Kind, e.ID)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
}

func (e *OperationError) Unwrap() error { return ErrInvalidOperation }

// NotFoundOp builds the common "referenced id does not exist" error.
func NotFoundOp(op, kind, id string) error {
	return &OperationError{Op: op, Kind: kind, ID: id}
}
