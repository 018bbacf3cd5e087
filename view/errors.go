package view

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when the resource bytes cannot be
	// obtained at all.
	ErrSourceUnavailable = errors.New("view: source unavailable")
	// ErrOutOfBounds is returned for any seek or read outside of the source.
	ErrOutOfBounds = errors.New("view: out of bounds")
	// ErrCorruptResource marks structural inconsistencies in a resource.
	ErrCorruptResource = errors.New("view: corrupt resource")
)

// CorruptResourceError describes which structure of a resource could not be
// read. It matches ErrCorruptResource with errors.Is, and unwraps to the
// underlying cause (usually ErrOutOfBounds).
type CorruptResourceError struct {
	What   string
	Offset int64
	Err    error
}

func (e *CorruptResourceError) Error() string {
	return fmt.Sprintf("view: corrupt resource: %s at offset %d: %v", e.What, e.Offset, e.Err)
}

func (e *CorruptResourceError) Is(target error) bool {
	return target == ErrCorruptResource
}

func (e *CorruptResourceError) Unwrap() error {
	return e.Err
}

// corrupt wraps a failed read of the named structure. Failures of the
// underlying source are not the resource's fault and keep their kind.
func corrupt(what string, off int64, err error) error {
	if errors.Is(err, ErrSourceUnavailable) {
		return fmt.Errorf("view: reading %s at offset %d: %w", what, off, err)
	}
	return &CorruptResourceError{What: what, Offset: off, Err: err}
}
