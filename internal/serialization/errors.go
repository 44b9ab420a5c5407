package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidHeader    = errors.New("invalid safetensors header")
	ErrHeaderTooLarge   = errors.New("header exceeds maximum size")
	ErrUnsupportedDType = errors.New("unsupported tensor dtype")
	ErrOutOfBounds      = errors.New("tensor extends beyond data section")
	ErrOffsetOverlap    = errors.New("tensor offsets overlap")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Tensor  string // Tensor name involved
	Details string // Additional details
	Err     error  // One of the sentinel errors above
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor != "" {
		return fmt.Sprintf("%v: tensor %q: %s", e.Err, e.Tensor, e.Details)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Details)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
