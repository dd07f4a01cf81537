package network

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidShape    = errors.New("invalid lattice shape")
	ErrInvalidSpacing  = errors.New("invalid lattice spacing")
	ErrUnknownProperty = errors.New("property not found")
	ErrUnknownLabel    = errors.New("label not found")
	ErrBadKeyNamespace = errors.New("key namespace does not match entity kind")
	ErrLengthMismatch  = errors.New("value length does not match entity count")
	ErrIndexRange      = errors.New("index out of range")
)

// NetworkError provides structured error information for network operations.
type NetworkError struct {
	Op    string // Operation that failed (e.g., "SetProp", "AddLabel")
	Key   string // Property or label name
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

func opError(op, key string, cause error) error {
	return &NetworkError{Op: op, Key: key, Cause: cause}
}
