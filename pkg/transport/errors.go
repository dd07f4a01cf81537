package transport

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrConfiguration  = errors.New("invalid configuration")
	ErrConvergence    = errors.New("iterative solver failed to converge")
	ErrSingularMatrix = errors.New("singular system matrix")
	ErrShapeMismatch  = errors.New("value length does not match target size")
)

// SolveError provides structured error information for solver operations.
type SolveError struct {
	Op      string  // Operation that failed (e.g., "SetValueBC", "Step")
	Step    int     // Time step index, if applicable
	Time    float64 // Simulated time, if applicable
	Context string  // Additional context
	Cause   error   // Underlying error
}

// Error implements the error interface.
func (e *SolveError) Error() string {
	if e.Step > 0 {
		return fmt.Sprintf("%s (step %d, t=%g): %v", e.Op, e.Step, e.Time, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SolveError) Unwrap() error {
	return e.Cause
}

func configError(op, context string) error {
	return &SolveError{Op: op, Context: context, Cause: ErrConfiguration}
}

func shapeError(op string, got, want int) error {
	return &SolveError{
		Op:      op,
		Context: fmt.Sprintf("got %d, want %d", got, want),
		Cause:   ErrShapeMismatch,
	}
}

// IsConfiguration returns true if the error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsConvergence returns true if the error is an iterative solver failure.
func IsConvergence(err error) bool {
	return errors.Is(err, ErrConvergence)
}

// IsSingular returns true if the error indicates an ill-posed system.
func IsSingular(err error) bool {
	return errors.Is(err, ErrSingularMatrix)
}

// IsShapeMismatch returns true if the error is a length mismatch.
func IsShapeMismatch(err error) bool {
	return errors.Is(err, ErrShapeMismatch)
}
