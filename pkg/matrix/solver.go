package matrix

import (
	"errors"
	"fmt"
)

var (
	ErrSingularSystem = errors.New("matrix: singular system")
	ErrNotConverged   = errors.New("matrix: iterative solve did not converge")
	ErrShapeMismatch  = errors.New("matrix: shape mismatch")
)

// SingularError reports where a factorization broke down. Rank is -1 when
// the method cannot tell.
type SingularError struct {
	Method string
	Rank   int
	Cause  error
}

func (e *SingularError) Error() string {
	msg := fmt.Sprintf("matrix: %s: singular system", e.Method)
	if e.Rank >= 0 {
		msg += fmt.Sprintf(" (rank %d)", e.Rank)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SingularError) Is(target error) bool {
	return target == ErrSingularSystem
}

func (e *SingularError) Unwrap() error {
	return e.Cause
}

// Solver solves sys * x = b. Implementations must not modify sys.
type Solver interface {
	Solve(sys *System, b []complex128) ([]complex128, error)
}

func checkShape(sys *System, b []complex128) error {
	if len(b) != sys.Size() {
		return fmt.Errorf("right-hand side has %d entries, system has %d: %w", len(b), sys.Size(), ErrShapeMismatch)
	}
	return nil
}
