package green

import (
	"errors"
	"fmt"
)

var (
	// ErrNumerical is matched by every numerical failure of the kernel.
	ErrNumerical = errors.New("green: numerical instability")

	// ErrNoConvergence is returned when a dispersion root search does not
	// converge within the iteration cap.
	ErrNoConvergence = fmt.Errorf("%w: root search did not converge", ErrNumerical)

	// ErrSeriesCap is returned when the eigenfunction series still has
	// significant terms after the maximum number of terms.
	ErrSeriesCap = fmt.Errorf("%w: series truncation exceeded the iteration cap", ErrNumerical)
)

// NumericalError carries the routine and the parameters that failed.
type NumericalError struct {
	Op         string
	Iterations int
	Residual   float64
	Err        error
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("%s: %v after %d iterations (residual %.3e)", e.Op, e.Err, e.Iterations, e.Residual)
}

func (e *NumericalError) Unwrap() error { return e.Err }
