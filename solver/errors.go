package solver

import (
	"errors"
	"fmt"

	"github.com/notargets/BEMKernel/green"
	"github.com/notargets/BEMKernel/mesh"
)

var (
	// ErrGeometry is matched by invalid panel data, including panels found
	// above the free surface or below the sea bottom of a problem.
	ErrGeometry = mesh.ErrGeometry

	ErrConfiguration        = errors.New("solver: invalid configuration")
	ErrUnknownDOF           = fmt.Errorf("%w: unknown DOF", ErrConfiguration)
	ErrNumericalInstability = errors.New("solver: numerical instability")
	ErrMissingDetails       = errors.New("solver: result was computed without details")
)

// ConfigurationError names the offending problem or config field.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error // ErrConfiguration or ErrUnknownDOF
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configErrorf(field, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...), Err: ErrConfiguration}
}

// NumericalInstabilityError reports an ill-conditioned system, a large
// residual, or a failure inside the Green's function. Cause holds the
// underlying *green.NumericalError when there is one.
type NumericalInstabilityError struct {
	Problem   string
	Condition float64
	Residual  float64
	Cause     error
}

func (e *NumericalInstabilityError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v in %s: %v", ErrNumericalInstability, e.Problem, e.Cause)
	}
	return fmt.Sprintf("%v in %s: condition %.3g, residual %.3g", ErrNumericalInstability, e.Problem, e.Condition, e.Residual)
}

func (e *NumericalInstabilityError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrNumericalInstability, e.Cause}
	}
	return []error{ErrNumericalInstability}
}

// wrapNumerical turns kernel failures into NumericalInstabilityError and
// passes every other error through.
func wrapNumerical(problem string, err error) error {
	if errors.Is(err, green.ErrNumerical) {
		return &NumericalInstabilityError{Problem: problem, Cause: err}
	}
	return err
}
