package dynamo

import "errors"

// Domain errors for simulation and search operations.
var (
	// ErrInvalidArgument indicates malformed integrator parameters: a
	// non-positive step or duration, or a step count that does not round to
	// a positive integer.
	ErrInvalidArgument = errors.New("dynamo: invalid argument")

	// ErrDomain indicates a malformed search interval.
	ErrDomain = errors.New("dynamo: invalid search domain")

	// ErrNotConverged indicates an iterative procedure exhausted its budget.
	// It is an expected outcome; callers check for it with errors.Is.
	ErrNotConverged = errors.New("dynamo: not converged within budget")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
