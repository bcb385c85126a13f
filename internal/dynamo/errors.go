package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration.
var (
	// ErrIntegrationFault indicates a step produced a non-finite state.
	ErrIntegrationFault = errors.New("dynamo: integration fault (NaN or Inf detected)")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with the step it happened on. State is the last
// committed state, not the rejected one.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// Check steps x with integ and returns the new state, or a *SimulationError wrapping
// ErrIntegrationFault when the result is not finite.
func Check(integ Integrator, dyn System, x State, u Control, t, dt float64, step int) (State, error) {
	if len(x) != dyn.StateDim() {
		return nil, &SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: ErrDimensionMismatch}
	}
	next := integ.Step(dyn, x, u, t, dt)
	if !next.IsValid() {
		return nil, &SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: ErrIntegrationFault}
	}
	return next, nil
}
