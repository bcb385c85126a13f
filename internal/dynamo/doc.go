// Package dynamo provides the numerical primitives the flight engine integrates with.
//
// The package defines the interfaces between an equation-of-motion model and the
// scheme that advances it:
//
//   - [State]: vector representing the continuous state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Check]: one guarded step that rejects non-finite results
//
// # Example
//
//	integ := integrators.NewRK4()
//	next, err := dynamo.Check(integ, model, x, u, t, dt, frame)
//	var se *dynamo.SimulationError
//	if errors.As(err, &se) {
//		// x is unchanged; se.Step and se.Time locate the fault
//	}
//
// # Thread Safety
//
// Integrators keep scratch buffers and are NOT thread-safe. Each engine owns its own.
package dynamo
