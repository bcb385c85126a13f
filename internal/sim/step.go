package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/fdmsim/internal/dynamo"
)

// Advance steps until simulation time reaches target. The context is checked between
// steps; a step either commits completely or not at all, and steps already taken stay
// committed when a later one fails.
func (e *Engine) Advance(ctx context.Context, target float64) error {
	if e.phase < Initialized {
		return ErrNotInitialized
	}
	e.phase = Stepping

	for e.Time() < target {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one step: due script events, control inputs, integration, publication and
// log sampling. A non-finite result is rejected with a *dynamo.SimulationError and the
// previous state is kept.
func (e *Engine) Step() error {
	if e.phase < Initialized {
		return ErrNotInitialized
	}
	e.phase = Stepping

	if err := e.fireEvents(); err != nil {
		return err
	}
	// an event may have reset the engine
	if e.phase < Initialized {
		return ErrNotInitialized
	}

	e.readControls()
	t := e.Time()
	next, err := dynamo.Check(e.integ, e.model, e.x, e.u, t, e.dt, e.frame)
	if err != nil {
		e.logger.Error("integration fault", "frame", e.frame, "time", t, "err", err)
		return err
	}

	e.x = next
	e.frame++
	e.publish()
	e.observe()
	return e.writeOutputs(false)
}

func (e *Engine) fireEvents() error {
	if e.script == nil {
		return nil
	}
	for _, ev := range e.script.Events {
		fired, err := ev.Update(e)
		if err != nil {
			return fmt.Errorf("sim: t=%.4f: %w", e.Time(), err)
		}
		if fired {
			e.logger.Debug("event fired", "event", ev.Name, "time", e.Time())
		}
	}
	return nil
}

// RunScript advances to the loaded script's end time. RunIC must have been called.
func (e *Engine) RunScript(ctx context.Context) error {
	if e.script == nil {
		return fmt.Errorf("%w: no script loaded", ErrNotInitialized)
	}
	return e.Advance(ctx, e.script.End)
}
