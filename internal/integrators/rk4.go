package integrators

import "github.com/san-kum/fdmsim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme. Stage buffers are kept
// between steps.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

var rk4Weights = [4][]float64{
	{},
	{0.5},
	{0, 0.5},
	{0, 0, 1},
}

var rk4Nodes = [4]float64{0, 0.5, 0.5, 1}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	r.scratch = grow(r.scratch, n)

	for s := 0; s < 4; s++ {
		r.k[s] = grow(r.k[s], n)
		in := x
		if s > 0 {
			combine(r.scratch, x, dt, rk4Weights[s], r.k[:s])
			in = r.scratch
		}
		copy(r.k[s], dyn.Derive(in, u, t+rk4Nodes[s]*dt))
	}

	result := make(dynamo.State, n)
	combine(result, x, dt/6.0, []float64{1, 2, 2, 1}, r.k[:])
	return result
}
