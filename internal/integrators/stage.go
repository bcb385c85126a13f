package integrators

import "github.com/san-kum/fdmsim/internal/dynamo"

// grow returns buf resized to n, reusing its storage when large enough.
func grow(buf dynamo.State, n int) dynamo.State {
	if cap(buf) < n {
		return make(dynamo.State, n)
	}
	return buf[:n]
}

// combine writes x + dt*sum(w[j]*k[j]) into dst.
func combine(dst, x dynamo.State, dt float64, w []float64, k []dynamo.State) {
	for i := range x {
		acc := 0.0
		for j, wj := range w {
			if wj != 0 {
				acc += wj * k[j][i]
			}
		}
		dst[i] = x[i] + dt*acc
	}
}
