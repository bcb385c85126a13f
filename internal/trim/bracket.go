package trim

import "math"

// scanPoints is the grid resolution used to look for a sign change.
const scanPoints = 40

// bracket returns an interval [a, b] inside [lo, hi] over which f changes sign. When
// the end points agree in sign the interval is scanned on a uniform grid and the
// sign change closest to near is chosen.
func bracket(f func(float64) float64, lo, hi, near float64) (a, fa, b, fb float64, ok bool) {
	flo, fhi := f(lo), f(hi)
	if flo == 0 || fhi == 0 || math.Signbit(flo) != math.Signbit(fhi) {
		return lo, flo, hi, fhi, true
	}

	best := math.Inf(1)
	prevX, prevF := lo, flo
	for i := 1; i <= scanPoints; i++ {
		x := lo + (hi-lo)*float64(i)/scanPoints
		fx := fhi
		if i < scanPoints {
			fx = f(x)
		}
		if fx == 0 || math.Signbit(fx) != math.Signbit(prevF) {
			d := math.Abs(0.5*(prevX+x) - near)
			if d < best {
				best = d
				a, fa, b, fb, ok = prevX, prevF, x, fx, true
			}
		}
		prevX, prevF = x, fx
	}
	return a, fa, b, fb, ok
}

// solve finds a root of f on a sign-changing interval with the Illinois variant of
// false position. It stops when |f| <= ftol, the interval shrinks below xtol, or after
// maxIter evaluations, and returns the best point seen.
func solve(f func(float64) float64, a, fa, b, fb, ftol, xtol float64, maxIter int) (float64, float64) {
	if math.Abs(fa) <= math.Abs(fb) && math.Abs(fa) <= ftol {
		return a, fa
	}
	if math.Abs(fb) <= ftol {
		return b, fb
	}

	side := 0
	x, fx := a, fa
	for i := 0; i < maxIter; i++ {
		x = (a*fb - b*fa) / (fb - fa)
		if math.IsNaN(x) || x <= math.Min(a, b) || x >= math.Max(a, b) {
			x = 0.5 * (a + b)
		}
		fx = f(x)
		if math.Abs(fx) <= ftol || math.Abs(b-a) <= xtol {
			break
		}

		if math.Signbit(fx) == math.Signbit(fb) {
			b, fb = x, fx
			if side == -1 {
				fa /= 2
			}
			side = -1
		} else {
			a, fa = x, fx
			if side == 1 {
				fb /= 2
			}
			side = 1
		}
	}
	return x, fx
}
