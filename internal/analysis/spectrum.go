package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// ErrTooShort reports a series with too few samples to analyze.
var ErrTooShort = errors.New("analysis: series too short")

// MinSamples is the shortest series Spectrum accepts.
const MinSamples = 8

// Spectrum returns the one-sided amplitude spectrum of samples taken at rate Hz, with
// the mean removed. freqs[i] is the frequency of power[i]; the DC bin is dropped.
func Spectrum(samples []float64, rate float64) (freqs, power []float64, err error) {
	n := len(samples)
	if n < MinSamples {
		return nil, nil, ErrTooShort
	}
	if rate <= 0 {
		return nil, nil, errors.New("analysis: sample rate must be positive")
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	detrended := make([]float64, n)
	for i, v := range samples {
		detrended[i] = v - mean
	}

	coeffs := fft.FFTReal(detrended)
	bins := n / 2
	freqs = make([]float64, bins)
	power = make([]float64, bins)
	for k := 1; k <= bins; k++ {
		freqs[k-1] = float64(k) * rate / float64(n)
		power[k-1] = 2 * cmplx.Abs(coeffs[k]) / float64(n)
	}
	return freqs, power, nil
}

// DominantPeriod returns the period in seconds of the strongest non-constant component,
// or +Inf for a constant series.
func DominantPeriod(samples []float64, rate float64) (float64, error) {
	freqs, power, err := Spectrum(samples, rate)
	if err != nil {
		return 0, err
	}
	best := -1
	for i, p := range power {
		if p > 1e-12 && (best < 0 || p > power[best]) {
			best = i
		}
	}
	if best < 0 {
		return math.Inf(1), nil
	}
	return 1 / freqs[best], nil
}
