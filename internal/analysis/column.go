package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/fdmsim/internal/output"
)

// Stats are the basic statistics of a series.
type Stats struct {
	Min, Max float64
	Mean     float64
	Final    float64
}

func Summarize(samples []float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1), Final: samples[len(samples)-1]}
	for _, v := range samples {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		s.Mean += v
	}
	s.Mean /= float64(len(samples))
	return s
}

// Report describes one column of a log.
type Report struct {
	Header  string
	Samples int
	Rate    float64 // Hz
	Stats   Stats
	// Period is the dominant oscillation period in seconds; 0 when the column is too
	// short to tell and +Inf when it is constant.
	Period float64
}

// SampleRate infers the sample rate of a log from its time column.
func SampleRate(l *output.Log) float64 {
	n := len(l.Times)
	if n < 2 || l.Times[n-1] <= l.Times[0] {
		return 0
	}
	return float64(n-1) / (l.Times[n-1] - l.Times[0])
}

// Column analyzes the column logged under header.
func Column(l *output.Log, header string) (Report, error) {
	values, ok := l.Column(header)
	if !ok {
		return Report{}, fmt.Errorf("analysis: no column %q", header)
	}
	r := Report{Header: header, Samples: len(values), Rate: SampleRate(l), Stats: Summarize(values)}
	if p, err := DominantPeriod(values, r.Rate); err == nil {
		r.Period = p
	}
	return r, nil
}
