// Package output samples property values into delimited logs.
//
// A log is described by a Directive (usually an <output> element of an aircraft or
// script document). Columns come from named groups with fixed headers plus extra
// properties, and are sampled every Frames(dt) steps. The first row of every log is
// written at simulation time zero.
package output

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/san-kum/fdmsim/internal/logging"
)

// Source is where sampled values are read from.
type Source interface {
	Has(path string) bool
	Value(path string) float64
}

// Output is an open log.
type Output struct {
	Directive Directive
	Path      string
	Columns   []Column

	frames int
	origin int
	sink   Sink
	rows   int
	values []float64
}

// Open resolves the directive against src, creates the log file under dir and writes
// the header row. Unknown extra properties are logged and skipped.
func Open(d Directive, dir string, dt float64, src Source, logger *slog.Logger) (*Output, error) {
	path := d.Name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	sink, err := CreateSink(path, d.Format)
	if err != nil {
		return nil, fmt.Errorf("output %s: %w", d.Name, err)
	}
	o, err := NewOutput(d, sink, dt, src, logger)
	if err != nil {
		sink.Close()
		return nil, err
	}
	o.Path = path
	return o, nil
}

// NewOutput is Open over an existing sink.
func NewOutput(d Directive, sink Sink, dt float64, src Source, logger *slog.Logger) (*Output, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	cols, skipped := d.Columns(src.Has)
	for _, p := range skipped {
		logger.Warn("unknown output property, column skipped", "output", d.Name, "property", p)
	}

	o := &Output{
		Directive: d,
		Columns:   cols,
		frames:    d.Frames(dt),
		sink:      sink,
		values:    make([]float64, len(cols)),
	}
	if err := sink.WriteHeader(cols); err != nil {
		return nil, fmt.Errorf("output %s: header: %w", d.Name, err)
	}
	return o, nil
}

// Frames returns the sampling interval in steps; 0 means disabled.
func (o *Output) Frames() int { return o.frames }

// Rows returns the number of data rows written.
func (o *Output) Rows() int { return o.rows }

// Rebase recomputes the sampling interval for a new step size. Intervals are counted
// from frame onwards.
func (o *Output) Rebase(dt float64, frame int) {
	o.frames = o.Directive.Frames(dt)
	o.origin = frame
}

// Sample writes a row when frame falls on the sampling interval.
func (o *Output) Sample(frame int, t float64, src Source) error {
	if o.frames <= 0 || (frame-o.origin)%o.frames != 0 {
		return nil
	}
	return o.Write(t, src)
}

// Write appends a row unconditionally.
func (o *Output) Write(t float64, src Source) error {
	for i, c := range o.Columns {
		o.values[i] = src.Value(c.Path)
	}
	if err := o.sink.WriteRow(t, o.values); err != nil {
		return fmt.Errorf("output %s: %w", o.Directive.Name, err)
	}
	o.rows++
	return nil
}

func (o *Output) Close() error {
	return o.sink.Close()
}
