package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Sink receives log rows. Every row is flushed before WriteRow returns.
type Sink interface {
	WriteHeader(cols []Column) error
	WriteRow(t float64, values []float64) error
	Close() error
}

// delimitedSink writes a delimited text log.
type delimitedSink struct {
	w      *csv.Writer
	closer io.Closer
}

// NewSink returns a sink of the given format over w. If w is an io.Closer the sink
// closes it.
func NewSink(w io.Writer, f Format) Sink {
	cw := csv.NewWriter(w)
	if f == Tabular {
		cw.Comma = '\t'
	}
	s := &delimitedSink{w: cw}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// CreateSink creates (or truncates) the file at path and returns a sink writing to it.
func CreateSink(path string, f Format) (Sink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewSink(file, f), nil
}

func (s *delimitedSink) WriteHeader(cols []Column) error {
	header := make([]string, 0, len(cols)+1)
	header = append(header, "Time")
	for _, c := range cols {
		header = append(header, c.Header)
	}
	return s.flush(s.w.Write(header))
}

func (s *delimitedSink) WriteRow(t float64, values []float64) error {
	row := make([]string, 0, len(values)+1)
	row = append(row, strconv.FormatFloat(t, 'f', 6, 64))
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return s.flush(s.w.Write(row))
}

func (s *delimitedSink) flush(err error) error {
	if err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *delimitedSink) Close() error {
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("output: close: %w", err)
	}
	return nil
}
