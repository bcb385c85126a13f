package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Log is a log file read back into memory.
type Log struct {
	Headers []string
	Times   []float64
	Rows    [][]float64
}

// ReadLog parses a log written by a CSV or TABULAR sink. The delimiter is taken from the
// header row.
func ReadLog(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	if first, _, _ := strings.Cut(string(data), "\n"); strings.Contains(first, "\t") {
		r.Comma = '\t'
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("output: %s: empty log", path)
	}
	if len(records[0]) == 0 || records[0][0] != "Time" {
		return nil, fmt.Errorf("output: %s: missing Time header", path)
	}

	l := &Log{Headers: records[0][1:]}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("output: %s row %d: %w", path, i, err)
		}
		row := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("output: %s row %d col %d: %w", path, i, j, err)
			}
			row = append(row, v)
		}
		l.Times = append(l.Times, t)
		l.Rows = append(l.Rows, row)
	}
	return l, nil
}

// Index returns the position of header among the value columns, or -1.
func (l *Log) Index(header string) int {
	for i, h := range l.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Column returns every value logged under header.
func (l *Log) Column(header string) ([]float64, bool) {
	i := l.Index(header)
	if i < 0 {
		return nil, false
	}
	out := make([]float64, len(l.Rows))
	for r, row := range l.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out, true
}

// First returns the value of header in the first row.
func (l *Log) First(header string) (float64, bool) {
	i := l.Index(header)
	if i < 0 || len(l.Rows) == 0 || i >= len(l.Rows[0]) {
		return 0, false
	}
	return l.Rows[0][i], true
}
