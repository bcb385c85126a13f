package ic

import (
	"github.com/san-kum/fdmsim/internal/trim"
	"github.com/san-kum/fdmsim/internal/units"
)

// Version is the schema version of a descriptor.
type Version int

const (
	V1 Version = 1
	V2 Version = 2
)

// Value is one resolved field. Resolved holds the quantity in the field family's base unit;
// unspecified fields carry zero and must not be applied.
type Value struct {
	Field     Field
	Quantity  units.Quantity
	Resolved  float64
	Specified bool
}

// Record is the canonical result of resolving a descriptor.
type Record struct {
	Name     string
	Version  Version
	TrimMode trim.Mode
	values   map[string]Value
}

func newRecord(name string, v Version) *Record {
	return &Record{Name: name, Version: v, TrimMode: trim.None, values: make(map[string]Value)}
}

// Get returns the value for field id. Fields absent from the descriptor come back with
// Specified false.
func (r *Record) Get(id string) Value {
	if v, ok := r.values[id]; ok {
		return v
	}
	f, _ := Lookup(id)
	return Value{Field: f}
}

func (r *Record) Specified(id string) bool {
	return r.values[id].Specified
}

// Resolved returns the base-unit value of id and whether it was specified.
func (r *Record) Resolved(id string) (float64, bool) {
	v := r.values[id]
	return v.Resolved, v.Specified
}

// SpecifiedValues lists the specified fields in field-table order.
func (r *Record) SpecifiedValues() []Value {
	var out []Value
	for _, f := range table {
		if v, ok := r.values[f.ID]; ok && v.Specified {
			out = append(out, v)
		}
	}
	return out
}

// WantsTrim reports whether the descriptor asked for a trim run.
func (r *Record) WantsTrim() bool {
	return r.TrimMode != trim.None
}

func (r *Record) set(v Value) {
	r.values[v.Field.ID] = v
}
