// Package props implements the path-addressed property store an engine exposes to callers.
//
// A Tree is owned by one engine. It has no internal locking: concurrent mutation of the
// same Tree is unsupported.
package props

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// ErrUnknownProperty is returned when reading a path that was never written.
var ErrUnknownProperty = errors.New("props: unknown property")

// Prefix is the absolute root under which the tree's paths are also addressable.
const Prefix = "/fdm/jsbsim/"

// Tree maps normalized property paths to values.
type Tree struct {
	values map[string]float64
}

func New() *Tree {
	return &Tree{values: make(map[string]float64)}
}

// Normalize strips the absolute prefix and any leading slash.
func Normalize(path string) string {
	p := strings.TrimSpace(path)
	p = strings.TrimPrefix(p, Prefix)
	return strings.TrimLeft(p, "/")
}

// Absolute returns the fully qualified form of path.
func Absolute(path string) string {
	return Prefix + Normalize(path)
}

func (t *Tree) Get(path string) (float64, error) {
	p := Normalize(path)
	v, ok := t.values[p]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownProperty, p)
	}
	return v, nil
}

// Value returns the value at path, or 0 when it does not exist.
func (t *Tree) Value(path string) float64 {
	return t.values[Normalize(path)]
}

func (t *Tree) Set(path string, v float64) {
	t.values[Normalize(path)] = v
}

// SetDefault writes v only if path does not hold a value yet.
func (t *Tree) SetDefault(path string, v float64) {
	p := Normalize(path)
	if _, ok := t.values[p]; !ok {
		t.values[p] = v
	}
}

func (t *Tree) Has(path string) bool {
	_, ok := t.values[Normalize(path)]
	return ok
}

// Delete removes path. Deleting a missing path is a no-op.
func (t *Tree) Delete(path string) {
	delete(t.values, Normalize(path))
}

// Len returns the number of properties.
func (t *Tree) Len() int {
	return len(t.values)
}

// Paths returns every property path in lexical order.
func (t *Tree) Paths() []string {
	paths := make([]string, 0, len(t.values))
	for p := range t.values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Query returns the sorted paths containing substr. An empty substr matches everything.
func (t *Tree) Query(substr string) []string {
	needle := Normalize(substr)
	var out []string
	for _, p := range t.Paths() {
		if strings.Contains(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

// Subtree copies every property under prefix (e.g. "ic") into a new map keyed by full path.
func (t *Tree) Subtree(prefix string) map[string]float64 {
	root := strings.TrimSuffix(Normalize(prefix), "/") + "/"
	out := make(map[string]float64)
	for p, v := range t.values {
		if strings.HasPrefix(p, root) {
			out[p] = v
		}
	}
	return out
}

// Snapshot copies the whole tree.
func (t *Tree) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(t.values))
	for p, v := range t.values {
		out[p] = v
	}
	return out
}

// Restore replaces the tree's contents with a snapshot.
func (t *Tree) Restore(snap map[string]float64) {
	t.values = make(map[string]float64, len(snap))
	for p, v := range snap {
		t.values[p] = v
	}
}

// MarshalJSON writes the tree as a flat object ordered by path.
func (t *Tree) MarshalJSON() ([]byte, error) {
	om := orderedmap.New()
	for _, p := range t.Paths() {
		om.Set(p, t.values[p])
	}
	return json.Marshal(om)
}
