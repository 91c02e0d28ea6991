// Package features converts annotated tokens into named feature vectors for
// the sequence taggers and attribute classifiers.
package features

import "strings"

// Vector is an ordered mapping from feature name to feature value. Insertion
// order is preserved so that repeated extraction over the same input
// serializes byte-identically, which training reproducibility and cache
// correctness both rely on.
type Vector struct {
	names  []string
	values map[string]string
}

// NewVector returns an empty feature vector.
func NewVector() *Vector {
	return &Vector{values: make(map[string]string)}
}

// Set adds or overwrites a feature. A new name is appended to the order.
func (v *Vector) Set(name, value string) {
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}
	v.values[name] = value
}

// SetBool adds a boolean feature.
func (v *Vector) SetBool(name string, value bool) {
	if value {
		v.Set(name, "true")
	} else {
		v.Set(name, "false")
	}
}

// Get returns a feature value and whether it is present.
func (v *Vector) Get(name string) (string, bool) {
	value, ok := v.values[name]
	return value, ok
}

// Names returns feature names in insertion order. Callers must not mutate
// the returned slice.
func (v *Vector) Names() []string { return v.names }

// Len returns the number of features.
func (v *Vector) Len() int { return len(v.names) }

// Atoms returns "name=value" strings in insertion order. The taggers treat
// each atom as one binary feature.
func (v *Vector) Atoms() []string {
	atoms := make([]string, len(v.names))
	for i, name := range v.names {
		atoms[i] = name + "=" + v.values[name]
	}
	return atoms
}

// Encode serializes the vector deterministically (insertion order).
func (v *Vector) Encode() string {
	return strings.Join(v.Atoms(), "\x00")
}
