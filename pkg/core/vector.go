package core

import (
	"fmt"
	"sort"
	"strings"
)

// Vector is an immutable mapping from quantity name to numeric value.
// Construct with NewVector; the backing map is copied on construction
// and never exposed for mutation.
type Vector struct {
	values map[string]float64
}

// NewVector builds a vector from a quantity→value map.
// The input map is copied, so the caller may reuse it.
func NewVector(values map[string]float64) Vector {
	v := make(map[string]float64, len(values))
	for q, x := range values {
		v[q] = x
	}
	return Vector{values: v}
}

// Get returns the value for a quantity and whether it is present.
func (v Vector) Get(quantity string) (float64, bool) {
	x, ok := v.values[quantity]
	return x, ok
}

// Has reports whether the vector carries the quantity.
func (v Vector) Has(quantity string) bool {
	_, ok := v.values[quantity]
	return ok
}

// Len returns the number of quantities in the vector.
func (v Vector) Len() int {
	return len(v.values)
}

// Quantities returns the quantity names in sorted order.
func (v Vector) Quantities() []string {
	names := make([]string, 0, len(v.values))
	for q := range v.values {
		names = append(names, q)
	}
	sort.Strings(names)
	return names
}

// ToMap returns a copy of the underlying quantity→value map.
func (v Vector) ToMap() map[string]float64 {
	m := make(map[string]float64, len(v.values))
	for q, x := range v.values {
		m[q] = x
	}
	return m
}

// AtLeast reports whether v is component-wise >= other on every quantity
// other carries. Quantities missing from v count as not satisfied.
func (v Vector) AtLeast(other Vector) bool {
	for q, want := range other.values {
		got, ok := v.values[q]
		if !ok || got < want {
			return false
		}
	}
	return true
}

// String renders the vector as {q1: v1, q2: v2} with sorted keys.
func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, q := range v.Quantities() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %g", q, v.values[q])
	}
	b.WriteByte('}')
	return b.String()
}
