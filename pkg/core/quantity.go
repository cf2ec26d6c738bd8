package core

import (
	"math"
	"strings"
)

// Direction declares which way a quantity improves.
// It is fixed per quantity and never reinterpreted mid-computation.
type Direction int

const (
	// Minimize means lower values are better (cost, load, time).
	Minimize Direction = iota
	// Maximize means higher values are better (area controlled, capacity).
	Maximize
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	default:
		return "unknown"
	}
}

// ParseDirection converts a string to a Direction value.
// Returns the direction and true if valid, or Minimize and false if invalid.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "minimize", "min":
		return Minimize, true
	case "maximize", "max":
		return Maximize, true
	default:
		return Minimize, false
	}
}

// Quantity is a named scalar dimension with a fixed improvement direction.
type Quantity struct {
	// Name is the quantity identifier (e.g., "cost_usd", "area_ha")
	Name string
	// Direction is the improvement direction, fixed for the quantity's lifetime
	Direction Direction
}

// Ordering is the result of comparing two values of a quantity.
type Ordering int

const (
	// Worse means a is worse than b under the quantity's direction.
	Worse Ordering = iota - 1
	// Equal means a and b are indistinguishable.
	Equal
	// Better means a is better than b under the quantity's direction.
	Better
)

// String returns the string representation of the ordering.
func (o Ordering) String() string {
	switch o {
	case Better:
		return "better"
	case Worse:
		return "worse"
	default:
		return "equal"
	}
}

// Compare orders a against b under the given direction using exact numeric
// equality. For Maximize, higher is better; for Minimize, lower is better.
func Compare(dir Direction, a, b float64) Ordering {
	return CompareEps(dir, a, b, 0)
}

// CompareEps orders a against b under the given direction, treating values
// within eps of each other as equal. Tolerance changes antichain membership,
// so it is always caller-supplied, never a default.
func CompareEps(dir Direction, a, b, eps float64) Ordering {
	if math.Abs(a-b) <= eps {
		return Equal
	}
	if a < b {
		if dir == Minimize {
			return Better
		}
		return Worse
	}
	if dir == Minimize {
		return Worse
	}
	return Better
}
