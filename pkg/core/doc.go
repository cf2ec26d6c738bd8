// Package core defines the shared language of the Tradespace system.
//
// This package contains:
//   - Quantity ordering primitives (Direction, Compare)
//   - Domain entities (Vector, Implementation, SystemDesign, SolveRun)
//   - The declarative design model (DesignModel, AggregateSpec, ConstraintSpec)
//   - Typed error values shared across packages
//
// The Golden Rule: pkg/core imports ONLY the stdlib.
// All other packages depend on core, not the reverse.
package core
