// Package types defines the Model value object, engine configuration,
// observation sequences, batch outcomes, and standard error types for the
// Lattice evaluation engine.
// See docs/ARCHITECTURE.md § Data Model.
package types
