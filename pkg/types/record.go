package types

import "time"

// ModelRecord is a named model definition stored in the catalog. The
// catalog stores definitions only; evaluation results are never persisted.
type ModelRecord struct {
	ModelID   string    // UUID v7, generated on import.
	Name      string    // Unique human-readable name (required, non-empty).
	Def       ModelDef  // The raw tables, validated on import.
	CreatedAt time.Time // Timestamp of import.
}
