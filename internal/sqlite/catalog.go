// Package sqlite implements the SQLite model catalog for Lattice: a store
// of named, validated model definitions so repeated evaluations do not
// re-read and re-check .hmm files. Definitions only — evaluation results
// are never persisted.
// See docs/ARCHITECTURE.md § Model Catalog.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/lattice/pkg/types"
)

const dbFileName = "lattice.db"

// schemaSQL is the catalog DDL. Matrices are stored as JSON columns; they
// are opaque to SQL, and hydration goes through types.ModelDef anyway.
const schemaSQL = `CREATE TABLE IF NOT EXISTS models (
    model_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    states TEXT NOT NULL,
    symbols TEXT NOT NULL,
    transition TEXT NOT NULL,
    emission TEXT NOT NULL,
    initial TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

// Catalog stores named model definitions in a SQLite database under the
// configured data directory. The catalog is not open until Open is called
// with a CatalogConfig.
type Catalog struct {
	mu     sync.RWMutex
	opened bool
	config types.CatalogConfig
	db     *sql.DB
}

// NewCatalog creates a catalog instance. Call Open before use.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Open validates config, creates the data directory if needed, opens (or
// creates) the database, and applies the schema. Returns ErrAlreadyOpen if
// called while open.
func (c *Catalog) Open(config types.CatalogConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.opened {
		return types.ErrAlreadyOpen
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return err
	}

	c.db = db
	c.config = config
	c.opened = true
	return nil
}

// Close releases the database connection. Idempotent; after Close,
// operations return ErrCatalogClosed.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opened {
		return nil
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return err
		}
		c.db = nil
	}
	c.opened = false
	return nil
}

// SaveModel validates def, assigns a UUID v7, and stores it under name.
// Returns ErrDuplicateModel if the name is taken and ErrMalformedModel if
// the definition does not validate; nothing is written in either case.
func (c *Catalog) SaveModel(name string, def types.ModelDef) (*types.ModelRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opened {
		return nil, types.ErrCatalogClosed
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty model name", types.ErrMalformedModel)
	}
	// Reject invalid tables at import time so everything in the catalog is
	// known-loadable.
	if _, err := types.NewModel(def, 0); err != nil {
		return nil, err
	}

	record := &types.ModelRecord{
		ModelID:   generateUUID(),
		Name:      name,
		Def:       def,
		CreatedAt: time.Now().UTC(),
	}

	cols, err := marshalDef(def)
	if err != nil {
		return nil, err
	}
	_, err = c.db.Exec(
		`INSERT INTO models (model_id, name, states, symbols, transition, emission, initial, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ModelID, record.Name,
		cols.states, cols.symbols, cols.transition, cols.emission, cols.initial,
		record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", types.ErrDuplicateModel, name)
		}
		return nil, fmt.Errorf("saving model %q: %w", name, err)
	}
	return record, nil
}

// GetModel retrieves a model definition by name.
// Returns ErrModelNotFound if no model has that name.
func (c *Catalog) GetModel(name string) (*types.ModelRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.opened {
		return nil, types.ErrCatalogClosed
	}
	row := c.db.QueryRow(
		`SELECT model_id, name, states, symbols, transition, emission, initial, created_at
         FROM models WHERE name = ?`, name)
	record, err := hydrateModel(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %q", types.ErrModelNotFound, name)
		}
		return nil, fmt.Errorf("getting model %q: %w", name, err)
	}
	return record, nil
}

// ListModels returns all stored models ordered by name.
func (c *Catalog) ListModels() ([]*types.ModelRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.opened {
		return nil, types.ErrCatalogClosed
	}
	rows, err := c.db.Query(
		`SELECT model_id, name, states, symbols, transition, emission, initial, created_at
         FROM models ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer rows.Close()

	records := make([]*types.ModelRecord, 0)
	for rows.Next() {
		record, err := hydrateModel(rows)
		if err != nil {
			return nil, fmt.Errorf("listing models: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteModel removes a model by name.
// Returns ErrModelNotFound if no model has that name.
func (c *Catalog) DeleteModel(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opened {
		return types.ErrCatalogClosed
	}
	res, err := c.db.Exec(`DELETE FROM models WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting model %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", types.ErrModelNotFound, name)
	}
	return nil
}

// generateUUID generates a UUID v7 for model IDs, falling back to v4 if v7
// generation fails.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// isUniqueViolation reports whether err is SQLite's UNIQUE constraint
// failure. modernc.org/sqlite does not export a typed error for it, so the
// message is matched.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// defColumns carries the JSON-encoded table columns.
type defColumns struct {
	states, symbols, transition, emission, initial string
}

func marshalDef(def types.ModelDef) (defColumns, error) {
	var cols defColumns
	for _, field := range []struct {
		dst *string
		src any
	}{
		{&cols.states, def.States},
		{&cols.symbols, def.Symbols},
		{&cols.transition, def.Transition},
		{&cols.emission, def.Emission},
		{&cols.initial, def.Initial},
	} {
		data, err := json.Marshal(field.src)
		if err != nil {
			return defColumns{}, err
		}
		*field.dst = string(data)
	}
	return cols, nil
}

// scanner abstracts *sql.Row and *sql.Rows for hydration.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateModel converts a models row into a ModelRecord.
func hydrateModel(row scanner) (*types.ModelRecord, error) {
	var (
		record    types.ModelRecord
		cols      defColumns
		createdAt string
	)
	if err := row.Scan(&record.ModelID, &record.Name,
		&cols.states, &cols.symbols, &cols.transition, &cols.emission, &cols.initial,
		&createdAt); err != nil {
		return nil, err
	}

	for _, field := range []struct {
		src string
		dst any
	}{
		{cols.states, &record.Def.States},
		{cols.symbols, &record.Def.Symbols},
		{cols.transition, &record.Def.Transition},
		{cols.emission, &record.Def.Emission},
		{cols.initial, &record.Def.Initial},
	} {
		if err := json.Unmarshal([]byte(field.src), field.dst); err != nil {
			return nil, err
		}
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = ts
	return &record, nil
}
