package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lattice/pkg/types"
)

func testDef() types.ModelDef {
	return types.ModelDef{
		States:     []string{"S0", "S1"},
		Symbols:    []string{"A", "B"},
		Transition: [][]float64{{0.7, 0.3}, {0.4, 0.6}},
		Emission:   [][]float64{{0.9, 0.1}, {0.2, 0.8}},
		Initial:    []float64{0.6, 0.4},
	}
}

func openCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	cfg := types.CatalogConfig{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	require.NoError(t, c.Open(cfg))
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalogOpen(t *testing.T) {
	tmpDir := t.TempDir()
	c := NewCatalog()
	cfg := types.CatalogConfig{Backend: types.BackendSQLite, DataDir: tmpDir}

	require.NoError(t, c.Open(cfg))
	defer c.Close()

	// Database file created under the data dir.
	_, err := os.Stat(filepath.Join(tmpDir, dbFileName))
	require.NoError(t, err)

	// Double open fails.
	assert.ErrorIs(t, c.Open(cfg), types.ErrAlreadyOpen)
}

func TestCatalogOpenValidation(t *testing.T) {
	c := NewCatalog()
	assert.ErrorIs(t, c.Open(types.CatalogConfig{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, c.Open(types.CatalogConfig{Backend: "redis"}), types.ErrBackendUnknown)
}

func TestCatalogClose(t *testing.T) {
	c := openCatalog(t)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "Close must be idempotent")

	_, err := c.GetModel("anything")
	assert.ErrorIs(t, err, types.ErrCatalogClosed)
	_, err = c.SaveModel("anything", testDef())
	assert.ErrorIs(t, err, types.ErrCatalogClosed)
}

func TestCatalogSaveAndGet(t *testing.T) {
	c := openCatalog(t)

	record, err := c.SaveModel("coins", testDef())
	require.NoError(t, err)
	assert.NotEmpty(t, record.ModelID)
	assert.Equal(t, "coins", record.Name)

	got, err := c.GetModel("coins")
	require.NoError(t, err)
	assert.Equal(t, record.ModelID, got.ModelID)
	assert.Equal(t, testDef(), got.Def)

	// A stored definition must be loadable as-is.
	_, err = types.NewModel(got.Def, 0)
	require.NoError(t, err)
}

func TestCatalogSaveRejects(t *testing.T) {
	c := openCatalog(t)

	t.Run("empty name", func(t *testing.T) {
		_, err := c.SaveModel("", testDef())
		assert.ErrorIs(t, err, types.ErrMalformedModel)
	})

	t.Run("invalid definition", func(t *testing.T) {
		def := testDef()
		def.Initial = []float64{0.9, 0.9}
		_, err := c.SaveModel("bad", def)
		assert.ErrorIs(t, err, types.ErrMalformedModel)

		_, err = c.GetModel("bad")
		assert.ErrorIs(t, err, types.ErrModelNotFound, "nothing may be written on failure")
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := c.SaveModel("dup", testDef())
		require.NoError(t, err)
		_, err = c.SaveModel("dup", testDef())
		assert.ErrorIs(t, err, types.ErrDuplicateModel)
	})
}

func TestCatalogList(t *testing.T) {
	c := openCatalog(t)

	names := []string{"zebra", "alpha", "middle"}
	for _, name := range names {
		_, err := c.SaveModel(name, testDef())
		require.NoError(t, err)
	}

	records, err := c.ListModels()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alpha", records[0].Name)
	assert.Equal(t, "middle", records[1].Name)
	assert.Equal(t, "zebra", records[2].Name)
}

func TestCatalogDelete(t *testing.T) {
	c := openCatalog(t)

	_, err := c.SaveModel("gone", testDef())
	require.NoError(t, err)
	require.NoError(t, c.DeleteModel("gone"))

	_, err = c.GetModel("gone")
	assert.ErrorIs(t, err, types.ErrModelNotFound)
	assert.ErrorIs(t, c.DeleteModel("gone"), types.ErrModelNotFound)
}

func TestCatalogPersistsAcrossOpens(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := types.CatalogConfig{Backend: types.BackendSQLite, DataDir: tmpDir}

	first := NewCatalog()
	require.NoError(t, first.Open(cfg))
	_, err := first.SaveModel("durable", testDef())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := NewCatalog()
	require.NoError(t, second.Open(cfg))
	defer second.Close()

	got, err := second.GetModel("durable")
	require.NoError(t, err)
	assert.Equal(t, testDef(), got.Def)
}
