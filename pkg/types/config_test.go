package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	t.Run("zero value is valid", func(t *testing.T) {
		if err := (Config{}).Validate(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("negative tolerance", func(t *testing.T) {
		err := Config{Tolerance: -1}.Validate()
		if !errors.Is(err, ErrToleranceInvalid) {
			t.Fatalf("expected ErrToleranceInvalid, got %v", err)
		}
	})

	t.Run("negative max cells", func(t *testing.T) {
		err := Config{MaxCells: -5}.Validate()
		if !errors.Is(err, ErrMaxCellsInvalid) {
			t.Fatalf("expected ErrMaxCellsInvalid, got %v", err)
		}
	})

	t.Run("negative workers", func(t *testing.T) {
		err := Config{Workers: -1}.Validate()
		if !errors.Is(err, ErrWorkersInvalid) {
			t.Fatalf("expected ErrWorkersInvalid, got %v", err)
		}
	})
}

func TestConfigNormalize(t *testing.T) {
	c := Config{}.Normalize()
	if c.Tolerance != DefaultTolerance {
		t.Fatalf("expected default tolerance, got %g", c.Tolerance)
	}
	c = Config{Tolerance: 1e-3}.Normalize()
	if c.Tolerance != 1e-3 {
		t.Fatalf("expected 1e-3 preserved, got %g", c.Tolerance)
	}
}

func TestCatalogConfigValidate(t *testing.T) {
	t.Run("sqlite accepted", func(t *testing.T) {
		cfg := CatalogConfig{Backend: BackendSQLite, DataDir: "/tmp/x"}
		if err := cfg.Validate(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("empty backend", func(t *testing.T) {
		if err := (CatalogConfig{}).Validate(); !errors.Is(err, ErrBackendEmpty) {
			t.Fatalf("expected ErrBackendEmpty, got %v", err)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		err := CatalogConfig{Backend: "postgres"}.Validate()
		if !errors.Is(err, ErrBackendUnknown) {
			t.Fatalf("expected ErrBackendUnknown, got %v", err)
		}
	})
}
