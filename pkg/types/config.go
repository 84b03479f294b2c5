package types

// Config holds the engine knobs shared by the trellis algorithms and the
// batch runner. The zero value selects every default; Normalize resolves it
// before use.
type Config struct {
	// Tolerance bounds row-sum deviation during model validation and the
	// forward/backward agreement check. <= 0 selects DefaultTolerance.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`

	// MaxCells caps the trellis size N·T per evaluation. 0 means unlimited;
	// a sequence exceeding the cap fails with ErrSequenceTooLarge instead of
	// running unbounded.
	MaxCells int `json:"max_cells" yaml:"max_cells"`

	// Workers bounds batch-level parallelism. 0 selects one worker per CPU.
	Workers int `json:"workers" yaml:"workers"`
}

// Validate checks that the Config is well-formed, returning a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Tolerance < 0 {
		return ErrToleranceInvalid
	}
	if c.MaxCells < 0 {
		return ErrMaxCellsInvalid
	}
	if c.Workers < 0 {
		return ErrWorkersInvalid
	}
	return nil
}

// Normalize returns a copy with defaults filled in for zero fields.
func (c Config) Normalize() Config {
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultTolerance
	}
	return c
}

// CatalogConfig selects and parameterizes a model-catalog backend.
type CatalogConfig struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Supported catalog backend names.
const (
	BackendSQLite = "sqlite"
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the CatalogConfig is well-formed.
func (c CatalogConfig) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
