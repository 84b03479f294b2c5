package types

import (
	"fmt"
	"math"
)

// DefaultTolerance is the row-sum tolerance used when a ModelDef is
// validated without an explicit override.
const DefaultTolerance = 1e-6

// ModelDef holds the raw tables a Model is built from. It is what the file
// parser and the catalog produce; NewModel validates it and freezes it into
// a Model. See docs/ARCHITECTURE.md § Data Model.
type ModelDef struct {
	States     []string    `json:"states"`     // Ordered, unique state names.
	Symbols    []string    `json:"symbols"`    // Ordered, unique symbol names.
	Transition [][]float64 `json:"transition"` // N×N; row i sums to 1.
	Emission   [][]float64 `json:"emission"`   // N×M; row i sums to 1.
	Initial    []float64   `json:"initial"`    // Length N; sums to 1.
}

// Model is an immutable Hidden Markov Model: a fixed state ordering, a fixed
// symbol ordering, and validated probability tables. All lookups are O(1)
// and side-effect-free, so a single Model is safe for concurrent use by any
// number of evaluations.
type Model struct {
	states  []string
	symbols []string

	stateIdx  map[string]int
	symbolIdx map[string]int

	transition [][]float64
	emission   [][]float64
	initial    []float64

	// Log-scale tables, precomputed at construction so the trellis hot path
	// never calls math.Log. Zero probabilities become -Inf.
	logTransition [][]float64
	logEmission   [][]float64
	logInitial    []float64
}

// NewModel validates def and constructs an immutable Model from it.
// tolerance bounds the allowed deviation of each row sum from 1; values <= 0
// select DefaultTolerance. All tables are deep-copied, so the caller may
// reuse or mutate def afterwards.
//
// Returns ErrMalformedModel (wrapped with the offending dimension, row, or
// value) if the state or symbol lists contain duplicates or are empty, if
// any table dimension is inconsistent with N and M, if any probability lies
// outside [0,1], or if any row fails to sum to 1 within tolerance.
func NewModel(def ModelDef, tolerance float64) (*Model, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	n := len(def.States)
	m := len(def.Symbols)
	if n == 0 {
		return nil, fmt.Errorf("%w: no states", ErrMalformedModel)
	}
	if m == 0 {
		return nil, fmt.Errorf("%w: no symbols", ErrMalformedModel)
	}

	stateIdx, err := indexNames(def.States, "state")
	if err != nil {
		return nil, err
	}
	symbolIdx, err := indexNames(def.Symbols, "symbol")
	if err != nil {
		return nil, err
	}

	if err := checkMatrix("transition", def.Transition, n, n, tolerance); err != nil {
		return nil, err
	}
	if err := checkMatrix("emission", def.Emission, n, m, tolerance); err != nil {
		return nil, err
	}
	if err := checkRow("initial", def.Initial, n, tolerance); err != nil {
		return nil, err
	}

	mod := &Model{
		states:     append([]string(nil), def.States...),
		symbols:    append([]string(nil), def.Symbols...),
		stateIdx:   stateIdx,
		symbolIdx:  symbolIdx,
		transition: copyMatrix(def.Transition),
		emission:   copyMatrix(def.Emission),
		initial:    append([]float64(nil), def.Initial...),
	}
	mod.logTransition = logMatrix(mod.transition)
	mod.logEmission = logMatrix(mod.emission)
	mod.logInitial = logRow(mod.initial)
	return mod, nil
}

// StateCount returns N, the number of hidden states.
func (m *Model) StateCount() int { return len(m.states) }

// SymbolCount returns M, the number of observation symbols.
func (m *Model) SymbolCount() int { return len(m.symbols) }

// StateIndex resolves a state name to its index in the fixed ordering.
// Returns ErrUnknownState wrapped with the name on a miss.
func (m *Model) StateIndex(name string) (int, error) {
	i, ok := m.stateIdx[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	return i, nil
}

// SymbolIndex resolves a symbol name to its index in the fixed ordering.
// Returns ErrUnknownSymbol wrapped with the name on a miss.
func (m *Model) SymbolIndex(name string) (int, error) {
	k, ok := m.symbolIdx[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
	}
	return k, nil
}

// StateName returns the name of state i. Panics on an out-of-range index,
// matching slice semantics; indices come from the Model itself.
func (m *Model) StateName(i int) string { return m.states[i] }

// SymbolName returns the name of symbol k.
func (m *Model) SymbolName(k int) string { return m.symbols[k] }

// States returns a copy of the ordered state names.
func (m *Model) States() []string { return append([]string(nil), m.states...) }

// Symbols returns a copy of the ordered symbol names.
func (m *Model) Symbols() []string { return append([]string(nil), m.symbols...) }

// TransitionProb returns P(state j at t+1 | state i at t), linear scale.
func (m *Model) TransitionProb(i, j int) float64 { return m.transition[i][j] }

// EmissionProb returns P(symbol k | state i), linear scale.
func (m *Model) EmissionProb(i, k int) float64 { return m.emission[i][k] }

// InitialProb returns P(state i at t=0), linear scale.
func (m *Model) InitialProb(i int) float64 { return m.initial[i] }

// LogTransition returns ln TransitionProb(i, j); -Inf for zero.
func (m *Model) LogTransition(i, j int) float64 { return m.logTransition[i][j] }

// LogEmission returns ln EmissionProb(i, k); -Inf for zero.
func (m *Model) LogEmission(i, k int) float64 { return m.logEmission[i][k] }

// LogInitial returns ln InitialProb(i); -Inf for zero.
func (m *Model) LogInitial(i int) float64 { return m.logInitial[i] }

// Def reconstructs the raw tables of the model, e.g. for catalog storage.
// The returned slices are copies.
func (m *Model) Def() ModelDef {
	return ModelDef{
		States:     m.States(),
		Symbols:    m.Symbols(),
		Transition: copyMatrix(m.transition),
		Emission:   copyMatrix(m.emission),
		Initial:    append([]float64(nil), m.initial...),
	}
}

// indexNames builds the name→index map and rejects duplicates.
func indexNames(names []string, kind string) (map[string]int, error) {
	idx := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: empty %s name at index %d", ErrMalformedModel, kind, i)
		}
		if prev, ok := idx[name]; ok {
			return nil, fmt.Errorf("%w: duplicate %s name %q (indices %d and %d)", ErrMalformedModel, kind, name, prev, i)
		}
		idx[name] = i
	}
	return idx, nil
}

// checkMatrix validates an expected rows×cols stochastic matrix.
func checkMatrix(kind string, mat [][]float64, rows, cols int, tolerance float64) error {
	if len(mat) != rows {
		return fmt.Errorf("%w: %s matrix has %d rows, want %d", ErrMalformedModel, kind, len(mat), rows)
	}
	for i, row := range mat {
		if err := checkRowValues(kind, i, row, cols, tolerance); err != nil {
			return err
		}
	}
	return nil
}

// checkRow validates a single stochastic vector (the initial distribution).
func checkRow(kind string, row []float64, cols int, tolerance float64) error {
	return checkRowValues(kind, -1, row, cols, tolerance)
}

func checkRowValues(kind string, rowIdx int, row []float64, cols int, tolerance float64) error {
	where := kind
	if rowIdx >= 0 {
		where = fmt.Sprintf("%s row %d", kind, rowIdx)
	}
	if len(row) != cols {
		return fmt.Errorf("%w: %s has %d entries, want %d", ErrMalformedModel, where, len(row), cols)
	}
	sum := 0.0
	for k, p := range row {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: %s entry %d is %g, want [0,1]", ErrMalformedModel, where, k, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > tolerance {
		return fmt.Errorf("%w: %s sums to %g, want 1 ± %g", ErrMalformedModel, where, sum, tolerance)
	}
	return nil
}

func copyMatrix(mat [][]float64) [][]float64 {
	out := make([][]float64, len(mat))
	for i, row := range mat {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func logMatrix(mat [][]float64) [][]float64 {
	out := make([][]float64, len(mat))
	for i, row := range mat {
		out[i] = logRow(row)
	}
	return out
}

func logRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for k, p := range row {
		out[k] = math.Log(p) // Log(0) == -Inf, which is what the trellis wants.
	}
	return out
}
