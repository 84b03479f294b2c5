package trellis

import (
	"fmt"

	"github.com/mesh-intelligence/lattice/pkg/types"
)

// prepare resolves obs against the model and enforces the trellis size
// ceiling. Every algorithm goes through here before allocating tables, so
// unknown symbols, empty sequences, and oversized work all fail early.
func prepare(m *types.Model, obs types.ObservationSequence, cfg types.Config) ([]int, error) {
	indices, err := m.IndexSequence(obs)
	if err != nil {
		return nil, err
	}
	if cfg.MaxCells > 0 {
		cells := m.StateCount() * len(indices)
		if cells > cfg.MaxCells {
			return nil, fmt.Errorf("%w: %d states × %d observations = %d cells, limit %d",
				types.ErrSequenceTooLarge, m.StateCount(), len(indices), cells, cfg.MaxCells)
		}
	}
	return indices, nil
}

// newTable allocates a T×N table in a single backing slice.
func newTable(t, n int) [][]float64 {
	backing := make([]float64, t*n)
	table := make([][]float64, t)
	for row := range table {
		table[row] = backing[row*n : (row+1)*n]
	}
	return table
}

// newIntTable allocates a T×N backpointer table.
func newIntTable(t, n int) [][]int {
	backing := make([]int, t*n)
	table := make([][]int, t)
	for row := range table {
		table[row] = backing[row*n : (row+1)*n]
	}
	return table
}
