package trellis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/mesh-intelligence/lattice/pkg/types"
)

// Forward computes ln P(obs | m) with the forward algorithm:
//
//	α(0, i) = π(i) · b(i, obs[0])
//	α(t, i) = b(i, obs[t]) · Σⱼ α(t-1, j) · a(j, i)
//	result  = Σᵢ α(T-1, i)
//
// carried out entirely in log scale. O(N²T) time, O(NT) space: the full
// table is filled (not just a rolling pair of rows) so state-occupancy
// extensions can be layered on without reworking the recurrence.
func Forward(m *types.Model, obs types.ObservationSequence, cfg types.Config) (float64, error) {
	indices, err := prepare(m, obs, cfg)
	if err != nil {
		return 0, err
	}
	alpha := forwardTable(m, indices)
	return floats.LogSumExp(alpha[len(alpha)-1]), nil
}

// forwardTable fills the T×N log-α table for an already-resolved sequence.
func forwardTable(m *types.Model, indices []int) [][]float64 {
	n := m.StateCount()
	bigT := len(indices)

	alpha := newTable(bigT, n)
	for i := 0; i < n; i++ {
		alpha[0][i] = m.LogInitial(i) + m.LogEmission(i, indices[0])
	}

	terms := make([]float64, n)
	for t := 1; t < bigT; t++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				terms[j] = alpha[t-1][j] + m.LogTransition(j, i)
			}
			alpha[t][i] = m.LogEmission(i, indices[t]) + floats.LogSumExp(terms)
		}
	}
	return alpha
}
