package trellis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/mesh-intelligence/lattice/pkg/types"
)

// Backward computes ln P(obs | m) with the backward algorithm:
//
//	β(T-1, i) = 1
//	β(t, i)   = Σⱼ a(i, j) · b(j, obs[t+1]) · β(t+1, j)
//	result    = Σᵢ π(i) · b(i, obs[0]) · β(0, i)
//
// in log scale. It computes the same quantity as Forward by an independent
// recurrence; the two serve as cross-checks of each other.
func Backward(m *types.Model, obs types.ObservationSequence, cfg types.Config) (float64, error) {
	indices, err := prepare(m, obs, cfg)
	if err != nil {
		return 0, err
	}
	beta := backwardTable(m, indices)

	n := m.StateCount()
	terms := make([]float64, n)
	for i := 0; i < n; i++ {
		terms[i] = m.LogInitial(i) + m.LogEmission(i, indices[0]) + beta[0][i]
	}
	return floats.LogSumExp(terms), nil
}

// backwardTable fills the T×N log-β table for an already-resolved sequence.
// β(T-1, ·) is 1 in linear scale, so the last row stays zero.
func backwardTable(m *types.Model, indices []int) [][]float64 {
	n := m.StateCount()
	bigT := len(indices)

	beta := newTable(bigT, n)
	terms := make([]float64, n)
	for t := bigT - 2; t >= 0; t-- {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				terms[j] = m.LogTransition(i, j) + m.LogEmission(j, indices[t+1]) + beta[t+1][j]
			}
			beta[t][i] = floats.LogSumExp(terms)
		}
	}
	return beta
}
