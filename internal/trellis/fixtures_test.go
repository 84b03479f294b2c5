package trellis

import (
	"math/rand"
	"testing"

	"github.com/mesh-intelligence/lattice/pkg/types"
)

// twoStateModel is the hand-computed regression fixture:
// transition [[0.7 0.3] [0.4 0.6]], emission [[0.9 0.1] [0.2 0.8]],
// initial [0.6 0.4]. For the sequence [A A]:
//
//	α(0) = [0.54 0.08]
//	α(1) = [0.9·(0.54·0.7+0.08·0.4) 0.2·(0.54·0.3+0.08·0.6)] = [0.369 0.042]
//	P    = 0.411
//	δ(1) = [0.9·0.378 0.2·0.162] = [0.3402 0.0324], best path [S0 S0]
func twoStateModel(t *testing.T) *types.Model {
	t.Helper()
	m, err := types.NewModel(types.ModelDef{
		States:     []string{"S0", "S1"},
		Symbols:    []string{"A", "B"},
		Transition: [][]float64{{0.7, 0.3}, {0.4, 0.6}},
		Emission:   [][]float64{{0.9, 0.1}, {0.2, 0.8}},
		Initial:    []float64{0.6, 0.4},
	}, 0)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// randomModel builds a row-normalized model from a fixed seed so tests are
// reproducible run to run.
func randomModel(t *testing.T, seed int64, n, m int) *types.Model {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	states := make([]string, n)
	for i := range states {
		states[i] = string(rune('P' + i))
	}
	symbols := make([]string, m)
	for k := range symbols {
		symbols[k] = string(rune('a' + k))
	}

	mod, err := types.NewModel(types.ModelDef{
		States:     states,
		Symbols:    symbols,
		Transition: randomStochastic(rng, n, n),
		Emission:   randomStochastic(rng, n, m),
		Initial:    randomStochastic(rng, 1, n)[0],
	}, 0)
	if err != nil {
		t.Fatal(err)
	}
	return mod
}

// randomStochastic generates a rows×cols matrix whose rows sum to 1 and
// whose entries are bounded away from zero.
func randomStochastic(rng *rand.Rand, rows, cols int) [][]float64 {
	mat := make([][]float64, rows)
	for i := range mat {
		row := make([]float64, cols)
		sum := 0.0
		for k := range row {
			row[k] = 0.05 + rng.Float64()
			sum += row[k]
		}
		for k := range row {
			row[k] /= sum
		}
		mat[i] = row
	}
	return mat
}

// randomSequence draws length symbols from the model's symbol set.
func randomSequence(rng *rand.Rand, m *types.Model, length int) types.ObservationSequence {
	obs := make(types.ObservationSequence, length)
	for t := range obs {
		obs[t] = m.SymbolName(rng.Intn(m.SymbolCount()))
	}
	return obs
}
