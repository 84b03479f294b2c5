package trellis

import (
	"fmt"

	"github.com/mesh-intelligence/lattice/pkg/types"
)

// PathLogProb evaluates ln P(path, obs | m) for an explicit state path:
// the initial probability of the first state, then one transition and one
// emission per step. Decode's reported probability must match this value
// for the path it returns; the CLI uses that as a verification step.
//
// The path must name exactly one state per observation; a length mismatch
// or an unknown state or symbol is an error.
func PathLogProb(m *types.Model, obs types.ObservationSequence, path []string) (float64, error) {
	indices, err := m.IndexSequence(obs)
	if err != nil {
		return 0, err
	}
	if len(path) != len(indices) {
		return 0, fmt.Errorf("path has %d states, sequence has %d observations", len(path), len(indices))
	}

	states := make([]int, len(path))
	for t, name := range path {
		i, err := m.StateIndex(name)
		if err != nil {
			return 0, err
		}
		states[t] = i
	}

	logp := m.LogInitial(states[0]) + m.LogEmission(states[0], indices[0])
	for t := 1; t < len(states); t++ {
		logp += m.LogTransition(states[t-1], states[t]) + m.LogEmission(states[t], indices[t])
	}
	return logp, nil
}
