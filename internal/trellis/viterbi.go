package trellis

import (
	"github.com/mesh-intelligence/lattice/pkg/types"
)

// Decode computes the single most probable hidden-state path for obs and
// returns its joint log probability ln max P(path, obs | m) together with
// the path itself, one state name per time step:
//
//	δ(0, i) = π(i) · b(i, obs[0])
//	δ(t, i) = b(i, obs[t]) · maxⱼ δ(t-1, j) · a(j, i)
//
// A backpointer table records the argmax predecessor of every (t, i); the
// path is reconstructed by walking the pointers back from the best final
// state and reversing.
//
// Ties are broken toward the lowest state index: predecessors are scanned
// in ascending index order and only a strictly greater δ displaces the
// incumbent. The same rule applies to the final-state argmax, so even a
// sequence whose first symbol is impossible in every state (all δ(0,·)
// zero) decodes to a well-defined path with log probability -Inf.
func Decode(m *types.Model, obs types.ObservationSequence, cfg types.Config) (float64, []string, error) {
	indices, err := prepare(m, obs, cfg)
	if err != nil {
		return 0, nil, err
	}

	n := m.StateCount()
	bigT := len(indices)

	delta := newTable(bigT, n)
	pred := newIntTable(bigT, n)

	for i := 0; i < n; i++ {
		delta[0][i] = m.LogInitial(i) + m.LogEmission(i, indices[0])
		pred[0][i] = -1
	}

	for t := 1; t < bigT; t++ {
		for i := 0; i < n; i++ {
			best := delta[t-1][0] + m.LogTransition(0, i)
			arg := 0
			for j := 1; j < n; j++ {
				if v := delta[t-1][j] + m.LogTransition(j, i); v > best {
					best = v
					arg = j
				}
			}
			delta[t][i] = m.LogEmission(i, indices[t]) + best
			pred[t][i] = arg
		}
	}

	final := 0
	for i := 1; i < n; i++ {
		if delta[bigT-1][i] > delta[bigT-1][final] {
			final = i
		}
	}

	path := make([]string, bigT)
	for t, i := bigT-1, final; t >= 0; t-- {
		path[t] = m.StateName(i)
		i = pred[t][i]
	}
	return delta[bigT-1][final], path, nil
}
