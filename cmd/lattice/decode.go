// Decode command finds the most probable hidden-state path per sequence.
package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lattice/internal/batch"
	"github.com/mesh-intelligence/lattice/internal/trellis"
	"github.com/mesh-intelligence/lattice/pkg/types"
)

var flagDecodeVerify bool

var decodeCmd = &cobra.Command{
	Use:   "decode <model> <sequences.obs ...>",
	Short: "Find the most probable state path for observation sequences",
	Long: `Decode runs the Viterbi algorithm over every observation sequence and
reports, per sequence in input order, the most probable hidden-state path
and that path's joint log probability. Ties are broken deterministically
toward the lowest state index.

The model argument is a .hmm file path or the name of a catalog model.

Example:
  lattice decode coins flips.obs
  lattice decode phone.hmm sample.obs --verify`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().BoolVar(&flagDecodeVerify, "verify", false, "recompute each reported path's probability and fail on mismatch")
}

func runDecode(cmd *cobra.Command, args []string) error {
	m, err := loadModel(args[0])
	if err != nil {
		return err
	}
	seqs, err := loadSequences(args[1:])
	if err != nil {
		return err
	}

	runner := batch.NewRunner(engineCfg)
	ctx := cmd.Context()
	run := func(s []types.ObservationSequence) []types.Outcome {
		return runner.Decode(ctx, m, s)
	}

	outcomes := runBatch(run, seqs)
	if flagDecodeVerify {
		verifyPaths(m, seqs, outcomes)
	}
	return printOutcomes(outcomes)
}

// verifyPaths recomputes each decoded path's probability from the model
// tables and marks outcomes whose reported value does not match.
func verifyPaths(m *types.Model, seqs []types.ObservationSequence, outcomes []types.Outcome) {
	tol := engineCfg.Normalize().Tolerance
	for i := range outcomes {
		out := &outcomes[i]
		if out.Err != nil {
			continue
		}
		chain, err := trellis.PathLogProb(m, seqs[out.Index], out.Path)
		if err != nil {
			out.Err = fmt.Errorf("verify: %w", err)
			continue
		}
		same := chain == out.LogProb || math.Abs(chain-out.LogProb) <= tol
		if !same {
			out.Err = fmt.Errorf("verify: path evaluates to %v, reported %v", chain, out.LogProb)
		}
	}
}
