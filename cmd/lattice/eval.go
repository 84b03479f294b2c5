// Eval command computes sequence probabilities with the forward or
// backward algorithm.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lattice/internal/batch"
	"github.com/mesh-intelligence/lattice/pkg/types"
)

var (
	flagEvalAlgorithm string
	flagEvalCheck     bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <model> <sequences.obs ...>",
	Short: "Compute the probability of observation sequences",
	Long: `Eval computes, for every observation sequence, the probability that the
model generated it. Results are reported per sequence, in input order, as a
natural-log probability and its linear-scale value; a sequence that fails
(unknown symbol, empty, too large) reports its error without aborting the
rest of the batch.

The model argument is a .hmm file path or the name of a catalog model.

Example:
  lattice eval coins flips.obs
  lattice eval phone.hmm sample1.obs sample2.obs --algorithm backward
  lattice eval coins flips.obs --check`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&flagEvalAlgorithm, "algorithm", "forward", "evaluation algorithm: forward or backward")
	evalCmd.Flags().BoolVar(&flagEvalCheck, "check", false, "run both algorithms and fail sequences where they disagree")
}

func runEval(cmd *cobra.Command, args []string) error {
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

	var run func([]types.ObservationSequence) []types.Outcome
	switch {
	case flagEvalCheck:
		run = func(s []types.ObservationSequence) []types.Outcome {
			return runner.CrossCheck(ctx, m, s)
		}
	case flagEvalAlgorithm == "forward":
		run = func(s []types.ObservationSequence) []types.Outcome {
			return runner.Evaluate(ctx, m, s)
		}
	case flagEvalAlgorithm == "backward":
		run = func(s []types.ObservationSequence) []types.Outcome {
			return runner.EvaluateBackward(ctx, m, s)
		}
	default:
		return fmt.Errorf("unknown algorithm %q (valid: forward, backward)", flagEvalAlgorithm)
	}

	return printOutcomes(runBatch(run, seqs))
}
