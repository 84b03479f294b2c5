// Package batch applies the trellis algorithms across collections of
// observation sequences. Every run produces exactly one outcome per input
// sequence, in input order; a sequence's failure is recorded in its own
// outcome and never aborts the batch.
//
// Because the Model is immutable and each trellis is local to one call,
// sequences are independent and are fanned out across a bounded worker
// pool. See docs/ARCHITECTURE.md § Batch Runner.
package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/lattice/internal/trellis"
	"github.com/mesh-intelligence/lattice/pkg/types"
)

// ErrCrossCheck reports that the forward and backward algorithms disagreed
// on a sequence beyond the configured tolerance. With correct tables this
// cannot happen; it exists so CrossCheck can surface numeric trouble as a
// per-sequence outcome instead of a silent wrong answer.
var ErrCrossCheck = errors.New("forward/backward cross-check failed")

// Runner evaluates batches against a single model configuration.
type Runner struct {
	cfg types.Config
}

// NewRunner returns a Runner using cfg (normalized; zero value is fine).
func NewRunner(cfg types.Config) *Runner {
	return &Runner{cfg: cfg.Normalize()}
}

// Evaluate runs the forward algorithm over every sequence.
// Outcome.LogProb is ln P(sequence | model).
func (r *Runner) Evaluate(ctx context.Context, m *types.Model, seqs []types.ObservationSequence) []types.Outcome {
	return r.run(ctx, seqs, func(obs types.ObservationSequence) (float64, []string, error) {
		logp, err := trellis.Forward(m, obs, r.cfg)
		return logp, nil, err
	})
}

// EvaluateBackward runs the backward algorithm over every sequence.
func (r *Runner) EvaluateBackward(ctx context.Context, m *types.Model, seqs []types.ObservationSequence) []types.Outcome {
	return r.run(ctx, seqs, func(obs types.ObservationSequence) (float64, []string, error) {
		logp, err := trellis.Backward(m, obs, r.cfg)
		return logp, nil, err
	})
}

// CrossCheck runs forward and backward over every sequence and fails a
// sequence with ErrCrossCheck when the two log probabilities differ by more
// than the configured tolerance. The forward value is reported.
func (r *Runner) CrossCheck(ctx context.Context, m *types.Model, seqs []types.ObservationSequence) []types.Outcome {
	return r.run(ctx, seqs, func(obs types.ObservationSequence) (float64, []string, error) {
		f, err := trellis.Forward(m, obs, r.cfg)
		if err != nil {
			return 0, nil, err
		}
		b, err := trellis.Backward(m, obs, r.cfg)
		if err != nil {
			return 0, nil, err
		}
		if math.Abs(f-b) > r.cfg.Tolerance {
			return 0, nil, fmt.Errorf("%w: forward %v, backward %v", ErrCrossCheck, f, b)
		}
		return f, nil, nil
	})
}

// Decode runs the Viterbi decoder over every sequence. Outcome.Path holds
// the most probable state path and Outcome.LogProb its joint probability.
func (r *Runner) Decode(ctx context.Context, m *types.Model, seqs []types.ObservationSequence) []types.Outcome {
	return r.run(ctx, seqs, func(obs types.ObservationSequence) (float64, []string, error) {
		return trellis.Decode(m, obs, r.cfg)
	})
}

// run fans seqs out across the worker pool and collects outcomes by index.
// The group error is always nil: per-sequence failures are isolated in
// their outcomes, and cancellation marks unstarted sequences with the
// context error.
func (r *Runner) run(ctx context.Context, seqs []types.ObservationSequence, eval func(types.ObservationSequence) (float64, []string, error)) []types.Outcome {
	outcomes := make([]types.Outcome, len(seqs))

	g := new(errgroup.Group)
	g.SetLimit(r.workers())
	for i, obs := range seqs {
		i, obs := i, obs
		g.Go(func() error {
			out := types.Outcome{Index: i}
			if err := ctx.Err(); err != nil {
				out.Err = err
			} else {
				out.LogProb, out.Path, out.Err = eval(obs)
			}
			outcomes[i] = out
			return nil
		})
	}
	g.Wait()
	return outcomes
}

func (r *Runner) workers() int {
	if r.cfg.Workers > 0 {
		return r.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}
