package types

import "math"

// Outcome is the result of evaluating one observation sequence. A batch
// produces exactly one Outcome per input sequence, in input order; a failed
// sequence carries its error here instead of aborting the batch.
type Outcome struct {
	// Index is the position of the sequence in the batch input.
	Index int `json:"index"`

	// LogProb is the natural-log probability computed by the algorithm:
	// P(sequence | model) for forward/backward, the best-path joint
	// probability for decoding. Only meaningful when Err is nil.
	LogProb float64 `json:"log_prob"`

	// Path is the most probable state sequence, one name per time step.
	// Nil for forward/backward outcomes.
	Path []string `json:"path,omitempty"`

	// Err is the per-sequence failure, if any.
	Err error `json:"-"`
}

// Prob returns the linear-scale probability, exponentiating at the
// reporting boundary. Underflows to 0 for very unlikely sequences; LogProb
// is the lossless value.
func (o Outcome) Prob() float64 {
	return math.Exp(o.LogProb)
}
