// Package trellis implements the dynamic-programming algorithms of the
// Lattice engine: forward and backward sequence evaluation and Viterbi
// decoding. Each call fills a fresh T×N table bottom-up in increasing time
// order; nothing recursive, nothing shared between calls except the
// immutable Model.
//
// All probabilities are accumulated and returned in natural-log scale
// (log-sum-exp for sums), so long sequences do not underflow. Callers
// exponentiate at the reporting boundary; see types.Outcome.Prob.
// See docs/ARCHITECTURE.md § Trellis Engine.
package trellis
