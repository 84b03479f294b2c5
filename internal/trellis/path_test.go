package trellis

import (
	"errors"
	"math"
	"testing"

	"github.com/mesh-intelligence/lattice/pkg/types"
)

func TestPathLogProb(t *testing.T) {
	m := twoStateModel(t)

	t.Run("hand-computed chain", func(t *testing.T) {
		// π(S0)·b(S0,A)·a(S0,S1)·b(S1,B) = 0.6·0.9·0.3·0.8
		logp, err := PathLogProb(m, types.ObservationSequence{"A", "B"}, []string{"S0", "S1"})
		if err != nil {
			t.Fatal(err)
		}
		want := math.Log(0.6 * 0.9 * 0.3 * 0.8)
		if math.Abs(logp-want) > 1e-12 {
			t.Fatalf("expected %.15f, got %.15f", want, logp)
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := PathLogProb(m, types.ObservationSequence{"A", "B"}, []string{"S0"})
		if err == nil {
			t.Fatal("expected an error for mismatched lengths")
		}
	})

	t.Run("unknown state", func(t *testing.T) {
		_, err := PathLogProb(m, types.ObservationSequence{"A"}, []string{"S7"})
		if !errors.Is(err, types.ErrUnknownState) {
			t.Fatalf("expected ErrUnknownState, got %v", err)
		}
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := PathLogProb(m, types.ObservationSequence{"Z"}, []string{"S0"})
		if !errors.Is(err, types.ErrUnknownSymbol) {
			t.Fatalf("expected ErrUnknownSymbol, got %v", err)
		}
	})
}
