package types

import "fmt"

// ObservationSequence is an ordered, non-empty list of symbol names. The
// names are not required to come from any particular model; resolution
// against a Model happens at evaluation time and an unknown symbol fails
// that one evaluation.
type ObservationSequence []string

// IndexSequence resolves every symbol of obs to its dense index in the
// model's symbol ordering. It is the single entry point through which the
// trellis algorithms consume sequences, so unknown symbols and empty
// sequences are rejected here, before any table is allocated.
//
// Returns ErrEmptySequence for a zero-length sequence and ErrUnknownSymbol
// (wrapped with the symbol name and its position) on the first unresolvable
// symbol.
func (m *Model) IndexSequence(obs ObservationSequence) ([]int, error) {
	if len(obs) == 0 {
		return nil, ErrEmptySequence
	}
	indices := make([]int, len(obs))
	for t, name := range obs {
		k, ok := m.symbolIdx[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q at position %d", ErrUnknownSymbol, name, t)
		}
		indices[t] = k
	}
	return indices, nil
}
