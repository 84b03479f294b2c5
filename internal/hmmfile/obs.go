package hmmfile

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mesh-intelligence/lattice/pkg/types"
)

// A .obs file carries a count line followed by, per sequence, a length line
// and a line of that many symbol names.

// ReadObs parses the .obs file at path.
func ReadObs(path string) ([]types.ObservationSequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seqs, err := ParseObs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seqs, nil
}

// ParseObs parses a .obs document from r.
func ParseObs(r io.Reader) ([]types.ObservationSequence, error) {
	lines := newLineReader(r)

	fields, err := lines.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) != 1 {
		return nil, fmt.Errorf("line %d: expected a sequence count, got %d tokens", lines.num, len(fields))
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 0 {
		return nil, fmt.Errorf("line %d: bad sequence count %q", lines.num, fields[0])
	}

	seqs := make([]types.ObservationSequence, 0, count)
	for s := 0; s < count; s++ {
		lenFields, err := lines.fields()
		if err != nil {
			return nil, err
		}
		if len(lenFields) != 1 {
			return nil, fmt.Errorf("line %d: expected a sequence length, got %d tokens", lines.num, len(lenFields))
		}
		length, err := strconv.Atoi(lenFields[0])
		if err != nil || length <= 0 {
			return nil, fmt.Errorf("line %d: bad sequence length %q", lines.num, lenFields[0])
		}

		symbols, err := lines.fields()
		if err != nil {
			return nil, err
		}
		if len(symbols) != length {
			return nil, fmt.Errorf("line %d: sequence %d declares %d symbols but has %d", lines.num, s, length, len(symbols))
		}
		seqs = append(seqs, types.ObservationSequence(symbols))
	}
	return seqs, nil
}
