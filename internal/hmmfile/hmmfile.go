// Package hmmfile parses the .hmm model-definition and .obs
// observation-sequence text formats into the value objects the engine
// consumes. Parsing is pure: readers in, immutable data out, no shared
// state. Semantic validation (row sums, ranges) belongs to types.NewModel;
// this package reports structural problems with the line that caused them.
// See docs/ARCHITECTURE.md § File Formats.
package hmmfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/lattice/pkg/types"
)

// A .hmm file is line-oriented:
//
//	N M T
//	state names (N of them)
//	symbol names (M of them)
//	a:
//	N rows of the N×N transition matrix
//	b:
//	N rows of the N×M emission matrix
//	pi:
//	the length-N initial vector
//
// The header's T (nominal sequence length) is accepted and ignored; actual
// lengths come from the .obs file.

// ReadModel parses the .hmm file at path into a ModelDef.
func ReadModel(path string) (types.ModelDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ModelDef{}, err
	}
	defer f.Close()

	def, err := ParseModel(f)
	if err != nil {
		return types.ModelDef{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// ParseModel parses a .hmm document from r.
func ParseModel(r io.Reader) (types.ModelDef, error) {
	lines := newLineReader(r)

	header, err := lines.fields()
	if err != nil {
		return types.ModelDef{}, err
	}
	if len(header) < 2 {
		return types.ModelDef{}, fmt.Errorf("line %d: header needs at least N and M, got %q", lines.num, strings.Join(header, " "))
	}
	n, err := strconv.Atoi(header[0])
	if err != nil {
		return types.ModelDef{}, fmt.Errorf("line %d: bad state count %q", lines.num, header[0])
	}
	m, err := strconv.Atoi(header[1])
	if err != nil {
		return types.ModelDef{}, fmt.Errorf("line %d: bad symbol count %q", lines.num, header[1])
	}
	if n <= 0 || m <= 0 {
		return types.ModelDef{}, fmt.Errorf("line %d: N and M must be positive, got %d and %d", lines.num, n, m)
	}

	states, err := lines.names("state", n)
	if err != nil {
		return types.ModelDef{}, err
	}
	symbols, err := lines.names("symbol", m)
	if err != nil {
		return types.ModelDef{}, err
	}

	if err := lines.marker("a:"); err != nil {
		return types.ModelDef{}, err
	}
	transition, err := lines.matrix("transition", n, n)
	if err != nil {
		return types.ModelDef{}, err
	}

	if err := lines.marker("b:"); err != nil {
		return types.ModelDef{}, err
	}
	emission, err := lines.matrix("emission", n, m)
	if err != nil {
		return types.ModelDef{}, err
	}

	if err := lines.marker("pi:"); err != nil {
		return types.ModelDef{}, err
	}
	initial, err := lines.row("initial", n)
	if err != nil {
		return types.ModelDef{}, err
	}

	return types.ModelDef{
		States:     states,
		Symbols:    symbols,
		Transition: transition,
		Emission:   emission,
		Initial:    initial,
	}, nil
}

// lineReader walks a document line by line, tracking the line number for
// error messages and skipping blank lines.
type lineReader struct {
	scanner *bufio.Scanner
	num     int
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(r)}
}

// fields returns the whitespace-split tokens of the next non-blank line.
func (lr *lineReader) fields() ([]string, error) {
	for lr.scanner.Scan() {
		lr.num++
		fields := strings.Fields(lr.scanner.Text())
		if len(fields) > 0 {
			return fields, nil
		}
	}
	if err := lr.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("line %d: unexpected end of file", lr.num+1)
}

// names reads a line of exactly count names.
func (lr *lineReader) names(kind string, count int) ([]string, error) {
	fields, err := lr.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) != count {
		return nil, fmt.Errorf("line %d: expected %d %s names, got %d", lr.num, count, kind, len(fields))
	}
	return fields, nil
}

// marker consumes a section marker line such as "a:".
func (lr *lineReader) marker(want string) error {
	fields, err := lr.fields()
	if err != nil {
		return err
	}
	if len(fields) != 1 || fields[0] != want {
		return fmt.Errorf("line %d: expected %q marker, got %q", lr.num, want, strings.Join(fields, " "))
	}
	return nil
}

// row reads a line of exactly cols floating-point values.
func (lr *lineReader) row(kind string, cols int) ([]float64, error) {
	fields, err := lr.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) != cols {
		return nil, fmt.Errorf("line %d: expected %d %s values, got %d", lr.num, cols, kind, len(fields))
	}
	row := make([]float64, cols)
	for k, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad %s value %q", lr.num, kind, field)
		}
		row[k] = v
	}
	return row, nil
}

// matrix reads rows consecutive row lines.
func (lr *lineReader) matrix(kind string, rows, cols int) ([][]float64, error) {
	mat := make([][]float64, rows)
	for i := range mat {
		row, err := lr.row(kind, cols)
		if err != nil {
			return nil, err
		}
		mat[i] = row
	}
	return mat, nil
}
