// Shared helpers for lattice CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/mesh-intelligence/lattice/internal/hmmfile"
	"github.com/mesh-intelligence/lattice/internal/sqlite"
	"github.com/mesh-intelligence/lattice/pkg/types"
)

// progressThreshold is the batch size above which text mode shows a
// progress bar.
const progressThreshold = 64

// loadModel resolves a model argument. An argument that ends in .hmm or
// names an existing file is parsed as a model file; anything else is looked
// up in the catalog by name.
func loadModel(arg string) (*types.Model, error) {
	def, err := loadModelDef(arg)
	if err != nil {
		return nil, err
	}
	m, err := types.NewModel(def, engineCfg.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", arg, err)
	}
	return m, nil
}

func loadModelDef(arg string) (types.ModelDef, error) {
	if strings.HasSuffix(arg, ".hmm") || fileExists(arg) {
		return hmmfile.ReadModel(arg)
	}

	catalog, err := openCatalog()
	if err != nil {
		return types.ModelDef{}, err
	}
	defer catalog.Close()

	record, err := catalog.GetModel(arg)
	if err != nil {
		return types.ModelDef{}, err
	}
	return record.Def, nil
}

// loadSequences reads every .obs argument and concatenates the sequences in
// argument order.
func loadSequences(paths []string) ([]types.ObservationSequence, error) {
	var seqs []types.ObservationSequence
	for _, path := range paths {
		fileSeqs, err := hmmfile.ReadObs(path)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, fileSeqs...)
	}
	return seqs, nil
}

// openCatalog resolves the data directory and opens the model catalog.
// The caller must defer catalog.Close(). Failures here are machinery, not
// user input, so they carry errSystem.
func openCatalog() (*sqlite.Catalog, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("%w: resolve data dir: %v", errSystem, err)
	}

	cfg := types.CatalogConfig{
		Backend: configBackend,
		DataDir: dataDir,
	}

	catalog := sqlite.NewCatalog()
	if err := catalog.Open(cfg); err != nil {
		return nil, fmt.Errorf("%w: open catalog: %v", errSystem, err)
	}
	return catalog, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// runBatch applies run over seqs, chunked so a progress bar can advance in
// text mode for large batches. Outcome indices are rebased to the full
// input ordering.
func runBatch(run func([]types.ObservationSequence) []types.Outcome, seqs []types.ObservationSequence) []types.Outcome {
	if flagJSON || len(seqs) <= progressThreshold {
		return run(seqs)
	}

	bar := progressbar.Default(int64(len(seqs)), "evaluating")
	outcomes := make([]types.Outcome, 0, len(seqs))
	for start := 0; start < len(seqs); start += progressThreshold {
		end := min(start+progressThreshold, len(seqs))
		chunk := run(seqs[start:end])
		for i := range chunk {
			chunk[i].Index += start
		}
		outcomes = append(outcomes, chunk...)
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()
	return outcomes
}

// outcomeJSON is the JSON presentation of an outcome.
type outcomeJSON struct {
	Index   int      `json:"index"`
	LogProb *float64 `json:"log_prob,omitempty"`
	Prob    *float64 `json:"prob,omitempty"`
	Path    []string `json:"path,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// printOutcomes writes one line (or one JSON element) per outcome and
// returns a summary error if any sequence failed.
func printOutcomes(outcomes []types.Outcome) error {
	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
		}
	}

	if flagJSON {
		items := make([]outcomeJSON, len(outcomes))
		for i, out := range outcomes {
			item := outcomeJSON{Index: out.Index, Path: out.Path}
			if out.Err != nil {
				item.Error = out.Err.Error()
			} else {
				logp, prob := out.LogProb, out.Prob()
				item.LogProb, item.Prob = &logp, &prob
			}
			items[i] = item
		}
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		for _, out := range outcomes {
			if out.Err != nil {
				fmt.Printf("seq %d: error: %v\n", out.Index, out.Err)
				continue
			}
			if out.Path != nil {
				fmt.Printf("seq %d: log-prob %.9f (prob %.9g) path: %s\n",
					out.Index, out.LogProb, out.Prob(), strings.Join(out.Path, " "))
			} else {
				fmt.Printf("seq %d: log-prob %.9f (prob %.9g)\n",
					out.Index, out.LogProb, out.Prob())
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sequences failed", failed, len(outcomes))
	}
	return nil
}
