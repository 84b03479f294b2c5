// Models commands manage the named-model catalog.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lattice/internal/hmmfile"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage the model catalog",
	Long: `Models manages the local catalog of named model definitions. Imported
models are validated once and can then be referenced by name in eval and
decode instead of a .hmm file path. The catalog stores definitions only;
evaluation results are never persisted.`,
}

var modelsImportCmd = &cobra.Command{
	Use:   "import <name> <model.hmm>",
	Short: "Validate a .hmm file and store it under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]

		def, err := hmmfile.ReadModel(path)
		if err != nil {
			return err
		}

		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		defer catalog.Close()

		record, err := catalog.SaveModel(name, def)
		if err != nil {
			return err
		}
		fmt.Printf("Imported model %q (%s)\n", record.Name, record.ModelID)
		return nil
	},
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		defer catalog.Close()

		records, err := catalog.ListModels()
		if err != nil {
			return err
		}

		if flagJSON {
			type item struct {
				ModelID string `json:"model_id"`
				Name    string `json:"name"`
				States  int    `json:"states"`
				Symbols int    `json:"symbols"`
				Created string `json:"created_at"`
			}
			items := make([]item, len(records))
			for i, r := range records {
				items[i] = item{
					ModelID: r.ModelID,
					Name:    r.Name,
					States:  len(r.Def.States),
					Symbols: len(r.Def.Symbols),
					Created: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				}
			}
			data, err := json.MarshalIndent(items, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(records) == 0 {
			fmt.Println("No models in the catalog.")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%-20s %2d states  %2d symbols  %s\n",
				r.Name, len(r.Def.States), len(r.Def.Symbols),
				r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var modelsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a catalog model's tables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		defer catalog.Close()

		record, err := catalog.GetModel(args[0])
		if err != nil {
			return err
		}

		if flagJSON {
			data, err := json.MarshalIndent(record.Def, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		def := record.Def
		fmt.Printf("model %q (%s)\n", record.Name, record.ModelID)
		fmt.Printf("states:  %s\n", strings.Join(def.States, " "))
		fmt.Printf("symbols: %s\n", strings.Join(def.Symbols, " "))
		fmt.Println("transition:")
		printMatrix(def.Transition)
		fmt.Println("emission:")
		printMatrix(def.Emission)
		fmt.Println("initial:")
		printMatrix([][]float64{def.Initial})
		return nil
	},
}

var modelsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a model from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		defer catalog.Close()

		if err := catalog.DeleteModel(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted model %q\n", args[0])
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsImportCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsShowCmd)
	modelsCmd.AddCommand(modelsDeleteCmd)
}

func printMatrix(mat [][]float64) {
	for _, row := range mat {
		parts := make([]string, len(row))
		for k, v := range row {
			parts[k] = fmt.Sprintf("%g", v)
		}
		fmt.Printf("  %s\n", strings.Join(parts, " "))
	}
}
