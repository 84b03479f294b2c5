// Root command for the lattice CLI.
package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lattice/internal/paths"
	"github.com/mesh-intelligence/lattice/pkg/lattice"
	"github.com/mesh-intelligence/lattice/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errSystem marks failures of the machinery (catalog, filesystem) rather
// than of the user's input; main maps it to exitSysError.
var errSystem = errors.New("system error")

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// Values loaded from config.yaml by PersistentPreRunE so all subcommands
// can use them.
var (
	configDataDir string
	configBackend string
	engineCfg     types.Config
)

var rootCmd = &cobra.Command{
	Use:     "lattice",
	Short:   "Lattice evaluates observation sequences against Hidden Markov Models",
	Long: `Lattice is a Hidden Markov Model evaluation engine. It answers two
questions about a fixed, pre-trained model and an observation sequence:
how likely is the model to have produced the sequence (forward/backward),
and what is the most probable hidden state path (Viterbi).

Models come from .hmm files or from the local model catalog; observation
sequences come from .obs files. Models are never trained or updated.`,
	Version:       lattice.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configBackend = cfg.GetString(cfgKeyBackend)
		engineCfg = types.Config{
			Tolerance: cfg.GetFloat64(cfgKeyTolerance),
			MaxCells:  cfg.GetInt(cfgKeyMaxCells),
			Workers:   cfg.GetInt(cfgKeyWorkers),
		}
		return engineCfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.lattice-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(modelsCmd)
}

// resolveDataDir returns the data directory path following the precedence:
// --data-dir flag > config.yaml data_dir > LATTICE_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory following the
// precedence: --config-dir flag > LATTICE_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
