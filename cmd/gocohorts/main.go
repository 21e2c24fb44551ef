// Package main provides the gocohorts command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hammerlab/gocohorts/internal/cohort"
	"github.com/hammerlab/gocohorts/internal/effect"
	"github.com/hammerlab/gocohorts/internal/genelist"
	"github.com/hammerlab/gocohorts/internal/store"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagManifest string
	flagStore    string
	flagEffects  string
	flagVerbose  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "gocohorts",
		Short:   "Clinical cohort variant statistics",
		Long:    "gocohorts merges per-patient variant calls from multiple callers,\nderives mutation-burden features, and tests their association with\nclinical outcomes.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flagManifest, "manifest", "m", "", "Cohort manifest YAML file")
	pf.StringVar(&flagStore, "store", "", "DuckDB file for persisted merged variants")
	pf.StringVar(&flagEffects, "effects", "", "Precomputed effect table (TSV, optionally gzipped)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newCountCmd())
	root.AddCommand(newAssocCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newClearCmd())
	root.AddCommand(newConfigCmd())

	return root
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".gocohorts")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("GOCOHORTS")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()

	if flagStore == "" {
		flagStore = viper.GetString("store")
	}
	if flagEffects == "" {
		flagEffects = viper.GetString("effects")
	}
}

func newLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// buildCohort loads the manifest and wires the predictor, persistent
// store and logger from global flags.
func buildCohort() (*cohort.Cohort, func(), error) {
	if flagManifest == "" {
		return nil, nil, fmt.Errorf("--manifest is required")
	}

	m, err := cohort.LoadManifest(flagManifest)
	if err != nil {
		return nil, nil, err
	}
	c, err := m.Cohort()
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	c.SetLogger(logger)

	effectTable := flagEffects
	if effectTable == "" {
		effectTable = m.EffectTable
	}
	if effectTable != "" {
		pred, err := effect.NewTablePredictor(effectTable, m.Build)
		if err != nil {
			return nil, nil, fmt.Errorf("load effect table: %w", err)
		}
		c.SetPredictor(pred)
	}

	cleanup := func() { _ = logger.Sync() }

	if flagStore != "" {
		s, err := store.Open(flagStore)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		c.SetStore(s)
		cleanup = func() {
			_ = s.Close()
			_ = logger.Sync()
		}
	}

	return c, cleanup, nil
}

// loadGeneListFilter returns an effect filter for the manifest's gene
// list, or nil when no gene list is configured.
func loadGeneListFilter() (effect.Predicate, error) {
	if flagManifest == "" {
		return nil, nil
	}
	m, err := cohort.LoadManifest(flagManifest)
	if err != nil {
		return nil, err
	}
	if m.GeneList == "" {
		return nil, nil
	}
	gl, err := genelist.Load(m.GeneList)
	if err != nil {
		return nil, fmt.Errorf("load gene list: %w", err)
	}
	return gl.EffectFilter(), nil
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cached derived collections",
		Long:  "Drop all cached merged variants and effects, including rows in the\npersistent store, so the next command recomputes from the source files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := buildCohort()
			if err != nil {
				return err
			}
			defer cleanup()
			return c.ClearCaches()
		},
	}
}
