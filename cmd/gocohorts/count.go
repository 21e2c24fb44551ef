package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammerlab/gocohorts/internal/cohort"
	"github.com/hammerlab/gocohorts/internal/effect"
	"github.com/hammerlab/gocohorts/internal/output"
)

func newCountCmd() *cobra.Command {
	var (
		features   string
		outputFile string
		geneList   bool
	)

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Tabulate per-patient mutation counts",
		Long:  "Merge each patient's variant sources, derive the requested count\nfeatures and write a tab-delimited table with clinical columns.",
		Example: `  gocohorts count -m cohort.yaml
  gocohorts count -m cohort.yaml --features snv_count,missense_snv_count
  gocohorts count -m cohort.yaml --store cohort.duckdb -o counts.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(features, outputFile, geneList)
		},
	}

	cmd.Flags().StringVar(&features, "features", "snv_count", "Comma-separated feature names")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&geneList, "gene-list", false, "Restrict effect features to the manifest's gene list")

	return cmd
}

func runCount(featureNames, outputFile string, useGeneList bool) error {
	c, cleanup, err := buildCohort()
	if err != nil {
		return err
	}
	defer cleanup()

	var fs []cohort.Feature
	for _, name := range strings.Split(featureNames, ",") {
		f, err := cohort.FeatureByName(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		if useGeneList {
			filter, err := loadGeneListFilter()
			if err != nil {
				return err
			}
			if filter != nil {
				f = restrictFeature(f, filter)
			}
		}
		fs = append(fs, f)
	}

	_, table, err := c.AsDataFrame(cohort.List(fs...))
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	tw := output.NewTableWriter(out)
	if err := tw.Write(table); err != nil {
		return err
	}
	return tw.Flush()
}

// restrictFeature applies a gene-list filter to effect-derived features.
// Variant-level counts are unaffected.
func restrictFeature(f cohort.Feature, filter effect.Predicate) cohort.Feature {
	switch f.Name {
	case cohort.MissenseSNVCount.Name:
		return cohort.MissenseSNVCountWith(f.Name, filter)
	case cohort.NonsynonymousSNVCount.Name:
		return cohort.NonsynonymousSNVCountWith(f.Name, filter)
	default:
		return f
	}
}
