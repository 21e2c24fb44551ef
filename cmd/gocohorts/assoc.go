package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	gstat "gonum.org/v1/gonum/stat"

	"github.com/hammerlab/gocohorts/internal/cohort"
)

func newAssocCmd() *cobra.Command {
	var (
		feature   string
		label     string
		test      string
		bootstrap int
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "assoc",
		Short: "Test a feature's association with a clinical outcome",
		Long:  "Evaluate one count feature per patient and test its association with\na boolean clinical column using bootstrapped AUC, the Mann-Whitney U\ntest, or Fisher's exact test on a median split.",
		Example: `  gocohorts assoc -m cohort.yaml --feature snv_count --test auc
  gocohorts assoc -m cohort.yaml --feature missense_snv_count --test mannwhitney
  gocohorts assoc -m cohort.yaml --feature snv_count --test fisher --label deceased`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssoc(feature, label, test, bootstrap, seed)
		},
	}

	cmd.Flags().StringVar(&feature, "feature", "snv_count", "Feature name")
	cmd.Flags().StringVar(&label, "label", cohort.ColBenefit, "Boolean clinical column")
	cmd.Flags().StringVar(&test, "test", "mannwhitney", "Test: auc, mannwhitney, fisher")
	cmd.Flags().IntVar(&bootstrap, "bootstrap", 1000, "Bootstrap resamples for AUC")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for bootstrap reproducibility")

	return cmd
}

func runAssoc(featureName, label, test string, bootstrap int, seed int64) error {
	c, cleanup, err := buildCohort()
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := cohort.FeatureByName(featureName)
	if err != nil {
		return err
	}

	switch test {
	case "auc":
		aucs, err := c.BootstrapAUC(f, label, bootstrap, seed)
		if err != nil {
			return err
		}
		sorted := append([]float64{}, aucs...)
		sort.Float64s(sorted)
		fmt.Printf("feature\t%s\n", f.Name)
		fmt.Printf("label\t%s\n", label)
		fmt.Printf("resamples\t%d\n", len(aucs))
		fmt.Printf("mean_auc\t%.4f\n", gstat.Mean(aucs, nil))
		fmt.Printf("auc_2.5%%\t%.4f\n", gstat.Quantile(0.025, gstat.Empirical, sorted, nil))
		fmt.Printf("auc_97.5%%\t%.4f\n", gstat.Quantile(0.975, gstat.Empirical, sorted, nil))
	case "mannwhitney":
		res, err := c.MannWhitney(f, label)
		if err != nil {
			return err
		}
		fmt.Printf("feature\t%s\n", f.Name)
		fmt.Printf("label\t%s\n", label)
		fmt.Printf("U\t%.1f\n", res.U)
		fmt.Printf("p\t%.6g\n", res.P)
	case "fisher":
		res, err := c.FisherExact(f, label)
		if err != nil {
			return err
		}
		fmt.Printf("feature\t%s\n", f.Name)
		fmt.Printf("label\t%s\n", label)
		fmt.Printf("odds_ratio\t%.4g\n", res.OddsRatio)
		fmt.Printf("p\t%.6g\n", res.P)
	default:
		return fmt.Errorf("unknown test %q (want auc, mannwhitney or fisher)", test)
	}
	return nil
}
