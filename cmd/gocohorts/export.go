package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammerlab/gocohorts/internal/output"
	"github.com/hammerlab/gocohorts/internal/variant"
)

func newExportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export merged variants as per-patient VCFs",
		Long:  "Write each patient's merged variant collection as a VCF file with\nsource provenance in the INFO column.",
		Example: `  gocohorts export -m cohort.yaml --out-dir merged/
  gocohorts export -m cohort.yaml --store cohort.duckdb --out-dir merged/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(outDir)
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for the exported VCF files")

	return cmd
}

func runExport(outDir string) error {
	c, cleanup, err := buildCohort()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	collections, err := c.LoadVariants(nil)
	if err != nil {
		return err
	}

	for _, p := range c.Patients() {
		path := filepath.Join(outDir, p.ID+".merged.vcf")
		if err := writeMergedVCF(path, c.Build(), collections[p.ID]); err != nil {
			return fmt.Errorf("patient %s: %w", p.ID, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d variants)\n", path, collections[p.ID].Len())
	}
	return nil
}

func writeMergedVCF(path, build string, c *variant.Collection) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	vw := output.NewVCFWriter(f, build)
	if err := vw.WriteHeader(); err != nil {
		return err
	}
	if err := vw.Write(c); err != nil {
		return err
	}
	return vw.Flush()
}
