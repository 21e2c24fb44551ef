// Package genelist provides cancer gene list loading and effect filters
// built from it, for restricting mutation counts to genes of interest
// (e.g. oncogene-only mutation burden).
package genelist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hammerlab/gocohorts/internal/effect"
)

// Gene types used in OncoKB-style cancer gene lists.
const (
	GeneTypeOncogene = "ONCOGENE"
	GeneTypeTSG      = "TSG"
)

// Entry holds gene-level annotations from the list.
type Entry struct {
	HugoSymbol string
	GeneType   string // "ONCOGENE", "TSG", or "ONCOGENE,TSG"
}

// GeneList maps Hugo Symbol to Entry.
type GeneList map[string]*Entry

// Contains returns true if the gene is in the list.
func (g GeneList) Contains(gene string) bool {
	_, ok := g[gene]
	return ok
}

// EffectFilter returns a predicate keeping effects on listed genes.
func (g GeneList) EffectFilter() effect.Predicate {
	return func(fe effect.FilterableEffect) bool {
		return g.Contains(fe.Effect.GeneName)
	}
}

// EffectFilterByType returns a predicate keeping effects on listed genes
// whose gene type includes the given classification.
func (g GeneList) EffectFilterByType(geneType string) effect.Predicate {
	return func(fe effect.FilterableEffect) bool {
		entry, ok := g[fe.Effect.GeneName]
		if !ok {
			return false
		}
		for _, t := range strings.Split(entry.GeneType, ",") {
			if strings.TrimSpace(t) == geneType {
				return true
			}
		}
		return false
	}
}

// Load reads a cancer gene list TSV. The file must have columns
// "Hugo Symbol" and "Gene Type" in the header.
func Load(path string) (GeneList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene list: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// Read header to find column indices
	if !scanner.Scan() {
		return nil, fmt.Errorf("gene list: empty file")
	}
	header := strings.Split(scanner.Text(), "\t")

	hugoIdx := -1
	geneTypeIdx := -1
	for i, col := range header {
		switch col {
		case "Hugo Symbol":
			hugoIdx = i
		case "Gene Type":
			geneTypeIdx = i
		}
	}
	if hugoIdx < 0 {
		return nil, fmt.Errorf("gene list: missing 'Hugo Symbol' column")
	}
	if geneTypeIdx < 0 {
		return nil, fmt.Errorf("gene list: missing 'Gene Type' column")
	}

	gl := make(GeneList)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= hugoIdx || len(fields) <= geneTypeIdx {
			continue
		}
		hugo := strings.TrimSpace(fields[hugoIdx])
		geneType := strings.TrimSpace(fields[geneTypeIdx])
		if hugo == "" {
			continue
		}
		gl[hugo] = &Entry{
			HugoSymbol: hugo,
			GeneType:   geneType,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gene list: %w", err)
	}

	return gl, nil
}
