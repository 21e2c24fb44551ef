package cohort

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammerlab/gocohorts/internal/effect"
	"github.com/hammerlab/gocohorts/internal/merge"
	"github.com/hammerlab/gocohorts/internal/variant"
)

const testBuild = "GRCh37"

// Source file name formats, one per simulated variant caller.
const (
	fileFormat1 = "patient_format1_%s.vcf"
	fileFormat2 = "patient_format2_%s.vcf"
	fileFormat3 = "patient_format3_%s.vcf"
)

type templateVariant struct {
	chrom string
	pos   int64
	ref   string
	alt   string
	kind  string // predicted effect kind for the stub predictor
}

// template1 is shared by the first two source formats, so their variant
// sets overlap by position. Effect kinds give 2 missense among the first
// 3 variants and 4 among all 6.
var template1 = []templateVariant{
	{"1", 1000, "A", "T", effect.KindMissenseVariant},
	{"1", 1010, "G", "C", effect.KindMissenseVariant},
	{"1", 1020, "C", "A", effect.KindSpliceAcceptor},
	{"1", 1030, "G", "T", effect.KindMissenseVariant},
	{"1", 1040, "T", "A", effect.KindMissenseVariant},
	{"1", 1050, "G", "A", effect.KindSpliceAcceptor},
}

// template2 is disjoint from template1.
var template2 = []templateVariant{
	{"2", 2000, "C", "T", effect.KindMissenseVariant},
	{"2", 2010, "G", "A", effect.KindSynonymousVariant},
	{"2", 2020, "A", "C", effect.KindMissenseVariant},
	{"2", 2030, "T", "G", effect.KindMissenseVariant},
	{"2", 2040, "G", "C", effect.KindSpliceAcceptor},
}

// writeVCF writes the first n template variants as a minimal VCF.
func writeVCF(t *testing.T, dir, name string, template []templateVariant, n int) {
	t.Helper()
	content := "##fileformat=VCFv4.0\n##reference=GRCh37\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"
	for i := 0; i < n; i++ {
		v := template[i]
		content += fmt.Sprintf("%s\t%d\t.\t%s\t%s\t44.0\tPASS\tDP=50\n", v.chrom, v.pos, v.ref, v.alt)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// templatePredictor predicts one effect per transcript from the template
// tables, standing in for the external effect predictor.
func templatePredictor(t *testing.T) effect.Predictor {
	t.Helper()
	effects := make(map[variant.Variant][]effect.Effect)
	for _, template := range [][]templateVariant{template1, template2} {
		for i, tv := range template {
			v, err := variant.New(tv.chrom, tv.pos, tv.ref, tv.alt, testBuild)
			require.NoError(t, err)
			effects[v] = []effect.Effect{{
				Variant:      v,
				TranscriptID: fmt.Sprintf("ENST%08d", i+1),
				GeneName:     fmt.Sprintf("GENE%d", i+1),
				Kind:         tv.kind,
				Impact:       effect.GetImpact(tv.kind),
			}}
		}
	}
	return effect.PredictorFunc(func(v variant.Variant) ([]effect.Effect, error) {
		return effects[v], nil
	})
}

// makeCohort generates per-patient VCFs for the requested file formats
// and builds a cohort over them, mirroring the reference scenario:
// formats 1 and 2 share template1 with per-patient counts [3,3,6] and
// [4,1,5]; format 3 uses template2 with counts [5,2,3].
func makeCohort(t *testing.T, fileFormats []string, mode merge.Mode) *Cohort {
	t.Helper()
	dir := t.TempDir()

	patientIDs := []string{"1", "4", "5"}
	counts := map[string][]int{
		fileFormat1: {3, 3, 6},
		fileFormat2: {4, 1, 5},
		fileFormat3: {5, 2, 3},
	}
	templates := map[string][]templateVariant{
		fileFormat1: template1,
		fileFormat2: template1,
		fileFormat3: template2,
	}

	// Generate all three source sets; patients reference the requested
	// subset.
	for format, perPatient := range counts {
		for i, id := range patientIDs {
			writeVCF(t, dir, fmt.Sprintf(format, id), templates[format], perPatient[i])
		}
	}

	patients := make([]*Patient, len(patientIDs))
	for i, id := range patientIDs {
		var sources []string
		for _, format := range fileFormats {
			sources = append(sources, filepath.Join(dir, fmt.Sprintf(format, id)))
		}
		patients[i] = &Patient{ID: id, SNVSources: sources}
	}

	c, err := New(patients, mode, testBuild)
	require.NoError(t, err)
	c.SetPredictor(templatePredictor(t))
	t.Cleanup(func() { require.NoError(t, c.ClearCaches()) })
	return c
}

func countColumn(t *testing.T, c *Cohort, f Feature) []float64 {
	t.Helper()
	col, table, err := c.AsDataFrame(Single(f))
	require.NoError(t, err)
	values, err := table.FloatColumn(col)
	require.NoError(t, err)
	return values
}

func TestSNVCounts(t *testing.T) {
	c := makeCohort(t, []string{fileFormat1}, merge.Union)

	// The SNV count is exactly what was generated.
	assert.Equal(t, []float64{3, 3, 6}, countColumn(t, c, SNVCount))
	assert.Equal(t, []float64{2, 2, 4}, countColumn(t, c, MissenseSNVCount))
}

func TestMergeTwo(t *testing.T) {
	// Formats 1 and 2 share a template: union sizes are the pairwise
	// maxima [4,3,6], intersections the minima [3,1,5].
	c := makeCohort(t, []string{fileFormat1, fileFormat2}, merge.Union)
	assert.Equal(t, []float64{4, 3, 6}, countColumn(t, c, SNVCount))

	c = makeCohort(t, []string{fileFormat1, fileFormat2}, merge.Intersection)
	assert.Equal(t, []float64{3, 1, 5}, countColumn(t, c, SNVCount))

	// Every retained variant carries one metadata entry per source.
	collections, err := c.LoadVariants(nil)
	require.NoError(t, err)
	for id, vc := range collections {
		for _, v := range vc.Variants() {
			assert.Equal(t, 2, vc.Metadata().SourceCount(v),
				"patient %s variant %s", id, v.ID())
		}
	}
}

func TestMergeThree(t *testing.T) {
	// Adding the disjoint template2 source: [4,3,6] + [5,2,3] = [9,5,9].
	c := makeCohort(t, []string{fileFormat1, fileFormat2, fileFormat3}, merge.Union)
	assert.Equal(t, []float64{9, 5, 9}, countColumn(t, c, SNVCount))

	// No variant appears in all three sources.
	c = makeCohort(t, []string{fileFormat1, fileFormat2, fileFormat3}, merge.Intersection)
	assert.Equal(t, []float64{0, 0, 0}, countColumn(t, c, SNVCount))
}

func TestFilterVariants(t *testing.T) {
	c := makeCohort(t, []string{fileFormat1, fileFormat2}, merge.Union)

	collections, err := c.LoadVariants(func(fv variant.FilterableVariant) bool {
		return fv.Variant.Ref == "G"
	})
	require.NoError(t, err)

	gVariants := map[string]int{"1": 2, "4": 1, "5": 3}
	for id, want := range gVariants {
		assert.Equal(t, want, collections[id].Len(), "patient %s", id)
	}
}

func TestFilterEffects(t *testing.T) {
	c := makeCohort(t, []string{fileFormat1}, merge.Union)

	missense, err := c.LoadEffects(true, func(fe effect.FilterableEffect) bool {
		return fe.Effect.IsMissense()
	})
	require.NoError(t, err)
	missenseCounts := map[string]int{"1": 2, "4": 2, "5": 4}
	for id, want := range missenseCounts {
		assert.Equal(t, want, missense[id].Len(), "patient %s", id)
	}

	splice, err := c.LoadEffects(true, func(fe effect.FilterableEffect) bool {
		return fe.Effect.IsSpliceSite()
	})
	require.NoError(t, err)
	spliceCounts := map[string]int{"1": 1, "4": 1, "5": 2}
	for id, want := range spliceCounts {
		assert.Equal(t, want, splice[id].Len(), "patient %s", id)
	}
}

func TestMultipleEffects_NotDoubleCounted(t *testing.T) {
	c := makeCohort(t, []string{fileFormat1}, merge.Union)

	// Every patient's variants map to one stop-loss effect on each of
	// two overlapping transcripts, as MAST2 chr1 g.46501738G>C does.
	c.SetPredictor(effect.PredictorFunc(func(v variant.Variant) ([]effect.Effect, error) {
		return []effect.Effect{
			{Variant: v, TranscriptID: "ENST00000361297", GeneName: "MAST2", Kind: effect.KindStopLost, Impact: effect.ImpactHigh},
			{Variant: v, TranscriptID: "ENST00000372009", GeneName: "MAST2", Kind: effect.KindStopLost, Impact: effect.ImpactHigh},
		}, nil
	}))

	nonsyn := countColumn(t, c, NonsynonymousSNVCount)
	snv := countColumn(t, c, SNVCount)
	require.Len(t, nonsyn, 3)
	for i := range nonsyn {
		assert.Equal(t, snv[i], nonsyn[i],
			"each variant must be counted once despite two matching effects")
	}
}

func TestClearCaches_ForcesRecomputation(t *testing.T) {
	dir := t.TempDir()
	writeVCF(t, dir, "p1.vcf", template1, 3)

	c, err := New([]*Patient{{ID: "p1", SNVSources: []string{filepath.Join(dir, "p1.vcf")}}},
		merge.Union, testBuild)
	require.NoError(t, err)
	c.SetPredictor(templatePredictor(t))

	assert.Equal(t, []float64{3}, countColumn(t, c, SNVCount))

	// Rewrite the source with more variants: the cached collection keeps
	// serving until caches are cleared.
	writeVCF(t, dir, "p1.vcf", template1, 5)
	assert.Equal(t, []float64{3}, countColumn(t, c, SNVCount))

	require.NoError(t, c.ClearCaches())
	assert.Equal(t, []float64{5}, countColumn(t, c, SNVCount))

	// Idempotent.
	require.NoError(t, c.ClearCaches())
	require.NoError(t, c.ClearCaches())
	assert.Equal(t, []float64{5}, countColumn(t, c, SNVCount))
}

func TestLoadVariants_MissingSource(t *testing.T) {
	c, err := New([]*Patient{{ID: "p1", SNVSources: []string{"/nonexistent/p1.vcf"}}},
		merge.Union, testBuild)
	require.NoError(t, err)

	_, err = c.LoadVariants(nil)
	var missing *merge.MissingSourceError
	require.True(t, errors.As(err, &missing), "got %v", err)
}

func TestLoadVariants_NoDeclaredSources(t *testing.T) {
	c, err := New([]*Patient{{ID: "p1"}}, merge.Union, testBuild)
	require.NoError(t, err)

	_, err = c.LoadVariants(nil)
	var missing *merge.MissingSourceError
	require.True(t, errors.As(err, &missing))
}

func TestLoadVariants_InvalidVariant(t *testing.T) {
	dir := t.TempDir()
	content := "##fileformat=VCFv4.0\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\t100\t.\tZ\tT\t.\tPASS\t.\n"
	path := filepath.Join(dir, "p1.vcf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := New([]*Patient{{ID: "p1", SNVSources: []string{path}}}, merge.Union, testBuild)
	require.NoError(t, err)

	_, err = c.LoadVariants(nil)
	var invalid *variant.InvalidVariantError
	require.True(t, errors.As(err, &invalid), "got %v", err)
}

func TestLoadEffects_NoPredictor(t *testing.T) {
	c, err := New([]*Patient{{ID: "p1"}}, merge.Union, testBuild)
	require.NoError(t, err)

	_, err = c.LoadEffects(false, nil)
	var cfg *merge.ConfigurationError
	require.True(t, errors.As(err, &cfg))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, "outer-join", testBuild)
	var cfg *merge.ConfigurationError
	require.True(t, errors.As(err, &cfg))

	_, err = New(nil, merge.Union, "")
	require.True(t, errors.As(err, &cfg))

	_, err = New([]*Patient{{ID: "a"}, {ID: "a"}}, merge.Union, testBuild)
	require.True(t, errors.As(err, &cfg))
}
