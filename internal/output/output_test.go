package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammerlab/gocohorts/internal/cohort"
	"github.com/hammerlab/gocohorts/internal/variant"
)

func TestTableWriter(t *testing.T) {
	table := &cohort.Table{
		Columns: []string{"patient_id", "benefit", "snv_count"},
		Rows: [][]string{
			{"1", "true", "3"},
			{"4", "false", "6"},
		},
	}

	var buf strings.Builder
	tw := NewTableWriter(&buf)
	require.NoError(t, tw.Write(table))
	require.NoError(t, tw.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "patient_id\tbenefit\tsnv_count", lines[0])
	assert.Equal(t, "1\ttrue\t3", lines[1])
	assert.Equal(t, "4\tfalse\t6", lines[2])
}

func TestVCFWriter(t *testing.T) {
	c := variant.NewCollection()
	v1, err := variant.New("1", 1000, "A", "T", "GRCh37")
	require.NoError(t, err)
	v2, err := variant.New("2", 500, "G", "C", "GRCh37")
	require.NoError(t, err)

	c.Add(v1, variant.SourceRecord{Source: "/data/p1_mutect.vcf"})
	c.Add(v1, variant.SourceRecord{Source: "/data/p1_strelka.vcf"})
	c.Add(v2, variant.SourceRecord{Source: "/data/p1_mutect.vcf"})

	var buf strings.Builder
	vw := NewVCFWriter(&buf, "GRCh37")
	require.NoError(t, vw.WriteHeader())
	require.NoError(t, vw.Write(c))
	require.NoError(t, vw.Flush())

	out := buf.String()
	assert.Contains(t, out, "##reference=GRCh37")
	assert.Contains(t, out, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO")

	var records []string
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, "#") {
			records = append(records, line)
		}
	}
	require.Len(t, records, 2)

	// Sorted by position, source basenames in the INFO column.
	assert.Equal(t, "1\t1000\t1_1000_A/T\tA\tT\t.\t.\tNSRC=2;SRC=p1_mutect.vcf,p1_strelka.vcf", records[0])
	assert.Equal(t, "2\t500\t2_500_G/C\tG\tC\t.\t.\tNSRC=1;SRC=p1_mutect.vcf", records[1])
}
