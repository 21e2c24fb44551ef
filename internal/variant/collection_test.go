package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVariant(t *testing.T, chrom string, pos int64, ref, alt string) Variant {
	t.Helper()
	v, err := New(chrom, pos, ref, alt, "GRCh37")
	require.NoError(t, err)
	return v
}

func TestCollection_DedupAcrossSources(t *testing.T) {
	c := NewCollection()
	v := mustVariant(t, "1", 100, "G", "C")

	c.Add(v, SourceRecord{Source: "a.vcf", Qual: 50})
	c.Add(v, SourceRecord{Source: "b.vcf", Qual: 99})

	assert.Equal(t, 1, c.Len(), "same identity from two sources must collapse")
	assert.Equal(t, 2, c.Metadata().SourceCount(v))
	assert.Equal(t, 50.0, c.MetadataFor(v)["a.vcf"].Qual)
	assert.Equal(t, 99.0, c.MetadataFor(v)["b.vcf"].Qual)
}

func TestCollection_SameSourceDuplicateOverwrites(t *testing.T) {
	c := NewCollection()
	v := mustVariant(t, "1", 100, "G", "C")

	c.Add(v, SourceRecord{Source: "a.vcf", Qual: 10})
	c.Add(v, SourceRecord{Source: "a.vcf", Qual: 20})

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Metadata().SourceCount(v))
	assert.Equal(t, 20.0, c.MetadataFor(v)["a.vcf"].Qual, "last record from a source wins")
}

func TestCollection_DeterministicOrder(t *testing.T) {
	c := NewCollection()
	vs := []Variant{
		mustVariant(t, "2", 50, "A", "T"),
		mustVariant(t, "1", 200, "C", "G"),
		mustVariant(t, "1", 100, "G", "C"),
		mustVariant(t, "1", 100, "G", "A"),
	}
	for _, v := range vs {
		c.Add(v, SourceRecord{Source: "a.vcf"})
	}

	got := c.Variants()
	require.Len(t, got, 4)
	assert.Equal(t, mustVariant(t, "1", 100, "G", "A"), got[0])
	assert.Equal(t, mustVariant(t, "1", 100, "G", "C"), got[1])
	assert.Equal(t, mustVariant(t, "1", 200, "C", "G"), got[2])
	assert.Equal(t, mustVariant(t, "2", 50, "A", "T"), got[3])
}

func TestCollection_FilterNilIsIdentity(t *testing.T) {
	c := NewCollection()
	c.Add(mustVariant(t, "1", 100, "G", "C"), SourceRecord{Source: "a.vcf"})

	assert.Same(t, c, c.Filter(nil), "nil predicate is a pass-through")
}

func TestCollection_Filter(t *testing.T) {
	c := NewCollection()
	c.Add(mustVariant(t, "1", 100, "G", "C"), SourceRecord{Source: "a.vcf"})
	c.Add(mustVariant(t, "1", 200, "A", "T"), SourceRecord{Source: "a.vcf"})
	c.Add(mustVariant(t, "1", 300, "G", "A"), SourceRecord{Source: "a.vcf"})

	filtered := c.Filter(func(fv FilterableVariant) bool {
		return fv.Variant.Ref == "G"
	})

	assert.Equal(t, 2, filtered.Len())
	assert.Equal(t, 3, c.Len(), "filtering must not mutate the input")

	// Metadata store is shared by reference, not copied.
	v := mustVariant(t, "1", 100, "G", "C")
	assert.Equal(t, 1, filtered.Metadata().SourceCount(v))
	c.Metadata().Add(v, SourceRecord{Source: "b.vcf"})
	assert.Equal(t, 2, filtered.Metadata().SourceCount(v))
}

func TestCollection_FilterKeepAll(t *testing.T) {
	c := NewCollection()
	c.Add(mustVariant(t, "1", 100, "G", "C"), SourceRecord{Source: "a.vcf"})

	filtered := c.Filter(KeepAll)
	assert.Equal(t, c.Variants(), filtered.Variants())
}

func TestCollection_FilterUsesMetadata(t *testing.T) {
	c := NewCollection()
	v1 := mustVariant(t, "1", 100, "G", "C")
	v2 := mustVariant(t, "1", 200, "A", "T")
	c.Add(v1, SourceRecord{Source: "a.vcf"})
	c.Add(v2, SourceRecord{Source: "a.vcf"})
	c.Add(v2, SourceRecord{Source: "b.vcf"})

	filtered := c.Filter(func(fv FilterableVariant) bool {
		return len(fv.Metadata) >= 2
	})
	require.Equal(t, 1, filtered.Len())
	assert.True(t, filtered.Contains(v2))
}
