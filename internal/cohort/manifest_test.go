package cohort

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammerlab/gocohorts/internal/merge"
)

const sampleManifest = `build: GRCh37
merge_mode: intersection
patients:
  - id: "1"
    snv_sources:
      - variants/p1_mutect.vcf
      - /data/p1_strelka.vcf
    benefit: true
    os: 18.5
    pfs: 6.2
    deceased: true
    progressed_or_deceased: true
  - id: "4"
    snv_sources:
      - variants/p4_mutect.vcf
`

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cohort.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0644))

	m, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "GRCh37", m.Build)
	assert.Equal(t, "intersection", m.MergeMode)
	require.Len(t, m.Patients, 2)

	// Relative paths resolve against the manifest directory; absolute
	// paths are left alone.
	assert.Equal(t, filepath.Join(dir, "variants", "p1_mutect.vcf"), m.Patients[0].SNVSources[0])
	assert.Equal(t, "/data/p1_strelka.vcf", m.Patients[0].SNVSources[1])

	assert.True(t, m.Patients[0].Benefit)
	assert.Equal(t, 18.5, m.Patients[0].OS)
	assert.Equal(t, 6.2, m.Patients[0].PFS)
	assert.True(t, m.Patients[0].Deceased)
	assert.False(t, m.Patients[1].Benefit)
}

func TestManifestCohort(t *testing.T) {
	m := &Manifest{
		Build: "GRCh38",
		Patients: []ManifestPatient{
			{ID: "a", Benefit: true, OS: 30},
			{ID: "b"},
		},
	}

	c, err := m.Cohort()
	require.NoError(t, err)

	// Merge mode defaults to union.
	assert.Equal(t, merge.Union, c.MergeMode())
	assert.Equal(t, "GRCh38", c.Build())
	require.Len(t, c.Patients(), 2)
	assert.True(t, c.Patient("a").Benefit)
	assert.Equal(t, 30.0, c.Patient("a").OS)
}

func TestManifestCohort_Invalid(t *testing.T) {
	var cfg *merge.ConfigurationError

	m := &Manifest{Build: "GRCh37", MergeMode: "outer-join",
		Patients: []ManifestPatient{{ID: "a"}}}
	_, err := m.Cohort()
	require.True(t, errors.As(err, &cfg))

	m = &Manifest{Build: "GRCh37"}
	_, err = m.Cohort()
	require.True(t, errors.As(err, &cfg))
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
