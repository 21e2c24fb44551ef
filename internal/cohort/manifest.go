package cohort

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hammerlab/gocohorts/internal/merge"
)

// Manifest is the YAML description of a cohort: reference build, merge
// mode, an optional precomputed effect table, and the patients with
// their source files and clinical fields.
type Manifest struct {
	Build       string            `yaml:"build"`
	MergeMode   string            `yaml:"merge_mode"`
	EffectTable string            `yaml:"effect_table,omitempty"`
	GeneList    string            `yaml:"gene_list,omitempty"`
	Patients    []ManifestPatient `yaml:"patients"`
}

// ManifestPatient is one patient entry in the manifest.
type ManifestPatient struct {
	ID                   string   `yaml:"id"`
	SNVSources           []string `yaml:"snv_sources"`
	Benefit              bool     `yaml:"benefit"`
	OS                   float64  `yaml:"os"`
	PFS                  float64  `yaml:"pfs"`
	Deceased             bool     `yaml:"deceased"`
	ProgressedOrDeceased bool     `yaml:"progressed_or_deceased"`
}

// LoadManifest parses a cohort manifest. Relative source paths resolve
// against the manifest file's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	dir := filepath.Dir(path)
	for i := range m.Patients {
		for j, src := range m.Patients[i].SNVSources {
			if !filepath.IsAbs(src) {
				m.Patients[i].SNVSources[j] = filepath.Join(dir, src)
			}
		}
	}
	if m.EffectTable != "" && !filepath.IsAbs(m.EffectTable) {
		m.EffectTable = filepath.Join(dir, m.EffectTable)
	}
	if m.GeneList != "" && !filepath.IsAbs(m.GeneList) {
		m.GeneList = filepath.Join(dir, m.GeneList)
	}
	return &m, nil
}

// Cohort builds the cohort described by the manifest. The merge mode
// defaults to union and is validated here.
func (m *Manifest) Cohort() (*Cohort, error) {
	modeStr := m.MergeMode
	if modeStr == "" {
		modeStr = string(merge.Union)
	}
	mode, err := merge.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	if len(m.Patients) == 0 {
		return nil, &merge.ConfigurationError{Message: "manifest declares no patients"}
	}

	patients := make([]*Patient, len(m.Patients))
	for i, mp := range m.Patients {
		patients[i] = &Patient{
			ID:                   mp.ID,
			SNVSources:           mp.SNVSources,
			Benefit:              mp.Benefit,
			OS:                   mp.OS,
			PFS:                  mp.PFS,
			Deceased:             mp.Deceased,
			ProgressedOrDeceased: mp.ProgressedOrDeceased,
		}
	}
	return New(patients, mode, m.Build)
}
