package cohort

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hammerlab/gocohorts/internal/effect"
	"github.com/hammerlab/gocohorts/internal/merge"
)

// Feature is a named per-patient scalar derived from the cohort's
// variant or effect collections. The name becomes the table column name.
type Feature struct {
	Name string
	Fn   func(c *Cohort, p *Patient) (float64, error)
}

// SNVCount counts distinct merged variants, independent of effect
// prediction.
var SNVCount = Feature{
	Name: "snv_count",
	Fn: func(c *Cohort, p *Patient) (float64, error) {
		vc, err := c.variantsFor(p)
		if err != nil {
			return 0, err
		}
		return float64(vc.Len()), nil
	},
}

// MissenseSNVCount counts distinct variants with at least one missense
// effect. A variant with missense effects on several transcripts counts
// once.
var MissenseSNVCount = Feature{
	Name: "missense_snv_count",
	Fn: func(c *Cohort, p *Patient) (float64, error) {
		effects, err := c.LoadEffects(true, nil)
		if err != nil {
			return 0, err
		}
		return float64(effects[p.ID].CountDistinctVariants(effect.Effect.IsMissense)), nil
	},
}

// NonsynonymousSNVCount counts distinct variants with at least one
// protein-altering effect.
var NonsynonymousSNVCount = Feature{
	Name: "nonsynonymous_snv_count",
	Fn: func(c *Cohort, p *Patient) (float64, error) {
		effects, err := c.LoadEffects(true, nil)
		if err != nil {
			return 0, err
		}
		return float64(effects[p.ID].CountDistinctVariants(nil)), nil
	},
}

// MissenseSNVCountWith returns a missense count restricted to effects
// passing the filter, e.g. a gene-list filter.
func MissenseSNVCountWith(name string, filter effect.Predicate) Feature {
	return Feature{
		Name: name,
		Fn: func(c *Cohort, p *Patient) (float64, error) {
			effects, err := c.LoadEffects(true, filter)
			if err != nil {
				return 0, err
			}
			return float64(effects[p.ID].CountDistinctVariants(effect.Effect.IsMissense)), nil
		},
	}
}

// NonsynonymousSNVCountWith returns a protein-altering count restricted
// to effects passing the filter.
func NonsynonymousSNVCountWith(name string, filter effect.Predicate) Feature {
	return Feature{
		Name: name,
		Fn: func(c *Cohort, p *Patient) (float64, error) {
			effects, err := c.LoadEffects(true, filter)
			if err != nil {
				return 0, err
			}
			return float64(effects[p.ID].CountDistinctVariants(nil)), nil
		},
	}
}

// builtinFeatures maps feature names accepted on the command line.
var builtinFeatures = map[string]Feature{
	SNVCount.Name:              SNVCount,
	MissenseSNVCount.Name:      MissenseSNVCount,
	NonsynonymousSNVCount.Name: NonsynonymousSNVCount,
}

// FeatureByName resolves a built-in feature.
func FeatureByName(name string) (Feature, error) {
	f, ok := builtinFeatures[name]
	if !ok {
		return Feature{}, &merge.ConfigurationError{Message: fmt.Sprintf("unknown feature %q", name)}
	}
	return f, nil
}

// FeatureSpec is the tagged parameter accepted by AsDataFrame: a single
// feature, an ordered list, or a named mapping. The shape is resolved
// explicitly at the call boundary; an empty spec is a configuration
// error.
type FeatureSpec struct {
	single *Feature
	list   []Feature
	named  map[string]Feature
}

// Single wraps one feature.
func Single(f Feature) FeatureSpec {
	return FeatureSpec{single: &f}
}

// List wraps an ordered sequence of features.
func List(fs ...Feature) FeatureSpec {
	return FeatureSpec{list: fs}
}

// Named wraps a mapping of column name to feature. Columns are emitted
// in sorted name order for reproducible output.
func Named(m map[string]Feature) FeatureSpec {
	return FeatureSpec{named: m}
}

// resolve flattens the spec into ordered (column, feature) pairs and the
// joined column label used as the overall feature identifier.
func (s FeatureSpec) resolve() ([]string, []Feature, string, error) {
	switch {
	case s.single != nil:
		if s.single.Fn == nil {
			return nil, nil, "", &merge.ConfigurationError{Message: "feature has no function"}
		}
		return []string{s.single.Name}, []Feature{*s.single}, s.single.Name, nil
	case len(s.list) > 0:
		cols := make([]string, len(s.list))
		for i, f := range s.list {
			if f.Fn == nil {
				return nil, nil, "", &merge.ConfigurationError{Message: "feature has no function"}
			}
			cols[i] = f.Name
		}
		return cols, s.list, strings.Join(cols, "+"), nil
	case len(s.named) > 0:
		cols := make([]string, 0, len(s.named))
		for name := range s.named {
			cols = append(cols, name)
		}
		sort.Strings(cols)
		fs := make([]Feature, len(cols))
		for i, name := range cols {
			f := s.named[name]
			if f.Fn == nil {
				return nil, nil, "", &merge.ConfigurationError{Message: fmt.Sprintf("feature %q has no function", name)}
			}
			f.Name = name
			fs[i] = f
		}
		return cols, fs, strings.Join(cols, "+"), nil
	default:
		return nil, nil, "", &merge.ConfigurationError{Message: "empty feature specification"}
	}
}
