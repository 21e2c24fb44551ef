// Package merge combines per-patient variant collections from multiple
// sources under union or intersection set semantics.
package merge

import (
	"fmt"

	"github.com/hammerlab/gocohorts/internal/variant"
)

// Mode selects the set semantics applied across sources.
type Mode string

const (
	// Union keeps every variant seen in any source.
	Union Mode = "union"
	// Intersection keeps only variants present in every source.
	Intersection Mode = "intersection"
	// SNV is accepted as an alias of Union for single-source SNV cohorts.
	SNV Mode = "snv"
)

// ParseMode validates a merge mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Union, Intersection, SNV:
		return Mode(s), nil
	default:
		return "", &ConfigurationError{
			Message: fmt.Sprintf("unsupported merge mode %q (expected union, intersection or snv)", s),
		}
	}
}

// MissingSourceError reports a declared source with no variant collection.
// Treating an absent source as empty would silently corrupt intersection
// semantics, so the merge fails instead.
type MissingSourceError struct {
	Index  int
	Source string
}

func (e *MissingSourceError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("missing variant source %q (index %d)", e.Source, e.Index)
	}
	return fmt.Sprintf("missing variant source at index %d", e.Index)
}

// ConfigurationError reports an unsupported merge mode or feature
// specification. It surfaces at call time, never deferred.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// Merge combines per-patient collections from N sources into a single
// deduplicated collection with joined metadata.
//
// Union keeps the set union; each variant carries one metadata entry per
// source that reported it, and sources that lacked it contribute nothing.
// Intersection keeps only variants present in every source; a variant
// missing from even one source is dropped entirely, including the
// metadata from the sources that had it. Merging a single source is a
// pass-through copy.
func Merge(sources []*variant.Collection, mode Mode) (*variant.Collection, error) {
	switch mode {
	case Union, Intersection, SNV:
	default:
		return nil, &ConfigurationError{Message: fmt.Sprintf("unsupported merge mode %q", mode)}
	}
	if len(sources) == 0 {
		return nil, &ConfigurationError{Message: "no variant sources to merge"}
	}
	for i, src := range sources {
		if src == nil {
			return nil, &MissingSourceError{Index: i}
		}
	}

	merged := union(sources)
	if mode == Intersection && len(sources) > 1 {
		return intersect(merged, sources), nil
	}
	return merged, nil
}

// union accumulates all members and all per-source metadata.
func union(sources []*variant.Collection) *variant.Collection {
	out := variant.NewCollection()
	for _, src := range sources {
		for _, v := range src.Variants() {
			for _, rec := range src.MetadataFor(v) {
				out.Add(v, rec)
			}
		}
	}
	return out
}

// intersect prunes a union down to the variants every source reported.
// Metadata rows for dropped variants are discarded with them.
func intersect(merged *variant.Collection, sources []*variant.Collection) *variant.Collection {
	out := variant.NewCollection()
	for _, v := range merged.Variants() {
		inAll := true
		for _, src := range sources {
			if !src.Contains(v) {
				inAll = false
				break
			}
		}
		if !inAll {
			continue
		}
		for _, rec := range merged.MetadataFor(v) {
			out.Add(v, rec)
		}
	}
	return out
}
