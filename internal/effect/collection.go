package effect

import (
	"sort"

	"github.com/hammerlab/gocohorts/internal/variant"
)

// Collection is a set of effects for one patient, derived from a variant
// collection. A variant may contribute several effects, one per
// overlapping transcript. The collection keeps a reference to the source
// collection's metadata store for filter predicates; it never owns or
// mutates it.
type Collection struct {
	effects []Effect
	meta    variant.Metadata
}

// NewCollection creates an effect collection over the given metadata store.
func NewCollection(effects []Effect, meta variant.Metadata) *Collection {
	c := &Collection{
		effects: make([]Effect, len(effects)),
		meta:    meta,
	}
	copy(c.effects, effects)
	sort.SliceStable(c.effects, func(i, j int) bool {
		if c.effects[i].Variant != c.effects[j].Variant {
			return c.effects[i].Variant.Less(c.effects[j].Variant)
		}
		return c.effects[i].TranscriptID < c.effects[j].TranscriptID
	})
	return c
}

// Len returns the number of effect records, counting one per transcript.
func (c *Collection) Len() int {
	return len(c.effects)
}

// Effects returns the effect records in deterministic order.
func (c *Collection) Effects() []Effect {
	return c.effects
}

// Metadata returns the source variant collection's metadata store.
func (c *Collection) Metadata() variant.Metadata {
	return c.meta
}

// GroupByVariant buckets effects by source variant identity.
func (c *Collection) GroupByVariant() map[variant.Variant][]Effect {
	groups := make(map[variant.Variant][]Effect)
	for _, e := range c.effects {
		groups[e.Variant] = append(groups[e.Variant], e)
	}
	return groups
}

// FilterableEffect pairs an effect with the metadata of its source variant.
type FilterableEffect struct {
	Effect   Effect
	Metadata map[string]variant.SourceRecord
}

// Predicate decides whether an effect is kept by the filter layer.
type Predicate func(FilterableEffect) bool

// KeepAll is the identity predicate: every effect passes.
func KeepAll(FilterableEffect) bool { return true }

// Filter returns a new collection containing the effects that satisfy
// the predicate. A nil predicate is the identity filter and returns the
// receiver unchanged. The metadata store is shared by reference.
func (c *Collection) Filter(keep Predicate) *Collection {
	if keep == nil {
		return c
	}
	var kept []Effect
	for _, e := range c.effects {
		if keep(FilterableEffect{Effect: e, Metadata: c.meta[e.Variant]}) {
			kept = append(kept, e)
		}
	}
	return &Collection{effects: kept, meta: c.meta}
}

// Nonsynonymous returns the subset of effects that alter the protein.
func (c *Collection) Nonsynonymous() *Collection {
	return c.Filter(func(fe FilterableEffect) bool {
		return fe.Effect.IsNonsynonymous()
	})
}

// CountDistinctVariants counts source variants with at least one effect
// satisfying the predicate. A variant producing matching effects on
// several transcripts contributes exactly 1, never the effect count.
func (c *Collection) CountDistinctVariants(match func(Effect) bool) int {
	if match == nil {
		match = func(Effect) bool { return true }
	}
	counted := make(map[variant.Variant]bool)
	for _, e := range c.effects {
		if counted[e.Variant] {
			continue
		}
		if match(e) {
			counted[e.Variant] = true
		}
	}
	return len(counted)
}
