package variant

import "sort"

// Collection is a set of unique variants plus their per-source metadata.
// Iteration order is deterministic: sorted by (chrom, pos, ref, alt).
type Collection struct {
	members map[Variant]struct{}
	meta    Metadata
}

// NewCollection creates an empty collection with its own metadata store.
func NewCollection() *Collection {
	return &Collection{
		members: make(map[Variant]struct{}),
		meta:    make(Metadata),
	}
}

// NewCollectionWithMetadata creates a collection over the given variants
// that shares an existing metadata store by reference. Used by the filter
// layer, which must never copy or mutate metadata.
func NewCollectionWithMetadata(variants []Variant, meta Metadata) *Collection {
	c := &Collection{
		members: make(map[Variant]struct{}, len(variants)),
		meta:    meta,
	}
	for _, v := range variants {
		c.members[v] = struct{}{}
	}
	return c
}

// Add inserts v and records the source contribution. Adding the same
// variant again from another source accumulates metadata without
// duplicating membership.
func (c *Collection) Add(v Variant, rec SourceRecord) {
	c.members[v] = struct{}{}
	c.meta.Add(v, rec)
}

// Contains reports whether v is a member.
func (c *Collection) Contains(v Variant) bool {
	_, ok := c.members[v]
	return ok
}

// Len returns the number of unique variants.
func (c *Collection) Len() int {
	return len(c.members)
}

// Variants returns the members sorted by genomic position.
func (c *Collection) Variants() []Variant {
	out := make([]Variant, 0, len(c.members))
	for v := range c.members {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Metadata returns the collection's metadata store.
func (c *Collection) Metadata() Metadata {
	return c.meta
}

// MetadataFor returns the per-source records for v. Nil if v has none.
func (c *Collection) MetadataFor(v Variant) map[string]SourceRecord {
	return c.meta[v]
}

// FilterableVariant pairs a variant with its per-source metadata for
// predicate evaluation.
type FilterableVariant struct {
	Variant  Variant
	Metadata map[string]SourceRecord
}

// Predicate decides whether a variant is kept by the filter layer.
type Predicate func(FilterableVariant) bool

// KeepAll is the identity predicate: every variant passes.
func KeepAll(FilterableVariant) bool { return true }

// Filter returns a new collection containing the variants that satisfy
// the predicate. A nil predicate is the identity filter and returns the
// receiver unchanged. The result shares the metadata store by reference;
// the input collection is never mutated.
func (c *Collection) Filter(keep Predicate) *Collection {
	if keep == nil {
		return c
	}
	var kept []Variant
	for _, v := range c.Variants() {
		if keep(FilterableVariant{Variant: v, Metadata: c.meta[v]}) {
			kept = append(kept, v)
		}
	}
	return NewCollectionWithMetadata(kept, c.meta)
}
