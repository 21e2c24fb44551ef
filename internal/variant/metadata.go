package variant

// SourceRecord holds the provenance a single source contributes for a
// variant: which file reported it and the source-specific VCF fields.
type SourceRecord struct {
	Source string // source identifier (normally the file path)
	Qual   float64
	Filter string
	Info   map[string]string
}

// Metadata maps each variant to its per-source records, keyed by the
// canonical identity value and never by object reference. After a merge,
// len(meta[v]) equals the number of distinct sources that reported v.
type Metadata map[Variant]map[string]SourceRecord

// Add records a source contribution for v. A repeated record from the
// same source for the same variant overwrites the previous one.
func (m Metadata) Add(v Variant, rec SourceRecord) {
	entries, ok := m[v]
	if !ok {
		entries = make(map[string]SourceRecord, 1)
		m[v] = entries
	}
	entries[rec.Source] = rec
}

// SourceCount returns the number of distinct sources that reported v.
func (m Metadata) SourceCount(v Variant) int {
	return len(m[v])
}
