package vcf

// Record is a single raw variant row from a VCF source, prior to
// canonicalization. Identity and validation live in the variant package;
// a Record carries whatever the source reported.
type Record struct {
	Chrom  string            // Chromosome name (e.g., "12", "chr12")
	Pos    int64             // 1-based genomic position
	ID     string            // Variant identifier (e.g., rs ID)
	Ref    string            // Reference allele
	Alt    string            // Alternate allele (single allele after splitting)
	Qual   float64           // Quality score
	Filter string            // Filter status (PASS or filter name)
	Info   map[string]string // INFO field key-value pairs
}

// IsSNV returns true if the record describes a single nucleotide variant.
func (r *Record) IsSNV() bool {
	return len(r.Ref) == 1 && len(r.Alt) == 1
}

// IsIndel returns true if the record describes an insertion or deletion.
func (r *Record) IsIndel() bool {
	return len(r.Ref) != len(r.Alt)
}
