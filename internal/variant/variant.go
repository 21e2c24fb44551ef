// Package variant provides canonical variant identity, per-source metadata
// tracking, and filterable variant collections.
package variant

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant is the canonical identity of a genomic change: chromosome,
// 1-based position, reference allele, alternate allele, and reference
// genome build. It is a comparable value type; equality and map keying
// use these five fields and nothing else.
type Variant struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   string
	Build string
}

// New canonicalizes a raw variant record into a Variant.
// The chromosome is normalized ("chr" prefix stripped), alleles are
// upper-cased. Returns an InvalidVariantError when any identity field
// is missing or malformed.
func New(chrom string, pos int64, ref, alt, build string) (Variant, error) {
	chrom = NormalizeChrom(strings.TrimSpace(chrom))
	if chrom == "" {
		return Variant{}, &InvalidVariantError{Field: "chrom", Value: chrom, Reason: "empty chromosome"}
	}
	if pos <= 0 {
		return Variant{}, &InvalidVariantError{Field: "pos", Value: strconv.FormatInt(pos, 10), Reason: "position must be positive"}
	}
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" || ref == "." {
		return Variant{}, &InvalidVariantError{Field: "ref", Value: ref, Reason: "empty reference allele"}
	}
	alt = strings.ToUpper(strings.TrimSpace(alt))
	if alt == "" || alt == "." {
		return Variant{}, &InvalidVariantError{Field: "alt", Value: alt, Reason: "empty alternate allele"}
	}
	if !validAllele(ref) {
		return Variant{}, &InvalidVariantError{Field: "ref", Value: ref, Reason: "invalid allele characters"}
	}
	if !validAllele(alt) {
		return Variant{}, &InvalidVariantError{Field: "alt", Value: alt, Reason: "invalid allele characters"}
	}
	if build == "" {
		return Variant{}, &InvalidVariantError{Field: "build", Value: build, Reason: "empty genome build"}
	}
	return Variant{Chrom: chrom, Pos: pos, Ref: ref, Alt: alt, Build: build}, nil
}

// ID returns the variant identity string (chrom_pos_ref/alt).
func (v Variant) ID() string {
	return fmt.Sprintf("%s_%d_%s/%s", v.Chrom, v.Pos, v.Ref, v.Alt)
}

func (v Variant) String() string {
	return fmt.Sprintf("chr%s g.%d%s>%s", v.Chrom, v.Pos, v.Ref, v.Alt)
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// Less orders variants by (chrom, pos, ref, alt) for deterministic iteration.
func (v Variant) Less(o Variant) bool {
	if v.Chrom != o.Chrom {
		return v.Chrom < o.Chrom
	}
	if v.Pos != o.Pos {
		return v.Pos < o.Pos
	}
	if v.Ref != o.Ref {
		return v.Ref < o.Ref
	}
	return v.Alt < o.Alt
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func NormalizeChrom(chrom string) string {
	if len(chrom) > 3 && chrom[:3] == "chr" {
		return chrom[3:]
	}
	return chrom
}

func validAllele(allele string) bool {
	for i := 0; i < len(allele); i++ {
		switch allele[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return false
		}
	}
	return true
}
