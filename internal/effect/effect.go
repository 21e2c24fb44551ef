// Package effect models predicted coding consequences of variants and
// provides deduplicated per-variant counting. Effect prediction itself is
// delegated to an external collaborator behind the Predictor interface.
package effect

import (
	"strings"

	"github.com/hammerlab/gocohorts/internal/variant"
)

// Impact levels for effect kinds.
const (
	ImpactHigh     = "HIGH"
	ImpactModerate = "MODERATE"
	ImpactLow      = "LOW"
	ImpactModifier = "MODIFIER"
)

// Effect kinds (Sequence Ontology terms).
const (
	// HIGH impact
	KindStopGained        = "stop_gained"
	KindFrameshiftVariant = "frameshift_variant"
	KindStopLost          = "stop_lost"
	KindStartLost         = "start_lost"
	KindSpliceAcceptor    = "splice_acceptor_variant"
	KindSpliceDonor       = "splice_donor_variant"

	// MODERATE impact
	KindMissenseVariant  = "missense_variant"
	KindInframeInsertion = "inframe_insertion"
	KindInframeDeletion  = "inframe_deletion"

	// LOW impact
	KindSynonymousVariant = "synonymous_variant"
	KindSpliceRegion      = "splice_region_variant"
	KindStopRetained      = "stop_retained_variant"
	KindStartRetained     = "start_retained_variant"

	// MODIFIER impact
	KindIntronVariant     = "intron_variant"
	Kind5PrimeUTR         = "5_prime_UTR_variant"
	Kind3PrimeUTR         = "3_prime_UTR_variant"
	KindUpstreamGene      = "upstream_gene_variant"
	KindDownstreamGene    = "downstream_gene_variant"
	KindIntergenicVariant = "intergenic_variant"
)

// Effect is a predicted consequence of a variant on one transcript. The
// Variant field is the identity value of the source variant, used for
// grouping and metadata lookup only.
type Effect struct {
	Variant      variant.Variant
	TranscriptID string
	GeneName     string
	Kind         string // SO consequence term, possibly comma-separated
	Impact       string // HIGH, MODERATE, LOW, MODIFIER
}

// IsNonsynonymous reports whether the effect changes the protein product:
// MODERATE or HIGH impact coding consequences.
func (e Effect) IsNonsynonymous() bool {
	rank := ImpactRank(e.Impact)
	return rank >= ImpactRank(ImpactModerate)
}

// IsMissense reports whether any term of the effect kind is a missense
// substitution.
func (e Effect) IsMissense() bool {
	return hasTerm(e.Kind, KindMissenseVariant)
}

// IsSpliceSite reports whether any term of the effect kind disrupts a
// splice site.
func (e Effect) IsSpliceSite() bool {
	return hasTerm(e.Kind, KindSpliceAcceptor) ||
		hasTerm(e.Kind, KindSpliceDonor) ||
		hasTerm(e.Kind, KindSpliceRegion)
}

// GetImpact returns the impact level for a given effect kind.
// For comma-separated kinds, returns the highest impact among all terms.
func GetImpact(kind string) string {
	best := ImpactModifier
	for rest := kind; rest != ""; {
		term := rest
		if i := strings.IndexByte(rest, ','); i >= 0 {
			term = rest[:i]
			rest = rest[i+1:]
		} else {
			rest = ""
		}
		var impact string
		switch term {
		case KindStopGained, KindFrameshiftVariant,
			KindStopLost, KindStartLost,
			KindSpliceAcceptor, KindSpliceDonor:
			impact = ImpactHigh
		case KindMissenseVariant, KindInframeInsertion, KindInframeDeletion:
			impact = ImpactModerate
		case KindSynonymousVariant, KindSpliceRegion,
			KindStopRetained, KindStartRetained:
			impact = ImpactLow
		default:
			impact = ImpactModifier
		}
		if ImpactRank(impact) > ImpactRank(best) {
			best = impact
		}
	}
	return best
}

// ImpactRank returns numeric rank for impact comparison (higher = more severe).
func ImpactRank(impact string) int {
	switch impact {
	case ImpactHigh:
		return 3
	case ImpactModerate:
		return 2
	case ImpactLow:
		return 1
	default:
		return 0
	}
}

func hasTerm(kind, term string) bool {
	for rest := kind; rest != ""; {
		cur := rest
		if i := strings.IndexByte(rest, ','); i >= 0 {
			cur = rest[:i]
			rest = rest[i+1:]
		} else {
			rest = ""
		}
		if cur == term {
			return true
		}
	}
	return false
}
