// Package cohort wires patients, their variant sources, derived
// variant/effect collections with caching, and per-patient feature
// aggregation into tabular output.
package cohort

// Patient holds one patient's identity, variant source files and the
// clinical outcome fields the association statistics consume.
type Patient struct {
	ID string

	// SNVSources are per-source variant files (VCF or MAF, optionally
	// gzipped) merged under the cohort's merge mode.
	SNVSources []string

	// Clinical outcomes.
	Benefit              bool    // durable clinical benefit
	OS                   float64 // overall survival
	PFS                  float64 // progression-free survival
	Deceased             bool
	ProgressedOrDeceased bool
}
