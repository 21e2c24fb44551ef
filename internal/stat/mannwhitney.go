package stat

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// MannWhitneyResult holds the rank-sum statistic for the first group and
// the two-sided p-value from the normal approximation.
type MannWhitneyResult struct {
	U float64
	P float64
}

// MannWhitney performs a two-sided Mann-Whitney U test comparing two
// samples, with tie correction and continuity correction. The p-value
// uses the normal approximation, which is standard for cohort-scale
// sample sizes.
func MannWhitney(a, b []float64) (MannWhitneyResult, error) {
	n1, n2 := float64(len(a)), float64(len(b))
	if len(a) == 0 || len(b) == 0 {
		return MannWhitneyResult{}, fmt.Errorf("mann-whitney: empty group (%d vs %d)", len(a), len(b))
	}

	type obs struct {
		value float64
		first bool
	}
	all := make([]obs, 0, len(a)+len(b))
	for _, v := range a {
		all = append(all, obs{v, true})
	}
	for _, v := range b {
		all = append(all, obs{v, false})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].value < all[j].value })

	// Average ranks over ties; track tie group sizes for the variance
	// correction term.
	n := len(all)
	ranks := make([]float64, n)
	var tieTerm float64
	for i := 0; i < n; {
		j := i
		for j < n && all[j].value == all[i].value {
			j++
		}
		avg := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			ranks[k] = avg
		}
		t := float64(j - i)
		tieTerm += t*t*t - t
		i = j
	}

	var r1 float64
	for i, o := range all {
		if o.first {
			r1 += ranks[i]
		}
	}

	u := r1 - n1*(n1+1)/2
	mu := n1 * n2 / 2

	nf := n1 + n2
	variance := n1 * n2 / 12 * ((nf + 1) - tieTerm/(nf*(nf-1)))
	if variance <= 0 {
		// All observations identical: no evidence either way.
		return MannWhitneyResult{U: u, P: 1}, nil
	}

	z := (math.Abs(u-mu) - 0.5) / math.Sqrt(variance)
	if z < 0 {
		z = 0
	}
	p := 2 * distuv.UnitNormal.Survival(z)
	if p > 1 {
		p = 1
	}
	return MannWhitneyResult{U: u, P: p}, nil
}
