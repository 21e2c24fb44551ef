package stat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// FisherResult holds the odds ratio and two-sided p-value of a Fisher's
// exact test on a 2x2 contingency table.
type FisherResult struct {
	OddsRatio float64
	P         float64
}

// FisherExact performs a two-sided Fisher's exact test on the table
//
//	[ a  b ]
//	[ c  d ]
//
// The two-sided p-value sums the hypergeometric point probabilities of
// every table at least as extreme as the observed one, computed from
// gonum's log binomial coefficients.
func FisherExact(a, b, c, d int) (FisherResult, error) {
	if a < 0 || b < 0 || c < 0 || d < 0 {
		return FisherResult{}, fmt.Errorf("fisher exact: negative cell count")
	}
	n := a + b + c + d
	if n == 0 {
		return FisherResult{}, fmt.Errorf("fisher exact: empty table")
	}

	var odds float64
	switch {
	case b*c == 0 && a*d == 0:
		odds = math.NaN()
	case b*c == 0:
		odds = math.Inf(1)
	default:
		odds = float64(a*d) / float64(b*c)
	}

	row1 := a + b
	col1 := a + c

	// Support of the hypergeometric: possible values of cell a with the
	// margins fixed.
	lo := 0
	if row1+col1 > n {
		lo = row1 + col1 - n
	}
	hi := row1
	if col1 < hi {
		hi = col1
	}

	observed := hypergeomLogPMF(a, row1, col1, n)

	// Sum point probabilities <= the observed one, with a small relative
	// tolerance for floating point noise.
	const eps = 1e-7
	var p float64
	for x := lo; x <= hi; x++ {
		lp := hypergeomLogPMF(x, row1, col1, n)
		if lp <= observed+eps {
			p += math.Exp(lp)
		}
	}
	if p > 1 {
		p = 1
	}
	return FisherResult{OddsRatio: odds, P: p}, nil
}

// hypergeomLogPMF is the log probability of drawing x successes in the
// 2x2 table with the given margins.
func hypergeomLogPMF(x, row1, col1, n int) float64 {
	return combin.LogGeneralizedBinomial(float64(row1), float64(x)) +
		combin.LogGeneralizedBinomial(float64(n-row1), float64(col1-x)) -
		combin.LogGeneralizedBinomial(float64(n), float64(col1))
}
