package cohort

import (
	"fmt"
	"sort"

	"github.com/hammerlab/gocohorts/internal/stat"
)

// featureAndLabels evaluates a feature and pairs it with a boolean
// clinical column.
func (c *Cohort) featureAndLabels(f Feature, boolCol string) ([]float64, []bool, error) {
	col, table, err := c.AsDataFrame(Single(f))
	if err != nil {
		return nil, nil, err
	}
	scores, err := table.FloatColumn(col)
	if err != nil {
		return nil, nil, err
	}
	labels, err := table.BoolColumn(boolCol)
	if err != nil {
		return nil, nil, err
	}
	return scores, labels, nil
}

// BootstrapAUC computes bootstrapped AUCs for a feature predicting a
// boolean clinical column (default: benefit).
func (c *Cohort) BootstrapAUC(f Feature, boolCol string, n int, seed int64) ([]float64, error) {
	if boolCol == "" {
		boolCol = ColBenefit
	}
	scores, labels, err := c.featureAndLabels(f, boolCol)
	if err != nil {
		return nil, err
	}
	return stat.BootstrapAUC(scores, labels, n, seed)
}

// MannWhitney compares a feature's values between the true and false
// groups of a boolean clinical column.
func (c *Cohort) MannWhitney(f Feature, boolCol string) (stat.MannWhitneyResult, error) {
	if boolCol == "" {
		boolCol = ColBenefit
	}
	scores, labels, err := c.featureAndLabels(f, boolCol)
	if err != nil {
		return stat.MannWhitneyResult{}, err
	}
	var pos, neg []float64
	for i, l := range labels {
		if l {
			pos = append(pos, scores[i])
		} else {
			neg = append(neg, scores[i])
		}
	}
	return stat.MannWhitney(pos, neg)
}

// FisherExact dichotomizes a feature at the cohort median and tests the
// association of high-vs-low against a boolean clinical column.
func (c *Cohort) FisherExact(f Feature, boolCol string) (stat.FisherResult, error) {
	if boolCol == "" {
		boolCol = ColBenefit
	}
	scores, labels, err := c.featureAndLabels(f, boolCol)
	if err != nil {
		return stat.FisherResult{}, err
	}
	if len(scores) == 0 {
		return stat.FisherResult{}, fmt.Errorf("fisher exact: empty cohort")
	}

	med := median(scores)
	var a, b, cc, d int
	for i, s := range scores {
		high := s > med
		switch {
		case high && labels[i]:
			a++
		case high && !labels[i]:
			b++
		case !high && labels[i]:
			cc++
		default:
			d++
		}
	}
	return stat.FisherExact(a, b, cc, d)
}

func median(values []float64) float64 {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
