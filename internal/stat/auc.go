// Package stat wraps the association statistics used for cohort analysis:
// bootstrapped AUC, Mann-Whitney rank-sum and Fisher's exact test. The
// numerical machinery is gonum's; this package only builds the inputs and
// interprets the outputs.
package stat

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/integrate"
	gstat "gonum.org/v1/gonum/stat"
)

// AUC computes the area under the ROC curve for scores against binary
// labels (true = positive class).
func AUC(scores []float64, labels []bool) (float64, error) {
	if len(scores) != len(labels) {
		return 0, fmt.Errorf("auc: %d scores vs %d labels", len(scores), len(labels))
	}
	if len(scores) == 0 {
		return 0, fmt.Errorf("auc: empty input")
	}
	if IsSingleClass(labels) {
		return 0, fmt.Errorf("auc: labels contain a single class")
	}

	// gonum's ROC wants scores ascending with classes aligned.
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return scores[idx[i]] < scores[idx[j]] })

	y := make([]float64, len(scores))
	classes := make([]bool, len(labels))
	for i, j := range idx {
		y[i] = scores[j]
		classes[i] = labels[j]
	}

	tpr, fpr, _ := gstat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// IsSingleClass reports whether all labels belong to one class, in which
// case the AUC is undefined.
func IsSingleClass(labels []bool) bool {
	var pos, neg int
	for _, l := range labels {
		if l {
			pos++
		} else {
			neg++
		}
	}
	return pos == 0 || neg == 0
}

// BootstrapAUC resamples (scores, labels) pairs with replacement n times
// and returns the AUC of each resample. Single-class resamples score 0,
// matching the convention of skipping them rather than failing.
func BootstrapAUC(scores []float64, labels []bool, n int, seed int64) ([]float64, error) {
	if len(scores) != len(labels) {
		return nil, fmt.Errorf("bootstrap auc: %d scores vs %d labels", len(scores), len(labels))
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("bootstrap auc: empty input")
	}
	if n <= 0 {
		return nil, fmt.Errorf("bootstrap auc: n must be positive, got %d", n)
	}

	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	sampledScores := make([]float64, len(scores))
	sampledLabels := make([]bool, len(labels))

	for i := 0; i < n; i++ {
		for j := range sampledScores {
			k := rng.Intn(len(scores))
			sampledScores[j] = scores[k]
			sampledLabels[j] = labels[k]
		}
		if IsSingleClass(sampledLabels) {
			continue
		}
		auc, err := AUC(sampledScores, sampledLabels)
		if err != nil {
			return nil, err
		}
		out[i] = auc
	}
	return out, nil
}

// MeanBootstrapAUC returns the mean of BootstrapAUC samples.
func MeanBootstrapAUC(scores []float64, labels []bool, n int, seed int64) (float64, error) {
	samples, err := BootstrapAUC(scores, labels, n, seed)
	if err != nil {
		return 0, err
	}
	return gstat.Mean(samples, nil), nil
}
