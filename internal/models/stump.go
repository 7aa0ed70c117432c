package models

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Stump is a regression tree with a single binary split. Rows whose value at
// Feature is <= Threshold map to LeftValue, the rest to RightValue. The zero
// value is an unfitted stump.
type Stump struct {
	Fitted     bool
	Feature    int
	Threshold  float64
	LeftValue  float64
	RightValue float64
}

func NewStump() *Stump { return &Stump{} }

func (s *Stump) Name() string { return "Stump" }

// Fit searches every column for the midpoint threshold that minimises the
// summed squared error of both partitions around their means. Candidates
// only sit between distinct adjacent values; on equal error the earlier
// column and position are kept.
func (s *Stump) Fit(X [][]float64, y []float64) error {
	if s.Fitted {
		return errors.New("stump already fitted")
	}
	if err := validateTrainingSet(X, y); err != nil {
		return err
	}
	n := len(X)
	nFeats := len(X[0])
	total := floats.Sum(y)

	order := make([]int, n)
	xs := make([]float64, n)
	ys := make([]float64, n)

	best := Stump{}
	bestErr := math.Inf(1)
	for f := 0; f < nFeats; f++ {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })
		for i, r := range order {
			xs[i] = X[r][f]
			ys[i] = y[r]
		}

		leftSum, rightSum := 0.0, total
		for i := 0; i < n-1; i++ {
			leftSum += ys[i]
			rightSum -= ys[i]
			if xs[i] == xs[i+1] {
				continue
			}
			leftMean := leftSum / float64(i+1)
			rightMean := rightSum / float64(n-i-1)
			sse := squaredError(ys[:i+1], leftMean) + squaredError(ys[i+1:], rightMean)
			if sse < bestErr {
				bestErr = sse
				best = Stump{
					Fitted:     true,
					Feature:    f,
					Threshold:  midpoint(xs[i], xs[i+1]),
					LeftValue:  leftMean,
					RightValue: rightMean,
				}
			}
		}
	}
	if !best.Fitted {
		return errors.Wrapf(ErrNoValidSplit, "%d rows, %d constant columns", n, nFeats)
	}
	*s = best
	return nil
}

func (s *Stump) Predict(x []float64) (float64, error) {
	if !s.Fitted {
		return 0, errors.Wrap(ErrNotTrained, "stump")
	}
	if s.Feature >= len(x) {
		return 0, errors.Wrapf(ErrInvalidInput, "stump splits feature %d, input has %d", s.Feature, len(x))
	}
	if x[s.Feature] <= s.Threshold {
		return s.LeftValue, nil
	}
	return s.RightValue, nil
}

// midpoint returns a threshold t with lo <= t < hi for finite lo < hi,
// halving before adding so large magnitudes do not overflow.
func midpoint(lo, hi float64) float64 {
	m := lo/2 + hi/2
	if m >= hi || m < lo {
		return lo
	}
	return m
}

func squaredError(vals []float64, mean float64) float64 {
	sum := 0.0
	for _, v := range vals {
		d := v - mean
		sum += d * d
	}
	return sum
}
