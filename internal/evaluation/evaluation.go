package evaluation

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// DefaultCut separates the two class codes 1.0 and 2.0.
const DefaultCut = 1.5

// Positive is the class code counted as positive by precision and recall.
const Positive = 2.0

const labelTolerance = 0.001

type Predictor interface {
	Predict(x []float64) (float64, error)
}

// Classify maps a raw vote onto class 1 or 2.
func Classify(raw, cut float64) float64 {
	if raw < cut {
		return 1
	}
	return 2
}

type Row struct {
	Index      int
	Raw        float64
	Classified float64
	Actual     float64
	Correct    bool
}

type Report struct {
	Rows      []Row
	Correct   int
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	RawMean   float64
	RawStd    float64
}

// Evaluate scores every row of X and compares the thresholded class with y.
func Evaluate(m Predictor, X [][]float64, y []float64, cut float64) (*Report, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, errors.Errorf("evaluate: %d rows, %d labels", len(X), len(y))
	}
	rep := &Report{Rows: make([]Row, len(X))}
	raws := make([]float64, len(X))
	hits := make([]float64, len(X))
	var tp, fp, fn int
	for i := range X {
		raw, err := m.Predict(X[i])
		if err != nil {
			return nil, errors.Wrapf(err, "evaluate row %d", i)
		}
		cls := Classify(raw, cut)
		ok := math.Abs(y[i]-cls) < labelTolerance
		rep.Rows[i] = Row{Index: i, Raw: raw, Classified: cls, Actual: y[i], Correct: ok}
		raws[i] = raw
		if ok {
			rep.Correct++
			hits[i] = 1
		}
		actualPos := math.Abs(y[i]-Positive) < labelTolerance
		switch {
		case cls == Positive && actualPos:
			tp++
		case cls == Positive && !actualPos:
			fp++
		case cls != Positive && actualPos:
			fn++
		}
	}
	rep.Accuracy = stat.Mean(hits, nil)
	if len(raws) > 1 {
		rep.RawMean, rep.RawStd = stat.MeanStdDev(raws, nil)
	} else {
		rep.RawMean = raws[0]
	}
	if tp+fp > 0 {
		rep.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rep.Recall = float64(tp) / float64(tp+fn)
	}
	if rep.Precision+rep.Recall > 0 {
		rep.F1 = 2 * rep.Precision * rep.Recall / (rep.Precision + rep.Recall)
	}
	return rep, nil
}
