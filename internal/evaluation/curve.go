package evaluation

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"rfcredit/internal/models"
)

var curveHeader = []string{"size", "train_acc", "test_acc", "train_f1", "test_f1"}

type CurvePoint struct {
	Size     int
	TrainAcc float64
	TestAcc  float64
	TrainF1  float64
	TestF1   float64
}

// CurveSizes returns increasing training sizes from min up to total, spaced
// geometrically when useLog is set. The last size is always total.
func CurveSizes(total, points, min int, useLog bool) []int {
	if total <= 0 {
		return nil
	}
	if points <= 1 {
		points = 2
	}
	if min < 10 {
		min = 10
	}
	if min > total {
		min = int(math.Max(1, float64(total)/2))
	}
	sizes := make([]int, 0, points)
	if useLog {
		ratio := math.Pow(float64(total)/float64(min), 1.0/float64(points-1))
		for i := 0; i < points; i++ {
			sizes = append(sizes, int(math.Round(float64(min)*math.Pow(ratio, float64(i)))))
		}
	} else {
		step := float64(total-min) / float64(points-1)
		for i := 0; i < points; i++ {
			sizes = append(sizes, int(math.Round(float64(min)+float64(i)*step)))
		}
	}
	cleaned := make([]int, 0, len(sizes))
	last := 0
	for _, s := range sizes {
		if s <= last {
			s = last + 1
		}
		if s > total {
			s = total
		}
		if s != last {
			cleaned = append(cleaned, s)
			last = s
		}
	}
	cleaned[len(cleaned)-1] = total
	return cleaned
}

// LearningCurve trains a fresh model on each prefix of the training set and
// scores it on that prefix and on the test set.
func LearningCurve(newModel func() models.Model, Xtrain [][]float64, ytrain []float64, Xtest [][]float64, ytest []float64, sizes []int, cut float64) ([]CurvePoint, error) {
	out := make([]CurvePoint, 0, len(sizes))
	for _, s := range sizes {
		if s > len(Xtrain) {
			s = len(Xtrain)
		}
		subX, subY := Xtrain[:s], ytrain[:s]
		m := newModel()
		if err := m.Fit(subX, subY); err != nil {
			return nil, errors.Wrapf(err, "curve size %d", s)
		}
		tr, err := Evaluate(m, subX, subY, cut)
		if err != nil {
			return nil, err
		}
		te, err := Evaluate(m, Xtest, ytest, cut)
		if err != nil {
			return nil, err
		}
		out = append(out, CurvePoint{Size: s, TrainAcc: tr.Accuracy, TestAcc: te.Accuracy, TrainF1: tr.F1, TestF1: te.F1})
	}
	return out, nil
}

func WriteCurveCSV(path string, points []CurvePoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(curveHeader); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{strconv.Itoa(p.Size),
			fmt.Sprintf("%.6f", p.TrainAcc), fmt.Sprintf("%.6f", p.TestAcc),
			fmt.Sprintf("%.6f", p.TrainF1), fmt.Sprintf("%.6f", p.TestF1),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LastCurveRow returns the final row of a curve CSV keyed by column name.
func LastCurveRow(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return map[string]string{}, nil
	}
	hdr, last := rows[0], rows[len(rows)-1]
	out := make(map[string]string, len(hdr))
	for i := range hdr {
		if i < len(last) {
			out[hdr[i]] = last[i]
		}
	}
	return out, nil
}

func PlotCurvePNG(path string, points []CurvePoint) error {
	p := plot.New()
	p.Title.Text = "Learning curve"
	p.X.Label.Text = "Training rows"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Y.Max = 1

	xy := func(get func(CurvePoint) float64) plotter.XYs {
		pts := make(plotter.XYs, len(points))
		for i, cp := range points {
			pts[i].X = float64(cp.Size)
			pts[i].Y = get(cp)
		}
		return pts
	}
	err := plotutil.AddLinePoints(p,
		"Train (acc)", xy(func(c CurvePoint) float64 { return c.TrainAcc }),
		"Test (acc)", xy(func(c CurvePoint) float64 { return c.TestAcc }),
		"Train (F1)", xy(func(c CurvePoint) float64 { return c.TrainF1 }),
		"Test (F1)", xy(func(c CurvePoint) float64 { return c.TestF1 }),
	)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
