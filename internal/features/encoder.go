package features

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Encoder turns raw CSV records into a feature matrix. The last column of a
// training record is the label. Numeric cells are min-max scaled per column;
// any other cell is replaced by a categorical code shared across columns,
// assigned 1, 2, ... in order of first appearance.
type Encoder struct {
	Names      []string
	NFeatures  int
	Mins       []float64
	Maxs       []float64
	Categories map[string]float64

	mu     sync.Mutex
	logger *zap.Logger
}

// Report counts what Transform kept and dropped.
type Report struct {
	Rows           int
	SkippedColumns int
	SkippedLabels  int
}

func NewEncoder() *Encoder {
	return &Encoder{Categories: map[string]float64{}}
}

func (e *Encoder) SetLogger(l *zap.Logger) { e.logger = l }

func (e *Encoder) log() *zap.Logger {
	if e.logger == nil {
		return zap.NewNop()
	}
	return e.logger
}

// Fit learns column ranges from rows. The feature count is taken from the
// first record; records of any other width are ignored.
func (e *Encoder) Fit(header []string, rows [][]string) error {
	if len(rows) == 0 {
		return errors.New("no records to fit")
	}
	nFeats := len(rows[0]) - 1
	if nFeats < 1 {
		return errors.Errorf("first record has %d columns, need features and a label", len(rows[0]))
	}
	e.NFeatures = nFeats
	e.Names = featureNames(header, nFeats)
	e.Mins = make([]float64, nFeats)
	e.Maxs = make([]float64, nFeats)
	for i := range e.Mins {
		e.Mins[i] = math.MaxFloat64
		e.Maxs[i] = -math.MaxFloat64
	}
	if e.Categories == nil {
		e.Categories = map[string]float64{}
	}
	for _, row := range rows {
		if len(row) != nFeats+1 {
			continue
		}
		for i := 0; i < nFeats; i++ {
			if v, ok := parseNumber(row[i]); ok {
				e.Mins[i] = math.Min(e.Mins[i], v)
				e.Maxs[i] = math.Max(e.Maxs[i], v)
			}
		}
	}
	return nil
}

// Transform encodes labelled records. Records with the wrong width or a
// non-numeric label are skipped and counted in the report.
func (e *Encoder) Transform(rows [][]string) ([][]float64, []float64, Report, error) {
	var rep Report
	if e.NFeatures == 0 {
		return nil, nil, rep, errors.New("encoder not fitted")
	}
	X := make([][]float64, 0, len(rows))
	y := make([]float64, 0, len(rows))
	for i, row := range rows {
		if len(row) != e.NFeatures+1 {
			e.log().Warn("skipping record with mismatched column count", zap.Int("record", i), zap.Int("columns", len(row)))
			rep.SkippedColumns++
			continue
		}
		label, ok := parseNumber(row[e.NFeatures])
		if !ok {
			e.log().Warn("skipping record with invalid label", zap.Int("record", i), zap.String("label", row[e.NFeatures]))
			rep.SkippedLabels++
			continue
		}
		X = append(X, e.encode(row[:e.NFeatures], true))
		y = append(y, label)
	}
	rep.Rows = len(X)
	return X, y, rep, nil
}

func (e *Encoder) FitTransform(header []string, rows [][]string) ([][]float64, []float64, Report, error) {
	if err := e.Fit(header, rows); err != nil {
		return nil, nil, Report{}, err
	}
	return e.Transform(rows)
}

// Vectorize encodes one unlabelled record. It never learns new categories:
// every value unseen during Transform maps to the same code,
// len(Categories)+1.
func (e *Encoder) Vectorize(fields []string) ([]float64, error) {
	if e.NFeatures == 0 {
		return nil, errors.New("encoder not fitted")
	}
	if len(fields) != e.NFeatures {
		return nil, errors.Errorf("got %d fields, expected %d", len(fields), e.NFeatures)
	}
	return e.encode(fields, false), nil
}

func (e *Encoder) encode(fields []string, learn bool) []float64 {
	vec := make([]float64, len(fields))
	for i, f := range fields {
		if v, ok := parseNumber(f); ok {
			vec[i] = normalize(v, e.Mins[i], e.Maxs[i])
		} else {
			vec[i] = e.category(strings.TrimSpace(f), learn)
		}
	}
	return vec
}

func (e *Encoder) category(s string, learn bool) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if code, ok := e.Categories[s]; ok {
		return code
	}
	code := float64(len(e.Categories) + 1)
	if !learn {
		return code
	}
	e.Categories[s] = code
	e.log().Debug("encoded category", zap.String("value", s), zap.Float64("code", code))
	return code
}

func normalize(v, min, max float64) float64 {
	if min == max {
		return 0
	}
	return (v - min) / (max - min)
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func featureNames(header []string, n int) []string {
	names := make([]string, n)
	for i := range names {
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			names[i] = strings.TrimSpace(header[i])
		} else {
			names[i] = "f" + strconv.Itoa(i)
		}
	}
	return names
}
