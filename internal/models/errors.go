package models

import "github.com/pkg/errors"

var (
	// ErrInvalidInput reports empty, ragged or misaligned training data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoValidSplit is returned when every column of a sample is constant.
	ErrNoValidSplit = errors.New("no valid split")
	// ErrNotTrained is returned when predicting with an unfitted stump or an
	// empty ensemble.
	ErrNotTrained = errors.New("model not trained")
)

func validateTrainingSet(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.Wrap(ErrInvalidInput, "empty feature matrix")
	}
	if len(y) == 0 {
		return errors.Wrap(ErrInvalidInput, "empty label vector")
	}
	if len(X) != len(y) {
		return errors.Wrapf(ErrInvalidInput, "%d rows but %d labels", len(X), len(y))
	}
	nFeats := len(X[0])
	for i := range X {
		if len(X[i]) != nFeats {
			return errors.Wrapf(ErrInvalidInput, "row %d has %d columns, expected %d", i, len(X[i]), nFeats)
		}
	}
	return nil
}
