package models

// Model is a trainable regressor over numeric feature vectors. Labels are
// real-valued class codes; Predict returns the raw value the caller
// thresholds into a class.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(x []float64) (float64, error)
	Name() string
}
