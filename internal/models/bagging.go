package models

// NewBagging returns a forest whose trees see every column, so members
// differ only by their bootstrap sample.
func NewBagging() *RandomForest {
	rf := NewRandomForest()
	rf.MaxFeatures = -1
	return rf
}
