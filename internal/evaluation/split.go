package evaluation

import (
	"math/rand"
	"sort"
)

// TrainTestSplit holds out testFrac of every class and shuffles both parts.
// testFrac <= 0 returns the full set as training data and no test rows.
func TrainTestSplit(X [][]float64, y []float64, testFrac float64, rng *rand.Rand) (Xtrain [][]float64, ytrain []float64, Xtest [][]float64, ytest []float64) {
	if testFrac <= 0 {
		return X, y, nil, nil
	}
	byClass := map[float64][]int{}
	for i, v := range y {
		byClass[v] = append(byClass[v], i)
	}
	classes := make([]float64, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Float64s(classes)

	var trainIdx, testIdx []int
	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		nTest := int(testFrac * float64(len(idx)))
		testIdx = append(testIdx, idx[:nTest]...)
		trainIdx = append(trainIdx, idx[nTest:]...)
	}
	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })

	Xtrain, ytrain = gather(X, y, trainIdx)
	Xtest, ytest = gather(X, y, testIdx)
	return
}

func gather(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	Xo := make([][]float64, len(idx))
	yo := make([]float64, len(idx))
	for i, j := range idx {
		Xo[i] = X[j]
		yo[i] = y[j]
	}
	return Xo, yo
}
