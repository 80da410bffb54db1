package forest

import (
	"math/rand"

	"emg-forest/internal/common"
)

// stratifiedFolds partitions sample indices into k folds that preserve
// class proportions. Every class must contribute at least one sample to
// each fold; a class with fewer than k samples makes stratification
// impossible and is reported rather than silently reducing k.
func stratifiedFolds(y []int, k int, rng *rand.Rand) ([][]int, error) {
	if len(y) < k {
		return nil, &common.InsufficientDataError{Folds: k, Reason: "fewer samples than folds"}
	}
	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	if len(byClass) < 2 {
		return nil, &common.InsufficientDataError{Folds: k, Reason: "fewer than two distinct classes"}
	}
	for _, indices := range byClass {
		if len(indices) < k {
			return nil, &common.InsufficientDataError{Folds: k, Reason: "a class has fewer samples than folds"}
		}
	}

	folds := make([][]int, k)
	// Deal each class round-robin after an in-class shuffle, keeping
	// per-fold class proportions close to the global ones. Iterate
	// classes in label order so fold contents are seed-deterministic.
	for label := 0; label < len(byClass); label++ {
		indices := byClass[label]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		for i, idx := range indices {
			folds[i%k] = append(folds[i%k], idx)
		}
	}
	return folds, nil
}

// crossValidate trains one disposable forest per fold on the remaining
// folds and scores accuracy on the held-out one. The same
// hyperparameters as the final fit are used, so the scores estimate
// out-of-sample performance of the deployed configuration.
func crossValidate(x [][]float64, y []int, numClasses int, cfg Config, folds [][]int) []float64 {
	scores := make([]float64, len(folds))
	for fi, holdout := range folds {
		held := map[int]bool{}
		for _, idx := range holdout {
			held[idx] = true
		}
		var trainX [][]float64
		var trainY []int
		for i := range x {
			if !held[i] {
				trainX = append(trainX, x[i])
				trainY = append(trainY, y[i])
			}
		}

		foldCfg := cfg
		foldCfg.Seed = cfg.Seed + int64(fi+1)*104729
		f, _ := fit(trainX, trainY, numClasses, foldCfg)

		var correct int
		for _, idx := range holdout {
			if c, _, err := f.PredictOne(x[idx]); err == nil && c == y[idx] {
				correct++
			}
		}
		scores[fi] = float64(correct) / float64(len(holdout))
	}
	return scores
}
