package forest

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"emg-forest/internal/common"
	"emg-forest/internal/memest"
)

// MetricsInterface defines the metrics methods the trainer reports to.
type MetricsInterface interface {
	TrainingsInc()
	TrainingDurationObserve(float64)
	CVAccuracyObserve(float64)
}

// Config holds the ensemble hyperparameters. The defaults are an
// embedded deployment policy: they exist to bound the encoded model's
// flash and RAM footprint, not to maximize accuracy, and callers may
// tune them.
type Config struct {
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	CVFolds         int
	Seed            int64
}

// DefaultConfig returns the embedded-friendly policy for a class count:
// small gesture sets get 15 trees of depth 5, larger alphabets 20 of
// depth 6.
func DefaultConfig(numClasses int) Config {
	cfg := Config{
		NumTrees:        15,
		MaxDepth:        5,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  3,
		CVFolds:         common.DefaultCVFolds,
		Seed:            common.DefaultSeed,
	}
	if numClasses > 8 {
		cfg.NumTrees = 20
		cfg.MaxDepth = 6
	}
	return cfg
}

// Report is the result of a training run. CV figures are diagnostic
// only: the cross-validation models are disposable and never influence
// the final forest.
type Report struct {
	Forest            *Forest       `json:"forest"`
	CVAccuracyMean    float64       `json:"cv_accuracy_mean"`
	CVAccuracyStd     float64       `json:"cv_accuracy_std"`
	CVScores          []float64     `json:"cv_scores"`
	FeatureImportance []float64     `json:"feature_importance"`
	Memory            memest.Report `json:"memory"`
}

// Train fits a bagged forest on the labeled feature matrix and runs
// stratified cross-validation with the same hyperparameters. Labels
// must be dense integers 0..n-1; the class set is derived from them.
func Train(x [][]float64, y []int, featureNames, classNames []string, cfg Config) (*Report, error) {
	return TrainWithMetrics(x, y, featureNames, classNames, cfg, nil)
}

// TrainWithMetrics is Train with an optional metrics sink.
func TrainWithMetrics(x [][]float64, y []int, featureNames, classNames []string, cfg Config, m MetricsInterface) (*Report, error) {
	start := time.Now()

	numClasses, err := validateTrainingSet(x, y)
	if err != nil {
		return nil, err
	}
	if cfg.CVFolds <= 0 {
		cfg.CVFolds = common.DefaultCVFolds
	}

	// Fail fast on stratification before fitting anything.
	baseRng := rand.New(rand.NewSource(cfg.Seed))
	folds, err := stratifiedFolds(y, cfg.CVFolds, baseRng)
	if err != nil {
		return nil, err
	}

	f, importance := fit(x, y, numClasses, cfg)
	f.FeatureNames = featureNames
	f.ClassNames = classNames

	scores := crossValidate(x, y, numClasses, cfg, folds)
	mean, std := meanStd(scores)

	report := &Report{
		Forest:            f,
		CVAccuracyMean:    mean,
		CVAccuracyStd:     std,
		CVScores:          scores,
		FeatureImportance: importance,
		Memory:            memest.Estimate(f),
	}

	if m != nil {
		m.TrainingsInc()
		m.TrainingDurationObserve(time.Since(start).Seconds())
		for _, s := range scores {
			m.CVAccuracyObserve(s)
		}
	}
	log.Info().
		Int("trees", len(f.Trees)).
		Int("features", f.NumFeatures).
		Int("classes", f.NumClasses).
		Int("total_nodes", f.TotalNodes()).
		Float64("cv_accuracy_mean", mean).
		Float64("cv_accuracy_std", std).
		Dur("elapsed", time.Since(start)).
		Msg("forest trained")

	return report, nil
}

// fit trains the final forest. Tree fits fan out across goroutines, but
// each tree draws from its own sub-seeded source and lands in a fixed
// slot, so tree order is reproducible regardless of scheduling.
func fit(x [][]float64, y []int, numClasses int, cfg Config) (*Forest, []float64) {
	trees := make([]Tree, cfg.NumTrees)
	importances := make([][]float64, cfg.NumTrees)

	var wg sync.WaitGroup
	for i := 0; i < cfg.NumTrees; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(slot)*7919))
			sample := bootstrap(len(x), rng)
			b := newTreeBuilder(x, y, numClasses, cfg, rng)
			trees[slot] = b.grow(sample)
			importances[slot] = b.importance
		}(i)
	}
	wg.Wait()

	importance := make([]float64, len(x[0]))
	for _, imp := range importances {
		for j, v := range imp {
			importance[j] += v
		}
	}
	normalize(importance)

	return &Forest{
		Trees:       trees,
		NumFeatures: len(x[0]),
		NumClasses:  numClasses,
		Seed:        cfg.Seed,
	}, importance
}

func bootstrap(n int, rng *rand.Rand) []int {
	sample := make([]int, n)
	for i := range sample {
		sample[i] = rng.Intn(n)
	}
	return sample
}

func validateTrainingSet(x [][]float64, y []int) (numClasses int, err error) {
	if len(x) == 0 {
		return 0, &common.InputShapeError{What: "sample count", Want: 1, Got: 0}
	}
	if len(x) != len(y) {
		return 0, &common.InputShapeError{What: "label count", Want: len(x), Got: len(y)}
	}
	width := len(x[0])
	if width == 0 {
		return 0, &common.InputShapeError{What: "feature count", Want: 1, Got: 0}
	}
	for _, row := range x {
		if len(row) != width {
			return 0, &common.InputShapeError{What: "feature row length", Want: width, Got: len(row)}
		}
	}
	seen := map[int]bool{}
	max := 0
	for _, label := range y {
		if label < 0 {
			return 0, &common.InputShapeError{What: "class label", Want: 0, Got: label}
		}
		seen[label] = true
		if label > max {
			max = label
		}
	}
	if len(seen) != max+1 {
		return 0, &common.InputShapeError{What: "dense class labels", Want: max + 1, Got: len(seen)}
	}
	return max + 1, nil
}

func meanStd(vs []float64) (mean, std float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	for _, v := range vs {
		mean += v
	}
	mean /= float64(len(vs))
	for _, v := range vs {
		d := v - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(vs)))
}

func normalize(vs []float64) {
	var total float64
	for _, v := range vs {
		total += v
	}
	if total == 0 {
		return
	}
	for i := range vs {
		vs[i] /= total
	}
}
