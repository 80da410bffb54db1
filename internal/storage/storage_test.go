package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"emg-forest/internal/common"
	"emg-forest/internal/forest"
	"emg-forest/internal/memest"
)

// stumpForest builds a forest of numTrees single-split trees with
// distinct thresholds so structural equality is meaningful.
func stumpForest(numTrees int) *forest.Forest {
	f := &forest.Forest{
		NumFeatures:  4,
		NumClasses:   3,
		FeatureNames: []string{"rms", "mav", "var", "wl"},
		ClassNames:   []string{"open_hand", "closed_fist", "peace_sign"},
		Seed:         42,
	}
	for i := 0; i < numTrees; i++ {
		f.Trees = append(f.Trees, forest.Tree{Nodes: []forest.Node{
			{Feature: i % 4, Threshold: 0.5 + float64(i)*0.25, Left: 1, Right: 2},
			{Left: forest.NoChild, Right: forest.NoChild, Class: i % 3, Leaf: true},
			{Left: forest.NoChild, Right: forest.NoChild, Class: (i + 1) % 3, Leaf: true},
		}})
	}
	return f
}

func reportFor(f *forest.Forest) *forest.Report {
	return &forest.Report{
		Forest:            f,
		CVAccuracyMean:    0.91,
		CVAccuracyStd:     0.03,
		CVScores:          []float64{0.9, 0.95, 0.88, 0.92, 0.9},
		FeatureImportance: []float64{0.4, 0.3, 0.2, 0.1},
		Memory:            memest.Estimate(f),
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, numTrees := range []int{1, 15, 20} {
		path := filepath.Join(t.TempDir(), "models.db")
		want := reportFor(stumpForest(numTrees))

		require.NoError(t, Save(path, "rf_model", want))
		got, err := Load(path, "rf_model")
		require.NoError(t, err)

		// Structural equality, cross-validation metadata included.
		assert.Equal(t, want, got, "%d-tree round trip", numTrees)
	}
}

func TestStoreMultipleModels(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "models.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	small := reportFor(stumpForest(1))
	large := reportFor(stumpForest(20))
	require.NoError(t, s.SaveModel("small", small))
	require.NoError(t, s.SaveModel("large", large))

	got, err := s.LoadModel("large")
	require.NoError(t, err)
	assert.Equal(t, large, got)
}

func TestLoadMissingModel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "models.db")
	require.NoError(t, Save(path, "rf_model", reportFor(stumpForest(1))))

	_, err := Load(path, "no_such_model")
	var deser *common.DeserializationError
	require.ErrorAs(t, err, &deser)
}

func TestLoadForeignFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not-a-db.bin")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a bolt database"), 0o600))

	_, err := Load(path, "rf_model")
	var deser *common.DeserializationError
	require.ErrorAs(t, err, &deser)
}

func TestLoadCorruptPayload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "models.db")
	s, err := Open(path)
	require.NoError(t, err)

	// Plant a corrupt payload and a structurally invalid one directly.
	invalid, err := json.Marshal(map[string]any{"forest": map[string]any{
		"trees": []any{map[string]any{"nodes": []any{}}}, "n_features": 4, "n_classes": 3,
	}})
	require.NoError(t, err)
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(modelsBucket))
		if err := b.Put([]byte("garbage"), []byte("{not json")); err != nil {
			return err
		}
		return b.Put([]byte("invalid"), invalid)
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	var deser *common.DeserializationError
	_, err = Load(path, "garbage")
	require.ErrorAs(t, err, &deser, "corrupt JSON must not load")
	_, err = Load(path, "invalid")
	require.ErrorAs(t, err, &deser, "invariant-violating forest must not load")
}

func TestSaveRejectsInvalidForest(t *testing.T) {
	t.Parallel()

	r := reportFor(stumpForest(1))
	r.Forest.Trees[0].Nodes[0].Left = 42 // dangling child index
	err := Save(filepath.Join(t.TempDir(), "models.db"), "bad", r)
	require.Error(t, err)
}
