package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInterfaceMethods(t *testing.T) {
	t.Parallel()

	m := NewWithRegistry(prometheus.NewRegistry())

	m.TrainingsInc()
	m.TrainingsInc()
	if got := testutil.ToFloat64(m.TrainingsTotal); got != 2 {
		t.Errorf("trainings_total = %v, want 2", got)
	}

	m.NodesEncodedAdd(105)
	if got := testutil.ToFloat64(m.NodesEncoded); got != 105 {
		t.Errorf("nodes_encoded_total = %v, want 105", got)
	}

	m.EncodeFailuresInc()
	if got := testutil.ToFloat64(m.EncodeFailures); got != 1 {
		t.Errorf("encode_failures_total = %v, want 1", got)
	}

	m.HeadersEmittedInc()
	m.ModelsSavedInc()
	m.ModelsLoadedInc()
	if got := testutil.ToFloat64(m.ModelsSaved); got != 1 {
		t.Errorf("models_saved_total = %v, want 1", got)
	}

	// Histograms only need to accept observations here.
	m.TrainingDurationObserve(0.25)
	m.CVAccuracyObserve(0.93)
}

func TestIsolatedRegistries(t *testing.T) {
	t.Parallel()

	a := NewWithRegistry(prometheus.NewRegistry())
	b := NewWithRegistry(prometheus.NewRegistry())
	a.TrainingsInc()
	if got := testutil.ToFloat64(b.TrainingsTotal); got != 0 {
		t.Errorf("registries not isolated: b trainings_total = %v", got)
	}
}
