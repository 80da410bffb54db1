package dataset

import (
	"errors"
	"strings"
	"testing"

	"emg-forest/internal/common"
)

func TestReadWithHeader(t *testing.T) {
	t.Parallel()

	csv := `rms,mav,wl,label
0.5,0.3,1.2,0
0.1,0.2,0.4,1
0.9,0.8,2.2,0
`
	set, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if got := set.FeatureNames; len(got) != 3 || got[0] != "rms" || got[2] != "wl" {
		t.Errorf("feature names = %v", got)
	}
	if len(set.X) != 3 || len(set.Y) != 3 {
		t.Fatalf("shape = %dx%d, want 3 samples", len(set.X), len(set.Y))
	}
	if set.X[1][2] != 0.4 {
		t.Errorf("X[1][2] = %v, want 0.4", set.X[1][2])
	}
	if set.Y[1] != 1 {
		t.Errorf("Y[1] = %d, want 1", set.Y[1])
	}
}

func TestReadWithoutHeader(t *testing.T) {
	t.Parallel()

	set, err := Read(strings.NewReader("1.5,2.5,0\n3.5,4.5,1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if set.FeatureNames != nil {
		t.Errorf("feature names = %v, want nil", set.FeatureNames)
	}
	if len(set.X) != 2 || set.X[0][0] != 1.5 || set.Y[1] != 1 {
		t.Errorf("parsed set = %v / %v", set.X, set.Y)
	}
}

func TestReadRejectsBadInput(t *testing.T) {
	t.Parallel()

	var shape *common.InputShapeError
	if _, err := Read(strings.NewReader("")); !errors.As(err, &shape) {
		t.Errorf("empty input: err = %v, want InputShapeError", err)
	}

	if _, err := Read(strings.NewReader("0\n1\n")); !errors.As(err, &shape) {
		t.Errorf("label-only rows: err = %v, want InputShapeError", err)
	}

	if _, err := Read(strings.NewReader("1.0,x,0\n")); err == nil {
		t.Error("expected error for non-numeric feature")
	}

	if _, err := Read(strings.NewReader("1.0,2.0,notalabel\n")); err == nil {
		t.Error("expected error for non-integer label")
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadCSV("does/not/exist.csv"); err == nil {
		t.Error("expected error for missing file")
	}
}
