// Package dataset loads labeled training sets from CSV files. Each row
// holds the feature columns followed by one integer class label; an
// optional header row names the feature columns.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"emg-forest/internal/common"
)

// Set is a labeled training set in the shape the trainer consumes.
type Set struct {
	X            [][]float64
	Y            []int
	FeatureNames []string
}

// LoadCSV reads a training set from a CSV file. A first row that fails
// numeric parsing is treated as a header naming the feature columns.
func LoadCSV(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a training set from CSV content.
func Read(r io.Reader) (*Set, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, &common.InputShapeError{What: "dataset rows", Want: 1, Got: 0}
	}

	set := &Set{}
	start := 0
	if _, err := strconv.ParseFloat(records[0][0], 64); err != nil {
		cols := records[0]
		if len(cols) < 2 {
			return nil, &common.InputShapeError{What: "dataset columns", Want: 2, Got: len(cols)}
		}
		set.FeatureNames = append([]string(nil), cols[:len(cols)-1]...)
		start = 1
	}

	width := -1
	for i := start; i < len(records); i++ {
		row := records[i]
		if width == -1 {
			width = len(row)
			if width < 2 {
				return nil, &common.InputShapeError{What: "dataset columns", Want: 2, Got: width}
			}
		}
		if len(row) != width {
			return nil, &common.InputShapeError{What: fmt.Sprintf("row %d columns", i+1), Want: width, Got: len(row)}
		}

		sample := make([]float64, width-1)
		for j := 0; j < width-1; j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
			sample[j] = v
		}
		label, err := strconv.Atoi(row[width-1])
		if err != nil {
			return nil, fmt.Errorf("row %d label: %w", i+1, err)
		}
		set.X = append(set.X, sample)
		set.Y = append(set.Y, label)
	}
	return set, nil
}
