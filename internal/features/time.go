// Package features extracts time-domain and frequency-domain features
// from raw sEMG signal windows. All extractors are pure functions: the
// same window and sample rate always produce the same feature values.
//
// Sign convention: sign(0) is treated as "no sign", so a transition
// into or out of an exactly-zero sample is not counted as a crossing.
// A constant window therefore reports zero crossings and zero slope
// sign changes rather than an arbitrary or NaN result.
package features

import "math"

// RMS returns the root mean square of the window.
func RMS(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range window {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(window)))
}

// MAV returns the mean absolute value of the window.
func MAV(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range window {
		sum += math.Abs(v)
	}
	return sum / float64(len(window))
}

// Variance returns the population variance of the window.
func Variance(window []float64) float64 {
	n := len(window)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / float64(n)
	var acc float64
	for _, v := range window {
		d := v - mean
		acc += d * d
	}
	return acc / float64(n)
}

// ZeroCrossings counts sign changes between consecutive samples.
// Zero-valued samples carry no sign and never produce a crossing.
func ZeroCrossings(window []float64) int {
	return signChanges(window)
}

// SlopeSignChanges counts sign changes in the first difference of the
// window, i.e. the number of times the signal switches between rising
// and falling. Flat segments carry no sign.
func SlopeSignChanges(window []float64) int {
	if len(window) < 2 {
		return 0
	}
	diff := make([]float64, len(window)-1)
	for i := 1; i < len(window); i++ {
		diff[i-1] = window[i] - window[i-1]
	}
	return signChanges(diff)
}

// WaveformLength returns the cumulative absolute first difference of
// the window, a combined measure of amplitude and frequency content.
func WaveformLength(window []float64) float64 {
	var sum float64
	for i := 1; i < len(window); i++ {
		sum += math.Abs(window[i] - window[i-1])
	}
	return sum
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func signChanges(vs []float64) int {
	var count, prev int
	for _, v := range vs {
		s := sign(v)
		if s == 0 {
			continue
		}
		if prev != 0 && s != prev {
			count++
		}
		prev = s
	}
	return count
}
