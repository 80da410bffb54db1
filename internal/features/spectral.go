package features

import "math"

// Band edges in Hz for the four EMG power bands. Each band is half-open
// [low, high) except the last, which is closed at 500 Hz.
var bandEdges = [4][2]float64{
	{0, 50},
	{50, 150},
	{150, 250},
	{250, 500},
}

// Spectrum holds the one-sided power spectrum of a signal window.
type Spectrum struct {
	Freqs []float64 // bin center frequencies in Hz
	Power []float64 // squared DFT magnitude per bin
}

// NewSpectrum computes the one-sided power spectrum of the window at
// the given sample rate via a real-input DFT. The window is not
// tapered; callers that need a Hamming window apply it beforehand.
func NewSpectrum(window []float64, sampleRate float64) Spectrum {
	n := len(window)
	bins := n/2 + 1
	s := Spectrum{
		Freqs: make([]float64, bins),
		Power: make([]float64, bins),
	}
	for k := 0; k < bins; k++ {
		var re, im float64
		for t, v := range window {
			phase := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			re += v * math.Cos(phase)
			im += v * math.Sin(phase)
		}
		s.Freqs[k] = float64(k) * sampleRate / float64(n)
		s.Power[k] = re*re + im*im
	}
	return s
}

// MeanFrequency returns the power-weighted average frequency of the
// spectrum, or 0 when the window carries no power.
func (s Spectrum) MeanFrequency() float64 {
	var weighted, total float64
	for i, p := range s.Power {
		weighted += s.Freqs[i] * p
		total += p
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// MedianFrequency returns the frequency at which cumulative power first
// reaches half the total, or 0 when the window carries no power.
func (s Spectrum) MedianFrequency() float64 {
	var total float64
	for _, p := range s.Power {
		total += p
	}
	if total == 0 {
		return 0
	}
	var cum float64
	for i, p := range s.Power {
		cum += p
		if cum >= total/2 {
			return s.Freqs[i]
		}
	}
	return s.Freqs[len(s.Freqs)-1]
}

// BandPowers returns total spectral power in the four EMG bands
// [0,50), [50,150), [150,250) and [250,500] Hz.
func (s Spectrum) BandPowers() [4]float64 {
	var out [4]float64
	for i, p := range s.Power {
		f := s.Freqs[i]
		for b, edges := range bandEdges {
			low, high := edges[0], edges[1]
			if f >= low && (f < high || (b == len(bandEdges)-1 && f == high)) {
				out[b] += p
				break
			}
		}
	}
	return out
}
