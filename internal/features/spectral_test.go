package features

import (
	"math"
	"testing"
)

func sine(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func TestSpectrumPureTone(t *testing.T) {
	t.Parallel()

	// 125 Hz lands exactly on bin 8 of a 64-sample window at 1 kHz.
	window := sine(125, 1000, 64)
	s := NewSpectrum(window, 1000)

	if len(s.Freqs) != 33 {
		t.Fatalf("bins = %d, want 33", len(s.Freqs))
	}
	peak := 0
	for i := range s.Power {
		if s.Power[i] > s.Power[peak] {
			peak = i
		}
	}
	if s.Freqs[peak] != 125 {
		t.Errorf("peak frequency = %v, want 125", s.Freqs[peak])
	}

	if mf := s.MeanFrequency(); math.Abs(mf-125) > 1 {
		t.Errorf("mean frequency = %v, want ~125", mf)
	}
	if mf := s.MedianFrequency(); mf != 125 {
		t.Errorf("median frequency = %v, want 125", mf)
	}

	bands := s.BandPowers()
	total := bands[0] + bands[1] + bands[2] + bands[3]
	if bands[1]/total < 0.99 {
		t.Errorf("band 1 share = %v, want >0.99 for a 125 Hz tone", bands[1]/total)
	}
}

func TestSpectrumDC(t *testing.T) {
	t.Parallel()

	s := NewSpectrum([]float64{2, 2, 2, 2, 2, 2, 2, 2}, 1000)
	if mf := s.MeanFrequency(); mf > 1e-9 {
		t.Errorf("mean frequency of DC = %v, want 0", mf)
	}
	if mf := s.MedianFrequency(); mf != 0 {
		t.Errorf("median frequency of DC = %v, want 0", mf)
	}
	bands := s.BandPowers()
	if bands[0] == 0 {
		t.Error("DC power should fall in band 0")
	}
}

func TestSpectrumSilence(t *testing.T) {
	t.Parallel()

	s := NewSpectrum(make([]float64, 16), 1000)
	if mf := s.MeanFrequency(); mf != 0 {
		t.Errorf("mean frequency of silence = %v, want 0", mf)
	}
	if mf := s.MedianFrequency(); mf != 0 {
		t.Errorf("median frequency of silence = %v, want 0", mf)
	}
}

func TestBandEdgesHalfOpen(t *testing.T) {
	t.Parallel()

	// A 50 Hz tone sits exactly on the band 0/1 boundary and must be
	// counted once, in band 1.
	window := sine(50, 1000, 40) // bin 2 of 40 samples at 1 kHz
	s := NewSpectrum(window, 1000)
	bands := s.BandPowers()
	if bands[1] <= bands[0] {
		t.Errorf("50 Hz tone: band1 = %v should dominate band0 = %v", bands[1], bands[0])
	}
}
