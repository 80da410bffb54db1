package features

import "emg-forest/internal/common"

// featureNames is the canonical column order of the extracted vector.
// Training and inference both depend on this order; changing it
// invalidates every trained model and emitted header.
var featureNames = []string{
	"rms",
	"mav",
	"var",
	"zc",
	"ssc",
	"wl",
	"mean_freq",
	"median_freq",
	"band_power_0",
	"band_power_1",
	"band_power_2",
	"band_power_3",
}

// Count is the number of features produced per window.
func Count() int { return len(featureNames) }

// Names returns the feature column names in extraction order.
func Names() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// TimeDomain extracts the six time-domain features of a window in
// canonical order: rms, mav, var, zc, ssc, wl.
func TimeDomain(window []float64) ([]float64, error) {
	if len(window) < common.MinWindowLen {
		return nil, &common.InputShapeError{What: "signal window length", Want: common.MinWindowLen, Got: len(window)}
	}
	return []float64{
		RMS(window),
		MAV(window),
		Variance(window),
		float64(ZeroCrossings(window)),
		float64(SlopeSignChanges(window)),
		WaveformLength(window),
	}, nil
}

// FrequencyDomain extracts the six frequency-domain features of a
// window in canonical order: mean_freq, median_freq, band powers 0-3.
func FrequencyDomain(window []float64, sampleRate float64) ([]float64, error) {
	if len(window) < common.MinWindowLen {
		return nil, &common.InputShapeError{What: "signal window length", Want: common.MinWindowLen, Got: len(window)}
	}
	s := NewSpectrum(window, sampleRate)
	bands := s.BandPowers()
	return []float64{
		s.MeanFrequency(),
		s.MedianFrequency(),
		bands[0],
		bands[1],
		bands[2],
		bands[3],
	}, nil
}

// Vector extracts the full feature vector of a window: the six
// time-domain features followed by the six frequency-domain features,
// in the order reported by Names.
func Vector(window []float64, sampleRate float64) ([]float64, error) {
	td, err := TimeDomain(window)
	if err != nil {
		return nil, err
	}
	fd, err := FrequencyDomain(window, sampleRate)
	if err != nil {
		return nil, err
	}
	return append(td, fd...), nil
}
