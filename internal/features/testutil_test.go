package features

import (
	"math"
	"testing"
)

// Signal generators for feature tests. Amplitudes are raw 16-bit PCM units
// to match the extractor's expected scale. Noise uses a fixed-seed LCG so
// every run sees identical samples.

const testSampleRate = 16000

// makeTone generates a sine wave at freq Hz with the given peak amplitude.
func makeTone(t *testing.T, freq, amplitude float64, n int) []float64 {
	t.Helper()
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/testSampleRate)
	}
	return samples
}

// makeVoiced generates a speech-like signal: fundamental plus two harmonics
// with a slow amplitude contour.
func makeVoiced(t *testing.T, f0, amplitude float64, n int) []float64 {
	t.Helper()
	samples := make([]float64, n)
	for i := range samples {
		ts := float64(i) / testSampleRate
		env := 0.8 + 0.2*math.Sin(2*math.Pi*3*ts)
		samples[i] = amplitude * env * (0.6*math.Sin(2*math.Pi*f0*ts) +
			0.3*math.Sin(2*math.Pi*2*f0*ts) +
			0.1*math.Sin(2*math.Pi*3*f0*ts))
	}
	return samples
}

// makeNoise generates deterministic white noise with the given peak
// amplitude using a fixed-seed LCG (Numerical Recipes parameters).
func makeNoise(t *testing.T, amplitude float64, n int) []float64 {
	t.Helper()
	samples := make([]float64, n)
	rng := uint32(12345)
	for i := range samples {
		rng = rng*1664525 + 1013904223
		samples[i] = amplitude * ((float64(rng)/float64(0xFFFFFFFF))*2 - 1)
	}
	return samples
}

// assertInUnitRange fails if any vector element escapes [0,1] or is not
// finite.
func assertInUnitRange(t *testing.T, name string, v []float64) {
	t.Helper()
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Errorf("%s[%d] = %v, want finite", name, i, x)
		}
		if x < 0 || x > 1 {
			t.Errorf("%s[%d] = %v, want in [0,1]", name, i, x)
		}
	}
}

// assertFinite fails if x is NaN or infinite.
func assertFinite(t *testing.T, name string, x float64) {
	t.Helper()
	if math.IsNaN(x) || math.IsInf(x, 0) {
		t.Errorf("%s = %v, want finite", name, x)
	}
}
