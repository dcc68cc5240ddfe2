// Package features derives scalar acoustic descriptors from audio sample
// windows. Two accuracy tiers share one extractor: the fast tier computes
// cheap time-domain proxies over a capped prefix of the window, the advanced
// tier runs full spectral analysis through the dsp transform. Consumers pick
// the tier per call, so the same window can be described cheaply for
// interactive use and thoroughly when accuracy matters.
package features

import "math"

// Tier selects the accuracy/cost tradeoff for an extraction call.
type Tier int

const (
	// TierFast bounds work to a capped sample prefix and avoids the
	// spectral transform entirely. Suitable for per-chunk interactive use.
	TierFast Tier = iota
	// TierAdvanced runs the full spectral analysis.
	TierAdvanced
)

// Feature names shared across the extractor, calibration statistics and the
// emotion model tables.
const (
	FeatEnergy          = "energy"
	FeatZCR             = "zcr"
	FeatPitch           = "pitch"
	FeatCentroid        = "centroid"
	FeatShimmer         = "shimmer"
	FeatEnergyVariance  = "energyVariance"
	FeatFormant1        = "formant1"
	FeatFormant2        = "formant2"
	FeatRolloff         = "rolloff"
	FeatFlux            = "flux"
	FeatEnergyEntropy   = "energyEntropy"
	FeatJitter          = "jitter"
	FeatHNR             = "hnr"
	FeatSpectralEntropy = "spectralEntropy"
	FeatBand1           = "band1"
	FeatBand2           = "band2"
	FeatBand3           = "band3"
	FeatBand4           = "band4"
)

// Vector lengths per tier for speaker identification.
const (
	FastSpeakerLen     = 6
	AdvancedSpeakerLen = 16
)

// epsilon guards every denominator in the package. No division may produce
// NaN or Inf for any input window, including all-zero and empty windows.
const epsilon = 1e-10

// Amplitudes are raw 16-bit PCM units (not rescaled to [-1,1]); the energy
// ranges and calibration priors below assume that scale.

// Fast-tier cost caps.
const (
	fastPrefixCap     = 2000 // samples examined for energy/pitch/centroid
	fastCorrWindowCap = 500  // correlation window for the coarse pitch scan
	fastLagStep       = 2    // stepped lag scan, skips every other lag
	fastLagMin        = 20   // 800Hz ceiling at 16kHz
	fastLagMax        = 200  // 80Hz floor at 16kHz
	fastSubWindow     = 200  // sub-window size for shimmer/energy variance
	fastMaxSubWindows = 10
)

// Advanced-tier analysis parameters.
const (
	advLagMin         = 20
	advLagMax         = 400 // 40Hz floor at 16kHz
	advShimmerWindow  = 400
	advEntropyWindows = 10
	advBandCount      = 4
	rolloffFraction   = 0.85
	voicedThreshold   = 0.30 // normalized autocorrelation floor for voicing
	formantLowHz      = 200
	formantHighHz     = 4000
)

// Analysis is the full advanced-tier descriptor set for one window.
// All values are raw (unnormalized); consumers normalize against
// calibration statistics.
type Analysis struct {
	Energy           float64 // mean squared amplitude
	Pitch            float64 // Hz, 0 when unvoiced
	ZeroCrossingRate float64 // fraction of sign-changing sample pairs
	Centroid         float64 // Hz
	Rolloff          float64 // Hz, 85% spectral energy point
	Flux             float64 // distance to the previous window's spectrum
	Formant1         float64 // Hz
	Formant2         float64 // Hz
	EnergyEntropy    float64 // [0,1]
	Jitter           float64 // relative period-to-period variation
	Shimmer          float64 // relative amplitude variation
	HNR              float64 // dB, harmonic-to-noise ratio
	SpectralEntropy  float64 // [0,1], normalized Shannon entropy
	Bands            [advBandCount]float64 // linear filterbank log energies
}

// FastFeatures is the fast-tier descriptor set: raw values for the emotion
// rules plus the two variability measures used by speaker vectors.
type FastFeatures struct {
	Energy           float64
	ZeroCrossingRate float64
	Pitch            float64 // Hz, 0 when unvoiced
	Centroid         float64 // unitless first-difference proxy in [0,1]
	Shimmer          float64
	EnergyVariance   float64 // squared coefficient of variation
}

// Extractor derives feature vectors from sample windows. It owns the
// calibration statistics used by advanced-tier normalization and the
// previous-window spectrum used by spectral flux. Not safe for concurrent
// use; the pipeline is single-threaded per chunk.
type Extractor struct {
	sampleRate int
	cal        *Calibration

	prevSpectrum []float64 // previous window magnitude spectrum, for flux
}

// NewExtractor returns an extractor for the given sample rate. The
// calibration statistics are shared by reference so the classifier and
// pipeline observe the same running state.
func NewExtractor(sampleRate int, cal *Calibration) *Extractor {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if cal == nil {
		cal = NewCalibration()
	}
	return &Extractor{sampleRate: sampleRate, cal: cal}
}

// Calibration exposes the extractor's calibration statistics.
func (e *Extractor) Calibration() *Calibration { return e.cal }

// ResetFlux clears the previous-window spectrum so the next advanced
// analysis starts a fresh flux baseline. Called on session reset.
func (e *Extractor) ResetFlux() { e.prevSpectrum = nil }

// SpeakerVector derives the speaker-identification vector for the requested
// tier: 6 min-max normalized values for TierFast, 16 calibration-normalized
// values for TierAdvanced. An empty window yields a zero vector of the
// tier's length.
func (e *Extractor) SpeakerVector(samples []float64, tier Tier) []float64 {
	if tier == TierAdvanced {
		return e.advancedSpeakerVector(samples)
	}
	return e.fastSpeakerVector(samples)
}

// fastSpeakerVector assembles the 6-feature fast vector, min-max normalized
// into [0,1] against fixed expected ranges.
func (e *Extractor) fastSpeakerVector(samples []float64) []float64 {
	v := make([]float64, FastSpeakerLen)
	if len(samples) == 0 {
		return v
	}
	f := e.Fast(samples)
	v[0] = minMax(f.Energy, 0, 2.5e7)
	v[1] = minMax(f.ZeroCrossingRate, 0, 0.5)
	v[2] = minMax(f.Pitch, 0, 400)
	v[3] = minMax(f.Centroid, 0, 1)
	v[4] = minMax(f.Shimmer, 0, 1)
	v[5] = minMax(f.EnergyVariance, 0, 4)
	return v
}

// advancedSpeakerVector assembles the 16-feature advanced vector, z-score
// normalized per feature against calibration statistics, clamped to three
// standard deviations and rescaled into [0,1].
func (e *Extractor) advancedSpeakerVector(samples []float64) []float64 {
	v := make([]float64, AdvancedSpeakerLen)
	if len(samples) == 0 {
		return v
	}
	a := e.Analyze(samples)
	v[0] = e.cal.Normalize(FeatPitch, a.Pitch)
	v[1] = e.cal.Normalize(FeatFormant1, a.Formant1)
	v[2] = e.cal.Normalize(FeatFormant2, a.Formant2)
	v[3] = e.cal.Normalize(FeatCentroid, a.Centroid)
	v[4] = e.cal.Normalize(FeatRolloff, a.Rolloff)
	v[5] = e.cal.Normalize(FeatFlux, a.Flux)
	v[6] = e.cal.Normalize(FeatZCR, a.ZeroCrossingRate)
	v[7] = e.cal.Normalize(FeatEnergyEntropy, a.EnergyEntropy)
	v[8] = e.cal.Normalize(FeatJitter, a.Jitter)
	v[9] = e.cal.Normalize(FeatHNR, a.HNR)
	v[10] = e.cal.Normalize(FeatShimmer, a.Shimmer)
	v[11] = e.cal.Normalize(FeatSpectralEntropy, a.SpectralEntropy)
	v[12] = e.cal.Normalize(FeatBand1, a.Bands[0])
	v[13] = e.cal.Normalize(FeatBand2, a.Bands[1])
	v[14] = e.cal.Normalize(FeatBand3, a.Bands[2])
	v[15] = e.cal.Normalize(FeatBand4, a.Bands[3])
	return v
}

// EmotionNormalized maps the seven advanced emotion features to their
// calibration-normalized [0,1] values.
func (e *Extractor) EmotionNormalized(a Analysis) map[string]float64 {
	return map[string]float64{
		FeatEnergy:          e.cal.Normalize(FeatEnergy, a.Energy),
		FeatPitch:           e.cal.Normalize(FeatPitch, a.Pitch),
		FeatZCR:             e.cal.Normalize(FeatZCR, a.ZeroCrossingRate),
		FeatJitter:          e.cal.Normalize(FeatJitter, a.Jitter),
		FeatShimmer:         e.cal.Normalize(FeatShimmer, a.Shimmer),
		FeatHNR:             e.cal.Normalize(FeatHNR, a.HNR),
		FeatSpectralEntropy: e.cal.Normalize(FeatSpectralEntropy, a.SpectralEntropy),
	}
}

// minMax rescales x into [0,1] over [lo,hi], clamped at both ends.
func minMax(x, lo, hi float64) float64 {
	if hi-lo < epsilon {
		return 0
	}
	n := (x - lo) / (hi - lo)
	return clamp01(n)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// meanSquare returns the mean squared amplitude of samples, 0 when empty.
func meanSquare(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return sum / float64(len(samples))
}

// zeroCrossingRate returns the fraction of adjacent sample pairs that change
// sign, over the full window length.
func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(samples)-1)
}

// peakAbs returns the maximum absolute amplitude in samples, 0 when empty.
func peakAbs(samples []float64) float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}
