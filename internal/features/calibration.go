package features

import "math"

// Calibration normalization bounds: z-scores are clamped to
// calibrationClampSigma standard deviations before rescaling into [0,1].
const calibrationClampSigma = 3.0

// calibrationDecay is the weight of a new observation in the online decayed
// running average. Small enough that a single loud chunk cannot drag the
// statistics, large enough to adapt within a few seconds of speech.
const calibrationDecay = 0.05

// Stat holds the running mean and standard deviation for one feature.
type Stat struct {
	Mean   float64
	StdDev float64
}

// Calibration holds per-feature normalization statistics for the advanced
// tier. Constructed once from fixed priors and passed by reference into the
// extractor and classifier; optionally updated online with a decayed running
// average. Not a global: each pipeline owns one instance, which keeps tests
// deterministic and parallel-safe.
type Calibration struct {
	stats map[string]*Stat
}

// NewCalibration returns calibration statistics seeded from fixed priors for
// typical 16kHz speech on the raw PCM amplitude scale.
func NewCalibration() *Calibration {
	return &Calibration{stats: map[string]*Stat{
		FeatEnergy:          {Mean: 2.5e6, StdDev: 2.0e6},
		FeatPitch:           {Mean: 150, StdDev: 60},
		FeatZCR:             {Mean: 0.08, StdDev: 0.06},
		FeatCentroid:        {Mean: 2000, StdDev: 1200},
		FeatRolloff:         {Mean: 4000, StdDev: 1800},
		FeatFlux:            {Mean: 0.15, StdDev: 0.12},
		FeatFormant1:        {Mean: 600, StdDev: 250},
		FeatFormant2:        {Mean: 1700, StdDev: 600},
		FeatEnergyEntropy:   {Mean: 0.85, StdDev: 0.12},
		FeatJitter:          {Mean: 0.03, StdDev: 0.025},
		FeatShimmer:         {Mean: 0.12, StdDev: 0.10},
		FeatHNR:             {Mean: 12, StdDev: 8},
		FeatSpectralEntropy: {Mean: 0.65, StdDev: 0.18},
		FeatBand1:           {Mean: 14, StdDev: 4},
		FeatBand2:           {Mean: 12, StdDev: 4},
		FeatBand3:           {Mean: 10, StdDev: 4},
		FeatBand4:           {Mean: 8, StdDev: 4},
	}}
}

// Normalize z-scores value against the feature's statistics, clamps the
// result to ±calibrationClampSigma and rescales into [0,1]. Unknown feature
// names and degenerate deviations map to 0.5 (the distribution centre).
func (c *Calibration) Normalize(feature string, value float64) float64 {
	s, ok := c.stats[feature]
	if !ok || s.StdDev < epsilon {
		return 0.5
	}
	z := (value - s.Mean) / s.StdDev
	if z > calibrationClampSigma {
		z = calibrationClampSigma
	}
	if z < -calibrationClampSigma {
		z = -calibrationClampSigma
	}
	return (z + calibrationClampSigma) / (2 * calibrationClampSigma)
}

// Observe folds one raw observation into the feature's running statistics
// with exponential decay. Unknown feature names are ignored.
func (c *Calibration) Observe(feature string, value float64) {
	s, ok := c.stats[feature]
	if !ok {
		return
	}
	s.Mean = (1-calibrationDecay)*s.Mean + calibrationDecay*value

	dev := math.Abs(value - s.Mean)
	s.StdDev = (1-calibrationDecay)*s.StdDev + calibrationDecay*dev
	if s.StdDev < epsilon {
		s.StdDev = epsilon
	}
}

// ObserveAnalysis folds the advanced emotion features of one analyzed window
// into the running statistics.
func (c *Calibration) ObserveAnalysis(a Analysis) {
	c.Observe(FeatEnergy, a.Energy)
	if a.Pitch > 0 {
		c.Observe(FeatPitch, a.Pitch)
	}
	c.Observe(FeatZCR, a.ZeroCrossingRate)
	c.Observe(FeatJitter, a.Jitter)
	c.Observe(FeatShimmer, a.Shimmer)
	c.Observe(FeatHNR, a.HNR)
	c.Observe(FeatSpectralEntropy, a.SpectralEntropy)
}

// Stat returns a copy of the named feature's current statistics.
func (c *Calibration) Stat(feature string) (Stat, bool) {
	s, ok := c.stats[feature]
	if !ok {
		return Stat{}, false
	}
	return *s, true
}

// Reset restores the fixed priors, discarding any online adaptation.
func (c *Calibration) Reset() {
	c.stats = NewCalibration().stats
}
