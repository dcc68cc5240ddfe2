package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Fast computes the fast-tier descriptors. Work is bounded regardless of
// window length: energy, pitch and the centroid proxy examine at most
// fastPrefixCap samples, the variability measures at most
// fastMaxSubWindows sub-windows. Only the zero-crossing rate walks the full
// window, one comparison per sample.
func (e *Extractor) Fast(samples []float64) FastFeatures {
	if len(samples) == 0 {
		return FastFeatures{}
	}

	prefix := samples
	if len(prefix) > fastPrefixCap {
		prefix = prefix[:fastPrefixCap]
	}

	shimmer, energyVar := subWindowVariability(samples)

	return FastFeatures{
		Energy:           meanSquare(prefix),
		ZeroCrossingRate: zeroCrossingRate(samples),
		Pitch:            e.coarsePitch(prefix),
		Centroid:         centroidProxy(prefix),
		Shimmer:          shimmer,
		EnergyVariance:   energyVar,
	}
}

// coarsePitch estimates pitch with a stepped autocorrelation scan: lags
// fastLagMin..fastLagMax in steps of fastLagStep, correlated over at most
// fastCorrWindowCap samples. Returns the frequency of the best lag in Hz, or
// 0 when the window is too short or no lag correlates above the voicing
// threshold.
func (e *Extractor) coarsePitch(samples []float64) float64 {
	window := samples
	if len(window) > fastCorrWindowCap {
		window = window[:fastCorrWindowCap]
	}

	maxLag := fastLagMax
	if maxLag > len(window)/2 {
		maxLag = len(window) / 2
	}
	if maxLag < fastLagMin {
		return 0
	}

	energy := 0.0
	for _, s := range window {
		energy += s * s
	}
	if energy < epsilon {
		return 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := fastLagMin; lag <= maxLag; lag += fastLagStep {
		corr := 0.0
		for i := 0; i+lag < len(window); i++ {
			corr += window[i] * window[i+lag]
		}
		corr /= energy
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr < voicedThreshold {
		return 0
	}
	return float64(e.sampleRate) / float64(bestLag)
}

// centroidProxy approximates spectral brightness without a transform: the
// ratio of mean first-difference magnitude to mean amplitude. Differencing
// scales each frequency component by its index in the spectrum, so the
// ratio rises with brightness. For a pure tone the ratio is
// 2*sin(pi*f/rate), peaking at 2 at Nyquist; halving maps it into [0,1].
func centroidProxy(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	diff, amp := 0.0, 0.0
	for i := 1; i < len(samples); i++ {
		diff += math.Abs(samples[i] - samples[i-1])
		amp += math.Abs(samples[i])
	}
	if amp < epsilon {
		return 0
	}
	return clamp01(diff / amp / 2)
}

// subWindowVariability measures short-term amplitude variation (shimmer) and
// energy spread over at most fastMaxSubWindows fixed-size sub-windows.
// Shimmer is the mean absolute successive difference of sub-window RMS
// amplitudes relative to their mean; the energy spread is the population
// variance of sub-window energies relative to the squared mean energy
// (a squared coefficient of variation, scale-free).
func subWindowVariability(samples []float64) (shimmer, energyVariance float64) {
	count := len(samples) / fastSubWindow
	if count > fastMaxSubWindows {
		count = fastMaxSubWindows
	}
	if count < 2 {
		return 0, 0
	}

	amps := make([]float64, count)
	energies := make([]float64, count)
	for w := 0; w < count; w++ {
		sub := samples[w*fastSubWindow : (w+1)*fastSubWindow]
		energies[w] = meanSquare(sub)
		amps[w] = math.Sqrt(energies[w])
	}

	meanAmp := stat.Mean(amps, nil)
	if meanAmp > epsilon {
		diff := 0.0
		for i := 1; i < count; i++ {
			diff += math.Abs(amps[i] - amps[i-1])
		}
		shimmer = (diff / float64(count-1)) / meanAmp
	}

	meanEnergy := stat.Mean(energies, nil)
	if meanEnergy > epsilon {
		energyVariance = stat.PopVariance(energies, nil) / (meanEnergy * meanEnergy)
	}
	return shimmer, energyVariance
}
