package features

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/voicelens/voicelens/internal/dsp"
)

// Analyze computes the full advanced-tier descriptor set for one window.
// One forward transform is shared by every spectral measure. An empty window
// returns the zero Analysis.
func (e *Extractor) Analyze(samples []float64) Analysis {
	if len(samples) == 0 {
		return Analysis{}
	}

	mags := dsp.Magnitudes(dsp.Forward(samples))
	half := mags[:len(mags)/2]
	if len(half) == 0 {
		half = mags
	}

	pitch := e.truePitch(samples)

	a := Analysis{
		Energy:           meanSquare(samples),
		Pitch:            pitch,
		ZeroCrossingRate: zeroCrossingRate(samples),
		Centroid:         e.spectralCentroid(half),
		Rolloff:          e.spectralRolloff(half),
		Flux:             e.spectralFlux(half),
		EnergyEntropy:    energyEntropy(samples),
		Jitter:           e.jitter(samples),
		Shimmer:          shimmerWindows(samples),
		SpectralEntropy:  spectralEntropy(half),
	}
	a.Formant1, a.Formant2 = e.formants(half)
	a.HNR = e.harmonicNoiseRatio(half, pitch)
	a.Bands = linearBandEnergies(half)
	return a
}

// truePitch runs a full-range normalized autocorrelation over lags
// advLagMin..advLagMax. The correlation at each lag is normalized by the
// window's sample energy; the best lag must clear the voicing threshold.
// Returns pitch in Hz, 0 when unvoiced.
func (e *Extractor) truePitch(samples []float64) float64 {
	maxLag := advLagMax
	if maxLag > len(samples)/2 {
		maxLag = len(samples) / 2
	}
	if maxLag < advLagMin {
		return 0
	}

	energy := 0.0
	for _, s := range samples {
		energy += s * s
	}
	if energy < epsilon {
		return 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := advLagMin; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i+lag < len(samples); i++ {
			sum += samples[i] * samples[i+lag]
		}
		sum /= energy
		if sum > bestCorr {
			bestCorr = sum
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr < voicedThreshold {
		return 0
	}
	return float64(e.sampleRate) / float64(bestLag)
}

// binFrequency converts a bin index in the half spectrum to Hz.
func (e *Extractor) binFrequency(bin, halfLen int) float64 {
	if halfLen == 0 {
		return 0
	}
	return float64(bin) * float64(e.sampleRate) / float64(2*halfLen)
}

// spectralCentroid is the magnitude-weighted mean frequency of the half
// spectrum, in Hz.
func (e *Extractor) spectralCentroid(half []float64) float64 {
	weighted, total := 0.0, 0.0
	for i, m := range half {
		weighted += e.binFrequency(i, len(half)) * m
		total += m
	}
	if total < epsilon {
		return 0
	}
	return weighted / total
}

// spectralRolloff is the frequency below which rolloffFraction of the
// spectral energy lies, in Hz.
func (e *Extractor) spectralRolloff(half []float64) float64 {
	total := 0.0
	for _, m := range half {
		total += m * m
	}
	if total < epsilon {
		return 0
	}

	target := rolloffFraction * total
	acc := 0.0
	for i, m := range half {
		acc += m * m
		if acc >= target {
			return e.binFrequency(i, len(half))
		}
	}
	return e.binFrequency(len(half)-1, len(half))
}

// spectralFlux measures frame-to-frame spectral change: the Euclidean
// distance between the sum-normalized current and previous magnitude
// spectra, compared index-aligned up to the shorter length. The first window
// of a session has no reference and reports 0. The current spectrum is
// retained for the next call.
func (e *Extractor) spectralFlux(half []float64) float64 {
	norm := normalizeSum(half)

	flux := 0.0
	if e.prevSpectrum != nil {
		n := len(norm)
		if len(e.prevSpectrum) < n {
			n = len(e.prevSpectrum)
		}
		sum := 0.0
		for i := 0; i < n; i++ {
			d := norm[i] - e.prevSpectrum[i]
			sum += d * d
		}
		flux = math.Sqrt(sum)
	}

	e.prevSpectrum = norm
	return flux
}

// normalizeSum scales values so they sum to 1; an all-zero input stays zero.
func normalizeSum(values []float64) []float64 {
	total := floats.Sum(values)
	out := make([]float64, len(values))
	if total < epsilon {
		return out
	}
	for i, v := range values {
		out[i] = v / total
	}
	return out
}

// formants estimates the first two formant frequencies by peak-picking the
// lightly smoothed half spectrum inside the speech band
// (formantLowHz..formantHighHz). Peaks must be local maxima; the two
// strongest are returned in ascending frequency order. Missing peaks
// report 0.
func (e *Extractor) formants(half []float64) (f1, f2 float64) {
	if len(half) < 3 {
		return 0, 0
	}

	// 3-bin moving average knocks down single-bin noise spikes
	smooth := make([]float64, len(half))
	smooth[0] = half[0]
	smooth[len(half)-1] = half[len(half)-1]
	for i := 1; i < len(half)-1; i++ {
		smooth[i] = (half[i-1] + half[i] + half[i+1]) / 3
	}

	type peak struct {
		freq float64
		mag  float64
	}
	var best, second peak
	for i := 1; i < len(smooth)-1; i++ {
		freq := e.binFrequency(i, len(half))
		if freq < formantLowHz || freq > formantHighHz {
			continue
		}
		if smooth[i] <= smooth[i-1] || smooth[i] < smooth[i+1] {
			continue
		}
		switch {
		case smooth[i] > best.mag:
			second = best
			best = peak{freq, smooth[i]}
		case smooth[i] > second.mag:
			second = peak{freq, smooth[i]}
		}
	}

	f1, f2 = best.freq, second.freq
	if f2 != 0 && f2 < f1 {
		f1, f2 = f2, f1
	}
	if f1 == 0 {
		f1, f2 = f2, 0
	}
	return f1, f2
}

// energyEntropy measures how evenly the window's energy spreads across
// advEntropyWindows fixed sub-windows: normalized Shannon entropy in [0,1].
// Steady signals score near 1, bursty signals near 0.
func energyEntropy(samples []float64) float64 {
	if len(samples) < advEntropyWindows {
		return 0
	}
	size := len(samples) / advEntropyWindows

	energies := make([]float64, advEntropyWindows)
	total := 0.0
	for w := range energies {
		sub := samples[w*size : (w+1)*size]
		for _, s := range sub {
			energies[w] += s * s
		}
		total += energies[w]
	}
	if total < epsilon {
		return 0
	}

	entropy := 0.0
	for _, en := range energies {
		p := en / total
		if p > epsilon {
			entropy -= p * math.Log(p)
		}
	}
	return entropy / math.Log(float64(advEntropyWindows))
}

// jitter measures period-to-period pitch variation with a simple
// period-tracking scan: positive-going zero crossings delimit candidate
// periods, implausible periods are discarded, and jitter is the mean
// absolute successive period difference relative to the mean period.
func (e *Extractor) jitter(samples []float64) float64 {
	var periods []float64
	lastCrossing := -1
	for i := 1; i < len(samples); i++ {
		if samples[i-1] < 0 && samples[i] >= 0 {
			if lastCrossing >= 0 {
				period := float64(i - lastCrossing)
				if period >= advLagMin && period <= advLagMax {
					periods = append(periods, period)
				}
			}
			lastCrossing = i
		}
	}
	if len(periods) < 2 {
		return 0
	}

	meanPeriod := 0.0
	for _, p := range periods {
		meanPeriod += p
	}
	meanPeriod /= float64(len(periods))
	if meanPeriod < epsilon {
		return 0
	}

	diff := 0.0
	for i := 1; i < len(periods); i++ {
		diff += math.Abs(periods[i] - periods[i-1])
	}
	return (diff / float64(len(periods)-1)) / meanPeriod
}

// shimmerWindows measures amplitude variation over advShimmerWindow-sample
// windows: mean absolute successive difference of per-window peak
// amplitudes relative to their mean.
func shimmerWindows(samples []float64) float64 {
	count := len(samples) / advShimmerWindow
	if count < 2 {
		return 0
	}

	peaks := make([]float64, count)
	meanPeak := 0.0
	for w := range peaks {
		peaks[w] = peakAbs(samples[w*advShimmerWindow : (w+1)*advShimmerWindow])
		meanPeak += peaks[w]
	}
	meanPeak /= float64(count)
	if meanPeak < epsilon {
		return 0
	}

	diff := 0.0
	for i := 1; i < count; i++ {
		diff += math.Abs(peaks[i] - peaks[i-1])
	}
	return (diff / float64(count-1)) / meanPeak
}

// harmonicNoiseRatio compares spectral energy concentrated within one bin of
// each pitch harmonic against the residual, in dB. Unvoiced windows (pitch
// 0) report 0. The result is clamped to [-10, 40] dB to keep calibration
// normalization stable.
func (e *Extractor) harmonicNoiseRatio(half []float64, pitchHz float64) float64 {
	if pitchHz <= 0 || len(half) == 0 {
		return 0
	}

	binWidth := float64(e.sampleRate) / float64(2*len(half))
	if binWidth < epsilon {
		return 0
	}

	harmonic := 0.0
	total := 0.0
	isHarmonic := make([]bool, len(half))
	for h := 1; ; h++ {
		center := int(math.Round(pitchHz * float64(h) / binWidth))
		if center >= len(half) {
			break
		}
		for b := center - 1; b <= center+1; b++ {
			if b >= 0 && b < len(half) {
				isHarmonic[b] = true
			}
		}
	}
	for i, m := range half {
		p := m * m
		total += p
		if isHarmonic[i] {
			harmonic += p
		}
	}

	noise := total - harmonic
	if noise < epsilon {
		return 40
	}
	if harmonic < epsilon {
		return -10
	}
	hnr := 10 * math.Log10(harmonic/noise)
	if hnr > 40 {
		hnr = 40
	}
	if hnr < -10 {
		hnr = -10
	}
	return hnr
}

// linearBandEnergies sums spectral power over advBandCount evenly spaced
// linear bands and returns the log energy of each. The even-width partition
// is intentional: it mimics a mel filterbank's role as coarse spectral-shape
// descriptors without the logarithmic mel spacing, and downstream models are
// tuned to these linear bands.
func linearBandEnergies(half []float64) [advBandCount]float64 {
	var bands [advBandCount]float64
	if len(half) < advBandCount {
		for i := range bands {
			bands[i] = math.Log(epsilon)
		}
		return bands
	}

	width := len(half) / advBandCount
	for b := 0; b < advBandCount; b++ {
		start := b * width
		end := start + width
		if b == advBandCount-1 {
			end = len(half)
		}
		sum := 0.0
		for _, m := range half[start:end] {
			sum += m * m
		}
		bands[b] = math.Log(sum + epsilon)
	}
	return bands
}
