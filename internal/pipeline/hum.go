package pipeline

import (
	"github.com/voicelens/voicelens/internal/dsp"
)

const (
	// humRatioThreshold is how far the mains bins must stand above the
	// surrounding low-frequency floor to count as hum.
	humRatioThreshold = 4.0

	// humFloorLowHz and humFloorHighHz bound the band used to estimate
	// that floor.
	humFloorLowHz  = 20.0
	humFloorHighHz = 500.0
)

// detectHum reports whether the mains fundamental or its second harmonic
// dominates the low end of the window's spectrum. Used on noise-only
// windows, where a strong narrow line at 50/60 Hz is electrical hum
// rather than room noise.
func detectHum(samples []float64, sampleRate, mainsHz int) bool {
	if len(samples) == 0 || mainsHz <= 0 {
		return false
	}

	mags := dsp.Magnitudes(dsp.Forward(samples))
	half := mags[:len(mags)/2]
	if len(half) == 0 {
		return false
	}
	binWidth := float64(sampleRate) / float64(len(mags))

	humBins := make(map[int]bool)
	humPeak := 0.0
	for _, hz := range []float64{float64(mainsHz), 2 * float64(mainsHz)} {
		center := int(hz/binWidth + 0.5)
		for bin := center - 1; bin <= center+1; bin++ {
			if bin < 1 || bin >= len(half) {
				continue
			}
			humBins[bin] = true
			if half[bin] > humPeak {
				humPeak = half[bin]
			}
		}
	}
	if humPeak == 0 {
		return false
	}

	// Floor estimate: mean magnitude across the low band, hum bins
	// excluded.
	lowBin := int(humFloorLowHz / binWidth)
	highBin := int(humFloorHighHz / binWidth)
	if highBin > len(half) {
		highBin = len(half)
	}
	sum, count := 0.0, 0
	for bin := lowBin; bin < highBin; bin++ {
		if bin < 1 || humBins[bin] {
			continue
		}
		sum += half[bin]
		count++
	}
	if count == 0 {
		return false
	}
	floor := sum / float64(count)
	if floor < 1e-10 {
		// A silent floor with any hum peak at all is still hum.
		return humPeak > 1e-10
	}
	return humPeak/floor > humRatioThreshold
}
