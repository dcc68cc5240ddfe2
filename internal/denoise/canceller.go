// Package denoise suppresses stationary background noise by spectral
// subtraction. A noise-only reference spectrum is captured once per
// session; each subsequent chunk has the scaled noise magnitude removed
// bin by bin, preserving phase.
package denoise

import (
	"math"
	"math/cmplx"

	"github.com/voicelens/voicelens/internal/dsp"
)

const (
	// ProfileSampleCount is the number of leading samples a noise
	// reference capture consumes. Shorter captures are ignored.
	ProfileSampleCount = 512

	// DefaultOverSubtraction scales the noise magnitude before
	// subtraction. Values above 1 suppress stationary noise more
	// aggressively than a plain subtraction would.
	DefaultOverSubtraction = 2.0

	// DefaultSpectralFloor keeps each bin at a small fraction of its
	// original magnitude, limiting the musical-noise artifacts of
	// over-suppression.
	DefaultSpectralFloor = 0.01
)

// Config holds the subtraction tunables.
type Config struct {
	OverSubtraction float64 // alpha
	SpectralFloor   float64 // beta
}

// DefaultConfig returns the documented default tuning.
func DefaultConfig() Config {
	return Config{
		OverSubtraction: DefaultOverSubtraction,
		SpectralFloor:   DefaultSpectralFloor,
	}
}

// Canceller holds one session's noise profile. Not safe for concurrent
// use: the pipeline serializes chunks.
type Canceller struct {
	cfg     Config
	profile []float64 // noise magnitude spectrum, nil until captured
}

// NewCanceller returns a canceller with no profile. Zero-valued config
// fields fall back to the documented defaults.
func NewCanceller(cfg Config) *Canceller {
	def := DefaultConfig()
	if cfg.OverSubtraction <= 0 {
		cfg.OverSubtraction = def.OverSubtraction
	}
	if cfg.SpectralFloor <= 0 {
		cfg.SpectralFloor = def.SpectralFloor
	}
	return &Canceller{cfg: cfg}
}

// Ready reports whether a noise profile has been captured.
func (c *Canceller) Ready() bool { return c.profile != nil }

// SetNoiseProfile captures the session's noise reference from the leading
// ProfileSampleCount samples. Shorter inputs are silently ignored so a
// caller can offer every early window without checking lengths.
func (c *Canceller) SetNoiseProfile(samples []float64) {
	if len(samples) < ProfileSampleCount {
		return
	}
	c.profile = dsp.Magnitudes(dsp.Forward(samples[:ProfileSampleCount]))
}

// Apply subtracts the scaled noise spectrum from the chunk and returns the
// reconstructed time-domain samples. Without a profile, or for an empty
// chunk, the input is returned unchanged. The output carries the
// transform's power-of-two padding.
func (c *Canceller) Apply(samples []float64) []float64 {
	if c.profile == nil || len(samples) == 0 {
		return samples
	}

	bins := dsp.Forward(samples)
	for i, bin := range bins {
		signalMag := math.Hypot(real(bin), imag(bin))

		// Chunks are padded per call, so their bin count can differ
		// from the profile's. Bins beyond the captured profile see no
		// noise estimate and pass through untouched.
		noiseMag := 0.0
		if i < len(c.profile) {
			noiseMag = c.profile[i]
		}

		cleaned := signalMag - c.cfg.OverSubtraction*noiseMag
		floor := c.cfg.SpectralFloor * signalMag
		if cleaned < floor {
			cleaned = floor
		}

		phase := cmplx.Phase(bin)
		bins[i] = cmplx.Rect(cleaned, phase)
	}
	return dsp.Inverse(bins)
}

// Reset clears the noise profile at session boundaries.
func (c *Canceller) Reset() {
	c.profile = nil
}
