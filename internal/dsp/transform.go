// Package dsp provides the spectral transform primitive shared by the
// feature extractor and the noise canceller.
package dsp

import "math"

// Forward computes the discrete Fourier transform of samples using the
// recursive radix-2 Cooley-Tukey algorithm. The input is zero-padded to the
// next power of two before transforming, so callers never need to size their
// windows; the returned bin count is the padded length.
func Forward(samples []float64) []complex128 {
	padded := PadPow2(samples)
	bins := make([]complex128, len(padded))
	for i, s := range padded {
		bins[i] = complex(s, 0)
	}
	return recurse(bins, false)
}

// Inverse computes the inverse transform, returning one real sample per input
// bin. Bins produced by Forward are always a power of two; any other length
// is zero-padded the same way. Each output sample is scaled by 1/N and the
// imaginary residue is discarded.
func Inverse(bins []complex128) []float64 {
	padded := padBinsPow2(bins)
	out := recurse(padded, true)

	n := float64(len(out))
	samples := make([]float64, len(out))
	for i, b := range out {
		samples[i] = real(b) / n
	}
	return samples
}

// Magnitudes returns the magnitude of each spectral bin.
func Magnitudes(bins []complex128) []float64 {
	mags := make([]float64, len(bins))
	for i, b := range bins {
		mags[i] = cmplxAbs(b)
	}
	return mags
}

// NextPow2 returns the smallest power of two >= n (minimum 1).
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PadPow2 zero-pads samples to the next power-of-two length.
// Returns the input slice unchanged when it is already a power of two.
func PadPow2(samples []float64) []float64 {
	n := NextPow2(len(samples))
	if n == len(samples) {
		return samples
	}
	padded := make([]float64, n)
	copy(padded, samples)
	return padded
}

func padBinsPow2(bins []complex128) []complex128 {
	n := NextPow2(len(bins))
	if n == len(bins) {
		return bins
	}
	padded := make([]complex128, n)
	copy(padded, bins)
	return padded
}

// recurse is the divide-and-combine core. Split into even/odd index
// subsequences, transform each half, then combine with twiddle factors
// exp(-i*2*pi*k/N), conjugated for the inverse direction. Length is a power
// of two by construction, so the halves always split evenly.
func recurse(bins []complex128, inverse bool) []complex128 {
	n := len(bins)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, bins)
		return out
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = bins[2*i]
		odd[i] = bins[2*i+1]
	}

	even = recurse(even, inverse)
	odd = recurse(odd, inverse)

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		angle := sign * 2 * math.Pi * float64(k) / float64(n)
		twiddle := complex(math.Cos(angle), math.Sin(angle))
		out[k] = even[k] + twiddle*odd[k]
		out[k+n/2] = even[k] - twiddle*odd[k]
	}
	return out
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
