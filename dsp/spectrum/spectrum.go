package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

const (
	// DefaultMinDB and DefaultMaxDB bound the spectrum display range.
	DefaultMinDB = -30.0
	DefaultMaxDB = 0.0

	// Epsilon keeps log10 away from zero for empty bins.
	Epsilon = 1e-10
)

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// BinsDB writes 20*log10(|X[k]|/ref + Epsilon), clamped to [minDB, maxDB],
// for the first min(len(dst), len(re), len(im)) bins and returns that count.
//
// ref is the magnitude shown as 0 dB; ref <= 0 is treated as 1, which makes
// the curve the plain dB magnitude of the bins. dst doubles as scratch space,
// so the call does not allocate.
func BinsDB(dst, re, im []float64, minDB, maxDB, ref float64) int {
	n := min(len(dst), len(re), len(im))
	if n == 0 {
		return 0
	}

	if ref <= 0 {
		ref = 1
	}

	if minDB > maxDB {
		minDB, maxDB = maxDB, minDB
	}

	out := dst[:n]
	MagnitudeFromParts(out, re[:n], im[:n])

	inv := 1 / ref
	for k, mag := range out {
		db := 20 * log10(mag*inv+Epsilon)
		out[k] = math.Max(minDB, math.Min(db, maxDB))
	}

	return n
}

// ReferenceForWindow returns the bin magnitude produced by a full-scale sine
// that falls exactly on a bin after windowing with coeffs: sum(w)/2.
// Passing it as ref to BinsDB puts such a sine at 0 dB.
func ReferenceForWindow(coeffs []float64) float64 {
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	if sum <= 0 {
		return 1
	}

	return sum / 2
}
