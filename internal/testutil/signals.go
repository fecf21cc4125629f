// Package testutil holds deterministic signal generators and numeric
// assertions shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Square generates a +/-amplitude square wave with the given period in
// samples. Its RMS equals amplitude exactly.
func Square(amplitude float64, period, length int) []float64 {
	out := make([]float64, length)
	half := max(period/2, 1)

	for i := range out {
		if (i/half)%2 == 0 {
			out[i] = amplitude
		} else {
			out[i] = -amplitude
		}
	}

	return out
}

// NaiveDFT returns bins 0..N/2 of the direct O(N^2) DFT of x.
func NaiveDFT(x []float64) (re, im []float64) {
	n := len(x)
	bins := n/2 + 1
	re = make([]float64, bins)
	im = make([]float64, bins)

	for k := range bins {
		for i, v := range x {
			phase := 2 * math.Pi * float64(k) * float64(i) / float64(n)
			re[k] += v * math.Cos(phase)
			im[k] -= v * math.Sin(phase)
		}
	}

	return re, im
}

// PeakBin returns the index of the largest magnitude among bins 1..N/2.
func PeakBin(re, im []float64) int {
	best, bestMag := 0, -1.0

	for k := 1; k < len(re); k++ {
		mag := re[k]*re[k] + im[k]*im[k]
		if mag > bestMag {
			best, bestMag = k, mag
		}
	}

	return best
}
