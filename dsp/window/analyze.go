package window

import "math"

// Analysis holds numerically computed spectral properties of a window.
type Analysis struct {
	// CoherentGain is sum(w[n]) / N, the DC response of the window.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the 3 dB (half-power) main lobe width in bins.
	Bandwidth3dB float64
	// ScallopLossdB is the worst-case amplitude error for an off-bin signal.
	ScallopLossdB float64
	// OverlapGain is sum(w^2) / N, the per-frame contribution to the
	// window-squared normalisation used by overlap-add resynthesis.
	OverlapGain float64
}

// Analyze computes spectral properties of the given window coefficients by
// evaluating its DFT numerically.
func Analyze(coeffs []float64) Analysis {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}
	}

	dcRef := dftMagSq(coeffs, 0)
	if dcRef == 0 {
		return Analysis{}
	}

	sum := 0.0
	sumSq := 0.0

	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}

	scallop := 0.0
	if half := dftMagSq(coeffs, 0.5/float64(n)); half > 0 {
		scallop = 10 * math.Log10(half/dcRef)
	}

	return Analysis{
		CoherentGain:  sum / float64(n),
		ENBW:          float64(n) * sumSq / (sum * sum),
		Bandwidth3dB:  searchBandwidth(coeffs, dcRef),
		ScallopLossdB: scallop,
		OverlapGain:   sumSq / float64(n),
	}
}

// dftMagSq evaluates |DFT(freq)|^2 at a normalised frequency [0,1).
func dftMagSq(coeffs []float64, freq float64) float64 {
	re, im := 0.0, 0.0
	w := 2 * math.Pi * freq

	for k, c := range coeffs {
		phase := w * float64(k)
		re += c * math.Cos(phase)
		im -= c * math.Sin(phase)
	}

	return re*re + im*im
}

// searchBandwidth bisects the normalised frequency axis for the half-power
// point and returns the two-sided width in bins.
func searchBandwidth(coeffs []float64, dcRef float64) float64 {
	invRef := 1.0 / dcRef
	lo, hi := 0.0, 0.5

	for range 80 {
		mid := (lo + hi) / 2
		if dftMagSq(coeffs, mid)*invRef > 0.5 {
			lo = mid
		} else {
			hi = mid
		}
	}

	return 2 * lo * float64(len(coeffs))
}
