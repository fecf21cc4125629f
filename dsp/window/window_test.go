package window

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestGenerateTypes(t *testing.T) {
	types := []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman}

	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}

				if v < -1e-12 || v > 1+1e-12 {
					t.Fatalf("coefficient[%d]=%v outside [0,1]", i, v)
				}
			}
		})
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("Generate(0) = %v, want nil", w)
	}

	if _, err := Hann(-1); err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestHannMatchesClosedForm(t *testing.T) {
	const n = 16

	w, err := Hann(n)
	if err != nil {
		t.Fatal(err)
	}

	for i := range n {
		want := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		if !almostEqual(w[i], want, 1e-12) {
			t.Fatalf("w[%d]=%v, want %v", i, w[i], want)
		}
	}
}

func TestHannSymmetric(t *testing.T) {
	w, err := Hann(33)
	if err != nil {
		t.Fatal(err)
	}

	if w[0] != 0 || !almostEqual(w[32], 0, 1e-12) {
		t.Fatalf("edges = %v, %v, want 0", w[0], w[32])
	}

	if !almostEqual(w[16], 1, 1e-12) {
		t.Fatalf("centre = %v, want 1", w[16])
	}

	for i := range w {
		if !almostEqual(w[i], w[len(w)-1-i], 1e-12) {
			t.Fatalf("asymmetry at %d: %v vs %v", i, w[i], w[len(w)-1-i])
		}
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)
	b := Generate(TypeHann, 16, WithPeriodic())

	if almostEqual(a[15], b[15], 1e-12) {
		t.Fatal("expected different end coefficient for periodic form")
	}
}

func TestApplyHelpers(t *testing.T) {
	samples := []float64{1, 2, 3}
	coeffs := []float64{0.5, 0.5, 0.5}
	out := make([]float64, 3)

	if err := Apply(out, samples, coeffs); err != nil {
		t.Fatal(err)
	}

	if !almostEqual(out[2], 1.5, 1e-12) {
		t.Fatalf("out[2]=%v", out[2])
	}

	if err := ApplyInPlace(samples, coeffs); err != nil {
		t.Fatal(err)
	}

	if !almostEqual(samples[1], 1.0, 1e-12) {
		t.Fatalf("samples[1]=%v", samples[1])
	}

	if err := Apply(out, samples, coeffs[:2]); err == nil {
		t.Fatal("expected mismatched length error")
	}

	if err := ApplyInPlace(samples[:1], coeffs); err == nil {
		t.Fatal("expected mismatched length error")
	}
}

func TestCoherentGainAndENBW(t *testing.T) {
	w := Generate(TypeHann, 2048, WithPeriodic())

	cg, err := CoherentGain(w)
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(cg, 0.5, 1e-9) {
		t.Fatalf("coherent gain=%v, want 0.5", cg)
	}

	enbw, err := EquivalentNoiseBandwidth(w)
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(enbw, 1.5, 0.01) {
		t.Fatalf("hann ENBW=%v, want ~1.5", enbw)
	}

	if _, err := CoherentGain(nil); err == nil {
		t.Fatal("expected error for empty coefficients")
	}

	if _, err := EquivalentNoiseBandwidth([]float64{0, 0}); err == nil {
		t.Fatal("expected error for zero coherent gain")
	}
}

func TestAnalyzeHann(t *testing.T) {
	a := Analyze(Generate(TypeHann, 1024, WithPeriodic()))

	if !almostEqual(a.ENBW, 1.5, 0.01) {
		t.Fatalf("ENBW=%v, want 1.5", a.ENBW)
	}

	if !almostEqual(a.Bandwidth3dB, 1.44, 0.02) {
		t.Fatalf("3dB bandwidth=%v, want ~1.44", a.Bandwidth3dB)
	}

	if !almostEqual(a.ScallopLossdB, -1.42, 0.02) {
		t.Fatalf("scallop loss=%v, want ~-1.42", a.ScallopLossdB)
	}

	if !almostEqual(a.OverlapGain, 0.375, 1e-9) {
		t.Fatalf("overlap gain=%v, want 0.375", a.OverlapGain)
	}
}

func TestAnalyzeDegenerate(t *testing.T) {
	if a := Analyze(nil); a != (Analysis{}) {
		t.Fatalf("Analyze(nil) = %#v", a)
	}

	if a := Analyze([]float64{0, 0, 0}); a != (Analysis{}) {
		t.Fatalf("Analyze(zeros) = %#v", a)
	}
}

func TestTypeString(t *testing.T) {
	if got := TypeBlackman.String(); got != "Blackman" {
		t.Fatalf("String() = %q", got)
	}

	if got := Type(99).String(); got != "Unknown" {
		t.Fatalf("String() = %q", got)
	}
}
