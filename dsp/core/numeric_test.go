package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestLinearToDB(t *testing.T) {
	if db := LinearToDB(0.5); !NearlyEqual(db, -6.020599913279624, 1e-10) {
		t.Fatalf("LinearToDB(0.5) = %v, want -6.02", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestIsFinitePositive(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if IsFinitePositive(v) {
			t.Fatalf("IsFinitePositive(%v) = true, want false", v)
		}
	}
	if !IsFinitePositive(1e-9) {
		t.Fatal("IsFinitePositive(1e-9) = false, want true")
	}
}

func TestSemitoneConversions(t *testing.T) {
	tests := []struct {
		semitones float64
		ratio     float64
	}{
		{semitones: 0, ratio: 1},
		{semitones: 12, ratio: 2},
		{semitones: -12, ratio: 0.5},
		{semitones: 7, ratio: 1.4983070768766815},
	}

	for _, tt := range tests {
		if got := SemitonesToRatio(tt.semitones); !NearlyEqual(got, tt.ratio, 1e-12) {
			t.Fatalf("SemitonesToRatio(%v) = %v, want %v", tt.semitones, got, tt.ratio)
		}
		if got := RatioToSemitones(tt.ratio); math.Abs(got-tt.semitones) > 1e-9 {
			t.Fatalf("RatioToSemitones(%v) = %v, want %v", tt.ratio, got, tt.semitones)
		}
	}
}
