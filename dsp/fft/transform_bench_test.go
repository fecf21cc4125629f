package fft

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-vocoder/internal/testutil"
)

func BenchmarkRoundTrip(b *testing.B) {
	for _, n := range []int{1024, 4096} {
		tr, err := NewTransform(n)
		if err != nil {
			b.Fatal(err)
		}

		x := testutil.DeterministicNoise(1, 1, n)
		re := make([]float64, tr.Bins())
		im := make([]float64, tr.Bins())
		y := make([]float64, n)

		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = tr.Forward(x, re, im)
				_ = tr.Inverse(re, im, y)
			}
		})

		tr.Close()
	}
}
