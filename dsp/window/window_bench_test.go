package window

import (
	"strconv"
	"testing"
)

func BenchmarkGenerate(b *testing.B) {
	for _, n := range []int{256, 1024, 4096} {
		b.Run("hann/"+strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = Generate(TypeHann, n)
			}
		})
	}
}

func BenchmarkApplyInPlace(b *testing.B) {
	for _, n := range []int{256, 1024, 4096} {
		coeffs := Generate(TypeHann, n)
		buf := make([]float64, n)

		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ApplyInPlace(buf, coeffs)
			}
		})
	}
}
