package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-vocoder/dsp/buffer"
)

func ExampleRing() {
	r := buffer.NewRing(3)
	written := r.Write([]float64{1, 2, 3, 4, 5})

	out := make([]float64, 8)
	n := r.Read(out)

	fmt.Println(r.Cap(), written, out[:n])
	// Output:
	// 4 4 [1 2 3 4]
}
