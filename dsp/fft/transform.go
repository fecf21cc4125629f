package fft

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

const minTransformSize = 2

// ErrInvalidSize is returned when a transform length cannot be planned.
var ErrInvalidSize = errors.New("fft: invalid transform size")

// Transform is a real-input FFT of fixed length N producing N/2+1 bins.
type Transform struct {
	size int
	bins int

	plan *algofft.Plan[complex128]

	timeBuf []complex128
	freqBuf []complex128
}

// NewTransform plans a transform of length n and allocates its buffers.
func NewTransform(n int) (*Transform, error) {
	if n < minTransformSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("fft: failed to create plan for size %d: %w", n, err)
	}

	return &Transform{
		size:    n,
		bins:    n/2 + 1,
		plan:    plan,
		timeBuf: make([]complex128, n),
		freqBuf: make([]complex128, n),
	}, nil
}

// Size returns the transform length N.
func (t *Transform) Size() int { return t.size }

// Bins returns the number of non-redundant bins, N/2+1.
func (t *Transform) Bins() int { return t.bins }

// Forward transforms N real samples into bins 0..N/2, written to re and im.
//
// input must hold exactly N samples and re/im exactly N/2+1 values.
func (t *Transform) Forward(input, re, im []float64) error {
	t.mustBeOpen()

	if len(input) != t.size || len(re) != t.bins || len(im) != t.bins {
		panic(fmt.Sprintf("fft: Forward length mismatch: input=%d re=%d im=%d, want %d/%d",
			len(input), len(re), len(im), t.size, t.bins))
	}

	for i, x := range input {
		t.timeBuf[i] = complex(x, 0)
	}

	if err := t.plan.Forward(t.freqBuf, t.timeBuf); err != nil {
		return fmt.Errorf("fft: forward transform failed: %w", err)
	}

	for k := range t.bins {
		re[k] = real(t.freqBuf[k])
		im[k] = imag(t.freqBuf[k])
	}

	return nil
}

// Inverse rebuilds the Hermitian spectrum from bins 0..N/2 and writes the
// real time-domain result, scaled by 1/N, into output.
//
// re/im must hold exactly N/2+1 values and output exactly N samples. The
// imaginary parts of the DC bin and, for even N, the Nyquist bin are ignored.
func (t *Transform) Inverse(re, im, output []float64) error {
	t.mustBeOpen()

	if len(output) != t.size || len(re) != t.bins || len(im) != t.bins {
		panic(fmt.Sprintf("fft: Inverse length mismatch: re=%d im=%d output=%d, want %d/%d",
			len(re), len(im), len(output), t.bins, t.size))
	}

	t.freqBuf[0] = complex(re[0], 0)

	for k := 1; k < t.bins; k++ {
		mirror := t.size - k
		if mirror == k {
			t.freqBuf[k] = complex(re[k], 0)
			continue
		}

		t.freqBuf[k] = complex(re[k], im[k])
		t.freqBuf[mirror] = complex(re[k], -im[k])
	}

	if err := t.plan.Inverse(t.timeBuf, t.freqBuf); err != nil {
		return fmt.Errorf("fft: inverse transform failed: %w", err)
	}

	for i := range output {
		output[i] = real(t.timeBuf[i])
	}

	return nil
}

// Close releases the plan and working buffers. The transform must not be
// used afterwards.
func (t *Transform) Close() error {
	t.plan = nil
	t.timeBuf = nil
	t.freqBuf = nil

	return nil
}

func (t *Transform) mustBeOpen() {
	if t.plan == nil {
		panic("fft: use of closed Transform")
	}
}
