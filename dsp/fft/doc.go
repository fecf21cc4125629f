// Package fft wraps a fixed-size complex FFT plan as a real-input
// forward/inverse transform.
//
// A Transform owns its plan and all working memory. Both are allocated once
// by NewTransform; Forward and Inverse reuse them and do not allocate. A
// Transform is not safe for concurrent use.
package fft
