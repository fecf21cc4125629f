// Package spectrum turns transform bins into display-ready values.
//
// The package does not run an FFT itself. It consumes the real/imaginary bin
// slices produced by dsp/fft, converts them to a clamped per-bin decibel curve,
// and maps that curve onto a fixed number of log-frequency-spaced bars.
package spectrum
