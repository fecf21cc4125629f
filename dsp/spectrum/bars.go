package spectrum

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBarConfig is returned by NewBarLayout for unusable settings.
var ErrInvalidBarConfig = errors.New("spectrum: invalid bar layout")

// BarConfig describes the display geometry of the spectrum bars.
type BarConfig struct {
	SampleRate float64
	FFTSize    int

	Bars   int
	Height int

	MinFreq float64
	MaxFreq float64

	MinDB float64
	MaxDB float64
}

// DefaultBarConfig returns 32 bars of 10 rows spanning 20 Hz to 20 kHz over
// [-30, 0] dB at 44.1 kHz with a 4096-point transform.
func DefaultBarConfig() BarConfig {
	return BarConfig{
		SampleRate: 44100,
		FFTSize:    4096,
		Bars:       32,
		Height:     10,
		MinFreq:    20,
		MaxFreq:    20000,
		MinDB:      DefaultMinDB,
		MaxDB:      DefaultMaxDB,
	}
}

// BarLayout maps a per-bin dB curve onto log-spaced display bars. The
// frequency-to-bin table is computed once.
type BarLayout struct {
	cfg   BarConfig
	freqs []float64
	bins  []int
}

// NewBarLayout precomputes, for each bar b of n,
//
//	freq(b) = MinFreq * (MaxFreq/MinFreq)^(b/n)
//	bin(b)  = round(freq(b) / SampleRate * FFTSize)
func NewBarLayout(cfg BarConfig) (*BarLayout, error) {
	switch {
	case cfg.Bars <= 0 || cfg.Height <= 0:
		return nil, fmt.Errorf("%w: bars=%d height=%d", ErrInvalidBarConfig, cfg.Bars, cfg.Height)
	case cfg.SampleRate <= 0 || cfg.FFTSize <= 0:
		return nil, fmt.Errorf("%w: sampleRate=%v fftSize=%d", ErrInvalidBarConfig, cfg.SampleRate, cfg.FFTSize)
	case cfg.MinFreq <= 0 || cfg.MaxFreq <= cfg.MinFreq:
		return nil, fmt.Errorf("%w: frequency range [%v, %v]", ErrInvalidBarConfig, cfg.MinFreq, cfg.MaxFreq)
	case cfg.MaxDB <= cfg.MinDB:
		return nil, fmt.Errorf("%w: dB range [%v, %v]", ErrInvalidBarConfig, cfg.MinDB, cfg.MaxDB)
	}

	l := &BarLayout{
		cfg:   cfg,
		freqs: make([]float64, cfg.Bars),
		bins:  make([]int, cfg.Bars),
	}

	span := cfg.MaxFreq / cfg.MinFreq
	for b := range cfg.Bars {
		f := cfg.MinFreq * math.Pow(span, float64(b)/float64(cfg.Bars))
		l.freqs[b] = f
		l.bins[b] = int(math.Round(f / cfg.SampleRate * float64(cfg.FFTSize)))
	}

	return l, nil
}

// Config returns the layout settings.
func (l *BarLayout) Config() BarConfig { return l.cfg }

// Len returns the number of bars.
func (l *BarLayout) Len() int { return len(l.bins) }

// Frequencies returns the bar frequencies in Hz.
func (l *BarLayout) Frequencies() []float64 {
	return append([]float64(nil), l.freqs...)
}

// Bins returns the transform bin read by each bar.
func (l *BarLayout) Bins() []int {
	return append([]int(nil), l.bins...)
}

// Heights writes the bar heights, scaled linearly from [MinDB, MaxDB] to
// [0, Height], into dst and returns the number of bars written.
func (l *BarLayout) Heights(dst []int, spectrumDB []float64) int {
	n := min(len(dst), len(l.bins))
	span := l.cfg.MaxDB - l.cfg.MinDB

	for b := range n {
		frac := (l.binDB(b, spectrumDB) - l.cfg.MinDB) / span
		h := int(math.Round(frac * float64(l.cfg.Height)))
		dst[b] = max(0, min(l.cfg.Height, h))
	}

	return n
}

// binDB reads the floor for bars whose bin lies outside spectrumDB.
func (l *BarLayout) binDB(b int, spectrumDB []float64) float64 {
	bin := l.bins[b]
	if bin < 0 || bin >= len(spectrumDB) {
		return l.cfg.MinDB
	}

	return spectrumDB[bin]
}
