// Package config holds the session settings of the vocoder monitor: stream
// and transform sizes plus the meter and spectrum display geometry.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vocoder/dsp/core"
	"github.com/cwbudde/algo-vocoder/dsp/effects/pitch"
	"github.com/cwbudde/algo-vocoder/dsp/meter"
	"github.com/cwbudde/algo-vocoder/dsp/spectrum"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid setting")

// Display holds the terminal layout settings.
type Display struct {
	MeterWidth   int
	MeterMinDB   float64
	MeterMaxDB   float64
	MeterYellow  float64
	MeterRed     float64
	MasterHeight int

	SpectrumBars    int
	SpectrumHeight  int
	SpectrumMinFreq float64
	SpectrumMaxFreq float64
	SpectrumMinDB   float64
	SpectrumMaxDB   float64
}

// Config is one monitoring session.
type Config struct {
	core.ProcessorConfig

	Backend        string
	PitchSemitones float64
	Volume         float64
	OverlapAdd     bool
	BufferBlocks   int

	Display Display
}

// Default returns the built-in session: 44.1 kHz, 1024-frame blocks, a
// 4096-point transform with a 1024-sample hop, unity pitch and volume.
func Default() Config {
	return Config{
		ProcessorConfig: core.DefaultProcessorConfig(),
		Backend:         "malgo",
		Volume:          1,
		OverlapAdd:      true,
		BufferBlocks:    8,
		Display:         DefaultDisplay(),
	}
}

// DefaultDisplay returns the 20-cell meters, 10-row master meter and the
// 32×10 spectrum over 20 Hz to 20 kHz.
func DefaultDisplay() Display {
	return Display{
		MeterWidth:      20,
		MeterMinDB:      meter.FloorDB,
		MeterMaxDB:      meter.CeilingDB,
		MeterYellow:     meter.DefaultYellowDB,
		MeterRed:        meter.DefaultRedDB,
		MasterHeight:    10,
		SpectrumBars:    32,
		SpectrumHeight:  10,
		SpectrumMinFreq: 20,
		SpectrumMaxFreq: 20000,
		SpectrumMinDB:   spectrum.DefaultMinDB,
		SpectrumMaxDB:   spectrum.DefaultMaxDB,
	}
}

// New applies processor options on top of Default.
func New(opts ...core.ProcessorOption) Config {
	cfg := Default()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg.ProcessorConfig)
		}
	}

	return cfg
}

// PitchRatio converts the configured semitone offset to a frequency ratio.
func (c Config) PitchRatio() float64 {
	return core.SemitonesToRatio(c.PitchSemitones)
}

// BinWidth returns the spectral resolution in Hz.
func (c Config) BinWidth() float64 {
	return c.SampleRate / float64(c.FFTSize)
}

// BarConfig returns the spectrum bar layout for this session.
func (c Config) BarConfig() spectrum.BarConfig {
	return spectrum.BarConfig{
		SampleRate: c.SampleRate,
		FFTSize:    c.FFTSize,
		Bars:       c.Display.SpectrumBars,
		Height:     c.Display.SpectrumHeight,
		MinFreq:    c.Display.SpectrumMinFreq,
		MaxFreq:    c.Display.SpectrumMaxFreq,
		MinDB:      c.Display.SpectrumMinDB,
		MaxDB:      c.Display.SpectrumMaxDB,
	}
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch {
	case !core.IsFinitePositive(c.SampleRate):
		return invalid("sample rate %v must be finite and positive", c.SampleRate)
	case c.FFTSize < 2 || c.FFTSize&(c.FFTSize-1) != 0:
		return invalid("FFT size %d must be a power of two >= 2", c.FFTSize)
	case c.HopSize <= 0 || c.HopSize > c.FFTSize:
		return invalid("hop size %d must be in [1, %d]", c.HopSize, c.FFTSize)
	case c.BlockSize <= 0 || c.BlockSize > c.FFTSize:
		return invalid("block size %d must be in [1, %d]", c.BlockSize, c.FFTSize)
	case c.BufferBlocks < 2:
		return invalid("buffer blocks %d must be at least 2", c.BufferBlocks)
	case math.IsNaN(c.Volume) || c.Volume < 0 || c.Volume > 1:
		return invalid("volume %v must be in [0, 1]", c.Volume)
	}

	if ratio := c.PitchRatio(); math.IsNaN(ratio) || ratio < pitch.MinPitchRatio || ratio > pitch.MaxPitchRatio {
		return invalid("pitch %v semitones is outside ratio range [%v, %v]",
			c.PitchSemitones, pitch.MinPitchRatio, pitch.MaxPitchRatio)
	}

	return c.Display.Validate()
}

// Validate checks the display geometry.
func (d Display) Validate() error {
	switch {
	case d.MeterWidth <= 0 || d.MasterHeight <= 0:
		return invalid("meter size %d/%d must be positive", d.MeterWidth, d.MasterHeight)
	case d.MeterMaxDB <= d.MeterMinDB:
		return invalid("meter range [%v, %v] is empty", d.MeterMinDB, d.MeterMaxDB)
	case d.SpectrumBars <= 0 || d.SpectrumHeight <= 0:
		return invalid("spectrum size %dx%d must be positive", d.SpectrumBars, d.SpectrumHeight)
	case d.SpectrumMinFreq <= 0 || d.SpectrumMaxFreq <= d.SpectrumMinFreq:
		return invalid("spectrum frequency range [%v, %v] is invalid", d.SpectrumMinFreq, d.SpectrumMaxFreq)
	case d.SpectrumMaxDB <= d.SpectrumMinDB:
		return invalid("spectrum range [%v, %v] is empty", d.SpectrumMinDB, d.SpectrumMaxDB)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
