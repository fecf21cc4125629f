package audio

import (
	"math"
	"sync/atomic"
	"time"
)

// ToneDevice is a synthetic device: Capture yields a sine paced by the wall
// clock and Playback discards what it is given. It needs no audio hardware.
type ToneDevice struct {
	sampleRate float64
	step       float64
	amplitude  float64
	maxBacklog uint64

	now     func() time.Time
	started time.Time
	running bool

	phase    float64
	produced uint64

	captured atomic.Uint64
	played   atomic.Uint64
	overruns atomic.Uint64
}

// ToneOption configures a [ToneDevice].
type ToneOption func(*ToneDevice)

// WithClock replaces time.Now as the pacing clock.
func WithClock(now func() time.Time) ToneOption {
	return func(d *ToneDevice) {
		if now != nil {
			d.now = now
		}
	}
}

// NewToneDevice returns a tone device for cfg.ToneHz at cfg.ToneAmplitude.
func NewToneDevice(cfg Config, opts ...ToneOption) *ToneDevice {
	d := &ToneDevice{
		sampleRate: cfg.SampleRate,
		step:       2 * math.Pi * cfg.ToneHz / cfg.SampleRate,
		amplitude:  cfg.ToneAmplitude,
		maxBacklog: uint64(max(cfg.BlockSize*cfg.BufferBlocks, 1)),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start starts the pacing clock.
func (d *ToneDevice) Start() error {
	d.started = d.now()
	d.running = true
	d.produced = 0

	return nil
}

// Capture writes the samples that became due since the last call, up to
// len(buf). A backlog larger than the ring depth is skipped and counted as
// overrun.
func (d *ToneDevice) Capture(buf []float64) int {
	if !d.running || len(buf) == 0 {
		return 0
	}

	due := uint64(d.now().Sub(d.started).Seconds() * d.sampleRate)
	if due <= d.produced {
		return 0
	}

	if backlog := due - d.produced; backlog > d.maxBacklog {
		skip := backlog - d.maxBacklog
		d.phase = math.Mod(d.phase+float64(skip)*d.step, 2*math.Pi)
		d.produced += skip
		d.overruns.Add(skip)
	}

	n := min(uint64(len(buf)), due-d.produced)
	for i := range n {
		buf[i] = d.amplitude * math.Sin(d.phase)
		d.phase += d.step

		if d.phase >= 2*math.Pi {
			d.phase -= 2 * math.Pi
		}
	}

	d.produced += n
	d.captured.Add(n)

	return int(n)
}

// Playback accepts and discards buf.
func (d *ToneDevice) Playback(buf []float64) int {
	d.played.Add(uint64(len(buf)))

	return len(buf)
}

// SampleRate returns the configured rate.
func (d *ToneDevice) SampleRate() float64 { return d.sampleRate }

// Stats returns the device counters.
func (d *ToneDevice) Stats() Stats {
	return Stats{
		Captured: d.captured.Load(),
		Played:   d.played.Load(),
		Overruns: d.overruns.Load(),
	}
}

// Close stops the clock.
func (d *ToneDevice) Close() error {
	d.running = false

	return nil
}
