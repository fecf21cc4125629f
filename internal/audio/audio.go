// Package audio opens the duplex devices the monitor captures from and plays
// to. Every backend exposes the same non-blocking [Device] API: the device
// callback thread fills and drains sample rings, the processing loop moves
// blocks through Capture and Playback without waiting.
package audio

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Backend names an audio implementation.
type Backend string

const (
	// BackendMalgo uses miniaudio through malgo. It is the default.
	BackendMalgo Backend = "malgo"
	// BackendPortAudio uses PortAudio. Requires building with -tags portaudio.
	BackendPortAudio Backend = "portaudio"
	// BackendTone captures a synthetic sine and discards playback.
	BackendTone Backend = "tone"
)

var (
	// ErrUnknownBackend is returned by Open for unrecognised backend names.
	ErrUnknownBackend = errors.New("audio: unknown backend")
	// ErrBackendUnavailable is returned when a backend was not compiled in.
	ErrBackendUnavailable = errors.New("audio: backend not available in this build")
	// ErrInvalidConfig is returned for unusable device configurations.
	ErrInvalidConfig = errors.New("audio: invalid device config")
)

// Backends lists the backend names accepted by Open.
func Backends() []Backend {
	return []Backend{BackendMalgo, BackendPortAudio, BackendTone}
}

// Config describes a mono duplex stream.
type Config struct {
	SampleRate float64
	// BlockSize is the device period in frames.
	BlockSize int
	// BufferBlocks sets the capture and playback ring depth in blocks.
	BufferBlocks int

	// ToneHz and ToneAmplitude configure BackendTone.
	ToneHz        float64
	ToneAmplitude float64
}

// DefaultConfig returns a 44.1 kHz stream with 1024-frame periods.
func DefaultConfig() Config {
	return Config{
		SampleRate:    44100,
		BlockSize:     1024,
		BufferBlocks:  8,
		ToneHz:        440,
		ToneAmplitude: 0.25,
	}
}

// Validate reports whether the config can open a device.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0 || c.SampleRate > 384000:
		return fmt.Errorf("%w: sample rate %g", ErrInvalidConfig, c.SampleRate)
	case c.BlockSize <= 0:
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, c.BlockSize)
	case c.BufferBlocks < 2:
		return fmt.Errorf("%w: buffer blocks %d, need at least 2", ErrInvalidConfig, c.BufferBlocks)
	}

	return nil
}

// Stats counts samples moved through a device. Counters only grow.
type Stats struct {
	// Captured is the number of samples returned by Capture.
	Captured uint64
	// Played is the number of samples accepted by Playback.
	Played uint64
	// Overruns counts input samples lost because the capture ring was full.
	Overruns uint64
	// Underruns counts output samples the device zero-filled for lack of data.
	Underruns uint64
	// Dropped counts Playback samples rejected because the ring was full.
	Dropped uint64
	// Queued is the number of samples waiting for the device to play them.
	Queued uint64
}

// Device is a mono duplex audio endpoint. Capture and Playback never block
// and must be called from a single goroutine.
type Device interface {
	// Start begins streaming.
	Start() error
	// Capture copies up to len(buf) captured samples into buf and returns the
	// count, which may be zero.
	Capture(buf []float64) int
	// Playback queues up to len(buf) samples and returns the count accepted.
	Playback(buf []float64) int
	// SampleRate returns the stream rate in Hz.
	SampleRate() float64
	// Stats returns a snapshot of the device counters.
	Stats() Stats
	// Close stops streaming and releases the device.
	Close() error
}

// Open validates cfg and opens the named backend. The device is not started.
func Open(backend Backend, cfg Config, log logrus.FieldLogger) (Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	log = log.WithField("backend", string(backend))

	switch backend {
	case BackendMalgo, "":
		d, err := OpenMalgo(cfg, log)
		if err != nil {
			return nil, err
		}

		return d, nil
	case BackendPortAudio:
		return openPortAudio(cfg, log)
	case BackendTone:
		return NewToneDevice(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
