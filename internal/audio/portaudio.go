//go:build portaudio

package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

// PortAudioDevice is a duplex PortAudio stream on the default devices.
type PortAudioDevice struct {
	*bridge

	stream     *portaudio.Stream
	sampleRate float64
	log        logrus.FieldLogger
}

// OpenPortAudio initialises PortAudio and opens a mono float32 duplex stream.
func OpenPortAudio(cfg Config, log logrus.FieldLogger) (*PortAudioDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: portaudio init: %w", err)
	}

	d := &PortAudioDevice{
		bridge:     newBridge(cfg),
		sampleRate: cfg.SampleRate,
		log:        log,
	}

	stream, err := portaudio.OpenDefaultStream(1, 1, cfg.SampleRate, cfg.BlockSize, d.duplex)
	if err != nil {
		_ = portaudio.Terminate()

		return nil, fmt.Errorf("audio: portaudio stream: %w", err)
	}

	d.stream = stream

	log.WithFields(logrus.Fields{
		"sample_rate": cfg.SampleRate,
		"ring":        d.capture.Cap(),
	}).Debug("portaudio duplex stream opened")

	return d, nil
}

func openPortAudio(cfg Config, log logrus.FieldLogger) (Device, error) {
	d, err := OpenPortAudio(cfg, log)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Start begins streaming.
func (d *PortAudioDevice) Start() error {
	if err := d.stream.Start(); err != nil {
		return fmt.Errorf("audio: portaudio start: %w", err)
	}

	return nil
}

// SampleRate returns the configured stream rate.
func (d *PortAudioDevice) SampleRate() float64 { return d.sampleRate }

// Close stops the stream and terminates PortAudio.
func (d *PortAudioDevice) Close() error {
	if d.stream == nil {
		return nil
	}

	if err := d.stream.Stop(); err != nil {
		d.log.WithError(err).Warn("portaudio stop failed")
	}

	err := d.stream.Close()
	d.stream = nil

	if termErr := portaudio.Terminate(); err == nil {
		err = termErr
	}

	if err != nil {
		return fmt.Errorf("audio: portaudio close: %w", err)
	}

	return nil
}
