package audio

import (
	"fmt"
	"strings"

	"github.com/gen2brain/malgo"
	"github.com/sirupsen/logrus"
)

// MalgoDevice is a duplex miniaudio device.
type MalgoDevice struct {
	*bridge

	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate float64
	log        logrus.FieldLogger
}

// OpenMalgo initialises a miniaudio context and a mono float32 duplex device
// on the default capture and playback endpoints.
func OpenMalgo(cfg Config, log logrus.FieldLogger) (*MalgoDevice, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debug(strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("audio: malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.PerformanceProfile = malgo.LowLatency
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.BlockSize)
	deviceConfig.Alsa.NoMMap = 1

	d := &MalgoDevice{
		bridge:     newBridge(cfg),
		ctx:        ctx,
		sampleRate: cfg.SampleRate,
		log:        log,
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: d.duplexBytes,
	})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()

		return nil, fmt.Errorf("audio: malgo device: %w", err)
	}

	d.device = device

	log.WithFields(logrus.Fields{
		"sample_rate": cfg.SampleRate,
		"period":      cfg.BlockSize,
		"ring":        d.capture.Cap(),
	}).Debug("malgo duplex device initialised")

	return d, nil
}

// Start begins streaming.
func (d *MalgoDevice) Start() error {
	if err := d.device.Start(); err != nil {
		return fmt.Errorf("audio: malgo start: %w", err)
	}

	return nil
}

// SampleRate returns the configured stream rate.
func (d *MalgoDevice) SampleRate() float64 { return d.sampleRate }

// Close stops the device and releases the context.
func (d *MalgoDevice) Close() error {
	if d.device != nil {
		if err := d.device.Stop(); err != nil {
			d.log.WithError(err).Warn("malgo stop failed")
		}

		d.device.Uninit()
		d.device = nil
	}

	if d.ctx == nil {
		return nil
	}

	err := d.ctx.Uninit()
	d.ctx.Free()
	d.ctx = nil

	if err != nil {
		return fmt.Errorf("audio: malgo context uninit: %w", err)
	}

	return nil
}
