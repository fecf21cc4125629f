package core

// ProcessorConfig defines the stream settings shared by the engine, the
// meters and the audio backends. All values are fixed for a session.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	FFTSize    int
	HopSize    int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the live-monitoring defaults: 44.1 kHz,
// 1024-frame blocks, a 4096-point transform and a 1024-sample hop.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 44100,
		BlockSize:  1024,
		FFTSize:    4096,
		HopSize:    1024,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the capture/playback block size in frames.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithFFTSize sets the transform length.
func WithFFTSize(size int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if size > 0 {
			cfg.FFTSize = size
		}
	}
}

// WithHopSize sets the analysis hop in samples.
func WithHopSize(hop int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if hop > 0 {
			cfg.HopSize = hop
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
