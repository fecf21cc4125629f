package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-vocoder/internal/audio"
	"github.com/cwbudde/algo-vocoder/internal/config"
	"github.com/cwbudde/algo-vocoder/internal/logging"
)

// CLI defines the command-line interface
type CLI struct {
	Backend    string  `short:"b" enum:"malgo,portaudio,tone" default:"${backend}" help:"Audio backend: malgo, portaudio or tone." placeholder:"name"`
	SampleRate float64 `short:"r" default:"${sample_rate}" help:"Sample rate in Hz." placeholder:"hz"`
	FFTSize    int     `name:"fft-size" default:"${fft_size}" help:"Transform length, a power of two." placeholder:"n"`
	HopSize    int     `default:"${hop_size}" help:"Analysis hop in samples." placeholder:"n"`
	BlockSize  int     `default:"${block_size}" help:"Capture and playback block in frames." placeholder:"n"`
	Pitch      float64 `short:"p" default:"0" help:"Initial pitch shift in semitones." placeholder:"st"`
	Volume     float64 `default:"1" help:"Initial output volume between 0 and 1."`
	OverlapAdd bool    `default:"true" negatable:"" help:"Resynthesise with overlap-add instead of one frame per block."`
	Muted      bool    `help:"Start with output muted."`
	Tone       float64 `default:"${tone_hz}" help:"Frequency of the tone backend in Hz." placeholder:"hz"`

	Headless bool   `help:"Log snapshots instead of drawing the terminal UI."`
	LogEvery int    `default:"50" help:"Headless mode: log every N processed blocks." placeholder:"n"`
	LogFile  string `type:"path" default:"${log_file}" help:"Log file while the terminal UI runs."`
	LogLevel string `enum:"trace,debug,info,warn,error" default:"info" help:"Log level." placeholder:"level"`

	Info    bool `help:"Print the session parameters and exit."`
	Version bool `short:"v" help:"Show version information"`
}

// defaultVars exposes the built-in session defaults to the flag tags.
func defaultVars() kong.Vars {
	d := config.Default()

	return kong.Vars{
		"version":     version,
		"backend":     d.Backend,
		"sample_rate": fmt.Sprint(d.SampleRate),
		"fft_size":    fmt.Sprint(d.FFTSize),
		"hop_size":    fmt.Sprint(d.HopSize),
		"block_size":  fmt.Sprint(d.BlockSize),
		"tone_hz":     fmt.Sprint(audio.DefaultConfig().ToneHz),
		"log_file":    logging.DefaultFile,
	}
}

// sessionConfig turns the parsed flags into a session config.
func (c *CLI) sessionConfig() config.Config {
	cfg := config.Default()
	cfg.Backend = c.Backend
	cfg.SampleRate = c.SampleRate
	cfg.FFTSize = c.FFTSize
	cfg.HopSize = c.HopSize
	cfg.BlockSize = c.BlockSize
	cfg.PitchSemitones = c.Pitch
	cfg.Volume = c.Volume
	cfg.OverlapAdd = c.OverlapAdd

	return cfg
}

// deviceConfig returns the audio settings for cfg.
func (c *CLI) deviceConfig(cfg config.Config) audio.Config {
	dc := audio.DefaultConfig()
	dc.SampleRate = cfg.SampleRate
	dc.BlockSize = cfg.BlockSize
	dc.BufferBlocks = cfg.BufferBlocks
	dc.ToneHz = c.Tone

	return dc
}
