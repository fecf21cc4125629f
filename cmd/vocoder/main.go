// Command vocoder plays the microphone back through the speakers with a live
// pitch shift and shows input/output levels and the spectrum in the terminal.
//
// Usage:
//
//	vocoder [flags]
//
// Examples:
//
//	vocoder --pitch 5
//	vocoder --backend tone --headless --log-every 20
//	vocoder --fft-size 2048 --hop-size 512 --info
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwbudde/algo-vocoder/dsp/effects/pitch"
	"github.com/cwbudde/algo-vocoder/dsp/spectrum"
	"github.com/cwbudde/algo-vocoder/internal/audio"
	"github.com/cwbudde/algo-vocoder/internal/cli"
	"github.com/cwbudde/algo-vocoder/internal/config"
	"github.com/cwbudde/algo-vocoder/internal/logging"
	"github.com/cwbudde/algo-vocoder/internal/monitor"
	"github.com/cwbudde/algo-vocoder/internal/ui"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("vocoder"),
		kong.Description("Live microphone pitch shifter"),
		kong.UsageOnError(),
		defaultVars(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		return 0
	}

	cfg := cliArgs.sessionConfig()
	if err := cfg.Validate(); err != nil {
		cli.PrintError(err.Error())
		return 1
	}

	engine, err := newEngine(cfg)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}
	defer engine.Close()

	latency := sessionLatency(cfg, engine)

	if cliArgs.Info {
		if err := cli.PrintInfo(os.Stdout, cfg, latency); err != nil {
			cli.PrintError(err.Error())
			return 1
		}

		return 0
	}

	headless := cliArgs.Headless || !term.IsTerminal(int(os.Stdout.Fd()))

	logOpts := logging.Options{Level: cliArgs.LogLevel}
	if !headless {
		logOpts.File = cliArgs.LogFile
	}

	log, logCloser, err := logging.New(logOpts)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}
	defer logCloser.Close()

	device, err := audio.Open(audio.Backend(cfg.Backend), cliArgs.deviceConfig(cfg), log)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}
	defer device.Close()

	if err := device.Start(); err != nil {
		cli.PrintError(err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if headless {
		err = runHeadless(ctx, cliArgs, cfg, device, engine, log)
	} else {
		header := ui.Header{
			Backend:    cfg.Backend,
			SampleRate: device.SampleRate(),
			FFTSize:    cfg.FFTSize,
			HopSize:    cfg.HopSize,
			Latency:    latency,
		}
		err = runUI(ctx, cliArgs, cfg, header, device, engine, log)
	}

	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}

	return 0
}

func newEngine(cfg config.Config) (*pitch.Engine, error) {
	opts := []pitch.Option{
		pitch.WithSpectrumRange(cfg.Display.SpectrumMinDB, cfg.Display.SpectrumMaxDB),
		pitch.WithSpectrumReference(0),
	}
	if cfg.OverlapAdd {
		opts = append(opts, pitch.WithOverlapAdd())
	}

	engine, err := pitch.NewEngine(cfg.FFTSize, cfg.HopSize, cfg.SampleRate, opts...)
	if err != nil {
		return nil, err
	}

	if err := engine.SetPitchSemitones(cfg.PitchSemitones); err != nil {
		_ = engine.Close()
		return nil, err
	}

	engine.SetVolume(cfg.Volume)

	return engine, nil
}

// sessionLatency is the engine delay plus one block of buffering.
func sessionLatency(cfg config.Config, engine *pitch.Engine) time.Duration {
	frames := engine.Latency() + cfg.BlockSize
	return time.Duration(float64(frames) / cfg.SampleRate * float64(time.Second)).Round(time.Millisecond)
}

func runHeadless(ctx context.Context, cliArgs *CLI, cfg config.Config, device audio.Device, engine *pitch.Engine, log *logrus.Logger) error {
	mon, err := monitor.New(device, engine, cfg.BlockSize,
		monitor.WithDisplay(monitor.NewLogDisplay(log, cliArgs.LogEvery)),
		monitor.WithLogger(log),
		monitor.WithMuted(cliArgs.Muted),
	)
	if err != nil {
		return err
	}

	return mon.Run(ctx)
}

func runUI(ctx context.Context, cliArgs *CLI, cfg config.Config, header ui.Header, device audio.Device, engine *pitch.Engine, log *logrus.Logger) error {
	layout, err := spectrum.NewBarLayout(cfg.BarConfig())
	if err != nil {
		return err
	}

	bridge := ui.NewBridge(32)

	mon, err := monitor.New(device, engine, cfg.BlockSize,
		monitor.WithDisplay(bridge),
		monitor.WithControls(bridge),
		monitor.WithLogger(log),
		monitor.WithMuted(cliArgs.Muted),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(ui.NewModel(header, cfg.Display, layout, bridge), tea.WithAltScreen(), tea.WithContext(ctx))

	done := make(chan error, 1)

	go func() {
		err := mon.Run(ctx)
		done <- err
		p.Send(ui.StoppedMsg{Err: err})
	}()

	_, uiErr := p.Run()
	cancel()

	if runErr := <-done; runErr != nil {
		return runErr
	}

	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		return fmt.Errorf("UI error: %w", uiErr)
	}

	return nil
}
