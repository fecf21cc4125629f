// Package monitor runs the capture, pitch-shift and playback loop and
// publishes level and spectrum snapshots to a display.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-vocoder/dsp/core"
	"github.com/cwbudde/algo-vocoder/dsp/effects/pitch"
	"github.com/cwbudde/algo-vocoder/dsp/meter"
	"github.com/cwbudde/algo-vocoder/internal/audio"
	"github.com/sirupsen/logrus"
)

const (
	defaultIdleInterval = 2 * time.Millisecond
	defaultPitchStep    = 1.0
	defaultVolumeStep   = 0.05
	maxSemitones        = 24.0
)

// ErrInvalidBlockSize is returned by New for non-positive block sizes.
var ErrInvalidBlockSize = errors.New("monitor: block size must be positive")

// Option configures a [Monitor].
type Option func(*Monitor)

// WithDisplay sets the snapshot sink.
func WithDisplay(d Display) Option {
	return func(m *Monitor) { m.display = d }
}

// WithControls sets the command source.
func WithControls(c Controls) Option {
	return func(m *Monitor) { m.controls = c }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Monitor) {
		if log != nil {
			m.log = log
		}
	}
}

// WithIdleInterval sets how long the loop sleeps after a cycle that captured
// nothing. Zero disables sleeping.
func WithIdleInterval(d time.Duration) Option {
	return func(m *Monitor) { m.idle = max(d, 0) }
}

// WithPitchStep sets the semitone step of pitch up/down commands.
func WithPitchStep(semitones float64) Option {
	return func(m *Monitor) { m.pitchStep = semitones }
}

// WithVolumeStep sets the step of volume up/down commands.
func WithVolumeStep(step float64) Option {
	return func(m *Monitor) { m.volumeStep = step }
}

// WithMuted starts the loop muted.
func WithMuted(muted bool) Option {
	return func(m *Monitor) { m.muted = muted }
}

// Monitor moves blocks from a device through a pitch processor and back.
// Run owns the processor; knobs change only through Controls.
type Monitor struct {
	device    audio.Device
	engine    pitch.Processor
	blockSize int

	display  Display
	controls Controls
	log      logrus.FieldLogger

	idle       time.Duration
	pitchStep  float64
	volumeStep float64

	muted bool
	quit  bool
	cycle uint64

	in       []float64
	out      []float64
	spectrum []float64
}

// New returns a monitor that processes blocks of up to blockSize frames.
func New(device audio.Device, engine pitch.Processor, blockSize int, opts ...Option) (*Monitor, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	m := &Monitor{
		device:     device,
		engine:     engine,
		blockSize:  blockSize,
		log:        logrus.StandardLogger(),
		idle:       defaultIdleInterval,
		pitchStep:  defaultPitchStep,
		volumeStep: defaultVolumeStep,
		in:         make([]float64, blockSize),
		out:        make([]float64, blockSize),
		spectrum:   make([]float64, engine.Bins()),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m, nil
}

// Muted reports whether output is muted.
func (m *Monitor) Muted() bool { return m.muted }

// Cycles returns the number of processed blocks.
func (m *Monitor) Cycles() uint64 { return m.cycle }

// Run loops until ctx is cancelled or a quit command arrives. Each iteration
// captures without blocking, processes and plays back what was captured,
// applies pending commands and publishes a snapshot. Only processing errors
// end the loop with an error.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.WithFields(logrus.Fields{
		"block_size":  m.blockSize,
		"sample_rate": m.device.SampleRate(),
	}).Info("monitor started")

	defer func() {
		stats := m.device.Stats()
		m.log.WithFields(logrus.Fields{
			"cycles":    m.cycle,
			"captured":  stats.Captured,
			"played":    stats.Played,
			"overruns":  stats.Overruns,
			"underruns": stats.Underruns,
		}).Info("monitor stopped")
	}()

	m.publish(0, 0, silentLevels)

	for !m.quit {
		if ctx.Err() != nil {
			return nil
		}

		captured, err := m.step()
		if err != nil {
			return err
		}

		if m.drainControls() && captured == 0 {
			m.publish(0, 0, silentLevels)
		}

		if captured == 0 {
			m.sleep(ctx)
		}
	}

	return nil
}

// step runs one capture/process/playback cycle and returns the captured
// frame count.
func (m *Monitor) step() (int, error) {
	n := m.device.Capture(m.in)
	if n == 0 {
		return 0, nil
	}

	core.Zero(m.in[n:])

	if err := m.engine.Process(m.in, m.out, n); err != nil {
		return n, fmt.Errorf("monitor: process block %d: %w", m.cycle, err)
	}

	if m.muted {
		core.Zero(m.out[:n])
	}

	played := m.device.Playback(m.out[:n])
	if played < n {
		m.log.WithFields(logrus.Fields{
			"cycle":  m.cycle,
			"wanted": n,
			"played": played,
		}).Debug("playback short write")
	}

	m.cycle++
	m.publish(n, played, levels{
		inDB:      meter.CalculateDB(m.in, n),
		outDB:     meter.CalculateDB(m.out, n),
		outPeakDB: meter.Peak(m.out, n),
	})

	return n, nil
}

// levels are the metered dB values of one cycle.
type levels struct {
	inDB, outDB, outPeakDB float64
}

var silentLevels = levels{inDB: meter.FloorDB, outDB: meter.FloorDB, outPeakDB: meter.FloorDB}

func (m *Monitor) publish(captured, played int, lv levels) {
	if m.display == nil {
		return
	}

	m.engine.Spectrum(m.spectrum)

	m.display.Show(Snapshot{
		InputDB:        lv.inDB,
		OutputDB:       lv.outDB,
		OutputPeakDB:   lv.outPeakDB,
		PitchRatio:     m.engine.PitchRatio(),
		PitchSemitones: m.engine.PitchSemitones(),
		Volume:         m.engine.Volume(),
		Muted:          m.muted,
		SpectrumDB:     append([]float64(nil), m.spectrum...),
		Captured:       captured,
		Played:         played,
		Cycle:          m.cycle,
		Device:         m.device.Stats(),
	})
}

// drainControls applies every pending command and reports whether any
// changed the published state.
func (m *Monitor) drainControls() bool {
	if m.controls == nil {
		return false
	}

	changed := false

	for {
		cmd, ok := m.controls.Poll()
		if !ok {
			return changed
		}

		if m.apply(cmd) {
			changed = true
		}
	}
}

func (m *Monitor) apply(cmd Command) bool {
	entry := m.log.WithField("command", cmd.Kind.String())

	switch cmd.Kind {
	case CommandQuit:
		m.quit = true

		return false
	case CommandPitchUp:
		return m.setSemitones(m.engine.PitchSemitones()+m.pitchStep, entry)
	case CommandPitchDown:
		return m.setSemitones(m.engine.PitchSemitones()-m.pitchStep, entry)
	case CommandPitchReset:
		return m.setSemitones(0, entry)
	case CommandSetPitch:
		return m.setSemitones(cmd.Value, entry)
	case CommandVolumeUp:
		m.engine.SetVolume(m.engine.Volume() + m.volumeStep)
	case CommandVolumeDown:
		m.engine.SetVolume(m.engine.Volume() - m.volumeStep)
	case CommandSetVolume:
		m.engine.SetVolume(cmd.Value)
	case CommandToggleMute:
		m.muted = !m.muted
	default:
		entry.Warn("unknown command ignored")

		return false
	}

	entry.WithFields(logrus.Fields{
		"volume": m.engine.Volume(),
		"muted":  m.muted,
	}).Debug("control applied")

	return true
}

func (m *Monitor) setSemitones(semitones float64, entry logrus.FieldLogger) bool {
	semitones = core.Clamp(math.Round(semitones*1e9)/1e9, -maxSemitones, maxSemitones)

	if err := m.engine.SetPitchSemitones(semitones); err != nil {
		entry.WithError(err).Warn("pitch change rejected")

		return false
	}

	entry.WithField("semitones", semitones).Debug("pitch changed")

	return true
}

func (m *Monitor) sleep(ctx context.Context) {
	if m.idle <= 0 {
		return
	}

	timer := time.NewTimer(m.idle)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
