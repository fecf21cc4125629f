package monitor

import (
	"context"
	"errors"

	"github.com/cwbudde/algo-vocoder/dsp/core"
	"github.com/cwbudde/algo-vocoder/internal/audio"
)

// fakeDevice replays scripted capture results. A nil script entry captures
// nothing. Once the script is exhausted it calls done, if set.
type fakeDevice struct {
	script [][]float64
	next   int
	done   func()

	played      [][]float64
	playLimit   int
	stats       audio.Stats
	captureCall int
}

func (d *fakeDevice) Start() error { return nil }

func (d *fakeDevice) Capture(buf []float64) int {
	d.captureCall++

	if d.next >= len(d.script) {
		if d.done != nil {
			d.done()
		}

		return 0
	}

	block := d.script[d.next]
	d.next++

	n := copy(buf, block)
	d.stats.Captured += uint64(n)

	return n
}

func (d *fakeDevice) Playback(buf []float64) int {
	n := len(buf)
	if d.playLimit > 0 {
		n = min(n, d.playLimit)
	}

	d.played = append(d.played, append([]float64(nil), buf[:n]...))
	d.stats.Played += uint64(n)

	return n
}

func (d *fakeDevice) SampleRate() float64 { return 8000 }

func (d *fakeDevice) Stats() audio.Stats { return d.stats }

func (d *fakeDevice) Close() error { return nil }

// fakeProcessor copies input to output scaled by volume and records calls.
type fakeProcessor struct {
	counts    []int
	inputs    [][]float64
	ratio     float64
	semitones float64
	volume    float64
	err       error
	bins      int
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{ratio: 1, volume: 1, bins: 5}
}

func (p *fakeProcessor) Process(input, output []float64, count int) error {
	if p.err != nil {
		return p.err
	}

	p.counts = append(p.counts, count)
	p.inputs = append(p.inputs, append([]float64(nil), input...))

	for i := range count {
		output[i] = input[i] * p.volume
	}

	return nil
}

func (p *fakeProcessor) PitchRatio() float64     { return p.ratio }
func (p *fakeProcessor) PitchSemitones() float64 { return p.semitones }

func (p *fakeProcessor) SetPitchRatio(ratio float64) error {
	p.ratio = ratio
	p.semitones = core.RatioToSemitones(ratio)

	return nil
}

func (p *fakeProcessor) SetPitchSemitones(semitones float64) error {
	if semitones > 24 || semitones < -24 {
		return errors.New("out of range")
	}

	p.semitones = semitones
	p.ratio = core.SemitonesToRatio(semitones)

	return nil
}

func (p *fakeProcessor) Volume() float64 { return p.volume }

func (p *fakeProcessor) SetVolume(v float64) { p.volume = core.Clamp(v, 0, 1) }

func (p *fakeProcessor) Spectrum(out []float64) int {
	n := min(len(out), p.bins)
	for i := range n {
		out[i] = -30
	}

	return n
}

func (p *fakeProcessor) Bins() int    { return p.bins }
func (p *fakeProcessor) Reset()       {}
func (p *fakeProcessor) Close() error { return nil }

type recordingDisplay struct {
	snapshots []Snapshot
}

func (d *recordingDisplay) Show(s Snapshot) {
	d.snapshots = append(d.snapshots, s)
}

func (d *recordingDisplay) last() Snapshot {
	return d.snapshots[len(d.snapshots)-1]
}

func runScripted(ctx context.Context, m *Monitor, dev *fakeDevice) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dev.done = cancel

	return m.Run(ctx)
}
