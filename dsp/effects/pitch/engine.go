package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-vocoder/dsp/core"
	"github.com/cwbudde/algo-vocoder/dsp/fft"
	"github.com/cwbudde/algo-vocoder/dsp/spectrum"
	"github.com/cwbudde/algo-vocoder/dsp/window"
)

const (
	defaultPitchRatio = 1.0
	defaultVolume     = 1.0

	// MinPitchRatio and MaxPitchRatio bound the accepted pitch ratio.
	MinPitchRatio = 0.25
	MaxPitchRatio = 4.0

	identityEps = 1e-9
	energyTiny  = 1e-20

	// Minimum overlap-add normalisation, as a fraction of the steady-state
	// window-square sum for HopSize blocks.
	normFloorFraction = 0.1
)

var (
	// ErrInvalidFFTSize is returned for frame sizes that are not a power of two >= 2.
	ErrInvalidFFTSize = errors.New("pitch: fft size must be a power of two >= 2")
	// ErrInvalidHopSize is returned for hop sizes outside [1, fftSize].
	ErrInvalidHopSize = errors.New("pitch: hop size must be in [1, fftSize]")
	// ErrInvalidSampleRate is returned for non-positive or non-finite sample rates.
	ErrInvalidSampleRate = errors.New("pitch: sample rate must be positive and finite")
	// ErrInvalidPitchRatio is returned for ratios outside [MinPitchRatio, MaxPitchRatio].
	ErrInvalidPitchRatio = errors.New("pitch: pitch ratio out of range")
)

// Option configures an [Engine].
type Option func(*engineConfig)

type engineConfig struct {
	overlapAdd bool
	minDB      float64
	maxDB      float64
	reference  float64
	refAuto    bool
}

// WithOverlapAdd switches the engine to streaming framing: the analysis frame
// is the last N input samples and output frames are overlap-added. Output is
// delayed by N samples for any sequence of block sizes; the first N output
// samples after construction or Reset are silent. Blocks longer than the hop
// size thin the overlap, and frame edges covered by too little window energy
// come out attenuated.
func WithOverlapAdd() Option {
	return func(c *engineConfig) {
		c.overlapAdd = true
	}
}

// WithSpectrumRange sets the dB range Spectrum clamps to.
func WithSpectrumRange(minDB, maxDB float64) Option {
	return func(c *engineConfig) {
		if minDB > maxDB {
			minDB, maxDB = maxDB, minDB
		}

		c.minDB = minDB
		c.maxDB = maxDB
	}
}

// WithSpectrumReference sets the bin magnitude reported as 0 dB. A value <= 0
// selects the window-compensated reference, so a full-scale bin-centred sine
// reads 0 dB.
func WithSpectrumReference(ref float64) Option {
	return func(c *engineConfig) {
		if ref <= 0 || math.IsNaN(ref) || math.IsInf(ref, 0) {
			c.refAuto = true
			return
		}

		c.refAuto = false
		c.reference = ref
	}
}

// Engine is a single-channel phase-vocoder pitch shifter that processes one
// STFT frame per block.
//
// Knob setters are not synchronised with Process; the caller serialises
// access. Engine is not safe for concurrent use.
type Engine struct {
	fftSize    int
	hopSize    int
	bins       int
	sampleRate float64

	pitchRatio float64
	volume     float64

	overlapAdd bool
	minDB      float64
	maxDB      float64
	reference  float64

	transform *fft.Transform
	window    []float64
	windowSq  []float64

	frame   []float64
	history []float64
	re      []float64
	im      []float64
	synthRe []float64
	synthIm []float64
	timeBuf []float64

	olaOut    []float64
	olaNorm   []float64
	normFloor float64
	// Input samples consumed in streaming mode, saturating at N.
	warm int

	omega       []float64
	prevPhase   []float64
	sumPhase    []float64
	magnitudes  []float64
	instFreqs   []float64
	shiftedMag  []float64
	shiftedFreq []float64
	binWeight   []float64
	anaPhase    []float64
	peakBins    []int
	peakSrc     []int

	primed   bool
	shifting bool
}

// NewEngine creates an engine for frames of fftSize samples at sampleRate.
//
// hopSize is the nominal number of new samples per block; it sizes the
// reported latency in streaming mode. The hop actually used for phase
// tracking is the count passed to each Process call.
func NewEngine(fftSize, hopSize int, sampleRate float64, opts ...Option) (*Engine, error) {
	if fftSize < 2 || !isPowerOf2(fftSize) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	if hopSize < 1 || hopSize > fftSize {
		return nil, fmt.Errorf("%w: %d (fftSize %d)", ErrInvalidHopSize, hopSize, fftSize)
	}

	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	cfg := engineConfig{
		minDB: spectrum.DefaultMinDB,
		maxDB: spectrum.DefaultMaxDB,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	transform, err := fft.NewTransform(fftSize)
	if err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}

	e := &Engine{
		fftSize:    fftSize,
		hopSize:    hopSize,
		bins:       transform.Bins(),
		sampleRate: sampleRate,
		pitchRatio: defaultPitchRatio,
		volume:     defaultVolume,
		overlapAdd: cfg.overlapAdd,
		minDB:      cfg.minDB,
		maxDB:      cfg.maxDB,
		transform:  transform,
		window:     window.Generate(window.TypeHann, fftSize),
	}

	e.reference = 1
	if cfg.refAuto {
		e.reference = spectrum.ReferenceForWindow(e.window)
	} else if cfg.reference > 0 {
		e.reference = cfg.reference
	}

	e.allocate()

	return e, nil
}

func (e *Engine) allocate() {
	n, bins := e.fftSize, e.bins

	e.windowSq = make([]float64, n)
	vecmath.MulBlock(e.windowSq, e.window, e.window)

	e.frame = make([]float64, n)
	e.timeBuf = make([]float64, n)

	if e.overlapAdd {
		e.history = make([]float64, n)
		e.olaOut = make([]float64, n)
		e.olaNorm = make([]float64, n)

		var sum float64
		for _, w := range e.windowSq {
			sum += w
		}

		e.normFloor = normFloorFraction * sum / float64(e.hopSize)
	}

	e.re = make([]float64, bins)
	e.im = make([]float64, bins)
	e.synthRe = make([]float64, bins)
	e.synthIm = make([]float64, bins)

	e.omega = make([]float64, bins)
	e.prevPhase = make([]float64, bins)
	e.sumPhase = make([]float64, bins)
	e.magnitudes = make([]float64, bins)
	e.instFreqs = make([]float64, bins)
	e.shiftedMag = make([]float64, bins)
	e.shiftedFreq = make([]float64, bins)
	e.binWeight = make([]float64, bins)
	e.anaPhase = make([]float64, bins)
	e.peakBins = make([]int, 0, bins)
	e.peakSrc = make([]int, 0, bins)

	for k := range bins {
		e.omega[k] = 2 * math.Pi * float64(k) / float64(n)
		e.binWeight[k] = 2
	}

	// DC and, for even N, Nyquist appear once in the full spectrum.
	e.binWeight[0] = 1
	if n%2 == 0 {
		e.binWeight[bins-1] = 1
	}
}

// FFTSize returns the frame length N.
func (e *Engine) FFTSize() int { return e.fftSize }

// HopSize returns the nominal hop size.
func (e *Engine) HopSize() int { return e.hopSize }

// Bins returns the number of spectrum bins, N/2+1.
func (e *Engine) Bins() int { return e.bins }

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// OverlapAdd reports whether streaming framing is enabled.
func (e *Engine) OverlapAdd() bool { return e.overlapAdd }

// Latency returns the output delay in samples.
func (e *Engine) Latency() int {
	if !e.overlapAdd {
		return 0
	}

	return e.fftSize
}

// SpectrumRange returns the dB range Spectrum clamps to.
func (e *Engine) SpectrumRange() (minDB, maxDB float64) { return e.minDB, e.maxDB }

// PitchRatio returns the pitch ratio.
func (e *Engine) PitchRatio() float64 { return e.pitchRatio }

// PitchSemitones returns the pitch shift in semitones.
func (e *Engine) PitchSemitones() float64 { return core.RatioToSemitones(e.pitchRatio) }

// SetPitchRatio sets the frequency multiplier applied from the next block on.
func (e *Engine) SetPitchRatio(ratio float64) error {
	if !core.IsFinitePositive(ratio) || ratio < MinPitchRatio || ratio > MaxPitchRatio {
		return fmt.Errorf("%w: %f not in [%g, %g]", ErrInvalidPitchRatio, ratio, MinPitchRatio, MaxPitchRatio)
	}

	e.pitchRatio = ratio

	return nil
}

// SetPitchSemitones sets the pitch shift in semitones.
func (e *Engine) SetPitchSemitones(semitones float64) error {
	if math.IsNaN(semitones) || math.IsInf(semitones, 0) {
		return fmt.Errorf("%w: semitones must be finite: %f", ErrInvalidPitchRatio, semitones)
	}

	return e.SetPitchRatio(core.SemitonesToRatio(semitones))
}

// Volume returns the output gain.
func (e *Engine) Volume() float64 { return e.volume }

// SetVolume sets the output gain, clamped to [0, 1]. NaN mutes.
func (e *Engine) SetVolume(volume float64) {
	if math.IsNaN(volume) {
		volume = 0
	}

	e.volume = core.Clamp(volume, 0, 1)
}

// Process pitch-shifts count samples of input into output.
//
// count must be in [0, FFTSize] and both slices must hold at least count
// samples; violations panic. count == 0 is a no-op. Only output[:count] is
// written.
func (e *Engine) Process(input, output []float64, count int) error {
	if count < 0 || count > e.fftSize {
		panic(fmt.Sprintf("pitch: Process count %d outside [0, %d]", count, e.fftSize))
	}

	if len(input) < count || len(output) < count {
		panic(fmt.Sprintf("pitch: Process buffers too short: input=%d output=%d count=%d",
			len(input), len(output), count))
	}

	if count == 0 {
		return nil
	}

	e.loadFrame(input[:count])

	if err := e.transform.Forward(e.frame, e.re, e.im); err != nil {
		return fmt.Errorf("pitch: analysis failed: %w", err)
	}

	center := float64(count) / 2
	if e.overlapAdd {
		center = float64(e.fftSize) / 2
	}

	e.shiftBins(count, center)

	if err := e.transform.Inverse(e.synthRe, e.synthIm, e.timeBuf); err != nil {
		return fmt.Errorf("pitch: synthesis failed: %w", err)
	}

	vecmath.MulBlockInPlace(e.timeBuf, e.window)

	if e.overlapAdd {
		e.emitOverlapAdd(output[:count])
	} else {
		vecmath.ScaleBlock(output[:count], e.timeBuf[:count], e.volume)
	}

	return nil
}

func (e *Engine) loadFrame(block []float64) {
	n := len(block)

	if !e.overlapAdd {
		vecmath.MulBlock(e.frame[:n], block, e.window[:n])
		core.Zero(e.frame[n:])

		return
	}

	core.ShiftLeft(e.history, n)
	copy(e.history[e.fftSize-n:], block)
	vecmath.MulBlock(e.frame, e.history, e.window)
}

// shiftBins fills synthRe/synthIm from the analysis bins. hop is the number
// of samples since the previous frame; center is the frame position phases
// are referenced to, so locked bins keep the analysis envelope in place.
func (e *Engine) shiftBins(hop int, center float64) {
	hopF := float64(hop)
	half := e.bins - 1

	for k := range e.bins {
		re, im := e.re[k], e.im[k]
		phase := math.Atan2(im, re)
		e.magnitudes[k] = math.Hypot(re, im)

		if e.primed {
			delta := wrapPhase(phase - e.prevPhase[k] - e.omega[k]*hopF)
			e.instFreqs[k] = e.omega[k] + delta/hopF
		} else {
			e.instFreqs[k] = e.omega[k]
		}

		e.prevPhase[k] = phase
		e.anaPhase[k] = wrapPhase(phase + e.omega[k]*center)
	}

	e.primed = true

	ratio := e.pitchRatio
	if math.Abs(ratio-1) <= identityEps {
		copy(e.synthRe, e.re)
		copy(e.synthIm, e.im)
		e.shifting = false

		return
	}

	for k := range e.bins {
		srcK := float64(k) / ratio
		if srcK > float64(half) {
			e.shiftedMag[k] = 0
			e.shiftedFreq[k] = e.omega[k]

			continue
		}

		lo := int(srcK)
		frac := srcK - float64(lo)
		hi := min(lo+1, half)
		e.shiftedMag[k] = e.magnitudes[lo]*(1-frac) + e.magnitudes[hi]*frac
		e.shiftedFreq[k] = (e.instFreqs[lo]*(1-frac) + e.instFreqs[hi]*frac) * ratio
	}

	e.restoreEnergy()
	e.findPeaks(ratio)

	// Phases restart from the analysis frame whenever shifting (re)engages.
	if len(e.peakBins) == 0 {
		for k := range e.bins {
			if e.shifting {
				e.sumPhase[k] = wrapPhase(e.sumPhase[k] + e.shiftedFreq[k]*hopF)
			} else {
				e.sumPhase[k] = e.anaPhase[e.sourceBin(k, ratio)]
			}
		}
	} else {
		e.lockPhases(ratio, hopF)
	}

	e.shifting = true

	for k := range e.bins {
		sin, cos := math.Sincos(e.sumPhase[k] - e.omega[k]*center)
		e.synthRe[k] = e.shiftedMag[k] * cos
		e.synthIm[k] = e.shiftedMag[k] * sin
	}
}

// findPeaks collects the analysis magnitude peaks and the synthesis bins
// they move to.
func (e *Engine) findPeaks(ratio float64) {
	half := e.bins - 1

	e.peakBins = e.peakBins[:0]
	e.peakSrc = e.peakSrc[:0]

	for k := 1; k < half; k++ {
		if e.magnitudes[k] < e.magnitudes[k-1] || e.magnitudes[k] <= e.magnitudes[k+1] {
			continue
		}

		target := int(float64(k)*ratio + 0.5)
		if target > half {
			break
		}

		if n := len(e.peakBins); n > 0 && e.peakBins[n-1] == target {
			continue
		}

		e.peakBins = append(e.peakBins, target)
		e.peakSrc = append(e.peakSrc, k)
	}
}

// lockPhases advances each synthesis peak by its shifted frequency and sets
// the bins around it to the peak phase plus their analysis phase offset
// (identity phase locking, Laroche & Dolson 1999).
func (e *Engine) lockPhases(ratio, hopF float64) {
	for i, pk := range e.peakBins {
		src := e.peakSrc[i]
		if e.shifting {
			e.sumPhase[pk] = wrapPhase(e.sumPhase[pk] + e.instFreqs[src]*ratio*hopF)
		} else {
			e.sumPhase[pk] = e.anaPhase[src]
		}
	}

	peakIdx := 0

	for k := range e.bins {
		for peakIdx+1 < len(e.peakBins) && absInt(e.peakBins[peakIdx+1]-k) < absInt(e.peakBins[peakIdx]-k) {
			peakIdx++
		}

		pk := e.peakBins[peakIdx]
		if k == pk {
			continue
		}

		offset := e.anaPhase[e.sourceBin(k, ratio)] - e.anaPhase[e.peakSrc[peakIdx]]
		e.sumPhase[k] = wrapPhase(e.sumPhase[pk] + offset)
	}
}

func (e *Engine) sourceBin(k int, ratio float64) int {
	return min(int(float64(k)/ratio+0.5), e.bins-1)
}

// restoreEnergy rescales the remapped magnitudes so the frame keeps the
// energy of the analysis frame.
func (e *Engine) restoreEnergy() {
	var in, out float64

	for k, w := range e.binWeight {
		in += w * e.magnitudes[k] * e.magnitudes[k]
		out += w * e.shiftedMag[k] * e.shiftedMag[k]
	}

	if out <= energyTiny || in <= energyTiny {
		return
	}

	vecmath.ScaleBlockInPlace(e.shiftedMag, math.Sqrt(in/out))
}

// emitOverlapAdd writes the accumulator head, which no later frame can
// reach, then shifts in lockstep with history and adds the new frame. Index 0
// of the accumulators is the start of the previous frame, so out[i] is input
// sample i of this block delayed by N.
func (e *Engine) emitOverlapAdd(out []float64) {
	count := len(out)
	// Output before the first full frame would be the tail of a zero history.
	silent := max(e.fftSize-e.warm, 0)

	for i := range out {
		if i < silent {
			out[i] = 0
			continue
		}

		out[i] = e.olaOut[i] / max(e.olaNorm[i], e.normFloor) * e.volume
	}

	e.warm = min(e.warm+count, e.fftSize)

	core.ShiftLeft(e.olaOut, count)
	core.ShiftLeft(e.olaNorm, count)
	vecmath.AddBlockInPlace(e.olaOut, e.timeBuf)
	vecmath.AddBlockInPlace(e.olaNorm, e.windowSq)
}

// Spectrum writes the dB magnitude of the most recent analysis frame into
// out, clamped to the spectrum range, and returns min(len(out), Bins()).
// Before the first block every bin reads the range floor.
func (e *Engine) Spectrum(out []float64) int {
	return spectrum.BinsDB(out, e.re, e.im, e.minDB, e.maxDB, e.reference)
}

// Reset clears phase tracking, framing history and the reported spectrum.
// Knob values are kept.
func (e *Engine) Reset() {
	for _, buf := range [][]float64{
		e.frame, e.history, e.re, e.im, e.synthRe, e.synthIm, e.timeBuf,
		e.olaOut, e.olaNorm, e.prevPhase, e.sumPhase, e.instFreqs, e.anaPhase,
	} {
		core.Zero(buf)
	}

	e.primed = false
	e.shifting = false
	e.warm = 0
}

// Close releases the transform. The engine must not be used afterwards.
func (e *Engine) Close() error {
	if e.transform == nil {
		return nil
	}

	return e.transform.Close()
}

func wrapPhase(x float64) float64 {
	x = math.Mod(x+math.Pi, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	return x - math.Pi
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

func isPowerOf2(v int) bool {
	return v > 0 && (v&(v-1)) == 0
}
