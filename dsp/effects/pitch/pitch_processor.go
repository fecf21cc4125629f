package pitch

// Processor is the block-processing API the monitor loop drives.
//
//nolint:revive
type Processor interface {
	Process(input, output []float64, count int) error

	PitchRatio() float64
	PitchSemitones() float64
	SetPitchRatio(ratio float64) error
	SetPitchSemitones(semitones float64) error

	Volume() float64
	SetVolume(volume float64)

	Spectrum(out []float64) int
	Bins() int

	Reset()
	Close() error
}

var _ Processor = (*Engine)(nil)
