package monitor

import "github.com/cwbudde/algo-vocoder/internal/audio"

// Snapshot is the metrics view of one processed cycle. It is a value: the
// spectrum slice belongs to the snapshot and is never reused by the loop.
type Snapshot struct {
	// InputDB and OutputDB are block RMS levels; OutputPeakDB is the output
	// sample peak. All are dBFS clamped to the meter range.
	InputDB      float64
	OutputDB     float64
	OutputPeakDB float64

	PitchRatio     float64
	PitchSemitones float64
	Volume         float64
	Muted          bool

	// SpectrumDB holds the per-bin dB levels of the latest analysis frame.
	SpectrumDB []float64

	// Captured and Played are the frame counts of this cycle.
	Captured int
	Played   int
	// Cycle counts processed blocks since Run started.
	Cycle uint64

	Device audio.Stats
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	if s.SpectrumDB != nil {
		s.SpectrumDB = append([]float64(nil), s.SpectrumDB...)
	}

	return s
}
