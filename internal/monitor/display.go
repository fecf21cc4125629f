package monitor

import (
	"math"

	"github.com/sirupsen/logrus"
)

// LogDisplay reports every Nth snapshot through a logger, for runs without a
// terminal.
type LogDisplay struct {
	log   logrus.FieldLogger
	every uint64
	last  Snapshot
}

// NewLogDisplay logs one summary every `every` processed cycles.
func NewLogDisplay(log logrus.FieldLogger, every int) *LogDisplay {
	return &LogDisplay{log: log, every: uint64(max(every, 1))}
}

// Show logs s when its cycle is a multiple of the reporting interval or when
// a control changed the pitch, volume or mute state.
func (d *LogDisplay) Show(s Snapshot) {
	changed := s.PitchRatio != d.last.PitchRatio || s.Volume != d.last.Volume || s.Muted != d.last.Muted
	due := s.Cycle > 0 && s.Cycle%d.every == 0 && s.Captured > 0

	d.last = s

	if !due && !changed {
		return
	}

	d.log.WithFields(logrus.Fields{
		"cycle":     s.Cycle,
		"captured":  s.Captured,
		"played":    s.Played,
		"input_db":  round1(s.InputDB),
		"output_db": round1(s.OutputDB),
		"peak_db":   round1(s.OutputPeakDB),
		"semitones": round1(s.PitchSemitones),
		"volume":    round1(s.Volume),
		"muted":     s.Muted,
		"overruns":  s.Device.Overruns,
		"underruns": s.Device.Underruns,
	}).Info("monitor")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
