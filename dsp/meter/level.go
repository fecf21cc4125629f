// Package meter converts sample blocks to clamped decibel levels for display.
package meter

import (
	"math"

	"github.com/cwbudde/algo-vocoder/dsp/core"
)

const (
	// FloorDB is the level reported for silence and empty blocks.
	FloorDB = -60.0
	// CeilingDB is the highest level reported.
	CeilingDB = 0.0

	// DefaultYellowDB and DefaultRedDB are the display zone thresholds.
	DefaultYellowDB = -12.0
	DefaultRedDB    = -3.0
)

// Zone classifies a level for colouring.
type Zone int

const (
	ZoneGreen Zone = iota
	ZoneYellow
	ZoneRed
)

func (z Zone) String() string {
	switch z {
	case ZoneYellow:
		return "yellow"
	case ZoneRed:
		return "red"
	default:
		return "green"
	}
}

// CalculateDB returns the RMS level of buf[:frames] in dBFS, clamped to
// [FloorDB, CeilingDB]. frames <= 0 and exact silence both yield FloorDB.
func CalculateDB(buf []float64, frames int) float64 {
	if frames <= 0 {
		return FloorDB
	}

	sum := 0.0
	for _, x := range buf[:frames] {
		sum += x * x
	}

	return clampDB(core.LinearToDB(math.Sqrt(sum / float64(frames))))
}

// Peak returns the absolute peak of buf[:frames] in dBFS with the same
// clamping as CalculateDB.
func Peak(buf []float64, frames int) float64 {
	if frames <= 0 {
		return FloorDB
	}

	peak := 0.0
	for _, x := range buf[:frames] {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return clampDB(core.LinearToDB(peak))
}

// ZoneOf returns the display zone of a level for the given thresholds.
func ZoneOf(db, yellowDB, redDB float64) Zone {
	switch {
	case db >= redDB:
		return ZoneRed
	case db >= yellowDB:
		return ZoneYellow
	default:
		return ZoneGreen
	}
}

// Fill maps db linearly from [minDB, maxDB] onto [0, width] cells.
func Fill(db, minDB, maxDB float64, width int) int {
	if width <= 0 || maxDB <= minDB {
		return 0
	}

	frac := (db - minDB) / (maxDB - minDB)
	cells := int(math.Round(frac * float64(width)))

	return max(0, min(width, cells))
}

// clampDB maps -Inf (silence) to FloorDB.
func clampDB(db float64) float64 {
	return core.Clamp(db, FloorDB, CeilingDB)
}
