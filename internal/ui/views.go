package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cwbudde/algo-vocoder/dsp/meter"
	"github.com/cwbudde/algo-vocoder/internal/config"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#A40000")
	mutedColor   = lipgloss.Color("#888888")
	greenColor   = lipgloss.Color("#00AA00")
	yellowColor  = lipgloss.Color("#FFA500")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	mutedBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Render("MUTED")

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

var zoneStyles = map[meter.Zone]lipgloss.Style{
	meter.ZoneGreen:  lipgloss.NewStyle().Foreground(greenColor),
	meter.ZoneYellow: lipgloss.NewStyle().Foreground(yellowColor),
	meter.ZoneRed:    lipgloss.NewStyle().Foreground(primaryColor),
}

// renderMonitorView renders the main monitoring view
func renderMonitorView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	b.WriteString(boxStyle.Render(renderLevels(m) + "\n" + renderControls(m)))
	b.WriteString("\n")

	spectrumBox := boxStyle.Render(renderSpectrum(m) + "\n" + renderFrequencyAxis(m))
	masterBox := boxStyle.Render(renderMaster(m))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Bottom, spectrumBox, masterBox))
	b.WriteString("\n")

	b.WriteString(renderStats(m))
	b.WriteString("\n")
	b.WriteString(renderHelp())

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := titleStyle.Render("Vocoder - Live Pitch Monitor")

	h := m.Header
	subtitle := subtitleStyle.Render(fmt.Sprintf("%s | %.0f Hz | FFT %d / hop %d | latency %s",
		h.Backend, h.SampleRate, h.FFTSize, h.HopSize, h.Latency))

	return title + "\n" + subtitle
}

// renderLevels renders the input and output meters
func renderLevels(m Model) string {
	in := fmt.Sprintf("%s %s %6.1f dB", labelStyle.Render("In "),
		renderMeter(m.Snapshot.InputDB, m.Display), m.Snapshot.InputDB)
	out := fmt.Sprintf("%s %s %6.1f dB", labelStyle.Render("Out"),
		renderMeter(m.Snapshot.OutputDB, m.Display), m.Snapshot.OutputDB)

	return in + "\n" + out
}

// renderMeter renders a horizontal level bar coloured by zone
func renderMeter(db float64, d config.Display) string {
	filled := meter.Fill(db, d.MeterMinDB, d.MeterMaxDB, d.MeterWidth)
	span := d.MeterMaxDB - d.MeterMinDB

	var b strings.Builder
	for i := range d.MeterWidth {
		if i >= filled {
			b.WriteString(labelStyle.Render(strings.Repeat("░", d.MeterWidth-filled)))
			break
		}

		cellDB := d.MeterMinDB + span*float64(i+1)/float64(d.MeterWidth)
		b.WriteString(zoneStyles[meter.ZoneOf(cellDB, d.MeterYellow, d.MeterRed)].Render("█"))
	}

	return b.String()
}

// renderControls renders pitch, volume and mute state
func renderControls(m Model) string {
	s := m.Snapshot
	line := fmt.Sprintf("%s %+.0f st (x%.3f)   %s %3.0f%%",
		labelStyle.Render("Pitch"), s.PitchSemitones, s.PitchRatio,
		labelStyle.Render("Volume"), s.Volume*100)

	if s.Muted {
		line += "   " + mutedBadge
	}

	return line
}

// renderSpectrum renders the spectrum bars, top row first
func renderSpectrum(m Model) string {
	d := m.Display
	span := d.SpectrumMaxDB - d.SpectrumMinDB
	rows := make([]string, 0, d.SpectrumHeight)

	for row := d.SpectrumHeight; row >= 1; row-- {
		rowDB := d.SpectrumMinDB + span*float64(row)/float64(d.SpectrumHeight)
		style := zoneStyles[meter.ZoneOf(rowDB, d.MeterYellow, d.MeterRed)]

		var b strings.Builder
		for _, h := range m.heights {
			if h >= row {
				b.WriteString(style.Render("█"))
			} else {
				b.WriteString(" ")
			}

			b.WriteString(" ")
		}

		rows = append(rows, b.String())
	}

	return strings.Join(rows, "\n")
}

// renderFrequencyAxis labels the first, middle and last bars
func renderFrequencyAxis(m Model) string {
	freqs := m.layout.Frequencies()
	width := 2 * len(freqs)

	if len(freqs) == 0 {
		return ""
	}

	left := formatFreq(freqs[0])
	mid := formatFreq(freqs[len(freqs)/2])
	right := formatFreq(freqs[len(freqs)-1])

	axis := []rune(strings.Repeat(" ", max(width, len(left)+len(mid)+len(right)+2)))
	place := func(at int, label string) {
		at = max(0, min(at, len(axis)-len(label)))
		copy(axis[at:], []rune(label))
	}

	place(0, left)
	place(len(freqs)-len(mid)/2, mid)
	place(len(axis)-len(right), right)

	return labelStyle.Render(strings.TrimRight(string(axis), " "))
}

// renderMaster renders the vertical output meter with peak hold
func renderMaster(m Model) string {
	d := m.Display
	filled := meter.Fill(m.Snapshot.OutputDB, d.MeterMinDB, d.MeterMaxDB, d.MasterHeight)
	peak := meter.Fill(m.PeakDB, d.MeterMinDB, d.MeterMaxDB, d.MasterHeight)
	span := d.MeterMaxDB - d.MeterMinDB
	rows := make([]string, 0, d.MasterHeight+1)

	for row := d.MasterHeight; row >= 1; row-- {
		rowDB := d.MeterMinDB + span*float64(row)/float64(d.MasterHeight)
		style := zoneStyles[meter.ZoneOf(rowDB, d.MeterYellow, d.MeterRed)]

		switch {
		case row <= filled:
			rows = append(rows, style.Render("██"))
		case row == peak:
			rows = append(rows, style.Render("▔▔"))
		default:
			rows = append(rows, "  ")
		}
	}

	rows = append(rows, labelStyle.Render("M "))

	return strings.Join(rows, "\n")
}

// renderStats renders the device counters
func renderStats(m Model) string {
	dev := m.Snapshot.Device

	return labelStyle.Render(fmt.Sprintf("cycle %d | captured %d | played %d | queued %d | overruns %d | underruns %d",
		m.Snapshot.Cycle, dev.Captured, dev.Played, dev.Queued, dev.Overruns, dev.Underruns))
}

// renderHelp renders the key help line
func renderHelp() string {
	return subtitleStyle.Render("↑/k pitch up  ↓/j pitch down  0 reset  +/- volume  m mute  q quit")
}

// renderStopped renders the error screen after the loop failed
func renderStopped(m Model) string {
	return titleStyle.Render("Monitor stopped") + "\n" + m.Err.Error() + "\n"
}

// formatFreq formats a frequency as 20, 632 or 1.2k
func formatFreq(hz float64) string {
	if hz >= 1000 {
		return strings.TrimSuffix(fmt.Sprintf("%.1f", hz/1000), ".0") + "k"
	}

	return fmt.Sprintf("%.0f", hz)
}
