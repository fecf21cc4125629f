// Package ui provides the Bubbletea terminal user interface for the monitor
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwbudde/algo-vocoder/dsp/meter"
	"github.com/cwbudde/algo-vocoder/dsp/spectrum"
	"github.com/cwbudde/algo-vocoder/internal/config"
	"github.com/cwbudde/algo-vocoder/internal/monitor"
)

// Header describes the session shown at the top of the screen
type Header struct {
	Backend    string
	SampleRate float64
	FFTSize    int
	HopSize    int
	Latency    time.Duration
}

// keyCommands maps keys to monitor commands; q and ctrl+c are handled apart
var keyCommands = map[string]monitor.CommandKind{
	"up":   monitor.CommandPitchUp,
	"k":    monitor.CommandPitchUp,
	"down": monitor.CommandPitchDown,
	"j":    monitor.CommandPitchDown,
	"0":    monitor.CommandPitchReset,
	"+":    monitor.CommandVolumeUp,
	"=":    monitor.CommandVolumeUp,
	"-":    monitor.CommandVolumeDown,
	"m":    monitor.CommandToggleMute,
}

// Model is the Bubbletea model for the live monitor
type Model struct {
	Header   Header
	Display  config.Display
	Snapshot monitor.Snapshot

	// Output peak hold for the master meter
	PeakDB float64

	// Set once the monitor loop has stopped
	Done bool
	Err  error

	// Terminal dimensions
	Width  int
	Height int

	bridge  *Bridge
	layout  *spectrum.BarLayout
	heights []int
}

// NewModel creates a UI model reading snapshots from and sending key
// commands to bridge
func NewModel(header Header, display config.Display, layout *spectrum.BarLayout, bridge *Bridge) Model {
	return Model{
		Header:  header,
		Display: display,
		Snapshot: monitor.Snapshot{
			InputDB:      meter.FloorDB,
			OutputDB:     meter.FloorDB,
			OutputPeakDB: meter.FloorDB,
			PitchRatio:   1,
			Volume:       1,
		},
		PeakDB:  meter.FloorDB,
		bridge:  bridge,
		layout:  layout,
		heights: make([]int, layout.Len()),
	}
}

// Init starts listening for snapshots
func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.bridge)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" {
			m.bridge.Send(monitor.Command{Kind: monitor.CommandQuit})
			return m, tea.Quit
		}

		if kind, ok := keyCommands[key]; ok {
			m.bridge.Send(monitor.Command{Kind: kind})
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case SnapshotMsg:
		m.Snapshot = msg.Snapshot
		m.PeakDB = max(msg.Snapshot.OutputPeakDB, m.PeakDB-peakDecayDB)
		m.layout.Heights(m.heights, msg.Snapshot.SpectrumDB)

		return m, waitForSnapshot(m.bridge)

	case StoppedMsg:
		m.Done = true
		m.Err = msg.Err

		return m, tea.Quit
	}

	return m, nil
}

// peakDecayDB is how far the peak hold falls per snapshot
const peakDecayDB = 0.5

// View renders the UI
func (m Model) View() string {
	if m.Width == 0 {
		return "Initializing...\n"
	}

	if m.Done && m.Err != nil {
		return renderStopped(m)
	}

	return renderMonitorView(m)
}
