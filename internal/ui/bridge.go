package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwbudde/algo-vocoder/internal/monitor"
)

// Bridge connects the monitor loop and the terminal program. It is the
// loop's Display (latest snapshot wins) and its Controls (key commands).
// Neither direction blocks the loop.
type Bridge struct {
	monitor.ChannelControls

	snapshots chan monitor.Snapshot
}

var (
	_ monitor.Display  = (*Bridge)(nil)
	_ monitor.Controls = (*Bridge)(nil)
)

// NewBridge returns a bridge queueing up to commands pending key commands.
func NewBridge(commands int) *Bridge {
	return &Bridge{
		ChannelControls: monitor.NewChannelControls(max(commands, 1)),
		snapshots:       make(chan monitor.Snapshot, 1),
	}
}

// Show replaces any snapshot the UI has not picked up yet.
func (b *Bridge) Show(s monitor.Snapshot) {
	select {
	case b.snapshots <- s:
		return
	default:
	}

	select {
	case <-b.snapshots:
	default:
	}

	select {
	case b.snapshots <- s:
	default:
	}
}

// waitForSnapshot creates a command that waits for the next snapshot
func waitForSnapshot(b *Bridge) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: <-b.snapshots}
	}
}
