package ui

import "github.com/cwbudde/algo-vocoder/internal/monitor"

// SnapshotMsg carries the latest monitor snapshot.
type SnapshotMsg struct {
	Snapshot monitor.Snapshot
}

// StoppedMsg indicates the monitor loop has ended. Err is nil on a clean stop.
type StoppedMsg struct {
	Err error
}
