package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwbudde/algo-vocoder/dsp/spectrum"
	"github.com/cwbudde/algo-vocoder/internal/config"
	"github.com/cwbudde/algo-vocoder/internal/monitor"
)

func newTestModel(t *testing.T) (Model, *Bridge) {
	t.Helper()

	cfg := config.Default()

	layout, err := spectrum.NewBarLayout(cfg.BarConfig())
	if err != nil {
		t.Fatal(err)
	}

	bridge := NewBridge(16)
	header := Header{Backend: "tone", SampleRate: cfg.SampleRate, FFTSize: cfg.FFTSize, HopSize: cfg.HopSize, Latency: 70 * time.Millisecond}

	return NewModel(header, cfg.Display, layout, bridge), bridge
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)

	return next.(Model), cmd
}

func drain(b *Bridge) []monitor.CommandKind {
	var kinds []monitor.CommandKind

	for {
		cmd, ok := b.Poll()
		if !ok {
			return kinds
		}

		kinds = append(kinds, cmd.Kind)
	}
}

func TestKeysSendCommands(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want monitor.CommandKind
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, monitor.CommandPitchUp},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}, monitor.CommandPitchUp},
		{tea.KeyMsg{Type: tea.KeyDown}, monitor.CommandPitchDown},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, monitor.CommandPitchDown},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0")}, monitor.CommandPitchReset},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")}, monitor.CommandVolumeUp},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")}, monitor.CommandVolumeUp},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")}, monitor.CommandVolumeDown},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")}, monitor.CommandToggleMute},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			m, bridge := newTestModel(t)

			if _, cmd := update(m, tt.key); cmd != nil {
				t.Fatal("control key should not return a command")
			}

			got := drain(bridge)
			if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("commands = %v, want [%v]", got, tt.want)
			}
		})
	}
}

func TestUnmappedKeyIsIgnored(t *testing.T) {
	m, bridge := newTestModel(t)
	update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	if got := drain(bridge); len(got) != 0 {
		t.Fatalf("commands = %v, want none", got)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		m, bridge := newTestModel(t)

		_, cmd := update(m, key)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", key)
		}

		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: command did not quit", key)
		}

		if got := drain(bridge); len(got) != 1 || got[0] != monitor.CommandQuit {
			t.Fatalf("%s: commands = %v", key, got)
		}
	}
}

func TestSnapshotUpdatesModel(t *testing.T) {
	m, _ := newTestModel(t)

	spec := make([]float64, 2049) // 0 dB in every bin

	snap := monitor.Snapshot{
		InputDB:        -20,
		OutputDB:       -9,
		OutputPeakDB:   -6,
		PitchRatio:     1.5,
		PitchSemitones: 7,
		Volume:         0.8,
		Muted:          true,
		SpectrumDB:     spec,
		Cycle:          12,
	}

	m, cmd := update(m, SnapshotMsg{Snapshot: snap})
	if cmd == nil {
		t.Fatal("expected the model to keep listening for snapshots")
	}

	if m.Snapshot.Cycle != 12 || m.PeakDB != -6 {
		t.Fatalf("snapshot not applied: cycle=%d peak=%v", m.Snapshot.Cycle, m.PeakDB)
	}

	tallest := 0
	for _, h := range m.heights {
		tallest = max(tallest, h)
	}

	if tallest != m.Display.SpectrumHeight {
		t.Fatalf("tallest bar = %d, want %d", tallest, m.Display.SpectrumHeight)
	}

	quieter := snap
	quieter.OutputDB = -40
	quieter.OutputPeakDB = -37
	m, _ = update(m, SnapshotMsg{Snapshot: quieter})

	if m.PeakDB != -6-peakDecayDB {
		t.Fatalf("peak hold = %v, want %v", m.PeakDB, -6-peakDecayDB)
	}
}

func TestViewRendersState(t *testing.T) {
	m, _ := newTestModel(t)

	if got := m.View(); !strings.Contains(got, "Initializing") {
		t.Fatalf("view before resize = %q", got)
	}

	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(m, SnapshotMsg{Snapshot: monitor.Snapshot{
		InputDB: -20, OutputDB: -30, PitchRatio: 1.5, PitchSemitones: 7, Volume: 0.8, Muted: true,
	}})

	view := m.View()
	for _, want := range []string{"Vocoder", "tone", "44100 Hz", "FFT 4096", "+7 st", "80%", "MUTED", "-20.0 dB", "632", "16.1k", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestStoppedMsgQuits(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, cmd := update(m, StoppedMsg{Err: errors.New("device lost")})
	if !m.Done || cmd == nil {
		t.Fatal("StoppedMsg should mark the model done and quit")
	}

	if view := m.View(); !strings.Contains(view, "device lost") {
		t.Fatalf("view = %q", view)
	}
}

func TestRenderMeterFill(t *testing.T) {
	d := config.DefaultDisplay()

	tests := []struct {
		db   float64
		want int
	}{
		{-60, 0},
		{-30, 10},
		{-3, 19},
		{0, 20},
	}

	for _, tt := range tests {
		got := renderMeter(tt.db, d)
		if n := strings.Count(got, "█"); n != tt.want {
			t.Errorf("renderMeter(%v) filled %d cells, want %d", tt.db, n, tt.want)
		}

		if n := strings.Count(got, "█") + strings.Count(got, "░"); n != d.MeterWidth {
			t.Errorf("renderMeter(%v) width %d, want %d", tt.db, n, d.MeterWidth)
		}
	}
}

func TestFormatFreq(t *testing.T) {
	tests := map[float64]string{
		20:      "20",
		632.4:   "632",
		1000:    "1k",
		1249:    "1.2k",
		16212.3: "16.2k",
	}

	for hz, want := range tests {
		if got := formatFreq(hz); got != want {
			t.Errorf("formatFreq(%v) = %q, want %q", hz, got, want)
		}
	}
}

func TestBridgeKeepsLatestSnapshot(t *testing.T) {
	b := NewBridge(1)

	b.Show(monitor.Snapshot{Cycle: 1})
	b.Show(monitor.Snapshot{Cycle: 2})

	msg, ok := waitForSnapshot(b)().(SnapshotMsg)
	if !ok || msg.Snapshot.Cycle != 2 {
		t.Fatalf("got %+v, want cycle 2", msg)
	}
}
