package monitor

import "fmt"

// CommandKind identifies a control action.
type CommandKind int

const (
	CommandQuit CommandKind = iota
	CommandPitchUp
	CommandPitchDown
	CommandPitchReset
	// CommandSetPitch sets the pitch to Value semitones.
	CommandSetPitch
	CommandVolumeUp
	CommandVolumeDown
	// CommandSetVolume sets the volume to Value.
	CommandSetVolume
	CommandToggleMute
)

var commandNames = [...]string{
	CommandQuit:       "quit",
	CommandPitchUp:    "pitch-up",
	CommandPitchDown:  "pitch-down",
	CommandPitchReset: "pitch-reset",
	CommandSetPitch:   "set-pitch",
	CommandVolumeUp:   "volume-up",
	CommandVolumeDown: "volume-down",
	CommandSetVolume:  "set-volume",
	CommandToggleMute: "toggle-mute",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandNames) {
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}

	return commandNames[k]
}

// Command is a control request for the monitor loop.
type Command struct {
	Kind  CommandKind
	Value float64
}

// Controls delivers commands to the loop. Poll must not block.
type Controls interface {
	Poll() (Command, bool)
}

// Display receives one snapshot per processed cycle and after control
// changes. Show must not block.
type Display interface {
	Show(Snapshot)
}

// ChannelControls is a Controls backed by a buffered channel.
type ChannelControls chan Command

// NewChannelControls returns controls with room for size pending commands.
func NewChannelControls(size int) ChannelControls {
	return make(ChannelControls, size)
}

// Send queues cmd, dropping it when the buffer is full. It reports whether
// the command was queued.
func (c ChannelControls) Send(cmd Command) bool {
	select {
	case c <- cmd:
		return true
	default:
		return false
	}
}

// Poll returns the next queued command, if any.
func (c ChannelControls) Poll() (Command, bool) {
	select {
	case cmd := <-c:
		return cmd, true
	default:
		return Command{}, false
	}
}
