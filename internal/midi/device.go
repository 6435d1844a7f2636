package midi

import "gitlab.com/gomidi/midi/v2"

// Device represents a Launchkey variant
type Device interface {
	// Type returns the variant identifier
	Type() DeviceType

	// Profile returns the control table for this variant
	Profile() *Profile

	// EnterDAWMode sends the handshake that puts the surface under host control
	EnterDAWMode(send func(midi.Message) error) error

	// ExitDAWMode returns the surface to standalone mode
	ExitDAWMode(send func(midi.Message) error) error
}

// DAW mode is toggled with a note on channel 16
const (
	dawModeChannel uint8 = 15
	dawModeNote    uint8 = 12
)

func dawMode(on bool) midi.Message {
	if on {
		return midi.NoteOn(dawModeChannel, dawModeNote, 127)
	}
	return midi.NoteOn(dawModeChannel, dawModeNote, 0)
}
