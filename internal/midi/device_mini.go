package midi

import (
	"fmt"
	"time"

	"github.com/PixPMusic/gopher-launchkey/internal/bank"
	"github.com/PixPMusic/gopher-launchkey/internal/encoder"
	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"gitlab.com/gomidi/midi/v2"
)

// Encoder mode is selected with CC 30 on channel 7; value 5 is transport
// (relative) mode
const (
	encoderModeChannel uint8 = 6
	encoderModeCC      uint8 = 30
	encoderTransport   uint8 = 5
)

// LaunchkeyMini implements Device for the Launchkey Mini MK4 37 with
// transport-mode encoders
type LaunchkeyMini struct {
	profile Profile
	pause   time.Duration
}

// NewLaunchkeyMini builds the Mini MK4 profile. pause is waited after each
// handshake message.
func NewLaunchkeyMini(pause time.Duration) *LaunchkeyMini {
	p := Profile{
		Name:      "Launchkey Mini MK4 37",
		Encoding:  encoder.EncodingRelative,
		StartBank: bank.Bank1,
		KnobBase:  85,
		Buttons: map[uint8]string{
			107:  host.ActionPreset,
			105:  host.ActionMenu,
			0x66: host.ActionArrowRight,
			0x67: host.ActionArrowLeft,
			106:  host.ActionBack,
		},
		HoldSwitches: map[uint8]HoldSwitch{
			104: {Index: host.SelectSwitch, Feedback: true},
			74:  {Index: 0},
			75:  {Index: 1},
			76:  {Index: 3},
			77:  {Index: 2},
		},
		NavLEDs: []uint8{104, 105, 0x66, 0x67, 106, 107},
		Palette: Palette{SoloActive: 14, SoloDim: 118, Muted: 5, Unmuted: 64},
	}

	// Bank 0: every knob nudges a mixer level
	for i := 0; i < KnobCount; i++ {
		p.Banks[bank.Bank0][i] = Knob{Role: KnobMixerLevel, Index: i}
	}
	// Bank 1: pots 0-3, preset browse, select/back, arrows
	for i := 0; i < 4; i++ {
		p.Banks[bank.Bank1][i] = Knob{Role: KnobPot, Index: i}
	}
	p.Banks[bank.Bank1][4] = Knob{Role: KnobPresetBrowse}
	p.Banks[bank.Bank1][5] = Knob{Role: KnobSelectBack}
	p.Banks[bank.Bank1][6] = Knob{Role: KnobArrowsHorizontal}
	p.Banks[bank.Bank1][7] = Knob{Role: KnobArrowsVertical}
	// Bank 2: all knobs forward as CC 24-31
	for i := 0; i < KnobCount; i++ {
		p.Banks[bank.Bank2][i] = Knob{Role: KnobForward, CC: uint8(24 + i)}
	}

	return &LaunchkeyMini{profile: p, pause: pause}
}

func (d *LaunchkeyMini) Type() DeviceType {
	return DeviceTypeLaunchkeyMini
}

func (d *LaunchkeyMini) Profile() *Profile {
	return &d.profile
}

func (d *LaunchkeyMini) EnterDAWMode(send func(midi.Message) error) error {
	if err := send(dawMode(true)); err != nil {
		return fmt.Errorf("failed to enable DAW mode: %w", err)
	}
	time.Sleep(d.pause)

	if err := send(midi.ControlChange(encoderModeChannel, encoderModeCC, encoderTransport)); err != nil {
		return fmt.Errorf("failed to set encoder transport mode: %w", err)
	}
	time.Sleep(d.pause / 2)
	return nil
}

func (d *LaunchkeyMini) ExitDAWMode(send func(midi.Message) error) error {
	if err := send(dawMode(false)); err != nil {
		return fmt.Errorf("failed to disable DAW mode: %w", err)
	}
	return nil
}
