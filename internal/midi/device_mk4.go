package midi

import (
	"fmt"
	"time"

	"github.com/PixPMusic/gopher-launchkey/internal/bank"
	"github.com/PixPMusic/gopher-launchkey/internal/encoder"
	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"gitlab.com/gomidi/midi/v2"
)

// LaunchkeyMK4 implements Device for the Launchkey MK4 37 with absolute knobs
type LaunchkeyMK4 struct {
	profile Profile
}

// NewLaunchkeyMK4 builds the MK4 profile
func NewLaunchkeyMK4() *LaunchkeyMK4 {
	p := Profile{
		Name:      "Launchkey MK4 37",
		Encoding:  encoder.EncodingAbsolute,
		StartBank: bank.Bank0,
		KnobBase:  21,
		Buttons: map[uint8]string{
			106:  host.ActionPreset,
			107:  host.ActionMenu,
			0x66: host.ActionArrowRight,
			0x67: host.ActionArrowLeft,
			104:  host.ActionBack,
		},
		HoldSwitches: map[uint8]HoldSwitch{
			105: {Index: host.SelectSwitch, Feedback: true},
			74:  {Index: 0},
			75:  {Index: 1},
			76:  {Index: 3},
			77:  {Index: 2},
		},
		NavLEDs:         []uint8{104, 105, 0x66, 0x67, 106, 107},
		Palette:         Palette{SoloActive: 5, SoloDim: 10, Muted: 5, Unmuted: 64},
		ResyncOnRefresh: true,
		RefreshOnLevel:  true,
		SettleDelay:     10 * time.Second,
	}

	// Bank 0: knobs 1-6 drive mixer levels with pickup, 7-8 idle
	for i := 0; i < 6; i++ {
		p.Banks[bank.Bank0][i] = Knob{Role: KnobMixerLevel, Index: i}
	}
	// Bank 1: knobs 1-4 are host pots, 5-8 forward as CC 20-23
	for i := 0; i < 4; i++ {
		p.Banks[bank.Bank1][i] = Knob{Role: KnobPot, Index: i}
		p.Banks[bank.Bank1][i+4] = Knob{Role: KnobForward, CC: uint8(20 + i)}
	}
	// Bank 2: all knobs forward as CC 24-31. The knobs send 21-28 in every
	// bank; renumbering keeps this bank apart from bank 1's CC 20-23 on the
	// host side.
	for i := 0; i < KnobCount; i++ {
		p.Banks[bank.Bank2][i] = Knob{Role: KnobForward, CC: uint8(24 + i)}
	}

	return &LaunchkeyMK4{profile: p}
}

func (d *LaunchkeyMK4) Type() DeviceType {
	return DeviceTypeLaunchkeyMK4
}

func (d *LaunchkeyMK4) Profile() *Profile {
	return &d.profile
}

func (d *LaunchkeyMK4) EnterDAWMode(send func(midi.Message) error) error {
	if err := send(dawMode(true)); err != nil {
		return fmt.Errorf("failed to enable DAW mode: %w", err)
	}
	return nil
}

func (d *LaunchkeyMK4) ExitDAWMode(send func(midi.Message) error) error {
	if err := send(dawMode(false)); err != nil {
		return fmt.Errorf("failed to disable DAW mode: %w", err)
	}
	return nil
}
