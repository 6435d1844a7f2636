package midi

import (
	"time"

	"github.com/PixPMusic/gopher-launchkey/internal/bank"
	"github.com/PixPMusic/gopher-launchkey/internal/encoder"
)

// DeviceType represents the Launchkey variant
type DeviceType string

const (
	DeviceTypeLaunchkeyMK4  DeviceType = "launchkey-mk4"      // absolute knobs on CC 21-28
	DeviceTypeLaunchkeyMini DeviceType = "launchkey-mini-mk4" // transport-mode encoders on CC 85-92
)

// Fixed control map shared by both variants
const (
	CCBankDown  uint8 = 51
	CCBankUp    uint8 = 52
	CCShift     uint8 = 0x3F
	CCPlay      uint8 = 0x73
	CCRecord    uint8 = 0x75
	CCMetronome uint8 = 76

	SoloPadBase uint8 = 96  // top pad row, notes 96-103
	MutePadBase uint8 = 112 // bottom pad row, notes 112-119
	PadFirst    uint8 = 96
	PadLast     uint8 = 119
	PadsPerRow        = 8

	KnobCount = 8

	LEDChannel uint8 = 0
	LEDOn      uint8 = 127
	LEDOff     uint8 = 0
)

// KnobRole is what a knob does in a given bank
type KnobRole int

const (
	KnobNone             KnobRole = iota
	KnobMixerLevel                // Index is the chain position
	KnobPot                       // Index is the host pot
	KnobPresetBrowse              // previous/next preset
	KnobSelectBack                // clockwise select, counter-clockwise back; debounced
	KnobArrowsHorizontal          // left/right
	KnobArrowsVertical            // up/down
	KnobForward                   // re-mapped to controller CC and forwarded
)

func (r KnobRole) String() string {
	switch r {
	case KnobMixerLevel:
		return "mixer-level"
	case KnobPot:
		return "pot"
	case KnobPresetBrowse:
		return "preset-browse"
	case KnobSelectBack:
		return "select-back"
	case KnobArrowsHorizontal:
		return "arrows-horizontal"
	case KnobArrowsVertical:
		return "arrows-vertical"
	case KnobForward:
		return "forward"
	default:
		return "none"
	}
}

// Knob binds a physical knob to a role
type Knob struct {
	Role  KnobRole
	Index int
	CC    uint8
}

// HoldSwitch maps a button onto a host switch classified by hold time
type HoldSwitch struct {
	Index    int
	Feedback bool // light the button while held
}

// Palette holds the pad velocities used as colour codes
type Palette struct {
	SoloActive uint8
	SoloDim    uint8
	Muted      uint8
	Unmuted    uint8
	Off        uint8
}

// Profile is the per-variant control table. The algorithms that consume it
// are shared; only these numbers differ between variants.
type Profile struct {
	Name         string
	Encoding     encoder.Encoding
	StartBank    bank.Index
	KnobBase     uint8 // controller number of knob 1
	Banks        [bank.Count][KnobCount]Knob
	Buttons      map[uint8]string // momentary buttons with LED feedback
	HoldSwitches map[uint8]HoldSwitch
	NavLEDs      []uint8 // buttons lit permanently while the bridge runs
	Palette      Palette

	// ResyncOnRefresh drops knob pickup state when the host screen changes
	ResyncOnRefresh bool
	// RefreshOnLevel refreshes pads on every mixer change instead of only
	// mute and solo
	RefreshOnLevel bool
	// SettleDelay is how long to wait after start-up before the first pad
	// refresh, giving the host time to load its chains
	SettleDelay time.Duration
}

// Knob returns the role of a controller number in a bank, and false when the
// controller is not one of the eight knobs
func (p *Profile) Knob(b bank.Index, cc uint8) (Knob, int, bool) {
	if cc < p.KnobBase || cc >= p.KnobBase+KnobCount {
		return Knob{}, 0, false
	}
	i := int(cc - p.KnobBase)
	return p.Banks[bank.Wrap(int(b))][i], i, true
}

// IsPad reports whether a note belongs to the two pad rows
func IsPad(note uint8) bool {
	return note >= PadFirst && note <= PadLast
}

// SoloPosition returns the chain position for a top-row pad
func SoloPosition(note uint8) (int, bool) {
	if note >= SoloPadBase && note < SoloPadBase+PadsPerRow {
		return int(note - SoloPadBase), true
	}
	return 0, false
}

// MutePosition returns the chain position for a bottom-row pad
func MutePosition(note uint8) (int, bool) {
	if note >= MutePadBase && note < MutePadBase+PadsPerRow {
		return int(note - MutePadBase), true
	}
	return 0, false
}
