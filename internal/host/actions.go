package host

// Semantic action names understood by the host
const (
	ActionArrowUp          = "ARROW_UP"
	ActionArrowDown        = "ARROW_DOWN"
	ActionArrowLeft        = "ARROW_LEFT"
	ActionArrowRight       = "ARROW_RIGHT"
	ActionBack             = "BACK"
	ActionMenu             = "MENU"
	ActionPreset           = "PRESET"
	ActionTempo            = "TEMPO"
	ActionTogglePlay       = "TOGGLE_PLAY"
	ActionToggleMIDIPlay   = "TOGGLE_MIDI_PLAY"
	ActionToggleRecord     = "TOGGLE_RECORD"
	ActionToggleMIDIRecord = "TOGGLE_MIDI_RECORD"
	ActionSwitch           = "ZYNSWITCH"   // args: switch index, hold class
	ActionPot              = "ZYNPOT"      // args: pot index, delta
	ActionBrowsePreset     = "PRESET_STEP" // args: direction (-1 or +1)
	ActionSelectBank       = "SEQ_BANK"    // args: sequencer bank
)

// SelectSwitch is the switch index that doubles as "select"
const SelectSwitch = 3
