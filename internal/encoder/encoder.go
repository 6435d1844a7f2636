// Package encoder turns raw knob values into host changes. Three algorithms
// are provided: relative (the surface reports a signed step), relative by
// difference (an absolute knob emulating an endless encoder) and pickup
// (soft takeover of an absolute knob against the host's current value).
package encoder

// Encoding selects how a device variant's knobs report their position
type Encoding string

const (
	EncodingAbsolute Encoding = "absolute" // 0-127 position; pickup for levels, difference for pots
	EncodingRelative Encoding = "relative" // transport mode; 64 +/- steps
)

const (
	// LevelStep is the mixer level change per relative encoder step
	LevelStep = 0.01

	// PickupTolerance is how close a knob must land to the host value to sync
	PickupTolerance = 0.02

	relativeCenter = 64
	valueRange     = 128
	maxValue       = 127
)

// Relative decodes a transport-mode value: 1..63 turn left by 64-v,
// 65..127 turn right by v-64, 64 (and 0) mean no movement. The surface
// sends 1 and 127 for a single slow tick, so both ends decode to one step.
func Relative(v uint8) int {
	v &= maxValue
	switch {
	case v == 0 || v == relativeCenter:
		return 0
	case v == 1:
		return -1
	case v == maxValue:
		return 1
	case v < relativeCenter:
		return -(relativeCenter - int(v))
	default:
		return int(v) - relativeCenter
	}
}

// Direction returns -1, 0 or +1 for a transport-mode value
func Direction(v uint8) int {
	d := Relative(v)
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

// Level maps a 7-bit position onto [0,1]
func Level(v uint8) float64 {
	return float64(v&maxValue) / maxValue
}

// Nudge moves a level by delta steps of size step and clamps it to [0,1]
func Nudge(level float64, delta int, step float64) float64 {
	next := level + float64(delta)*step
	if next < 0 {
		return 0
	}
	if next > 1 {
		return 1
	}
	return next
}

// Wrap returns the shortest signed distance from a to b on the 7-bit circle
func Wrap(a, b uint8) int {
	delta := int(b&maxValue) - int(a&maxValue)
	if delta > relativeCenter {
		delta -= valueRange
	} else if delta < -relativeCenter {
		delta += valueRange
	}
	return delta
}

// Memory remembers the last raw value per knob so an absolute knob can be
// used as a relative one
type Memory struct {
	last map[int]uint8
}

// NewMemory creates an empty memory
func NewMemory() *Memory {
	return &Memory{last: make(map[int]uint8)}
}

// Delta returns the wraparound-corrected movement since the previous sample.
// The first sample after a reset only seeds the memory. A zero delta keeps
// the stored sample and reports false.
func (m *Memory) Delta(id int, raw uint8) (int, bool) {
	raw &= maxValue
	last, ok := m.last[id]
	if !ok {
		m.last[id] = raw
		return 0, false
	}

	delta := Wrap(last, raw)
	if delta == 0 {
		return 0, false
	}
	m.last[id] = raw
	return delta, true
}

// Reset forgets every stored sample
func (m *Memory) Reset() {
	clear(m.last)
}

// Len returns the number of knobs currently tracked
func (m *Memory) Len() int {
	return len(m.last)
}

// Takeover tracks which knobs have caught up with the host value
type Takeover struct {
	synced    map[int]bool
	tolerance float64
}

// NewTakeover creates a takeover set using PickupTolerance
func NewTakeover() *Takeover {
	return &Takeover{synced: make(map[int]bool), tolerance: PickupTolerance}
}

// Apply decides whether a knob position may drive the host value. It returns
// the level to set and true once the knob is synced.
func (t *Takeover) Apply(id int, raw uint8, current float64) (float64, bool) {
	level := Level(raw)
	if t.synced[id] {
		return level, true
	}

	diff := level - current
	if diff < 0 {
		diff = -diff
	}
	if diff >= t.tolerance {
		return current, false
	}
	t.synced[id] = true
	return level, true
}

// Synced reports whether a knob has caught up since the last reset
func (t *Takeover) Synced(id int) bool {
	return t.synced[id]
}

// Reset marks every knob as out of sync
func (t *Takeover) Reset() {
	clear(t.synced)
}
