package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

func TestDecodeChannelMessages(t *testing.T) {
	tests := []struct {
		name    string
		msg     midi.Message
		kind    Kind
		channel uint8
		number  uint8
		value   uint8
	}{
		{"note on", midi.Message{0x90, 60, 100}, KindNoteOn, 0, 60, 100},
		{"note on channel 16", midi.Message{0x9F, 12, 127}, KindNoteOn, 15, 12, 127},
		{"note on velocity zero stays note on", midi.Message{0x90, 96, 0}, KindNoteOn, 0, 96, 0},
		{"note off", midi.Message{0x81, 64, 0}, KindNoteOff, 1, 64, 0},
		{"control change", midi.Message{0xB0, 51, 127}, KindControlChange, 0, 51, 127},
		{"control change channel 7", midi.Message{0xB6, 30, 5}, KindControlChange, 6, 30, 5},
		{"program change", midi.Message{0xC3, 9}, KindProgramChange, 3, 9, 0},
		{"data bytes masked", midi.Message{0xB0, 0xD5, 0xFF}, KindControlChange, 0, 0x55, 0x7F},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Decode(tt.msg)
			assert.Equal(t, tt.kind, ev.Kind)
			assert.Equal(t, tt.channel, ev.Channel)
			assert.Equal(t, tt.number, ev.Number)
			assert.Equal(t, tt.value, ev.Value)
			assert.Equal(t, tt.msg, ev.Raw)
		})
	}
}

func TestDecodeSysEx(t *testing.T) {
	msg := midi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x14})
	ev := Decode(msg)
	require.Equal(t, KindSysEx, ev.Kind)
	assert.Equal(t, []byte{0x00, 0x20, 0x29, 0x02, 0x14}, ev.Data)
}

func TestDecodeDegradesToUnrecognized(t *testing.T) {
	cases := map[string]midi.Message{
		"empty":              nil,
		"data byte":          {0x40, 0x10},
		"truncated note":     {0x90, 60},
		"truncated cc":       {0xB0},
		"pitch bend":         {0xE0, 0x00, 0x40},
		"aftertouch":         {0xD0, 0x30},
		"clock":              {0xF8},
		"unterminated sysex": {0xF0, 0x00, 0x20},
	}

	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			var ev Event
			assert.NotPanics(t, func() { ev = Decode(msg) })
			assert.Equal(t, KindUnrecognized, ev.Kind)
			assert.Equal(t, msg, ev.Raw)
		})
	}
}

func TestRemapKeepsChannelAndValue(t *testing.T) {
	ev := Decode(midi.Message{0xB2, 85, 70})
	assert.Equal(t, midi.Message{0xB2, 24, 70}, Remap(ev, 24))
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "ControlChange ch:0 cc:51 val:127", Decode(midi.Message{0xB0, 51, 127}).String())
	assert.Equal(t, "NoteOn ch:0 note:96 vel:10", Decode(midi.Message{0x90, 96, 10}).String())
}

func TestEventPredicates(t *testing.T) {
	on := Decode(midi.Message{0x90, 98, 100})
	assert.True(t, on.IsNote())
	assert.True(t, on.Pressed())

	off := Decode(midi.Message{0x80, 98, 0})
	assert.True(t, off.IsNote())
	assert.False(t, off.Pressed())

	released := Decode(midi.Message{0xB0, 104, 0})
	assert.False(t, released.IsNote())
	assert.False(t, released.Pressed())
	assert.True(t, Decode(midi.Message{0xB0, 104, 127}).Pressed())
}
