package protocol

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// Kind identifies the semantic type of a decoded message
type Kind uint8

const (
	KindUnrecognized Kind = iota
	KindNoteOff
	KindNoteOn
	KindControlChange
	KindProgramChange
	KindSysEx
)

// Status nibbles and bytes used by the surface
const (
	StatusNoteOff       uint8 = 0x80
	StatusNoteOn        uint8 = 0x90
	StatusControlChange uint8 = 0xB0
	StatusProgramChange uint8 = 0xC0
	StatusSysExStart    uint8 = 0xF0
	StatusSysExEnd      uint8 = 0xF7

	dataMask    uint8 = 0x7F
	channelMask uint8 = 0x0F
)

func (k Kind) String() string {
	switch k {
	case KindNoteOff:
		return "NoteOff"
	case KindNoteOn:
		return "NoteOn"
	case KindControlChange:
		return "ControlChange"
	case KindProgramChange:
		return "ProgramChange"
	case KindSysEx:
		return "SysEx"
	default:
		return "Unrecognized"
	}
}

// Event is a decoded wire message. It is derived once from the raw bytes and
// never mutated afterwards.
type Event struct {
	Kind    Kind
	Channel uint8 // 0-15
	Number  uint8 // note, controller or program number
	Value   uint8 // velocity or controller value
	Data    []byte
	Raw     midi.Message
}

// IsNote reports whether the event is a note-on or note-off
func (e Event) IsNote() bool {
	return e.Kind == KindNoteOn || e.Kind == KindNoteOff
}

// Pressed reports whether a note or controller event carries a non-zero value
func (e Event) Pressed() bool {
	return e.Value > 0
}

func (e Event) String() string {
	switch e.Kind {
	case KindNoteOn, KindNoteOff:
		return fmt.Sprintf("%s ch:%d note:%d vel:%d", e.Kind, e.Channel, e.Number, e.Value)
	case KindControlChange:
		return fmt.Sprintf("%s ch:%d cc:%d val:%d", e.Kind, e.Channel, e.Number, e.Value)
	case KindProgramChange:
		return fmt.Sprintf("%s ch:%d program:%d", e.Kind, e.Channel, e.Number)
	case KindSysEx:
		return fmt.Sprintf("%s % X", e.Kind, e.Data)
	default:
		return fmt.Sprintf("%s % X", e.Kind, []byte(e.Raw))
	}
}

// Decode classifies a raw message. It never fails: anything the surface does
// not speak comes back as KindUnrecognized with Raw set so the caller can
// pass it through untouched.
func Decode(msg midi.Message) Event {
	ev := Event{Raw: msg}
	if len(msg) == 0 {
		return ev
	}

	status := msg[0]
	if status < 0x80 {
		// running status or stray data byte
		return ev
	}

	if status == StatusSysExStart {
		if len(msg) >= 2 && msg[len(msg)-1] == StatusSysExEnd {
			ev.Kind = KindSysEx
			ev.Data = append([]byte(nil), msg[1:len(msg)-1]...)
		}
		return ev
	}

	ev.Channel = status & channelMask

	switch status & 0xF0 {
	case StatusNoteOff:
		if len(msg) < 3 {
			return ev
		}
		ev.Kind = KindNoteOff
	case StatusNoteOn:
		if len(msg) < 3 {
			return ev
		}
		ev.Kind = KindNoteOn
	case StatusControlChange:
		if len(msg) < 3 {
			return ev
		}
		ev.Kind = KindControlChange
	case StatusProgramChange:
		if len(msg) < 2 {
			return ev
		}
		ev.Kind = KindProgramChange
		ev.Number = msg[1] & dataMask
		return ev
	default:
		return ev
	}

	ev.Number = msg[1] & dataMask
	ev.Value = msg[2] & dataMask
	return ev
}

// ControlChange builds a raw control change on the given channel. Values are
// masked to 7 bits.
func ControlChange(channel, controller, value uint8) midi.Message {
	return midi.ControlChange(channel&channelMask, controller&dataMask, value&dataMask)
}

// Remap returns a copy of a control change event with the controller number
// replaced, keeping the original channel and value.
func Remap(ev Event, controller uint8) midi.Message {
	return ControlChange(ev.Channel, controller, ev.Value)
}
