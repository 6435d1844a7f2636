package actions

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	internalmidi "github.com/PixPMusic/gopher-launchkey/internal/midi"
	"gitlab.com/gomidi/midi/v2"
	"gopkg.in/yaml.v3"
)

// OutputOpener opens MIDI outputs by port name
type OutputOpener interface {
	OpenOutput(name string) (*internalmidi.Output, error)
}

// MidiHandler sends MIDI messages to other ports
type MidiHandler struct {
	ports OutputOpener

	mu      sync.Mutex
	outputs map[string]*internalmidi.Output
}

// MidiActionData is stored in the binding's Code field, as YAML or JSON
type MidiActionData struct {
	Port     string `yaml:"port"`     // output port name
	MsgType  string `yaml:"msg_type"` // "note_on", "note_off", "cc", "pc", "sysex"
	Channel  int    `yaml:"channel"`  // 1-16
	Note     int    `yaml:"note"`     // note or controller number, 0-127
	Velocity int    `yaml:"velocity"` // velocity or controller value, 0-127
	Program  int    `yaml:"program"`  // 0-127
	SysEx    string `yaml:"sysex"`    // hex string "F0 00 20 29 ... F7"
}

func NewMidiHandler(ports OutputOpener) *MidiHandler {
	return &MidiHandler{ports: ports, outputs: make(map[string]*internalmidi.Output)}
}

func (h *MidiHandler) IsSupported() bool {
	return h.ports != nil
}

func (h *MidiHandler) parse(code string) (MidiActionData, midi.Message, error) {
	var data MidiActionData
	if err := yaml.Unmarshal([]byte(code), &data); err != nil {
		return data, nil, fmt.Errorf("invalid MIDI action data: %w", err)
	}
	if data.Port == "" {
		return data, nil, fmt.Errorf("no port specified")
	}

	channel := uint8(data.Channel - 1) // 0-based
	if channel > 15 {
		channel = 0
	}

	switch data.MsgType {
	case "note_on":
		return data, midi.NoteOn(channel, uint8(data.Note)&0x7F, uint8(data.Velocity)&0x7F), nil
	case "note_off":
		return data, midi.NoteOff(channel, uint8(data.Note)&0x7F), nil
	case "cc":
		return data, midi.ControlChange(channel, uint8(data.Note)&0x7F, uint8(data.Velocity)&0x7F), nil
	case "pc":
		return data, midi.ProgramChange(channel, uint8(data.Program)&0x7F), nil
	case "sysex":
		payload, err := parseSysEx(data.SysEx)
		if err != nil {
			return data, nil, err
		}
		return data, midi.SysEx(payload), nil
	default:
		return data, nil, fmt.Errorf("unknown message type: %s", data.MsgType)
	}
}

// parseSysEx decodes a hex string; the F0/F7 framing is optional
func parseSysEx(s string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, fmt.Errorf("invalid sysex hex: %w", err)
	}
	if len(raw) > 0 && raw[0] == 0xF0 {
		raw = raw[1:]
	}
	if len(raw) > 0 && raw[len(raw)-1] == 0xF7 {
		raw = raw[:len(raw)-1]
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty sysex")
	}
	for _, b := range raw {
		if b > 0x7F {
			return nil, fmt.Errorf("sysex data byte out of range: %02X", b)
		}
	}
	return raw, nil
}

func (h *MidiHandler) output(port string) (*internalmidi.Output, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if out, ok := h.outputs[port]; ok {
		return out, nil
	}
	out, err := h.ports.OpenOutput(port)
	if err != nil {
		return nil, fmt.Errorf("failed to open port '%s': %w", port, err)
	}
	h.outputs[port] = out
	return out, nil
}

func (h *MidiHandler) Execute(code string, _ Call) (string, error) {
	if h.ports == nil {
		return "", fmt.Errorf("no MIDI ports available")
	}

	data, msg, err := h.parse(code)
	if err != nil {
		return "", err
	}

	out, err := h.output(data.Port)
	if err != nil {
		return "", err
	}
	if err := out.Send(msg); err != nil {
		return "", fmt.Errorf("send failed: %w", err)
	}

	return fmt.Sprintf("Sent %s to %s", data.MsgType, data.Port), nil
}

func (h *MidiHandler) Validate(code string) error {
	_, _, err := h.parse(code)
	return err
}
