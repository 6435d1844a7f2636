package midi

import (
	"fmt"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Output is a device output whose writes are serialized. The event path,
// the deferred refresh timer and host notifications all write through the
// same Output.
type Output struct {
	name string
	mu   sync.Mutex
	send func(midi.Message) error
}

// NewOutput wraps a send function. A nil send discards every message.
func NewOutput(name string, send func(midi.Message) error) *Output {
	return &Output{name: name, send: send}
}

// Name returns the port name
func (o *Output) Name() string {
	return o.name
}

// Send writes one message
func (o *Output) Send(msg midi.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.send == nil {
		return nil
	}
	if err := o.send(msg); err != nil {
		return fmt.Errorf("send to %s: %w", o.name, err)
	}
	return nil
}

// Manager handles MIDI port discovery and management. The port driver is
// registered by the main package.
type Manager struct {
	mu sync.RWMutex
}

// NewManager creates a new MIDI manager
func NewManager() *Manager {
	return &Manager{}
}

// Close cleans up the MIDI driver
func (m *Manager) Close() {
	midi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports
func (m *Manager) ListInPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// ListOutPorts returns the names of available MIDI output ports
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// GetInPort returns an input port by name
func (m *Manager) GetInPort(name string) (drivers.In, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, in := range midi.GetInPorts() {
		if in.String() == name {
			return in, nil
		}
	}
	return nil, fmt.Errorf("input port not found: %s", name)
}

// GetOutPort returns an output port by name
func (m *Manager) GetOutPort(name string) (drivers.Out, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, out := range midi.GetOutPorts() {
		if out.String() == name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("output port not found: %s", name)
}

// FindPortPair looks for an input/output pair whose names contain hint,
// case-insensitively. The Launchkey exposes its DAW interface on the second
// port pair, so callers usually pass something like "MIDI 2".
func (m *Manager) FindPortPair(hint string) (in, out string, ok bool) {
	hint = strings.ToLower(hint)
	for _, name := range m.ListInPorts() {
		if strings.Contains(strings.ToLower(name), hint) {
			in = name
			break
		}
	}
	for _, name := range m.ListOutPorts() {
		if strings.Contains(strings.ToLower(name), hint) {
			out = name
			break
		}
	}
	return in, out, in != "" && out != ""
}

// OpenOutput opens a serialized output on the named port
func (m *Manager) OpenOutput(name string) (*Output, error) {
	if name == "" {
		return NewOutput("", nil), nil
	}

	outPort, err := m.GetOutPort(name)
	if err != nil {
		return nil, err
	}

	send, err := midi.SendTo(outPort)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}
	return NewOutput(name, send), nil
}

// MessageCallback receives every raw message from a listened port
type MessageCallback func(msg midi.Message)

// StartListening begins listening for MIDI input on the specified port.
// SysEx is enabled so handshake replies reach the callback.
func (m *Manager) StartListening(inPortName string, callback MessageCallback) (func(), error) {
	if inPortName == "" {
		return nil, fmt.Errorf("no input port configured")
	}

	inPort, err := m.GetInPort(inPortName)
	if err != nil {
		return nil, err
	}

	stop, err := midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
		callback(msg)
	}, midi.UseSysEx())
	if err != nil {
		return nil, fmt.Errorf("failed to start listening: %w", err)
	}

	return stop, nil
}
