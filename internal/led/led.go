// Package led computes the surface's LED state from host mixer and routing
// state and writes it to the device.
package led

import (
	"errors"
	"fmt"

	"github.com/PixPMusic/gopher-launchkey/internal/bank"
	"github.com/PixPMusic/gopher-launchkey/internal/host"
	internalmidi "github.com/PixPMusic/gopher-launchkey/internal/midi"
	"github.com/rs/zerolog"
	"gitlab.com/gomidi/midi/v2"
)

// Sender writes messages to the device
type Sender interface {
	Send(msg midi.Message) error
}

// Pad is the colour code of one pad
type Pad struct {
	Position int
	Note     uint8
	Velocity uint8
}

// Frame is the full pad state: the solo row and the mute row
type Frame struct {
	Solo [internalmidi.PadsPerRow]Pad
	Mute [internalmidi.PadsPerRow]Pad
}

// Pads returns all pads, solo row first
func (f Frame) Pads() []Pad {
	pads := make([]Pad, 0, 2*internalmidi.PadsPerRow)
	pads = append(pads, f.Solo[:]...)
	return append(pads, f.Mute[:]...)
}

// Reflector derives pad colours from host state. It reads host state and
// writes to the device only; it holds no driver state.
type Reflector struct {
	palette internalmidi.Palette
	routing host.Routing
	mixer   host.Mixer
	logger  zerolog.Logger
}

// New creates a reflector
func New(palette internalmidi.Palette, routing host.Routing, mixer host.Mixer, logger zerolog.Logger) *Reflector {
	return &Reflector{palette: palette, routing: routing, mixer: mixer, logger: logger}
}

// channelAt resolves a position. Lookup failures are logged and reported as
// false so the caller can darken that single pad.
func (r *Reflector) channelAt(position int) (int, bool) {
	ch, ok := r.routing.GetRoutingAt(position)
	if !ok {
		host.LogDegraded(r.logger, host.Degraded(host.StateLookupFailure,
			fmt.Sprintf("no chain at position %d", position)))
		return 0, false
	}
	if !host.ValidMixerChannel(ch.Mixer) {
		host.LogDegraded(r.logger, host.Degraded(host.StateLookupFailure,
			fmt.Sprintf("chain %q at position %d has invalid mixer channel %d", ch.Chain, position, ch.Mixer)))
		return 0, false
	}
	return ch.Mixer, true
}

// Compute builds the current frame. It never fails; unresolvable positions
// are off.
func (r *Reflector) Compute() Frame {
	var f Frame
	for i := 0; i < internalmidi.PadsPerRow; i++ {
		solo := Pad{Position: i, Note: internalmidi.SoloPadBase + uint8(i), Velocity: r.palette.Off}
		mute := Pad{Position: i, Note: internalmidi.MutePadBase + uint8(i), Velocity: r.palette.Off}

		if ch, ok := r.channelAt(i); ok {
			if r.mixer.Solo(ch) {
				solo.Velocity = r.palette.SoloActive
			} else {
				solo.Velocity = r.palette.SoloDim
			}
			if r.mixer.Mute(ch) {
				mute.Velocity = r.palette.Muted
			} else {
				mute.Velocity = r.palette.Unmuted
			}
		}

		f.Solo[i] = solo
		f.Mute[i] = mute
	}
	return f
}

// Push writes every pad of the frame. Pads are always rewritten, never
// diffed against a previous frame. A failed write does not stop the rest.
func Push(out Sender, f Frame) error {
	var errs []error
	for _, p := range f.Pads() {
		if err := out.Send(midi.NoteOn(internalmidi.LEDChannel, p.Note, p.Velocity)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Refresh computes and pushes the pad frame
func (r *Reflector) Refresh(out Sender) error {
	return Push(out, r.Compute())
}

// Indicators returns the bank indicator messages for a bank
func Indicators(b bank.Index) []midi.Message {
	first, second := bank.Indicators(b)
	return []midi.Message{
		midi.ControlChange(internalmidi.LEDChannel, internalmidi.CCBankDown, lit(first)),
		midi.ControlChange(internalmidi.LEDChannel, internalmidi.CCBankUp, lit(second)),
	}
}

// Navigation returns the messages that light the navigation buttons
func Navigation(buttons []uint8) []midi.Message {
	msgs := make([]midi.Message, 0, len(buttons))
	for _, cc := range buttons {
		msgs = append(msgs, midi.ControlChange(internalmidi.LEDChannel, cc, internalmidi.LEDOn))
	}
	return msgs
}

// Feedback lights a single button
func Feedback(cc uint8) midi.Message {
	return midi.ControlChange(internalmidi.LEDChannel, cc, internalmidi.LEDOn)
}

// SendAll writes messages in order, continuing past failures
func SendAll(out Sender, msgs []midi.Message) error {
	var errs []error
	for _, msg := range msgs {
		if err := out.Send(msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func lit(on bool) uint8 {
	if on {
		return internalmidi.LEDOn
	}
	return internalmidi.LEDOff
}
