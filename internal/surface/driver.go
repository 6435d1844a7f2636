// Package surface ties the decoder, encoder, bank, hold, debounce and LED
// packages into one driver instance per connected Launchkey.
package surface

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PixPMusic/gopher-launchkey/internal/bank"
	"github.com/PixPMusic/gopher-launchkey/internal/debounce"
	"github.com/PixPMusic/gopher-launchkey/internal/encoder"
	"github.com/PixPMusic/gopher-launchkey/internal/hold"
	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"github.com/PixPMusic/gopher-launchkey/internal/led"
	internalmidi "github.com/PixPMusic/gopher-launchkey/internal/midi"
	"github.com/PixPMusic/gopher-launchkey/internal/protocol"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/gomidi/midi/v2"
)

// Result tells the caller what happened to a message
type Result int

const (
	// PassThrough means the driver did not handle the message; the caller
	// routes it as ordinary MIDI
	PassThrough Result = iota
	// Consumed means the message was handled and must not reach the host
	Consumed
	// Forwarded means the driver already handed the message (or a re-mapped
	// copy) to the host
	Forwarded
)

func (r Result) String() string {
	switch r {
	case Consumed:
		return "consumed"
	case Forwarded:
		return "forwarded"
	default:
		return "pass-through"
	}
}

// Options configures a Driver
type Options struct {
	Device  internalmidi.Device
	Host    host.Host
	Mixer   host.Mixer
	Routing host.Routing
	Output  led.Sender

	// Notifier and Sequencer are optional
	Notifier  host.Notifier
	Sequencer host.Sequencer

	Logger *zerolog.Logger

	// SettleDelay overrides the variant's delay before the first pad
	// refresh when positive
	SettleDelay time.Duration

	// Clock drives hold timing and debouncing; nil uses time.Now
	Clock func() time.Time
}

// Driver is one running surface. All mutable state lives here and is
// guarded by mu; the event path, the deferred refresh and notification
// callbacks all take it.
type Driver struct {
	id        uuid.UUID
	device    internalmidi.Device
	profile   *internalmidi.Profile
	host      host.Host
	mixer     host.Mixer
	routing   host.Routing
	notifier  host.Notifier
	sequencer host.Sequencer
	out       led.Sender
	reflector *led.Reflector
	settle    time.Duration
	logger    zerolog.Logger

	mu         sync.Mutex
	running    bool
	shift      bool
	banks      *bank.Machine
	presses    *hold.Registry
	takeover   *encoder.Takeover
	memory     *encoder.Memory
	selectBack *debounce.Guard
	timer      *time.Timer
	subs       []uuid.UUID
	// echoes holds the mixer-changed notifications a pad tap will cause;
	// the tap already redrew the pads
	echoes map[echoKey]float64
}

type echoKey struct {
	channel int
	symbol  string
}

// New creates a driver for one device
func New(opts Options) (*Driver, error) {
	if opts.Device == nil {
		return nil, errors.New("no device")
	}
	if opts.Host == nil || opts.Mixer == nil || opts.Routing == nil {
		return nil, errors.New("host, mixer and routing are required")
	}
	if opts.Output == nil {
		return nil, errors.New("no output")
	}

	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	id := uuid.New()
	profile := opts.Device.Profile()
	logger = logger.With().
		Str("device", profile.Name).
		Str("session", id.String()).
		Logger()

	settle := profile.SettleDelay
	if opts.SettleDelay > 0 {
		settle = opts.SettleDelay
	}

	return &Driver{
		id:         id,
		device:     opts.Device,
		profile:    profile,
		host:       opts.Host,
		mixer:      opts.Mixer,
		routing:    opts.Routing,
		notifier:   opts.Notifier,
		sequencer:  opts.Sequencer,
		out:        opts.Output,
		reflector:  led.New(profile.Palette, opts.Routing, opts.Mixer, logger),
		settle:     settle,
		logger:     logger,
		banks:      bank.NewMachine(profile.StartBank),
		presses:    hold.NewRegistry(opts.Clock),
		takeover:   encoder.NewTakeover(),
		memory:     encoder.NewMemory(),
		selectBack: debounce.NewGuard(debounce.DefaultWindow, opts.Clock),
		echoes:     make(map[echoKey]float64),
	}, nil
}

// ID identifies this driver instance in logs
func (d *Driver) ID() uuid.UUID {
	return d.id
}

// Bank returns the active knob bank
func (d *Driver) Bank() bank.Index {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.banks.Current()
}

// Shift reports whether the shift key is held
func (d *Driver) Shift() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shift
}

// Init puts the surface in DAW mode, lights the static LEDs, schedules the
// first pad refresh and subscribes to host notifications
func (d *Driver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return errors.New("driver already running")
	}

	if err := d.device.EnterDAWMode(d.out.Send); err != nil {
		return fmt.Errorf("handshake with %s: %w", d.profile.Name, err)
	}

	d.send(led.Navigation(d.profile.NavLEDs)...)
	d.send(led.Indicators(d.banks.Current())...)

	if d.settle > 0 {
		d.timer = time.AfterFunc(d.settle, d.settled)
	} else {
		d.refreshPads()
	}

	if d.notifier != nil {
		d.subs = append(d.subs,
			d.notifier.Subscribe(host.TopicRoutingChanged, d.onRoutingChanged),
			d.notifier.Subscribe(host.TopicMixerChanged, d.onMixerChanged),
			d.notifier.Subscribe(host.TopicScreenChanged, d.onScreenChanged),
		)
	}

	d.running = true
	d.logger.Info().
		Str("bank", d.banks.Current().String()).
		Dur("settle", d.settle).
		Msg("Surface initialised")
	return nil
}

// End unsubscribes, cancels the deferred refresh, drops pending presses and
// returns the surface to standalone mode
func (d *Driver) End() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}
	d.running = false

	for _, id := range d.subs {
		d.notifier.Unsubscribe(id)
	}
	d.subs = nil

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	clear(d.echoes)

	if n := d.presses.Clear(); n > 0 {
		d.logger.Debug().Int("pending", n).Msg("Dropped unreleased presses")
	}

	if err := d.device.ExitDAWMode(d.out.Send); err != nil {
		return fmt.Errorf("exit DAW mode on %s: %w", d.profile.Name, err)
	}
	d.logger.Info().Msg("Surface released")
	return nil
}

// Refresh handles a host screen or context change: knobs re-pick up their
// values when the variant asks for it, and the pads are redrawn
func (d *Driver) Refresh() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.profile.ResyncOnRefresh {
		d.takeover.Reset()
	}
	d.refreshPads()
}

// HandleMessage processes one raw message from the device
func (d *Driver) HandleMessage(msg midi.Message) Result {
	ev := protocol.Decode(msg)

	d.mu.Lock()
	defer d.mu.Unlock()

	if ev.IsNote() {
		return d.handleNote(ev)
	}

	switch ev.Kind {
	case protocol.KindControlChange:
		return d.handleControl(ev)
	case protocol.KindProgramChange:
		if d.sequencer != nil {
			d.sequencer.SelectBank(int(ev.Number) + 1)
		}
		return Consumed
	case protocol.KindSysEx:
		d.logger.Debug().Int("len", len(ev.Data)).Msg("SysEx from surface")
		return PassThrough
	default:
		host.LogDegraded(d.logger, host.Degraded(host.ProtocolAnomaly,
			fmt.Sprintf("unrecognized message % X", []byte(msg))))
		return PassThrough
	}
}

func (d *Driver) handleNote(ev protocol.Event) Result {
	if !internalmidi.IsPad(ev.Number) {
		d.host.ForwardRawEvent(ev.Raw)
		return Forwarded
	}

	// Pad releases and the unused pads between the rows are swallowed
	if ev.Kind != protocol.KindNoteOn || !ev.Pressed() {
		return Consumed
	}

	if pos, ok := internalmidi.SoloPosition(ev.Number); ok {
		if ch, ok := d.channelAt(pos); ok {
			on := !d.mixer.Solo(ch)
			d.expectEcho(ch, host.SymbolSolo, on)
			d.mixer.SetSolo(ch, on)
			d.refreshPads()
		}
	} else if pos, ok := internalmidi.MutePosition(ev.Number); ok {
		if ch, ok := d.channelAt(pos); ok {
			on := !d.mixer.Mute(ch)
			d.expectEcho(ch, host.SymbolMute, on)
			d.mixer.SetMute(ch, on)
			d.refreshPads()
		}
	}
	return Consumed
}

func (d *Driver) expectEcho(ch int, symbol string, on bool) {
	if d.notifier == nil {
		return
	}
	value := 0.0
	if on {
		value = 1
	}
	d.echoes[echoKey{channel: ch, symbol: symbol}] = value
}

// isEcho reports whether n is the notification of the driver's own last
// toggle of that strip. Any other notification for the strip drops the
// expectation.
func (d *Driver) isEcho(n host.Notification) bool {
	key := echoKey{channel: n.Channel, symbol: n.Symbol}
	value, ok := d.echoes[key]
	if !ok {
		return false
	}
	delete(d.echoes, key)
	return value == n.Value
}

func (d *Driver) handleControl(ev protocol.Event) Result {
	cc := ev.Number
	p := d.profile

	switch cc {
	case internalmidi.CCBankDown, internalmidi.CCBankUp:
		if ev.Pressed() {
			d.switchBank(cc == internalmidi.CCBankUp)
		}
		return Consumed
	case internalmidi.CCShift:
		d.shift = ev.Pressed()
		return Consumed
	case internalmidi.CCPlay:
		if ev.Pressed() {
			d.action(host.ActionTogglePlay, host.ActionToggleMIDIPlay)
		}
		return Consumed
	case internalmidi.CCRecord:
		if ev.Pressed() {
			d.action(host.ActionToggleRecord, host.ActionToggleMIDIRecord)
		}
		return Consumed
	}

	if cc == internalmidi.CCMetronome && d.shift {
		if ev.Pressed() {
			d.host.SendAction(host.ActionTempo)
		}
		return Consumed
	}

	if sw, ok := p.HoldSwitches[cc]; ok {
		d.handleHold(ev, sw)
		return Consumed
	}

	if knob, i, ok := p.Knob(d.banks.Current(), cc); ok {
		return d.handleKnob(ev, knob, i)
	}

	if action, ok := p.Buttons[cc]; ok {
		if ev.Pressed() {
			d.send(led.Feedback(cc))
			d.host.SendAction(action)
		}
		return Consumed
	}

	if cc == 0 || !ev.Pressed() {
		return Consumed
	}

	host.LogDegraded(d.logger, host.Degraded(host.ProtocolAnomaly,
		fmt.Sprintf("unmapped controller %d", cc)))
	return PassThrough
}

// action sends plain, or shifted when shift is held
func (d *Driver) action(plain, shifted string) {
	if d.shift {
		d.host.SendAction(shifted)
		return
	}
	d.host.SendAction(plain)
}

func (d *Driver) switchBank(up bool) {
	if d.shift {
		if up {
			d.host.SendAction(host.ActionArrowDown)
		} else {
			d.host.SendAction(host.ActionArrowUp)
		}
		return
	}

	var b bank.Index
	if up {
		b = d.banks.Next()
	} else {
		b = d.banks.Previous()
	}
	tracked := d.memory.Len()
	d.takeover.Reset()
	d.memory.Reset()
	d.send(led.Indicators(b)...)

	d.logger.Debug().Str("bank", b.String()).Int("tracked", tracked).Msg("Knob bank changed")
}

func (d *Driver) handleHold(ev protocol.Event, sw internalmidi.HoldSwitch) {
	cc := ev.Number
	id := int(cc)
	if ev.Pressed() {
		if d.presses.Pending(id) {
			d.logger.Debug().Uint8("cc", cc).Msg("Switch pressed again before release, restarting hold")
		}
		d.presses.Press(id)
		if sw.Feedback {
			d.send(led.Feedback(cc))
		}
		return
	}

	class, held, ok := d.presses.Release(id)
	if !ok {
		host.LogDegraded(d.logger, host.Degraded(host.TimingAnomaly,
			fmt.Sprintf("release of controller %d without press", cc)))
		return
	}

	d.logger.Debug().
		Uint8("cc", cc).
		Dur("held", held).
		Str("class", string(class)).
		Msg("Switch released")
	d.host.SendAction(host.ActionSwitch, sw.Index, string(class))
}

func (d *Driver) handleKnob(ev protocol.Event, knob internalmidi.Knob, i int) Result {
	raw := ev.Value

	switch knob.Role {
	case internalmidi.KnobMixerLevel:
		d.knobLevel(knob.Index, i, raw)
	case internalmidi.KnobPot:
		d.knobPot(knob.Index, i, raw)
	case internalmidi.KnobPresetBrowse:
		if dir := encoder.Direction(raw); dir != 0 {
			d.host.SendAction(host.ActionBrowsePreset, dir)
		}
	case internalmidi.KnobSelectBack:
		dir := encoder.Direction(raw)
		if dir == 0 {
			break
		}
		if !d.selectBack.Allow() {
			d.logger.Debug().Uint8("cc", ev.Number).Msg("Select/back debounced")
			break
		}
		if dir < 0 {
			d.host.SendAction(host.ActionBack)
		} else {
			d.host.SendAction(host.ActionSwitch, host.SelectSwitch, string(hold.Short))
		}
	case internalmidi.KnobArrowsHorizontal:
		switch encoder.Direction(raw) {
		case -1:
			d.host.SendAction(host.ActionArrowLeft)
		case 1:
			d.host.SendAction(host.ActionArrowRight)
		}
	case internalmidi.KnobArrowsVertical:
		switch encoder.Direction(raw) {
		case -1:
			d.host.SendAction(host.ActionArrowUp)
		case 1:
			d.host.SendAction(host.ActionArrowDown)
		}
	case internalmidi.KnobForward:
		d.host.ForwardRawEvent(protocol.Remap(ev, knob.CC))
		return Forwarded
	}
	return Consumed
}

func (d *Driver) knobLevel(position, id int, raw uint8) {
	ch, ok := d.channelAt(position)
	if !ok {
		return
	}

	switch d.profile.Encoding {
	case encoder.EncodingRelative:
		if delta := encoder.Relative(raw); delta != 0 {
			d.mixer.SetLevel(ch, encoder.Nudge(d.mixer.Level(ch), delta, encoder.LevelStep))
		}
	default:
		if level, ok := d.takeover.Apply(id, raw, d.mixer.Level(ch)); ok {
			d.mixer.SetLevel(ch, level)
		}
	}
}

func (d *Driver) knobPot(pot, id int, raw uint8) {
	var delta int
	switch d.profile.Encoding {
	case encoder.EncodingRelative:
		delta = encoder.Relative(raw)
	default:
		delta, _ = d.memory.Delta(id, raw)
	}
	if delta != 0 {
		d.host.SendAction(host.ActionPot, pot, delta)
	}
}

// channelAt resolves a chain position to its mixer strip
func (d *Driver) channelAt(position int) (int, bool) {
	ch, ok := d.routing.GetRoutingAt(position)
	if !ok || !host.ValidMixerChannel(ch.Mixer) {
		host.LogDegraded(d.logger, host.Degraded(host.StateLookupFailure,
			fmt.Sprintf("no mixer channel at position %d", position)))
		return 0, false
	}
	return ch.Mixer, true
}

func (d *Driver) refreshPads() {
	if err := d.reflector.Refresh(d.out); err != nil {
		d.logger.Warn().Err(err).Msg("Failed to update pad LEDs")
	}
}

func (d *Driver) send(msgs ...midi.Message) {
	if err := led.SendAll(d.out, msgs); err != nil {
		d.logger.Warn().Err(err).Msg("Failed to write to surface")
	}
}

// settled runs once after the settle delay
func (d *Driver) settled() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	d.timer = nil
	d.refreshPads()
}

func (d *Driver) onRoutingChanged(host.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		d.refreshPads()
	}
}

func (d *Driver) onMixerChanged(n host.Notification) {
	if n.Symbol != host.SymbolMute && n.Symbol != host.SymbolSolo && !d.profile.RefreshOnLevel {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running || d.isEcho(n) {
		return
	}
	d.refreshPads()
}

func (d *Driver) onScreenChanged(n host.Notification) {
	d.mu.Lock()
	running := d.running
	d.mu.Unlock()

	if running {
		d.logger.Debug().Str("screen", n.Screen).Msg("Host screen changed")
		d.Refresh()
	}
}
