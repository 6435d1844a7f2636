package midi

import (
	"errors"
	"sync"
	"testing"

	"github.com/PixPMusic/gopher-launchkey/internal/bank"
	"github.com/PixPMusic/gopher-launchkey/internal/encoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

type recorder struct {
	mu   sync.Mutex
	msgs []midi.Message
	err  error
}

func (r *recorder) send(msg midi.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func TestOutputSerializesConcurrentWrites(t *testing.T) {
	rec := &recorder{}
	out := NewOutput("test", rec.send)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = out.Send(midi.NoteOn(0, uint8(n), 1))
		}(i)
	}
	wg.Wait()
	assert.Len(t, rec.msgs, 16)
}

func TestOutputWrapsErrors(t *testing.T) {
	cause := errors.New("gone")
	out := NewOutput("Launchkey", (&recorder{err: cause}).send)
	err := out.Send(midi.NoteOn(0, 1, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Launchkey")
}

func TestNilOutputDiscards(t *testing.T) {
	out := NewOutput("", nil)
	assert.NoError(t, out.Send(midi.NoteOn(0, 1, 1)))
}

func TestMK4Handshake(t *testing.T) {
	rec := &recorder{}
	d := NewLaunchkeyMK4()

	require.NoError(t, d.EnterDAWMode(rec.send))
	require.NoError(t, d.ExitDAWMode(rec.send))
	assert.Equal(t, []midi.Message{
		{0x9F, 12, 127},
		{0x9F, 12, 0},
	}, rec.msgs)
}

func TestMiniHandshakeSetsTransportMode(t *testing.T) {
	rec := &recorder{}
	d := NewLaunchkeyMini(0)

	require.NoError(t, d.EnterDAWMode(rec.send))
	assert.Equal(t, []midi.Message{
		{0x9F, 12, 127},
		{0xB6, 30, 5},
	}, rec.msgs)
}

func TestHandshakeErrorsAreWrapped(t *testing.T) {
	cause := errors.New("closed")
	err := NewLaunchkeyMini(0).EnterDAWMode((&recorder{err: cause}).send)
	assert.ErrorIs(t, err, cause)
}

func TestGetDevice(t *testing.T) {
	assert.Equal(t, DeviceTypeLaunchkeyMK4, GetDevice(DeviceTypeLaunchkeyMK4).Type())
	assert.Equal(t, DeviceTypeLaunchkeyMini, GetDevice(DeviceTypeLaunchkeyMini).Type())
	assert.Equal(t, DeviceTypeLaunchkeyMini, GetDevice("unknown").Type())
}

func TestProfiles(t *testing.T) {
	mk4 := NewLaunchkeyMK4().Profile()
	assert.Equal(t, encoder.EncodingAbsolute, mk4.Encoding)
	assert.Equal(t, bank.Bank0, mk4.StartBank)

	mini := NewLaunchkeyMini(0).Profile()
	assert.Equal(t, encoder.EncodingRelative, mini.Encoding)
	assert.Equal(t, bank.Bank1, mini.StartBank)
}

func TestProfileKnobLookup(t *testing.T) {
	mini := NewLaunchkeyMini(0).Profile()

	knob, i, ok := mini.Knob(bank.Bank1, 90)
	require.True(t, ok)
	assert.Equal(t, 5, i)
	assert.Equal(t, KnobSelectBack, knob.Role)

	knob, _, ok = mini.Knob(bank.Bank2, 92)
	require.True(t, ok)
	assert.Equal(t, KnobForward, knob.Role)
	assert.Equal(t, uint8(31), knob.CC)

	_, _, ok = mini.Knob(bank.Bank0, 84)
	assert.False(t, ok)
	_, _, ok = mini.Knob(bank.Bank0, 93)
	assert.False(t, ok)

	mk4 := NewLaunchkeyMK4().Profile()
	knob, _, ok = mk4.Knob(bank.Bank0, 27)
	require.True(t, ok)
	assert.Equal(t, KnobNone, knob.Role)

	knob, _, ok = mk4.Knob(bank.Bank1, 25)
	require.True(t, ok)
	assert.Equal(t, KnobForward, knob.Role)
	assert.Equal(t, uint8(20), knob.CC)
}

func TestPadPositions(t *testing.T) {
	pos, ok := SoloPosition(98)
	require.True(t, ok)
	assert.Equal(t, 2, pos)

	_, ok = SoloPosition(104)
	assert.False(t, ok)

	pos, ok = MutePosition(119)
	require.True(t, ok)
	assert.Equal(t, 7, pos)

	assert.True(t, IsPad(96))
	assert.True(t, IsPad(110))
	assert.True(t, IsPad(119))
	assert.False(t, IsPad(95))
	assert.False(t, IsPad(120))
}
