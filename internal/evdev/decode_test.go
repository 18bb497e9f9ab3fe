package evdev

import (
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/pixwm/internal/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rel(code uint16, v int32) RawEvent { return RawEvent{Type: EvRel, Code: code, Value: v} }
func key(code uint16, v int32) RawEvent { return RawEvent{Type: EvKey, Code: code, Value: v} }

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		frame []RawEvent
		want  []input.Event
	}{
		{"x only", []RawEvent{rel(RelX, 3)}, []input.Event{input.MoveRelative{DX: 3}}},
		{"y only", []RawEvent{rel(RelY, -2)}, []input.Event{input.MoveRelative{DY: -2}}},
		{"x and y", []RawEvent{rel(RelX, 4), rel(RelY, 5)}, []input.Event{input.MoveRelative{DX: 4, DY: 5}}},
		{"y before x", []RawEvent{rel(RelY, 5), rel(RelX, 4)}, []input.Event{input.MoveRelative{DX: 4, DY: 5}}},
		{"wheel", []RawEvent{rel(RelWheel, 1), rel(RelWheelHiRes, 120)}, []input.Event{input.Scroll{DY: 1}}},
		{"hwheel", []RawEvent{rel(RelHWheel, -1)}, []input.Event{input.Scroll{DX: -1}}},
		{"left press with scan code", []RawEvent{{Type: EvMsc, Code: 4, Value: 0x90001}, key(BtnLeft, 1)},
			[]input.Event{input.ButtonChanged{Button: input.ButtonLeft, Pressed: true}}},
		{"right release", []RawEvent{key(BtnLeft+1, 0)},
			[]input.Event{input.ButtonChanged{Button: input.ButtonRight, Pressed: false}}},
		{"task", []RawEvent{key(BtnTask, 1)},
			[]input.Event{input.ButtonChanged{Button: input.ButtonTask, Pressed: true}}},
		{"button and motion", []RawEvent{key(BtnLeft+2, 1), rel(RelX, 1)},
			[]input.Event{input.ButtonChanged{Button: input.ButtonMiddle, Pressed: true}, input.MoveRelative{DX: 1}}},
		{"moves cancel out", []RawEvent{rel(RelX, 2), rel(RelX, -2)}, nil},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.frame)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		frame []RawEvent
		msg   string
	}{
		{"keyboard key", []RawEvent{key(30, 1)}, "unsupported key code 0x1e"},
		{"autorepeat", []RawEvent{key(BtnLeft, 2)}, "non-boolean value 2"},
		{"unknown axis", []RawEvent{rel(0x07, 1)}, "unsupported relative axis 0x7"},
		{"absolute", []RawEvent{{Type: EvAbs, Code: 0, Value: 10}}, "unsupported event type 0x3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.frame)
			var decodeErr *input.DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseRaw_RoundTrip(t *testing.T) {
	e := RawEvent{Time: time.Unix(1700000000, 123456000), Type: EvRel, Code: RelY, Value: -7}
	b := AppendRaw(nil, e)
	require.Len(t, b, EventSize)
	got := ParseRaw(b)
	assert.Equal(t, e.Type, got.Type)
	assert.Equal(t, e.Code, got.Code)
	assert.Equal(t, e.Value, got.Value)
	assert.True(t, e.Time.Equal(got.Time))
}

const procDevices = `I: Bus=0019 Vendor=0000 Product=0001 Version=0000
N: Name="Power Button"
P: Phys=LNXPWRBN/button/input0
S: Sysfs=/devices/LNXSYSTM:00/LNXPWRBN:00/input/input0
U: Uniq=
H: Handlers=kbd event0
B: PROP=0
B: EV=3
B: KEY=10000000000000 0

I: Bus=0003 Vendor=0627 Product=0001 Version=0001
N: Name="QEMU QEMU USB Tablet"
H: Handlers=mouse0 event2
B: PROP=0
B: EV=1f
B: KEY=70000 0 0 0 0
B: REL=900
B: ABS=3

I: Bus=0003 Vendor=046d Product=c077 Version=0111
N: Name="Logitech USB Optical Mouse"
H: Handlers=mouse1 event5
B: PROP=0
B: EV=17
B: KEY=ff0000 0 0 0 0
B: REL=1943
B: MSC=10
`

func TestParseDevices(t *testing.T) {
	devices, err := ParseDevices(strings.NewReader(procDevices))
	require.NoError(t, err)
	require.Len(t, devices, 3)

	assert.Equal(t, "Power Button", devices[0].Name)
	assert.Equal(t, []string{"kbd", "event0"}, devices[0].Handlers)
	assert.False(t, devices[0].IsMouse())

	tablet := devices[1]
	assert.Equal(t, "event2", tablet.EventNode())
	assert.True(t, tablet.HasBit("KEY", BtnMouse))
	assert.False(t, tablet.IsMouse(), "absolute axes rule out a tablet")

	mouse := devices[2]
	assert.True(t, mouse.HasBit("REL", RelX))
	assert.True(t, mouse.HasBit("REL", RelWheel))
	assert.False(t, mouse.HasBit("REL", RelHWheel+1))
	assert.True(t, mouse.IsMouse())
	assert.Equal(t, "/dev/input/event5", mouse.Path())

	found, err := FindMouse(devices)
	require.NoError(t, err)
	assert.Equal(t, "Logitech USB Optical Mouse", found.Name)

	_, err = FindMouse(devices[:2])
	assert.ErrorIs(t, err, ErrNoMouse)
}

func TestParseDevices_BadBitmap(t *testing.T) {
	_, err := ParseDevices(strings.NewReader("N: Name=\"x\"\nB: KEY=zz\n"))
	assert.ErrorContains(t, err, "bitmap KEY")
}

func TestResolve_ExplicitPath(t *testing.T) {
	got, err := Resolve("/dev/input/event9")
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/event9", got)
}
