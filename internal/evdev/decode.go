// Package evdev reads relative pointer devices through the Linux event
// interface (/dev/input/eventN).
package evdev

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/1broseidon/pixwm/internal/input"
)

// EventSize is the size of struct input_event on 64-bit Linux: a timeval
// followed by type, code and value.
const EventSize = 24

// Event types, from linux/input-event-codes.h.
const (
	EvSyn = 0x00
	EvKey = 0x01
	EvRel = 0x02
	EvAbs = 0x03
	EvMsc = 0x04
)

const (
	SynReport  = 0x00
	SynDropped = 0x03
)

// Relative axes.
const (
	RelX           = 0x00
	RelY           = 0x01
	RelHWheel      = 0x06
	RelWheel       = 0x08
	RelWheelHiRes  = 0x0b
	RelHWheelHiRes = 0x0c
)

// Mouse buttons occupy a contiguous code range starting at BtnMouse.
const (
	BtnMouse = 0x110
	BtnLeft  = 0x110
	BtnTask  = 0x117
)

// RawEvent is one struct input_event.
type RawEvent struct {
	Time  time.Time
	Type  uint16
	Code  uint16
	Value int32
}

// ParseRaw decodes one report of EventSize bytes in host byte order.
func ParseRaw(b []byte) RawEvent {
	_ = b[EventSize-1]
	sec := int64(binary.NativeEndian.Uint64(b[0:8]))
	usec := int64(binary.NativeEndian.Uint64(b[8:16]))
	return RawEvent{
		Time:  time.Unix(sec, usec*1000),
		Type:  binary.NativeEndian.Uint16(b[16:18]),
		Code:  binary.NativeEndian.Uint16(b[18:20]),
		Value: int32(binary.NativeEndian.Uint32(b[20:24])),
	}
}

// AppendRaw encodes e, the inverse of ParseRaw.
func AppendRaw(dst []byte, e RawEvent) []byte {
	var sec, usec int64
	if !e.Time.IsZero() {
		sec = e.Time.Unix()
		usec = int64(e.Time.Nanosecond() / 1000)
	}
	dst = binary.NativeEndian.AppendUint64(dst, uint64(sec))
	dst = binary.NativeEndian.AppendUint64(dst, uint64(usec))
	dst = binary.NativeEndian.AppendUint16(dst, e.Type)
	dst = binary.NativeEndian.AppendUint16(dst, e.Code)
	return binary.NativeEndian.AppendUint32(dst, uint32(e.Value))
}

// Decode turns the reports of one frame (everything up to, not including,
// the SYN_REPORT) into pointer events. Axes are summed per frame, so a
// frame carrying both X and Y yields a single MoveRelative. Scan codes and
// high-resolution wheel reports are ignored.
func Decode(frame []RawEvent) ([]input.Event, error) {
	var (
		out           []input.Event
		dx, dy        int
		wheel, hwheel int
	)
	for _, e := range frame {
		switch e.Type {
		case EvKey:
			if e.Code < BtnLeft || e.Code > BtnTask {
				return nil, &input.DecodeError{Reason: fmt.Sprintf("unsupported key code %#x", e.Code)}
			}
			if e.Value != 0 && e.Value != 1 {
				return nil, &input.DecodeError{Reason: fmt.Sprintf("key %#x has non-boolean value %d", e.Code, e.Value)}
			}
			out = append(out, input.ButtonChanged{
				Button:  input.Button(e.Code - BtnLeft),
				Pressed: e.Value == 1,
			})
		case EvRel:
			switch e.Code {
			case RelX:
				dx += int(e.Value)
			case RelY:
				dy += int(e.Value)
			case RelWheel:
				wheel += int(e.Value)
			case RelHWheel:
				hwheel += int(e.Value)
			case RelWheelHiRes, RelHWheelHiRes:
			default:
				return nil, &input.DecodeError{Reason: fmt.Sprintf("unsupported relative axis %#x", e.Code)}
			}
		case EvMsc:
		default:
			return nil, &input.DecodeError{Reason: fmt.Sprintf("unsupported event type %#x", e.Type)}
		}
	}
	if dx != 0 || dy != 0 {
		out = append(out, input.MoveRelative{DX: dx, DY: dy})
	}
	if wheel != 0 || hwheel != 0 {
		out = append(out, input.Scroll{DX: hwheel, DY: wheel})
	}
	return out, nil
}
