// Package input turns raw pointer reports into cursor positions for the
// render loop.
package input

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Event is a decoded pointer report.
type Event interface {
	event()
}

// MoveRelative is a pointer motion relative to the previous position.
type MoveRelative struct {
	DX, DY int
}

// ButtonChanged reports a button going down or up.
type ButtonChanged struct {
	Button  Button
	Pressed bool
}

// Scroll is a wheel movement. Positive DY scrolls up.
type Scroll struct {
	DX, DY int
}

func (MoveRelative) event()  {}
func (ButtonChanged) event() {}
func (Scroll) event()        {}

// Button identifies a pointer button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	ButtonSide
	ButtonExtra
	ButtonForward
	ButtonBack
	ButtonTask
)

var buttonNames = [...]string{"left", "right", "middle", "side", "extra", "forward", "back", "task"}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return fmt.Sprintf("button%d", uint8(b))
}

// Buttons is the set of buttons currently held down.
type Buttons uint16

// Has reports whether b is held.
func (s Buttons) Has(b Button) bool {
	return s&(1<<b) != 0
}

func (s Buttons) with(b Button, down bool) Buttons {
	if down {
		return s | 1<<b
	}
	return s &^ (1 << b)
}

func (s Buttons) String() string {
	var held []string
	for b := ButtonLeft; b <= ButtonTask; b++ {
		if s.Has(b) {
			held = append(held, b.String())
		}
	}
	if len(held) == 0 {
		return "none"
	}
	return strings.Join(held, "+")
}

// Source produces pointer events.
type Source interface {
	// Ready waits up to timeout for an event to become readable. A zero
	// timeout polls without blocking.
	Ready(timeout time.Duration) (bool, error)
	// Next reads one event. It is only called after Ready reported true.
	Next() (Event, error)
}

// ErrClosed is returned by a Source that will never produce events again.
var ErrClosed = errors.New("input source closed")

// ReadError reports a failure to read from the device.
type ReadError struct {
	Device string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Device, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// DecodeError reports a report that was read but could not be understood.
// The report is discarded.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode pointer report: " + e.Reason
}
