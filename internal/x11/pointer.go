package x11

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/input"
)

// tracker converts absolute window coordinates into relative motion. It
// clamps to the same bounds as the input bridge so the two never drift
// apart at the edges.
type tracker struct {
	last   bitmap.Point
	bounds bitmap.Rect
}

func (t *tracker) clamp(p bitmap.Point) bitmap.Point {
	p.X = max(t.bounds.X, min(p.X, t.bounds.X+t.bounds.W-1))
	p.Y = max(t.bounds.Y, min(p.Y, t.bounds.Y+t.bounds.H-1))
	return p
}

// motion returns the move from the last seen position to (x, y), or false
// if the clamped position did not change.
func (t *tracker) motion(x, y int) (input.MoveRelative, bool) {
	next := t.clamp(bitmap.Pt(x, y))
	d := next.Sub(t.last)
	t.last = next
	return input.MoveRelative{DX: d.X, DY: d.Y}, d != bitmap.Point{}
}

// buttonEvent maps a core protocol button number to a pointer event. Wheel
// buttons only report on press.
func buttonEvent(detail uint8, pressed bool) (input.Event, bool) {
	switch detail {
	case 1:
		return input.ButtonChanged{Button: input.ButtonLeft, Pressed: pressed}, true
	case 2:
		return input.ButtonChanged{Button: input.ButtonMiddle, Pressed: pressed}, true
	case 3:
		return input.ButtonChanged{Button: input.ButtonRight, Pressed: pressed}, true
	case 8:
		return input.ButtonChanged{Button: input.ButtonBack, Pressed: pressed}, true
	case 9:
		return input.ButtonChanged{Button: input.ButtonForward, Pressed: pressed}, true
	}
	if !pressed {
		return nil, false
	}
	switch detail {
	case 4:
		return input.Scroll{DY: 1}, true
	case 5:
		return input.Scroll{DY: -1}, true
	case 6:
		return input.Scroll{DX: -1}, true
	case 7:
		return input.Scroll{DX: 1}, true
	}
	return nil, false
}

// Pointer is an input.Source fed by X events on the preview window. The X
// event loop pushes, the input bridge pulls.
type Pointer struct {
	events  chan input.Event
	closed  chan struct{}
	once    sync.Once
	dropped atomic.Uint64

	track tracker

	next    input.Event
	hasNext bool
}

var _ input.Source = (*Pointer)(nil)

func newPointer(start bitmap.Point, bounds bitmap.Rect) *Pointer {
	p := &Pointer{
		events: make(chan input.Event, 256),
		closed: make(chan struct{}),
		track:  tracker{bounds: bounds},
	}
	p.track.last = p.track.clamp(start)
	return p
}

// push queues ev, dropping it if the bridge has fallen far behind.
func (p *Pointer) push(ev input.Event) {
	select {
	case p.events <- ev:
	default:
		p.dropped.Add(1)
	}
}

func (p *Pointer) close() {
	p.once.Do(func() { close(p.closed) })
}

// Dropped returns how many events were discarded because the queue was full.
func (p *Pointer) Dropped() uint64 { return p.dropped.Load() }

// Ready waits up to timeout for an event.
func (p *Pointer) Ready(timeout time.Duration) (bool, error) {
	if p.hasNext {
		return true, nil
	}
	var wait <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		wait = t.C
	}
	select {
	case ev := <-p.events:
		p.next, p.hasNext = ev, true
		return true, nil
	default:
	}
	if wait == nil {
		return false, p.closedErr()
	}
	select {
	case ev := <-p.events:
		p.next, p.hasNext = ev, true
		return true, nil
	case <-p.closed:
		return false, input.ErrClosed
	case <-wait:
		return false, nil
	}
}

func (p *Pointer) closedErr() error {
	select {
	case <-p.closed:
		return input.ErrClosed
	default:
		return nil
	}
}

// Next returns the event found by Ready.
func (p *Pointer) Next() (input.Event, error) {
	if !p.hasNext {
		return nil, p.closedErr()
	}
	ev := p.next
	p.next, p.hasNext = nil, false
	return ev, nil
}
