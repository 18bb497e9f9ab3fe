package platform

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/input"
)

// Memory is a headless backend backed by a plain pixel buffer.
type Memory struct {
	surface  *bitmap.Bound
	presents atomic.Uint64
	script   *Script

	done     chan struct{}
	doneOnce sync.Once
}

var _ Backend = (*Memory)(nil)

// NewMemory allocates a width x height surface.
func NewMemory(width, height int) *Memory {
	return &Memory{
		surface: bitmap.Bind(width, height, make([]bitmap.Pixel, width*height)),
		script:  NewScript(),
		done:    make(chan struct{}),
	}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Surface() *bitmap.Bound { return m.surface }

// Present only counts frames.
func (m *Memory) Present() error {
	m.presents.Add(1)
	return nil
}

// Presents returns how many frames were presented.
func (m *Memory) Presents() uint64 { return m.presents.Load() }

// Input returns the backend's Script.
func (m *Memory) Input(bitmap.Point, bitmap.Rect) (input.Source, error) {
	return m.script, nil
}

// Script returns the scripted input source.
func (m *Memory) Script() *Script { return m.script }

func (m *Memory) Done() <-chan struct{} { return m.done }

// Stop closes Done.
func (m *Memory) Stop() {
	m.doneOnce.Do(func() { close(m.done) })
}

// Close stops the backend and ends its input.
func (m *Memory) Close() error {
	m.Stop()
	m.script.Close()
	return nil
}

// Script is an input.Source fed from code.
type Script struct {
	events chan input.Event
	closed chan struct{}
	once   sync.Once

	next    input.Event
	hasNext bool
}

var _ input.Source = (*Script)(nil)

func NewScript() *Script {
	return &Script{
		events: make(chan input.Event, 64),
		closed: make(chan struct{}),
	}
}

// Push queues ev, blocking while the queue is full. It is a no-op after
// Close.
func (s *Script) Push(ev input.Event) {
	select {
	case s.events <- ev:
	case <-s.closed:
	}
}

// Close ends the source once queued events are consumed.
func (s *Script) Close() {
	s.once.Do(func() { close(s.closed) })
}

func (s *Script) Ready(timeout time.Duration) (bool, error) {
	if s.hasNext {
		return true, nil
	}
	select {
	case ev := <-s.events:
		s.next, s.hasNext = ev, true
		return true, nil
	default:
	}

	if timeout <= 0 {
		select {
		case <-s.closed:
			return false, input.ErrClosed
		default:
			return false, nil
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case ev := <-s.events:
		s.next, s.hasNext = ev, true
		return true, nil
	case <-s.closed:
		return s.Ready(0)
	case <-t.C:
		return false, nil
	}
}

func (s *Script) Next() (input.Event, error) {
	if !s.hasNext {
		if ok, err := s.Ready(0); !ok {
			return nil, err
		}
	}
	ev := s.next
	s.next, s.hasNext = nil, false
	return ev, nil
}
