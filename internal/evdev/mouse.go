//go:build linux

package evdev

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/1broseidon/pixwm/internal/input"
)

// Mouse is an input.Source over an evdev node.
type Mouse struct {
	f     *os.File
	fd    int
	path  string
	r     *bufio.Reader
	buf   [EventSize]byte
	queue []input.Event
}

var _ input.Source = (*Mouse)(nil)

// Open opens the event node at path for reading.
func Open(path string) (*Mouse, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open mouse: %w", err)
	}
	return newMouse(f, path), nil
}

func newMouse(f *os.File, path string) *Mouse {
	return &Mouse{
		f:    f,
		fd:   int(f.Fd()),
		path: path,
		r:    bufio.NewReaderSize(f, 64*EventSize),
	}
}

// Path returns the device path.
func (m *Mouse) Path() string { return m.path }

// Ready waits in poll(2) for the device to become readable. Events already
// buffered or decoded count as ready without touching the device.
func (m *Mouse) Ready(timeout time.Duration) (bool, error) {
	if len(m.queue) > 0 || m.r.Buffered() >= EventSize {
		return true, nil
	}
	fds := []unix.PollFd{{Fd: int32(m.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, &input.ReadError{Device: m.path, Err: err}
	}
	if n == 0 {
		return false, nil
	}
	if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
		return false, &input.ReadError{Device: m.path, Err: input.ErrClosed}
	}
	return fds[0].Revents&unix.POLLIN != 0, nil
}

// Next returns the next decoded event. It reads one whole frame from the
// device when nothing is queued, and may return a nil event for frames that
// carry nothing of interest.
func (m *Mouse) Next() (input.Event, error) {
	if len(m.queue) == 0 {
		events, err := m.readFrame()
		if err != nil {
			return nil, err
		}
		m.queue = events
	}
	if len(m.queue) == 0 {
		return nil, nil
	}
	ev := m.queue[0]
	m.queue = m.queue[1:]
	return ev, nil
}

func (m *Mouse) readFrame() ([]input.Event, error) {
	var frame []RawEvent
	dropped := false
	for {
		if _, err := io.ReadFull(m.r, m.buf[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				err = input.ErrClosed
			}
			return nil, &input.ReadError{Device: m.path, Err: err}
		}
		e := ParseRaw(m.buf[:])
		if e.Type != EvSyn {
			frame = append(frame, e)
			continue
		}
		switch e.Code {
		case SynDropped:
			// The kernel buffer overflowed: everything up to the next
			// report is incomplete.
			dropped = true
			frame = frame[:0]
		case SynReport:
			if dropped {
				return nil, &input.DecodeError{Reason: "events dropped by kernel"}
			}
			return Decode(frame)
		}
	}
}

// Close releases the device.
func (m *Mouse) Close() error {
	return m.f.Close()
}
