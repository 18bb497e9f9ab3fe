package input

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/handoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays a fixed list of events and errors, then idles.
type scripted struct {
	mu    sync.Mutex
	items []any
	close bool
}

func (s *scripted) Ready(timeout time.Duration) (bool, error) {
	s.mu.Lock()
	n, closed := len(s.items), s.close
	s.mu.Unlock()
	if n > 0 {
		return true, nil
	}
	if closed {
		return false, ErrClosed
	}
	time.Sleep(min(timeout, time.Millisecond))
	return false, nil
}

func (s *scripted) Next() (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.items[0]
	s.items = s.items[1:]
	if err, ok := item.(error); ok {
		return nil, err
	}
	return item.(Event), nil
}

func (s *scripted) drained() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

var screen = bitmap.Rect{W: 100, H: 80}

func TestBridge_Clamps(t *testing.T) {
	link := handoff.NewLink()
	b := NewBridge(BridgeConfig{Bounds: screen, Start: bitmap.Pt(50, 40)}, &scripted{}, link)

	b.Handle(MoveRelative{DX: -500, DY: 10})
	assert.Equal(t, bitmap.Pt(0, 50), b.Position())
	b.Handle(MoveRelative{DX: 1000, DY: 1000})
	assert.Equal(t, bitmap.Pt(99, 79), b.Position())
	b.Handle(MoveRelative{DX: 3, DY: 3})
	assert.Equal(t, bitmap.Pt(99, 79), b.Position())

	got, err := link.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bitmap.Pt(99, 79), got)

	offered, _ := link.Stats()
	assert.Equal(t, uint64(2), offered, "a move that does not change the position is not offered")
}

func TestBridge_StartIsClamped(t *testing.T) {
	b := NewBridge(BridgeConfig{Bounds: screen, Start: bitmap.Pt(-4, 200)}, &scripted{}, handoff.NewLink())
	assert.Equal(t, bitmap.Pt(0, 79), b.Position())
}

func TestBridge_Buttons(t *testing.T) {
	b := NewBridge(BridgeConfig{Bounds: screen}, &scripted{}, handoff.NewLink())
	b.Handle(ButtonChanged{Button: ButtonLeft, Pressed: true})
	b.Handle(ButtonChanged{Button: ButtonMiddle, Pressed: true})
	assert.True(t, b.Buttons().Has(ButtonLeft))
	assert.Equal(t, "left+middle", b.Buttons().String())

	b.Handle(ButtonChanged{Button: ButtonLeft, Pressed: false})
	assert.False(t, b.Buttons().Has(ButtonLeft))
	assert.True(t, b.Buttons().Has(ButtonMiddle))

	b.Handle(ButtonChanged{Button: ButtonMiddle, Pressed: false})
	assert.Equal(t, "none", b.Buttons().String())
}

func TestBridge_RunSkipsBadReports(t *testing.T) {
	src := &scripted{
		items: []any{
			MoveRelative{DX: 5, DY: 5},
			&DecodeError{Reason: "garbage"},
			Scroll{DY: 1},
			MoveRelative{DX: 1, DY: 2},
		},
		close: true,
	}
	link := handoff.NewLink()
	b := NewBridge(BridgeConfig{Bounds: screen, PollInterval: time.Millisecond}, src, link)

	err := b.Run(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, bitmap.Pt(6, 7), b.Position())

	got, err := link.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bitmap.Pt(6, 7), got)
}

func TestBridge_RunSurvivesReadErrors(t *testing.T) {
	src := &scripted{
		items: []any{
			&ReadError{Device: "event3", Err: errors.New("EIO")},
			MoveRelative{DX: 2},
		},
		close: true,
	}
	b := NewBridge(BridgeConfig{Bounds: screen, PollInterval: time.Millisecond}, src, handoff.NewLink())
	assert.ErrorIs(t, b.Run(context.Background()), ErrClosed)
	assert.Equal(t, bitmap.Pt(2, 0), b.Position())
}

func TestBridge_FlushesFinalPositionAfterRender(t *testing.T) {
	src := &scripted{items: []any{
		MoveRelative{DX: 1},
		MoveRelative{DX: 1},
		MoveRelative{DX: 1},
	}}
	link := handoff.NewLink()
	b := NewBridge(BridgeConfig{Bounds: screen, PollInterval: 5 * time.Millisecond}, src, link)

	link.BeginRender()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.Eventually(t, src.drained, time.Second, time.Millisecond)
	short, cancelShort := context.WithTimeout(context.Background(), 20*time.Millisecond)
	_, err := link.Next(short)
	cancelShort()
	assert.ErrorIs(t, err, context.DeadlineExceeded, "nothing is published while rendering")

	link.EndRender()
	wait, cancelWait := context.WithTimeout(context.Background(), time.Second)
	defer cancelWait()
	got, err := link.Next(wait)
	require.NoError(t, err)
	assert.Equal(t, bitmap.Pt(3, 0), got)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	_, skipped := link.Stats()
	assert.Equal(t, uint64(3), skipped)
}
