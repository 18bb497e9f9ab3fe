package input

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/handoff"
)

// flushInterval bounds how long a held-back position waits for the render
// loop to go idle.
const flushInterval = 2 * time.Millisecond

// BridgeConfig holds configuration for the input bridge.
type BridgeConfig struct {
	// Bounds is the range of valid cursor positions. Every published
	// position lies inside it.
	Bounds bitmap.Rect
	// Start is the initial cursor position.
	Start bitmap.Point
	// PollInterval caps each readiness wait so cancellation is noticed.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Bridge reads events from a Source, tracks the absolute pointer position
// and offers it to the render loop through a Link.
type Bridge struct {
	src     Source
	link    *handoff.Link
	bounds  bitmap.Rect
	pos     bitmap.Point
	buttons Buttons
	poll    time.Duration
	logger  *slog.Logger
}

// NewBridge creates a bridge between src and link.
func NewBridge(cfg BridgeConfig, src Source, link *handoff.Link) *Bridge {
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b := &Bridge{
		src:    src,
		link:   link,
		bounds: cfg.Bounds,
		poll:   poll,
		logger: logger,
	}
	b.pos = b.clamp(cfg.Start)
	return b
}

// Position returns the tracked pointer position.
func (b *Bridge) Position() bitmap.Point { return b.pos }

// Buttons returns the buttons currently held.
func (b *Bridge) Buttons() Buttons { return b.buttons }

func (b *Bridge) clamp(p bitmap.Point) bitmap.Point {
	maxX := b.bounds.X + b.bounds.W - 1
	maxY := b.bounds.Y + b.bounds.H - 1
	p.X = max(b.bounds.X, min(p.X, maxX))
	p.Y = max(b.bounds.Y, min(p.Y, maxY))
	return p
}

// Handle applies one event. Motion that changes the clamped position is
// offered to the render loop.
func (b *Bridge) Handle(ev Event) {
	switch ev := ev.(type) {
	case MoveRelative:
		next := b.clamp(b.pos.Add(bitmap.Pt(ev.DX, ev.DY)))
		if next == b.pos {
			return
		}
		b.pos = next
		b.link.Offer(next)
	case ButtonChanged:
		b.buttons = b.buttons.with(ev.Button, ev.Pressed)
		b.logger.Debug("button", "button", ev.Button, "pressed", ev.Pressed, "held", b.buttons)
	case Scroll:
		b.logger.Debug("scroll", "dx", ev.DX, "dy", ev.DY)
	}
}

// Run reads events until ctx is cancelled or the source closes.
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Info("input bridge started", "start", b.pos, "bounds", b.bounds)
	defer func() {
		offered, skipped := b.link.Stats()
		b.logger.Info("input bridge stopped", "offered", offered, "skipped", skipped)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.link.Flush()

		timeout := b.poll
		if b.link.Pending() {
			timeout = flushInterval
		}
		ready, err := b.src.Ready(timeout)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return err
			}
			b.logger.Warn("input wait failed", "error", err)
			b.pause(ctx)
			continue
		}
		if !ready {
			continue
		}

		ev, err := b.src.Next()
		var readErr *ReadError
		var decodeErr *DecodeError
		switch {
		case errors.Is(err, ErrClosed):
			return err
		case errors.As(err, &decodeErr):
			b.logger.Debug("discarding report", "error", err)
		case errors.As(err, &readErr):
			b.logger.Warn("input read failed", "error", err)
			b.pause(ctx)
		case err != nil:
			b.logger.Warn("input failed", "error", err)
			b.pause(ctx)
		case ev != nil:
			b.Handle(ev)
		}
	}
}

// pause keeps a persistently failing device from spinning the loop.
func (b *Bridge) pause(ctx context.Context) {
	t := time.NewTimer(b.poll)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
