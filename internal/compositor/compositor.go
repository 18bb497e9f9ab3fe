// Package compositor owns the root surface, the window stack and the cursor,
// and runs the render loop that applies pointer moves to them.
//
// After Start, a Compositor must only be used from the goroutine running
// Run: it is the sole writer of every pixel it owns.
package compositor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/draw"
	"github.com/1broseidon/pixwm/internal/handoff"
	"github.com/1broseidon/pixwm/internal/window"
)

// ErrOutOfBounds is returned when a window or the cursor would not fit
// inside the root surface.
var ErrOutOfBounds = errors.New("placement outside root surface")

// NoCarry disables dragging a window along with the pointer.
const NoCarry = -1

// Presenter pushes the root surface to a display after it changed. Backends
// whose surface is the display memory itself don't need one.
type Presenter interface {
	Present() error
}

// Options configures a Compositor.
type Options struct {
	// Background, when set, fills the root surface at Start. Nil keeps
	// whatever the device already shows.
	Background *bitmap.Pixel
	// Carry is the index of a window that follows the pointer, keeping its
	// offset to the cursor from Start. NoCarry disables it.
	Carry     int
	Presenter Presenter
	Logger    *slog.Logger
}

// Compositor composes windows and a cursor onto a root surface.
type Compositor struct {
	root    bitmap.Surface
	windows []*window.Window // bottom to top
	cursor  *window.Cursor

	background  *bitmap.Pixel
	carry       int
	carryOffset bitmap.Point
	presenter   Presenter
	logger      *slog.Logger

	started bool
	frames  atomic.Uint64
}

// New validates that every window and the cursor fit inside root and
// returns a Compositor that has not drawn anything yet.
func New(root bitmap.Surface, windows []*window.Window, cursor *window.Cursor, opts Options) (*Compositor, error) {
	if cursor == nil {
		return nil, errors.New("compositor: cursor is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Carry != NoCarry && (opts.Carry < 0 || opts.Carry >= len(windows)) {
		return nil, fmt.Errorf("compositor: carry window %d does not exist", opts.Carry)
	}

	c := &Compositor{
		root:       root,
		windows:    windows,
		cursor:     cursor,
		background: opts.Background,
		carry:      opts.Carry,
		presenter:  opts.Presenter,
		logger:     logger,
	}
	for i, w := range windows {
		if !w.Fits(w.Position(), c.bounds()) {
			return nil, fmt.Errorf("window %d at %v: %w", i, w.Outer(), ErrOutOfBounds)
		}
	}
	if !cursor.Fits(cursor.Position(), c.bounds()) {
		return nil, fmt.Errorf("cursor at %v: %w", cursor.Outer(), ErrOutOfBounds)
	}
	if c.carry != NoCarry {
		c.carryOffset = windows[c.carry].Position().Sub(cursor.Position())
	}
	return c, nil
}

func (c *Compositor) bounds() bitmap.Rect {
	return bitmap.Rect{W: c.root.Width(), H: c.root.Height()}
}

// Root returns the root surface.
func (c *Compositor) Root() bitmap.Surface { return c.root }

// Windows returns the window stack, bottom first.
func (c *Compositor) Windows() []*window.Window { return c.windows }

// Cursor returns the cursor.
func (c *Compositor) Cursor() *window.Cursor { return c.cursor }

// Frames returns the number of moves applied so far.
func (c *Compositor) Frames() uint64 { return c.frames.Load() }

// CursorBounds returns the range of positions the cursor may take:
// a rectangle of valid top-left corners.
func (c *Compositor) CursorBounds() bitmap.Rect {
	cw, ch := c.cursor.Size()
	return bitmap.Rect{W: c.root.Width() - cw + 1, H: c.root.Height() - ch + 1}
}

// PointerBounds is CursorBounds narrowed so that the carried window, kept
// at its offset from the cursor, also stays on the root. Clamping input to
// it means MoveCursor never rejects a clamped position.
func (c *Compositor) PointerBounds() bitmap.Rect {
	r := c.CursorBounds()
	if c.carry == NoCarry {
		return r
	}
	ww, wh := c.windows[c.carry].Size()
	carried := bitmap.Rect{
		X: -c.carryOffset.X,
		Y: -c.carryOffset.Y,
		W: c.root.Width() - ww + 1,
		H: c.root.Height() - wh + 1,
	}
	return r.Intersect(carried)
}

// Start draws the initial picture: background, windows bottom to top, then
// the cursor so it sits above everything.
func (c *Compositor) Start() error {
	if c.started {
		return errors.New("compositor: already started")
	}
	c.started = true
	if c.background != nil {
		draw.Fill(c.root, *c.background)
	}
	for _, w := range c.windows {
		w.Map(c.root)
	}
	c.cursor.Map(c.root)
	return c.present()
}

// MoveCursor moves the pointer to p, dragging the carried window along if
// one is configured. Nothing is drawn if any resulting placement would leave
// the root surface.
func (c *Compositor) MoveCursor(p bitmap.Point) error {
	if !c.cursor.Fits(p, c.bounds()) {
		return fmt.Errorf("cursor to %v: %w", p, ErrOutOfBounds)
	}
	if c.carry == NoCarry {
		c.cursor.Unmap(c.root)
		c.cursor.SetPosition(p)
		c.cursor.Map(c.root)
		c.frames.Add(1)
		return c.present()
	}

	wp := p.Add(c.carryOffset)
	if !c.windows[c.carry].Fits(wp, c.bounds()) {
		return fmt.Errorf("window %d to %v: %w", c.carry, wp, ErrOutOfBounds)
	}
	c.restack(c.carry, func() {
		c.windows[c.carry].SetPosition(wp)
		c.cursor.SetPosition(p)
	})
	return c.present()
}

// MoveWindow moves window i so its outer top-left corner is at p.
func (c *Compositor) MoveWindow(i int, p bitmap.Point) error {
	if i < 0 || i >= len(c.windows) {
		return fmt.Errorf("compositor: no window %d", i)
	}
	if !c.windows[i].Fits(p, c.bounds()) {
		return fmt.Errorf("window %d to %v: %w", i, p, ErrOutOfBounds)
	}
	c.restack(i, func() {
		c.windows[i].SetPosition(p)
	})
	if i == c.carry {
		c.carryOffset = p.Sub(c.cursor.Position())
	}
	return c.present()
}

// restack peels the cursor and every window from the top down to window
// lowest, runs reposition, and maps them back bottom-up. Unmapping in
// reverse map order guarantees each restore puts back exactly what its
// matching map captured.
func (c *Compositor) restack(lowest int, reposition func()) {
	c.cursor.Unmap(c.root)
	for i := len(c.windows) - 1; i >= lowest; i-- {
		c.windows[i].Unmap(c.root)
	}
	reposition()
	for i := lowest; i < len(c.windows); i++ {
		c.windows[i].Map(c.root)
	}
	c.cursor.Map(c.root)
	c.frames.Add(1)
}

func (c *Compositor) present() error {
	if c.presenter == nil {
		return nil
	}
	if err := c.presenter.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// Run is the render loop. It takes positions from link until ctx is done
// and applies each one with MoveCursor, bracketing the work with the link's
// render-in-progress hint. Rejected placements are logged and dropped.
func (c *Compositor) Run(ctx context.Context, link *handoff.Link) error {
	if !c.started {
		return errors.New("compositor: Run before Start")
	}
	c.logger.Info("render loop started",
		"root", fmt.Sprintf("%dx%d", c.root.Width(), c.root.Height()),
		"windows", len(c.windows))

	for {
		p, err := link.Next(ctx)
		if err != nil {
			c.logger.Info("render loop stopped", "frames", c.frames.Load())
			return err
		}

		link.BeginRender()
		err = c.MoveCursor(p)
		link.EndRender()

		switch {
		case errors.Is(err, ErrOutOfBounds):
			c.logger.Debug("dropping move", "to", p, "error", err)
		case err != nil:
			c.logger.Error("render failed", "to", p, "error", err)
		default:
			c.logger.Debug("moved", "to", p)
		}
	}
}
