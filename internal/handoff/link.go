package handoff

import (
	"context"
	"sync/atomic"

	"github.com/1broseidon/pixwm/internal/bitmap"
)

// Link is the only state shared between the input bridge and the render
// loop: the coordinate mailbox and the render-in-progress hint. It is built
// once at startup and handed to both sides.
type Link struct {
	box       *Mailbox[bitmap.Point]
	rendering atomic.Bool

	// pending is owned by the producer: the last position skipped while a
	// render was in flight.
	pending    bitmap.Point
	hasPending bool

	offered atomic.Uint64
	skipped atomic.Uint64
}

// NewLink returns a Link with an empty mailbox.
func NewLink() *Link {
	return &Link{box: NewMailbox[bitmap.Point]()}
}

// Offer is called by the producer with a new pointer position. While a
// render is in flight the position is held back instead of published; the
// mailbox keeps only the latest value either way, so skipping is purely an
// optimisation.
func (l *Link) Offer(p bitmap.Point) {
	l.offered.Add(1)
	if l.rendering.Load() {
		l.pending, l.hasPending = p, true
		l.skipped.Add(1)
		return
	}
	l.hasPending = false
	l.box.Put(p)
}

// Flush publishes a position held back by Offer once the render loop has
// gone idle. The producer calls it between input events so the final
// position of a burst is never lost. It reports whether anything was sent.
func (l *Link) Flush() bool {
	if !l.hasPending || l.rendering.Load() {
		return false
	}
	l.hasPending = false
	l.box.Put(l.pending)
	return true
}

// Pending reports whether Offer is holding back a position. Producer only.
func (l *Link) Pending() bool {
	return l.hasPending
}

// Rendering reports whether the render loop is processing a move.
func (l *Link) Rendering() bool {
	return l.rendering.Load()
}

// Next blocks the render loop until a position is available.
func (l *Link) Next(ctx context.Context) (bitmap.Point, error) {
	return l.box.Take(ctx)
}

// BeginRender and EndRender bracket the processing of one position. Only
// the render loop calls them.
func (l *Link) BeginRender() { l.rendering.Store(true) }

// EndRender clears the render-in-progress hint.
func (l *Link) EndRender() { l.rendering.Store(false) }

// Stats returns how many positions were offered and how many of those were
// held back because a render was in flight.
func (l *Link) Stats() (offered, skipped uint64) {
	return l.offered.Load(), l.skipped.Load()
}
