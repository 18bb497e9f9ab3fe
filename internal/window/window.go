// Package window implements composited rectangles that can be mapped onto a
// surface and later unmapped, restoring exactly the pixels they covered.
package window

import (
	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/draw"
)

// Decoration describes the frame drawn around a decorated window: a border
// on the left, right and bottom, and a title bar on top.
type Decoration struct {
	Border      int
	TitleHeight int
	BorderColor bitmap.Pixel
	TitleColor  bitmap.Pixel
}

// DefaultDecoration is used when a window is decorated without an explicit
// style.
var DefaultDecoration = Decoration{
	Border:      2,
	TitleHeight: 18,
	BorderColor: bitmap.Hex(0x2c3e50),
	TitleColor:  bitmap.Hex(0x3498db),
}

// layer is the part shared by windows and the cursor: a content bitmap at a
// position plus the backing store captured while mapped.
type layer struct {
	pos     bitmap.Point
	content *bitmap.BitMap
	backing *bitmap.BitMap
	saved   bitmap.Point // where backing was captured
}

// capture saves the outer rectangle of the target unless a capture is
// already held. This is what makes repeated maps idempotent.
func (l *layer) capture(target bitmap.Surface, outer bitmap.Rect) {
	if l.backing == nil {
		l.backing = draw.Extract(target, outer.X, outer.Y, outer.W, outer.H)
		l.saved = outer.Origin()
	}
}

func (l *layer) restore(target bitmap.Surface) {
	if l.backing == nil {
		return
	}
	draw.Blit(l.backing, target, l.saved.X, l.saved.Y)
	l.backing = nil
}

// Window is a content bitmap with an optional frame.
type Window struct {
	layer
	decorated bool
	style     Decoration
}

// New creates an unmapped window whose outer top-left corner is at pos.
// A nil style leaves the window undecorated.
func New(content *bitmap.BitMap, pos bitmap.Point, style *Decoration) *Window {
	w := &Window{layer: layer{pos: pos, content: content}}
	if style != nil {
		w.decorated = true
		w.style = *style
	}
	return w
}

// Position returns the outer top-left corner.
func (w *Window) Position() bitmap.Point { return w.pos }

// Decorated reports whether the window draws a frame.
func (w *Window) Decorated() bool { return w.decorated }

// Content returns the window's content bitmap.
func (w *Window) Content() *bitmap.BitMap { return w.content }

// Mapped reports whether the window currently holds a backing store.
func (w *Window) Mapped() bool { return w.backing != nil }

// Size returns the outer, decoration-inclusive size.
func (w *Window) Size() (int, int) {
	cw, ch := w.content.Width(), w.content.Height()
	if !w.decorated {
		return cw, ch
	}
	return cw + 2*w.style.Border, ch + w.style.Border + w.style.TitleHeight
}

// OuterAt returns the outer rectangle the window would occupy at p.
func (w *Window) OuterAt(p bitmap.Point) bitmap.Rect {
	ow, oh := w.Size()
	return bitmap.Rect{X: p.X, Y: p.Y, W: ow, H: oh}
}

// Outer returns the outer rectangle at the current position.
func (w *Window) Outer() bitmap.Rect {
	return w.OuterAt(w.pos)
}

// Fits reports whether the window placed at p lies inside bounds.
func (w *Window) Fits(p bitmap.Point, bounds bitmap.Rect) bool {
	return w.OuterAt(p).In(bounds)
}

// Inner returns the content rectangle at the current position.
func (w *Window) Inner() bitmap.Rect {
	r := bitmap.Rect{X: w.pos.X, Y: w.pos.Y, W: w.content.Width(), H: w.content.Height()}
	if w.decorated {
		r.X += w.style.Border
		r.Y += w.style.TitleHeight
	}
	return r
}

// Map draws the window onto target, first saving what it covers unless a
// backing store is already held.
func (w *Window) Map(target bitmap.Surface) {
	outer := w.Outer()
	w.capture(target, outer)

	inner := w.Inner()
	draw.Blit(w.content, target, inner.X, inner.Y)
	if w.decorated {
		draw.RectStroke(target, outer.X, outer.Y, outer.W, outer.H, w.style.BorderColor, w.style.Border)
		draw.Rect(target, outer.X, outer.Y, outer.W, w.style.TitleHeight, w.style.TitleColor)
	}
}

// Unmap restores the pixels saved by the matching Map. It is a no-op for an
// unmapped window.
func (w *Window) Unmap(target bitmap.Surface) {
	w.restore(target)
}

// SetPosition moves the window without touching any surface. A held backing
// store still restores to where it was captured.
func (w *Window) SetPosition(p bitmap.Point) {
	w.pos = p
}

// Move unmaps the window, repositions it and maps it again, so the backing
// store always belongs to the location it was captured at.
func (w *Window) Move(target bitmap.Surface, p bitmap.Point) {
	w.Unmap(target)
	w.pos = p
	w.Map(target)
}
