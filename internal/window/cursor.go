package window

import (
	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/draw"
)

// Cursor is the pointer image. It follows the same map/unmap protocol as an
// undecorated Window but draws with a cutout blit, so transparent pixels in
// the image leave whatever is underneath visible.
type Cursor struct {
	layer
}

// NewCursor creates an unmapped cursor at pos. The hotspot is the top-left
// pixel of the image.
func NewCursor(image *bitmap.BitMap, pos bitmap.Point) *Cursor {
	return &Cursor{layer: layer{pos: pos, content: image}}
}

// Position returns the hotspot position.
func (c *Cursor) Position() bitmap.Point { return c.pos }

// Image returns the cursor image.
func (c *Cursor) Image() *bitmap.BitMap { return c.content }

// Mapped reports whether the cursor currently holds a backing store.
func (c *Cursor) Mapped() bool { return c.backing != nil }

// Size returns the image size.
func (c *Cursor) Size() (int, int) {
	return c.content.Width(), c.content.Height()
}

// OuterAt returns the rectangle the cursor would cover at p.
func (c *Cursor) OuterAt(p bitmap.Point) bitmap.Rect {
	return bitmap.Rect{X: p.X, Y: p.Y, W: c.content.Width(), H: c.content.Height()}
}

// Outer returns the rectangle covered at the current position.
func (c *Cursor) Outer() bitmap.Rect {
	return c.OuterAt(c.pos)
}

// Fits reports whether the cursor placed at p lies inside bounds.
func (c *Cursor) Fits(p bitmap.Point, bounds bitmap.Rect) bool {
	return c.OuterAt(p).In(bounds)
}

// Map draws the cursor onto target, saving the covered pixels first unless
// a backing store is already held.
func (c *Cursor) Map(target bitmap.Surface) {
	outer := c.Outer()
	c.capture(target, outer)
	draw.BlitCutout(c.content, target, outer.X, outer.Y)
}

// Unmap restores the pixels saved by the matching Map.
func (c *Cursor) Unmap(target bitmap.Surface) {
	c.restore(target)
}

// SetPosition moves the cursor without touching any surface.
func (c *Cursor) SetPosition(p bitmap.Point) {
	c.pos = p
}

// Move unmaps, repositions and maps the cursor.
func (c *Cursor) Move(target bitmap.Surface, p bitmap.Point) {
	c.Unmap(target)
	c.pos = p
	c.Map(target)
}
