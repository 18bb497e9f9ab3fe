// Package draw implements the pixel primitives the compositor is built on.
//
// Every primitive checks its geometry once, up front, and panics with a
// *BoundsError when the caller asks for pixels outside a surface. There is no
// clipping: placement is validated by the compositor before anything is drawn,
// so the per-row loops stay branch-free.
package draw

import (
	"fmt"

	"github.com/1broseidon/pixwm/internal/bitmap"
)

// BoundsError describes a primitive call whose rectangle does not fit its
// surface.
type BoundsError struct {
	Op      string
	Rect    bitmap.Rect
	Surface bitmap.Rect
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("draw: %s %v outside surface %dx%d", e.Op, e.Rect, e.Surface.W, e.Surface.H)
}

func check(op string, s bitmap.Surface, r bitmap.Rect) {
	bounds := bitmap.Rect{W: s.Width(), H: s.Height()}
	if r.W < 0 || r.H < 0 || !r.In(bounds) {
		panic(&BoundsError{Op: op, Rect: r, Surface: bounds})
	}
}

// Extract copies the w x h rectangle at (x, y) of src into a new BitMap.
func Extract(src bitmap.Surface, x, y, w, h int) *bitmap.BitMap {
	check("extract", src, bitmap.Rect{X: x, Y: y, W: w, H: h})
	out := bitmap.New(w, h)
	sp, dp := src.Pix(), out.Pix()
	sw := src.Width()
	for row := 0; row < h; row++ {
		s := (y+row)*sw + x
		copy(dp[row*w:(row+1)*w], sp[s:s+w])
	}
	return out
}

// Fill overwrites every pixel of dst with px.
func Fill(dst bitmap.Surface, px bitmap.Pixel) {
	pix := dst.Pix()
	for i := range pix {
		pix[i] = px
	}
}

// Blit copies src into dst with its top-left corner at (x, y).
func Blit(src, dst bitmap.Surface, x, y int) {
	sw, sh := src.Width(), src.Height()
	check("blit", dst, bitmap.Rect{X: x, Y: y, W: sw, H: sh})
	sp, dp := src.Pix(), dst.Pix()
	dw := dst.Width()
	for row := 0; row < sh; row++ {
		d := (y+row)*dw + x
		copy(dp[d:d+sw], sp[row*sw:(row+1)*sw])
	}
}

// BlitCutout is Blit that leaves the destination untouched wherever the
// source pixel carries the transparency flag.
func BlitCutout(src, dst bitmap.Surface, x, y int) {
	sw, sh := src.Width(), src.Height()
	check("blit cutout", dst, bitmap.Rect{X: x, Y: y, W: sw, H: sh})
	sp, dp := src.Pix(), dst.Pix()
	dw := dst.Width()
	for row := 0; row < sh; row++ {
		d := dp[(y+row)*dw+x : (y+row)*dw+x+sw]
		for col, px := range sp[row*sw : (row+1)*sw] {
			if px.Flag != bitmap.Transparent {
				d[col] = px
			}
		}
	}
}

// Rect fills the w x h rectangle at (x, y) of dst in place.
func Rect(dst bitmap.Surface, x, y, w, h int, px bitmap.Pixel) {
	check("rect", dst, bitmap.Rect{X: x, Y: y, W: w, H: h})
	dp := dst.Pix()
	dw := dst.Width()
	for row := 0; row < h; row++ {
		line := dp[(y+row)*dw+x : (y+row)*dw+x+w]
		for i := range line {
			line[i] = px
		}
	}
}

// RectStroke draws the outline of (x, y, w, h) as four bands of the given
// thickness lying inside the rectangle.
func RectStroke(dst bitmap.Surface, x, y, w, h int, px bitmap.Pixel, thickness int) {
	if thickness*2 > w || thickness*2 > h {
		// Bands would overlap; the whole rectangle is border.
		Rect(dst, x, y, w, h, px)
		return
	}
	Rect(dst, x, y, w, thickness, px)
	Rect(dst, x, y+h-thickness, w, thickness, px)
	Rect(dst, x, y, thickness, h, px)
	Rect(dst, x+w-thickness, y, thickness, h, px)
}

// RectBorder draws a border of the given thickness around (x, y, w, h),
// outside the rectangle itself.
func RectBorder(dst bitmap.Surface, x, y, w, h int, px bitmap.Pixel, thickness int) {
	RectStroke(dst, x-thickness, y-thickness, w+thickness*2, h+thickness*2, px, thickness)
}
