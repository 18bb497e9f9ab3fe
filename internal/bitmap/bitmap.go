// Package bitmap holds the pixel data model shared by every drawing and
// compositing component: the 32-bit Pixel, the owned BitMap and the
// non-owning Bound view over device memory.
package bitmap

import (
	"fmt"
	"image"
	"image/color"
)

// Transparent is the flag byte value that marks a pixel as "do not draw".
// Any other flag value means fully opaque.
const Transparent = 0xFF

// Pixel is one pixel in the video surface's native layout:
// blue, green, red, flag.
type Pixel struct {
	B, G, R uint8
	Flag    uint8
}

// Common colors.
var (
	Black = Pixel{B: 0x00, G: 0x00, R: 0x00}
	White = Pixel{B: 0xff, G: 0xff, R: 0xff}
	// Clear is white pixel data carrying the transparency flag.
	Clear = Pixel{B: 0xff, G: 0xff, R: 0xff, Flag: Transparent}
)

// RGB returns an opaque pixel.
func RGB(r, g, b uint8) Pixel {
	return Pixel{B: b, G: g, R: r}
}

// Hex returns an opaque pixel from a 0xRRGGBB value.
func Hex(rgb uint32) Pixel {
	return RGB(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb))
}

// IsTransparent reports whether the pixel carries the transparency flag.
func (p Pixel) IsTransparent() bool {
	return p.Flag == Transparent
}

func (p Pixel) String() string {
	if p.IsTransparent() {
		return fmt.Sprintf("#%02x%02x%02x/clear", p.R, p.G, p.B)
	}
	return fmt.Sprintf("#%02x%02x%02x", p.R, p.G, p.B)
}

// Surface is a rectangular, row-major pixel buffer. Both the owned BitMap and
// the device-bound Bound view implement it; the drawing primitives only need
// this much.
type Surface interface {
	Width() int
	Height() int
	// Pix returns the backing slice; len(Pix()) == Width()*Height().
	Pix() []Pixel
}

// BitMap is an owned rectangular pixel buffer.
type BitMap struct {
	width  int
	height int
	pix    []Pixel
}

// New allocates a zeroed (opaque black) BitMap.
func New(width, height int) *BitMap {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("bitmap: negative size %dx%d", width, height))
	}
	return &BitMap{
		width:  width,
		height: height,
		pix:    make([]Pixel, width*height),
	}
}

// FromPixels adopts pix as the buffer of a width x height BitMap.
// It panics if the length does not match.
func FromPixels(width, height int, pix []Pixel) *BitMap {
	mustMatch(width, height, len(pix))
	return &BitMap{width: width, height: height, pix: pix}
}

// Width returns the width in pixels.
func (b *BitMap) Width() int { return b.width }

// Height returns the height in pixels.
func (b *BitMap) Height() int { return b.height }

// Pix returns the pixel buffer.
func (b *BitMap) Pix() []Pixel { return b.pix }

// Bounds returns the rectangle (0,0)-(width,height).
func (b *BitMap) Bounds() Rect { return Rect{W: b.width, H: b.height} }

// At returns the pixel at (x, y). It panics when out of range.
func (b *BitMap) At(x, y int) Pixel {
	return b.pix[index(b, x, y)]
}

// Set writes the pixel at (x, y). It panics when out of range.
func (b *BitMap) Set(x, y int, p Pixel) {
	b.pix[index(b, x, y)] = p
}

// Clone returns a deep copy.
func (b *BitMap) Clone() *BitMap {
	pix := make([]Pixel, len(b.pix))
	copy(pix, b.pix)
	return &BitMap{width: b.width, height: b.height, pix: pix}
}

// Equal reports whether two surfaces have the same size and pixels.
func Equal(a, b Surface) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	pa, pb := a.Pix(), b.Pix()
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}

// ToImage converts a surface to an image.NRGBA. Transparent pixels become
// fully transparent image pixels.
func ToImage(s Surface) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.Width(), s.Height()))
	for i, p := range s.Pix() {
		a := uint8(0xff)
		if p.IsTransparent() {
			a = 0
		}
		o := i * 4
		img.Pix[o+0] = p.R
		img.Pix[o+1] = p.G
		img.Pix[o+2] = p.B
		img.Pix[o+3] = a
	}
	return img
}

// FromColor converts a color.Color into an opaque pixel, or a transparent one
// when its alpha is zero.
func FromColor(c color.Color) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	p := RGB(n.R, n.G, n.B)
	if n.A == 0 {
		p.Flag = Transparent
	}
	return p
}

func index(s Surface, x, y int) int {
	if x < 0 || y < 0 || x >= s.Width() || y >= s.Height() {
		panic(fmt.Sprintf("bitmap: (%d,%d) outside %dx%d", x, y, s.Width(), s.Height()))
	}
	return y*s.Width() + x
}

func mustMatch(width, height, n int) {
	if width < 0 || height < 0 || n != width*height {
		panic(fmt.Sprintf("bitmap: %d pixels do not form a %dx%d buffer", n, width, height))
	}
}
