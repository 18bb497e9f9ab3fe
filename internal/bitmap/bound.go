package bitmap

import "unsafe"

// Bound is a non-owning view over pixel memory that belongs to someone else,
// typically a memory-mapped video surface. It has the same accessors as
// BitMap but no way to release the memory: the device that produced it keeps
// that responsibility.
type Bound struct {
	width  int
	height int
	pix    []Pixel
}

var (
	_ Surface = (*BitMap)(nil)
	_ Surface = (*Bound)(nil)
)

// Bind wraps pix as a width x height surface. It panics if the length does
// not match.
func Bind(width, height int, pix []Pixel) *Bound {
	mustMatch(width, height, len(pix))
	return &Bound{width: width, height: height, pix: pix}
}

// BindBytes reinterprets raw device memory laid out as B,G,R,flag quadruples
// as a width x height surface. The byte slice must hold exactly
// width*height*4 bytes and must stay valid for the life of the view.
func BindBytes(width, height int, mem []byte) *Bound {
	if width < 0 || height < 0 || len(mem) != width*height*PixelSize {
		panic("bitmap: device memory does not match surface size")
	}
	if len(mem) == 0 {
		return &Bound{width: width, height: height}
	}
	pix := unsafe.Slice((*Pixel)(unsafe.Pointer(&mem[0])), width*height)
	return &Bound{width: width, height: height, pix: pix}
}

// PixelSize is the size of a Pixel in bytes.
const PixelSize = int(unsafe.Sizeof(Pixel{}))

// Width returns the width in pixels.
func (b *Bound) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Bound) Height() int { return b.height }

// Pix returns the bound memory.
func (b *Bound) Pix() []Pixel { return b.pix }

// Bounds returns the rectangle (0,0)-(width,height).
func (b *Bound) Bounds() Rect { return Rect{W: b.width, H: b.height} }

// At returns the pixel at (x, y).
func (b *Bound) At(x, y int) Pixel {
	return b.pix[index(b, x, y)]
}
