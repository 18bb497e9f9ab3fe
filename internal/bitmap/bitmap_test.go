package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelLayoutMatchesDevice(t *testing.T) {
	assert.Equal(t, 4, PixelSize)

	mem := []byte{
		0x01, 0x02, 0x03, 0x00,
		0xff, 0xff, 0xff, 0xff,
	}
	b := BindBytes(2, 1, mem)
	assert.Equal(t, Pixel{B: 0x01, G: 0x02, R: 0x03}, b.At(0, 0))
	assert.True(t, b.At(1, 0).IsTransparent())

	// Writes through the view land in the device bytes.
	b.Pix()[0] = RGB(0xaa, 0xbb, 0xcc)
	assert.Equal(t, []byte{0xcc, 0xbb, 0xaa, 0x00}, mem[:4])
}

func TestBindBytes_SizeMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { BindBytes(2, 2, make([]byte, 12)) })
}

func TestFromPixels_LengthInvariant(t *testing.T) {
	assert.Panics(t, func() { FromPixels(3, 2, make([]Pixel, 5)) })
	assert.Panics(t, func() { New(-1, 2) })

	b := FromPixels(3, 2, make([]Pixel, 6))
	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 2, b.Height())
	assert.Len(t, b.Pix(), 6)
}

func TestBitMap_SetAtClone(t *testing.T) {
	b := New(4, 3)
	b.Set(3, 2, White)
	assert.Equal(t, White, b.At(3, 2))
	assert.Equal(t, White, b.Pix()[2*4+3])
	assert.Panics(t, func() { b.At(4, 0) })

	c := b.Clone()
	require.True(t, Equal(b, c))
	c.Set(0, 0, White)
	assert.False(t, Equal(b, c))
}

func TestParseHex(t *testing.T) {
	p, err := ParseHex("#3498db")
	require.NoError(t, err)
	assert.Equal(t, Pixel{B: 0xdb, G: 0x98, R: 0x34}, p)

	p, err = ParseHex("clear")
	require.NoError(t, err)
	assert.True(t, p.IsTransparent())

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
}

func TestToImage(t *testing.T) {
	b := FromPixels(2, 1, []Pixel{RGB(1, 2, 3), Clear})
	img := ToImage(b)
	assert.Equal(t, []uint8{1, 2, 3, 0xff, 0xff, 0xff, 0xff, 0x00}, img.Pix)
	assert.Equal(t, RGB(1, 2, 3), FromColor(img.At(0, 0)))
	assert.True(t, FromColor(img.At(1, 0)).IsTransparent())
}

func TestRect(t *testing.T) {
	outer := Rect{W: 10, H: 10}
	assert.True(t, Rect{X: 2, Y: 2, W: 8, H: 8}.In(outer))
	assert.False(t, Rect{X: 3, Y: 2, W: 8, H: 8}.In(outer))
	assert.False(t, Rect{X: -1, W: 2, H: 2}.In(outer))
	assert.True(t, Rect{X: 1, Y: 1, W: 2, H: 2}.Overlaps(Rect{X: 2, Y: 2, W: 2, H: 2}))
	assert.False(t, Rect{X: 0, Y: 0, W: 2, H: 2}.Overlaps(Rect{X: 2, Y: 0, W: 2, H: 2}))
	assert.True(t, outer.Contains(Pt(9, 9)))
	assert.False(t, outer.Contains(Pt(10, 9)))
}

func TestRect_Intersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 8}
	assert.Equal(t, Rect{X: 4, Y: 3, W: 6, H: 5}, a.Intersect(Rect{X: 4, Y: 3, W: 20, H: 20}))
	assert.Equal(t, Rect{X: 2, Y: 2, W: 3, H: 3}, a.Intersect(Rect{X: 2, Y: 2, W: 3, H: 3}))
	assert.True(t, a.Intersect(Rect{X: 10, Y: 0, W: 5, H: 5}).Empty())
	assert.True(t, a.Intersect(Rect{X: -7, Y: -7, W: 3, H: 3}).Empty())
}
