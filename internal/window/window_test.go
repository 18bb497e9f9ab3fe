package window

import (
	"math/rand"
	"testing"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/draw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noise(r *rand.Rand, w, h int) *bitmap.BitMap {
	b := bitmap.New(w, h)
	for i := range b.Pix() {
		b.Pix()[i] = bitmap.RGB(uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)))
	}
	return b
}

func solid(w, h int, px bitmap.Pixel) *bitmap.BitMap {
	b := bitmap.New(w, h)
	draw.Fill(b, px)
	return b
}

var testStyle = Decoration{
	Border:      3,
	TitleHeight: 10,
	BorderColor: bitmap.RGB(0xff, 0, 0),
	TitleColor:  bitmap.RGB(0, 0, 0xff),
}

func TestGeometry(t *testing.T) {
	w := New(bitmap.New(20, 10), bitmap.Pt(5, 7), &testStyle)
	ow, oh := w.Size()
	assert.Equal(t, 26, ow)
	assert.Equal(t, 23, oh)
	assert.Equal(t, bitmap.Rect{X: 5, Y: 7, W: 26, H: 23}, w.Outer())
	assert.Equal(t, bitmap.Rect{X: 8, Y: 17, W: 20, H: 10}, w.Inner())

	plain := New(bitmap.New(20, 10), bitmap.Pt(5, 7), nil)
	assert.Equal(t, plain.Outer(), plain.Inner())
	assert.False(t, plain.Decorated())
}

func TestMapUnmap_RestoresTarget(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		tw, th := 20+r.Intn(60), 20+r.Intn(60)
		target := noise(r, tw, th)
		before := target.Clone()

		var style *Decoration
		if r.Intn(2) == 0 {
			style = &testStyle
		}
		win := New(noise(r, 1+r.Intn(10), 1+r.Intn(5)), bitmap.Point{}, style)
		ow, oh := win.Size()
		win.SetPosition(bitmap.Pt(r.Intn(tw-ow+1), r.Intn(th-oh+1)))

		win.Map(target)
		require.True(t, win.Mapped())
		win.Unmap(target)
		require.False(t, win.Mapped())
		require.True(t, bitmap.Equal(before, target), "case %d", i)
	}
}

func TestMap_TwiceCapturesOnce(t *testing.T) {
	target := solid(40, 40, bitmap.White)
	before := target.Clone()
	win := New(solid(10, 10, bitmap.Black), bitmap.Pt(5, 5), &testStyle)

	win.Map(target)
	// Corrupt the covered area, then map again: the backing must not be
	// re-captured from the corrupted pixels.
	draw.Rect(target, 0, 0, 40, 40, bitmap.RGB(0, 0xff, 0))
	win.Map(target)
	win.Unmap(target)

	outer := win.Outer()
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if outer.Contains(bitmap.Pt(x, y)) {
				require.Equal(t, before.At(x, y), target.At(x, y), "(%d,%d)", x, y)
			}
		}
	}
}

func TestUnmap_WithoutMapIsNoop(t *testing.T) {
	target := solid(10, 10, bitmap.White)
	before := target.Clone()
	win := New(solid(2, 2, bitmap.Black), bitmap.Pt(1, 1), nil)
	win.Unmap(target)
	assert.True(t, bitmap.Equal(before, target))
}

func TestMap_DrawsDecoration(t *testing.T) {
	target := solid(30, 30, bitmap.White)
	content := solid(4, 4, bitmap.Black)
	win := New(content, bitmap.Pt(2, 2), &testStyle)
	win.Map(target)

	// Title bar spans the full outer width.
	assert.Equal(t, testStyle.TitleColor, target.At(2, 2))
	assert.Equal(t, testStyle.TitleColor, target.At(2+9, 2+9))
	// Left, right and bottom borders.
	assert.Equal(t, testStyle.BorderColor, target.At(2, 2+12))
	assert.Equal(t, testStyle.BorderColor, target.At(2+9, 2+12))
	assert.Equal(t, testStyle.BorderColor, target.At(2+5, 2+16))
	// Content sits at the inner origin.
	inner := win.Inner()
	assert.Equal(t, bitmap.Black, target.At(inner.X, inner.Y))
	assert.Equal(t, bitmap.Black, target.At(inner.X+3, inner.Y+3))
	// Outside is untouched.
	assert.Equal(t, bitmap.White, target.At(1, 1))
	assert.Equal(t, bitmap.White, target.At(12, 19))
}

func TestMove_RestoresOldFootprint(t *testing.T) {
	target := solid(60, 60, bitmap.White)
	before := target.Clone()
	win := New(solid(8, 8, bitmap.Black), bitmap.Pt(0, 0), &testStyle)

	win.Map(target)
	for _, p := range []bitmap.Point{{X: 3, Y: 4}, {X: 20, Y: 30}, {X: 21, Y: 30}, {X: 0, Y: 0}, {X: 46, Y: 39}} {
		win.Move(target, p)
		assert.Equal(t, p, win.Position())
	}
	win.Unmap(target)
	assert.True(t, bitmap.Equal(before, target))
}

func TestSetPosition_WhileMappedRestoresCaptureSite(t *testing.T) {
	target := solid(20, 20, bitmap.White)
	before := target.Clone()
	win := New(solid(4, 4, bitmap.Black), bitmap.Pt(1, 1), nil)
	win.Map(target)
	win.SetPosition(bitmap.Pt(10, 10))
	win.Unmap(target)
	assert.True(t, bitmap.Equal(before, target))
}

func TestCursor_CutoutOverWindow(t *testing.T) {
	target := solid(20, 20, bitmap.White)
	win := New(solid(10, 10, bitmap.RGB(0x11, 0x22, 0x33)), bitmap.Pt(0, 0), nil)
	win.Map(target)
	underCursor := target.Clone()

	img := bitmap.FromPixels(2, 2, []bitmap.Pixel{
		bitmap.Black, bitmap.Clear,
		bitmap.Clear, bitmap.Black,
	})
	cur := NewCursor(img, bitmap.Pt(4, 4))
	cur.Map(target)

	assert.Equal(t, bitmap.Black, target.At(4, 4))
	assert.Equal(t, bitmap.RGB(0x11, 0x22, 0x33), target.At(5, 4))
	assert.Equal(t, bitmap.RGB(0x11, 0x22, 0x33), target.At(4, 5))
	assert.Equal(t, bitmap.Black, target.At(5, 5))

	cur.Move(target, bitmap.Pt(9, 9))
	assert.Equal(t, bitmap.RGB(0x11, 0x22, 0x33), target.At(4, 4))
	assert.Equal(t, bitmap.White, target.At(10, 9))

	cur.Unmap(target)
	assert.True(t, bitmap.Equal(underCursor, target))
}
