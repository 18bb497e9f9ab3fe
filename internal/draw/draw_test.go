package draw

import (
	"math/rand"
	"testing"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBitMap(r *rand.Rand, w, h int) *bitmap.BitMap {
	b := bitmap.New(w, h)
	for i := range b.Pix() {
		b.Pix()[i] = bitmap.Pixel{
			B:    uint8(r.Intn(256)),
			G:    uint8(r.Intn(256)),
			R:    uint8(r.Intn(256)),
			Flag: uint8(r.Intn(256)),
		}
	}
	return b
}

func TestExtractBlit_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		w, h := 1+r.Intn(40), 1+r.Intn(40)
		orig := randomBitMap(r, w, h)
		x, y := r.Intn(w), r.Intn(h)
		rw, rh := r.Intn(w-x+1), r.Intn(h-y+1)

		work := orig.Clone()
		part := Extract(work, x, y, rw, rh)
		require.Equal(t, rw, part.Width())
		require.Equal(t, rh, part.Height())

		// Scribble over the region, then put the extracted copy back.
		Rect(work, x, y, rw, rh, bitmap.Pixel{R: 1})
		Blit(part, work, x, y)
		require.True(t, bitmap.Equal(orig, work), "case %d: %dx%d at (%d,%d) in %dx%d", i, rw, rh, x, y, w, h)
	}
}

func TestExtract_CopiesRows(t *testing.T) {
	src := bitmap.New(4, 3)
	for i := range src.Pix() {
		src.Pix()[i] = bitmap.Pixel{B: uint8(i)}
	}
	out := Extract(src, 1, 1, 2, 2)
	got := make([]uint8, 0, 4)
	for _, p := range out.Pix() {
		got = append(got, p.B)
	}
	assert.Equal(t, []uint8{5, 6, 9, 10}, got)

	// The copy is owned.
	out.Pix()[0] = bitmap.White
	assert.Equal(t, uint8(5), src.At(1, 1).B)
}

func TestExtract_OutOfBoundsPanics(t *testing.T) {
	src := bitmap.New(10, 10)
	assert.PanicsWithError(t, "draw: extract 5x1+6+0 outside surface 10x10", func() {
		Extract(src, 6, 0, 5, 1)
	})
	assert.Panics(t, func() { Extract(src, 0, 9, 1, 2) })
	assert.Panics(t, func() { Extract(src, -1, 0, 1, 1) })
}

func TestBlit_OutOfBoundsPanics(t *testing.T) {
	dst := bitmap.New(10, 10)
	src := bitmap.New(3, 3)
	assert.Panics(t, func() { Blit(src, dst, 8, 0) })
	assert.Panics(t, func() { BlitCutout(src, dst, 0, 8) })
	assert.NotPanics(t, func() { Blit(src, dst, 7, 7) })

	defer func() {
		err, ok := recover().(*BoundsError)
		require.True(t, ok)
		assert.Equal(t, "blit", err.Op)
		assert.Equal(t, bitmap.Rect{X: 9, Y: 9, W: 3, H: 3}, err.Rect)
	}()
	Blit(src, dst, 9, 9)
}

func TestBlitCutout_NeverWritesTransparent(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		w, h := 1+r.Intn(30), 1+r.Intn(30)
		dst := randomBitMap(r, w, h)
		src := randomBitMap(r, 1+r.Intn(w), 1+r.Intn(h))
		// Make roughly half of the source transparent.
		for j := range src.Pix() {
			if r.Intn(2) == 0 {
				src.Pix()[j].Flag = bitmap.Transparent
			}
		}
		x, y := r.Intn(w-src.Width()+1), r.Intn(h-src.Height()+1)
		before := dst.Clone()

		BlitCutout(src, dst, x, y)

		for dy := 0; dy < h; dy++ {
			for dx := 0; dx < w; dx++ {
				sx, sy := dx-x, dy-y
				inside := sx >= 0 && sy >= 0 && sx < src.Width() && sy < src.Height()
				switch {
				case !inside:
					require.Equal(t, before.At(dx, dy), dst.At(dx, dy))
				case src.At(sx, sy).IsTransparent():
					require.Equal(t, before.At(dx, dy), dst.At(dx, dy))
				default:
					require.Equal(t, src.At(sx, sy), dst.At(dx, dy))
				}
			}
		}
	}
}

func TestFill(t *testing.T) {
	b := bitmap.New(5, 4)
	Fill(b, bitmap.White)
	for _, p := range b.Pix() {
		require.Equal(t, bitmap.White, p)
	}
}

func TestRect_OnlyTouchesRegion(t *testing.T) {
	b := bitmap.New(6, 6)
	red := bitmap.RGB(0xff, 0, 0)
	Rect(b, 1, 2, 3, 2, red)
	region := bitmap.Rect{X: 1, Y: 2, W: 3, H: 2}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			want := bitmap.Black
			if region.Contains(bitmap.Pt(x, y)) {
				want = red
			}
			assert.Equal(t, want, b.At(x, y), "(%d,%d)", x, y)
		}
	}
}

func render(b *bitmap.BitMap) []string {
	rows := make([]string, b.Height())
	for y := range rows {
		line := make([]byte, b.Width())
		for x := range line {
			line[x] = '.'
			if b.At(x, y) == bitmap.White {
				line[x] = '#'
			}
		}
		rows[y] = string(line)
	}
	return rows
}

func TestRectStroke(t *testing.T) {
	b := bitmap.New(7, 6)
	RectStroke(b, 1, 1, 5, 4, bitmap.White, 1)
	assert.Equal(t, []string{
		".......",
		".#####.",
		".#...#.",
		".#...#.",
		".#####.",
		".......",
	}, render(b))
}

func TestRectStroke_ThickBandsCoverSmallRect(t *testing.T) {
	b := bitmap.New(4, 4)
	RectStroke(b, 0, 0, 3, 3, bitmap.White, 2)
	assert.Equal(t, []string{
		"###.",
		"###.",
		"###.",
		"....",
	}, render(b))
}

func TestRectBorder_DrawsOutside(t *testing.T) {
	b := bitmap.New(7, 6)
	RectBorder(b, 2, 2, 3, 2, bitmap.White, 1)
	assert.Equal(t, []string{
		".......",
		".#####.",
		".#...#.",
		".#...#.",
		".#####.",
		".......",
	}, render(b))

	assert.Panics(t, func() { RectBorder(b, 0, 0, 2, 2, bitmap.White, 1) })
}
