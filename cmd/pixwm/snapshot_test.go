package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/config"
)

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("12, 34")
	require.NoError(t, err)
	assert.Equal(t, bitmap.Pt(12, 34), p)

	for _, bad := range []string{"12", "a,1", "1,b", ""} {
		_, err := parsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestMoveFlags_KeepCommandLineOrder(t *testing.T) {
	var l moveList
	require.NoError(t, cursorMoves{&l}.Set("1,2"))
	require.NoError(t, windowMoves{&l}.Set("0:30,40"))
	require.NoError(t, cursorMoves{&l}.Set("3,4"))
	assert.Equal(t, moveList{
		{window: -1, to: bitmap.Pt(1, 2)},
		{window: 0, to: bitmap.Pt(30, 40)},
		{window: -1, to: bitmap.Pt(3, 4)},
	}, l)
	assert.Equal(t, "(1,2) 0:(30,40) (3,4)", l.String())

	assert.Error(t, windowMoves{&l}.Set("30,40"))
	assert.Error(t, windowMoves{&l}.Set("-1:30,40"))
}

func TestSnapshot_AppliesMovesAndWritesBMP(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendMemory
	cfg.Width, cfg.Height = 320, 240
	cfg.Windows = []config.WindowConfig{
		{X: 10, Y: 10, Width: 50, Height: 40, Color: "#ff0000"},
	}

	mem, frames, err := snapshot(cfg, []move{
		{window: -1, to: bitmap.Pt(0, 0)},
		{window: -1, to: bitmap.Pt(1000, 0)},
		{window: 0, to: bitmap.Pt(20, 20)},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), frames)
	assert.Equal(t, uint64(3), mem.Presents())

	surface := mem.Surface()
	// Arrow tip at the origin, window moved off (10,10), background elsewhere.
	assert.Equal(t, bitmap.Black, surface.At(0, 0))
	assert.Equal(t, bitmap.White, surface.At(15, 15))
	assert.Equal(t, bitmap.Hex(0xff0000), surface.At(30, 30))
	assert.Equal(t, bitmap.White, surface.At(300, 200))

	out := filepath.Join(t.TempDir(), "shot.bmp")
	require.NoError(t, writeBMP(out, surface))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	r, g, b, _ := img.At(30, 30).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b})
}
