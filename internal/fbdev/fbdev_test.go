package fbdev

import (
	"bytes"
	"os"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goodMode() (VarScreenInfo, FixScreenInfo) {
	v := VarScreenInfo{
		XRes: 1024, YRes: 768,
		XResVirtual: 1024, YResVirtual: 768,
		BitsPerPixel: 32,
		Blue:         Bitfield{Offset: 0, Length: 8},
		Green:        Bitfield{Offset: 8, Length: 8},
		Red:          Bitfield{Offset: 16, Length: 8},
	}
	f := FixScreenInfo{LineLength: 1024 * 4, SmemLen: 1024 * 768 * 4}
	copy(f.ID[:], "virtio_gpudrmfb")
	return v, f
}

func TestStructLayout(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layout checked for 64-bit kernels")
	}
	assert.Equal(t, uintptr(160), unsafe.Sizeof(VarScreenInfo{}))
	assert.Equal(t, uintptr(80), unsafe.Sizeof(FixScreenInfo{}))
	assert.Equal(t, uintptr(48), unsafe.Offsetof(FixScreenInfo{}.LineLength))
}

func TestValidate(t *testing.T) {
	v, f := goodMode()
	require.NoError(t, Validate(v, f))
	assert.Equal(t, "virtio_gpudrmfb", f.Name())
	assert.Equal(t, "1024x768-32", Mode(v))

	tests := []struct {
		name   string
		mutate func(*VarScreenInfo, *FixScreenInfo)
		reason string
	}{
		{"16 bpp", func(v *VarScreenInfo, _ *FixScreenInfo) { v.BitsPerPixel = 16 }, "16 bits per pixel"},
		{"rgb order", func(v *VarScreenInfo, _ *FixScreenInfo) {
			v.Red.Offset, v.Blue.Offset = 0, 16
		}, "channel offsets r=0 g=8 b=16"},
		{"padded rows", func(_ *VarScreenInfo, f *FixScreenInfo) { f.LineLength = 4352 }, "rows are padded"},
		{"zero size", func(v *VarScreenInfo, _ *FixScreenInfo) { v.YRes = 0 }, "zero resolution"},
		{"panned past memory", func(v *VarScreenInfo, _ *FixScreenInfo) { v.YOffset = 10 }, "exceeds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, f := goodMode()
			tt.mutate(&v, &f)
			err := Validate(v, f)
			var modeErr *ModeError
			require.ErrorAs(t, err, &modeErr)
			assert.Contains(t, modeErr.Reason, tt.reason)
		})
	}
}

func TestGuard_NotATerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	var out bytes.Buffer
	c, err := guard(r, &out)
	require.NoError(t, err)
	assert.False(t, c.Active())
	c.Restore()
	assert.Empty(t, out.String())

	select {
	case <-c.Quit():
		t.Fatal("quit closed without a terminal")
	default:
	}
}
