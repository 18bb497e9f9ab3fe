// Package fbdev maps a Linux framebuffer device as the root surface.
package fbdev

import (
	"fmt"

	"github.com/1broseidon/pixwm/internal/bitmap"
)

// ioctl requests from linux/fb.h.
const (
	ioctlGetVScreenInfo = 0x4600
	ioctlGetFScreenInfo = 0x4602
)

// Bitfield locates one colour channel inside a pixel.
type Bitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

// VarScreenInfo mirrors struct fb_var_screeninfo.
type VarScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp Bitfield
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	PixClock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync                     uint32
	VMode                    uint32
	Rotate                   uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// FixScreenInfo mirrors struct fb_fix_screeninfo.
type FixScreenInfo struct {
	ID           [16]byte
	SmemStart    uint64
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uint64
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// Name returns the driver identification string.
func (f FixScreenInfo) Name() string {
	n := 0
	for n < len(f.ID) && f.ID[n] != 0 {
		n++
	}
	return string(f.ID[:n])
}

// ModeError reports a video mode the compositor cannot draw into directly.
type ModeError struct {
	Reason string
}

func (e *ModeError) Error() string {
	return "unsupported framebuffer mode: " + e.Reason
}

// Validate checks that the mode stores pixels exactly like bitmap.Pixel,
// tightly packed, so the mapped memory can be used as a surface as is.
func Validate(v VarScreenInfo, f FixScreenInfo) error {
	if v.BitsPerPixel != 32 {
		return &ModeError{Reason: fmt.Sprintf("%d bits per pixel, need 32", v.BitsPerPixel)}
	}
	if v.Blue.Offset != 0 || v.Green.Offset != 8 || v.Red.Offset != 16 {
		return &ModeError{Reason: fmt.Sprintf("channel offsets r=%d g=%d b=%d, need r=16 g=8 b=0",
			v.Red.Offset, v.Green.Offset, v.Blue.Offset)}
	}
	if v.XRes == 0 || v.YRes == 0 {
		return &ModeError{Reason: "zero resolution"}
	}
	if f.LineLength != v.XRes*uint32(bitmap.PixelSize) {
		return &ModeError{Reason: fmt.Sprintf("line length %d for %d pixels, rows are padded", f.LineLength, v.XRes)}
	}
	if f.SmemLen != 0 && uint64(f.LineLength)*uint64(v.YOffset+v.YRes) > uint64(f.SmemLen) {
		return &ModeError{Reason: fmt.Sprintf("visible area exceeds %d bytes of video memory", f.SmemLen)}
	}
	return nil
}

// Mode is a short description of the current video mode.
func Mode(v VarScreenInfo) string {
	return fmt.Sprintf("%dx%d-%d", v.XRes, v.YRes, v.BitsPerPixel)
}
