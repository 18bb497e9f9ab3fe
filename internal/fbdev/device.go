//go:build linux

package fbdev

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/1broseidon/pixwm/internal/bitmap"
)

// DefaultPath is the first framebuffer device.
const DefaultPath = "/dev/fb0"

// Device is an open, memory-mapped framebuffer.
type Device struct {
	f       *os.File
	path    string
	vinfo   VarScreenInfo
	finfo   FixScreenInfo
	mem     []byte
	surface *bitmap.Bound
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Open opens the framebuffer at path, checks its mode and maps the visible
// area.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer: %w", err)
	}
	d := &Device{f: f, path: path}
	if err := d.init(); err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) init() error {
	fd := d.f.Fd()
	if err := ioctl(fd, ioctlGetVScreenInfo, unsafe.Pointer(&d.vinfo)); err != nil {
		return fmt.Errorf("get variable screen info: %w", err)
	}
	if err := ioctl(fd, ioctlGetFScreenInfo, unsafe.Pointer(&d.finfo)); err != nil {
		return fmt.Errorf("get fixed screen info: %w", err)
	}
	if err := Validate(d.vinfo, d.finfo); err != nil {
		return err
	}

	// mmap offsets must be page aligned, so map from the start of video
	// memory and slice out the visible rows.
	start := int(d.vinfo.YOffset) * int(d.finfo.LineLength)
	size := int(d.vinfo.YRes) * int(d.finfo.LineLength)
	mem, err := unix.Mmap(int(fd), 0, start+size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("map framebuffer: %w", err)
	}
	d.mem = mem
	d.surface = bitmap.BindBytes(int(d.vinfo.XRes), int(d.vinfo.YRes), mem[start:start+size])
	return nil
}

// Surface returns the visible area as a root surface. It stays valid until
// Close.
func (d *Device) Surface() *bitmap.Bound { return d.surface }

// VarInfo returns the variable screen information read at Open.
func (d *Device) VarInfo() VarScreenInfo { return d.vinfo }

// FixInfo returns the fixed screen information read at Open.
func (d *Device) FixInfo() FixScreenInfo { return d.finfo }

// Path returns the device path.
func (d *Device) Path() string { return d.path }

// Close unmaps video memory and closes the device. The surface must not be
// used afterwards.
func (d *Device) Close() error {
	var err error
	if d.mem != nil {
		err = unix.Munmap(d.mem)
		d.mem = nil
		d.surface = nil
	}
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	return err
}
