package evdev

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"strconv"
	"strings"
)

// DevicesPath lists the input devices known to the kernel.
const DevicesPath = "/proc/bus/input/devices"

// ErrNoMouse is returned when no device looks like a relative pointer.
var ErrNoMouse = errors.New("no mouse found")

// Device is one entry of /proc/bus/input/devices.
type Device struct {
	Name     string
	Handlers []string
	// Bitmaps maps a capability name (EV, KEY, REL, ABS, ...) to its words,
	// most significant word first as the kernel prints them.
	Bitmaps map[string][]uint64
}

// EventNode returns the device's eventN handler, or "" if it has none.
func (d Device) EventNode() string {
	for _, h := range d.Handlers {
		if strings.HasPrefix(h, "event") {
			return h
		}
	}
	return ""
}

// Path returns the /dev/input path of the event node.
func (d Device) Path() string {
	if node := d.EventNode(); node != "" {
		return "/dev/input/" + node
	}
	return ""
}

// HasBit reports whether capability bitmap name has bit set.
func (d Device) HasBit(name string, bit int) bool {
	words := d.Bitmaps[name]
	idx := len(words) - 1 - bit/bits.UintSize
	if idx < 0 {
		return false
	}
	return words[idx]>>(bit%bits.UintSize)&1 != 0
}

// IsMouse applies the udev heuristic: relative axes, no absolute axes and a
// mouse button.
func (d Device) IsMouse() bool {
	_, rel := d.Bitmaps["REL"]
	_, abs := d.Bitmaps["ABS"]
	return rel && !abs && d.HasBit("KEY", BtnMouse) && d.EventNode() != ""
}

// ParseDevices parses the format of /proc/bus/input/devices: blank-line
// separated blocks of "X: ..." lines.
func ParseDevices(r io.Reader) ([]Device, error) {
	var (
		devices []Device
		cur     *Device
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			cur = nil
			continue
		}
		if cur == nil {
			devices = append(devices, Device{Bitmaps: map[string][]uint64{}})
			cur = &devices[len(devices)-1]
		}
		kind, rest, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		switch kind {
		case "N":
			name, ok := strings.CutPrefix(rest, "Name=")
			if !ok {
				return nil, fmt.Errorf("parse devices: bad name line %q", line)
			}
			cur.Name = strings.Trim(name, `"`)
		case "H":
			handlers, ok := strings.CutPrefix(rest, "Handlers=")
			if !ok {
				return nil, fmt.Errorf("parse devices: bad handlers line %q", line)
			}
			cur.Handlers = strings.Fields(handlers)
		case "B":
			name, values, ok := strings.Cut(rest, "=")
			if !ok {
				return nil, fmt.Errorf("parse devices: bad bitmap line %q", line)
			}
			var words []uint64
			for _, f := range strings.Fields(values) {
				w, err := strconv.ParseUint(f, 16, 64)
				if err != nil {
					return nil, fmt.Errorf("parse devices: bitmap %s: %w", name, err)
				}
				words = append(words, w)
			}
			cur.Bitmaps[name] = words
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse devices: %w", err)
	}
	return devices, nil
}

// List reads the kernel's input device list.
func List() ([]Device, error) {
	f, err := os.Open(DevicesPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseDevices(f)
}

// FindMouse returns the first device that looks like a mouse.
func FindMouse(devices []Device) (Device, error) {
	for _, d := range devices {
		if d.IsMouse() {
			return d, nil
		}
	}
	return Device{}, ErrNoMouse
}

// Resolve turns a configured mouse setting into a device path. "auto" and
// "" pick the first mouse from the kernel's device list.
func Resolve(setting string) (string, error) {
	if setting != "" && setting != "auto" {
		return setting, nil
	}
	devices, err := List()
	if err != nil {
		return "", fmt.Errorf("list input devices: %w", err)
	}
	d, err := FindMouse(devices)
	if err != nil {
		return "", err
	}
	return d.Path(), nil
}
