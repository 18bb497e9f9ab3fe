package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor is one active CRTC in root window coordinates.
type Monitor struct {
	Name          string
	X, Y          int
	Width, Height int
}

// Contains reports whether the root coordinate (x, y) is on the monitor.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Monitors lists the enabled CRTCs via RandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	if c.randrErr != nil {
		return nil, c.randrErr
	}
	xc := c.XUtil.Conn()
	res, err := randr.GetScreenResources(xc, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var out []Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(xc, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		m := Monitor{
			Name:   fmt.Sprintf("crtc%d", i),
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}
		if o, err := randr.GetOutputInfo(xc, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			m.Name = string(o.Name)
		}
		out = append(out, m)
	}
	return out, nil
}

// PointerMonitor returns the monitor under the host pointer, falling back
// to the first monitor.
func (c *Connection) PointerMonitor() (Monitor, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	if ptr, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		for _, m := range monitors {
			if m.Contains(int(ptr.RootX), int(ptr.RootY)) {
				return m, nil
			}
		}
	}
	return monitors[0], nil
}

// centerOn returns the top-left corner that centres a w×h window on mon,
// pinned to the monitor's top-left when the window is larger.
func centerOn(mon Monitor, w, h int) (int, int) {
	x := mon.X + max(0, (mon.Width-w)/2)
	y := mon.Y + max(0, (mon.Height-h)/2)
	return x, y
}
