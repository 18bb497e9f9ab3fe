// Package x11 shows the root surface in a window on an X server and feeds
// the host pointer back in as an input source. It stands in for the
// framebuffer when developing under a desktop session.
package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// previewDepth is the only root depth the preview can show. xgraphics
// uploads its BGRA buffer as a 24-bit ZPixmap, and that buffer is the
// compositor's root surface.
const previewDepth = 24

// Connection is an X connection checked for a usable visual, with
// keybind and RandR set up once for every preview opened on it.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	// randrErr is why monitor lookup is unavailable, nil when it works.
	randrErr  error
	closeOnce sync.Once
}

// NewConnection connects to the server named by $DISPLAY. It fails when
// the root depth cannot carry the BGRA surface unconverted. A server
// without RandR is accepted; the preview is then placed at the origin.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := checkDepth(xu.Screen().RootDepth); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	// The preview's quit hotkey needs the keyboard mapping.
	keybind.Initialize(xu)

	c := &Connection{XUtil: xu, Root: xu.RootWin()}
	if err := randr.Init(xu.Conn()); err != nil {
		c.randrErr = fmt.Errorf("randr unavailable: %w", err)
	}
	return c, nil
}

func checkDepth(depth byte) error {
	if depth != previewDepth {
		return fmt.Errorf("root window depth is %d bits, the preview needs %d", depth, previewDepth)
	}
	return nil
}

// EventLoop dispatches X events until Close. It blocks.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Close stops the event loop and disconnects. It is safe to call more than
// once, since both the preview's quit path and backend teardown reach it.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		xevent.Quit(c.XUtil)
		c.XUtil.Conn().Close()
	})
}
