package x11

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/pixwm/internal/bitmap"
)

// PreviewConfig holds configuration for the preview window.
type PreviewConfig struct {
	Width, Height int
	Title         string
	// QuitKey is a keybind sequence such as "q" or "Control-q". Empty
	// disables the hotkey; closing the window always quits.
	QuitKey string
	Logger  *slog.Logger
}

// Preview is a fixed-size window showing an xgraphics image. The image's
// BGRA pixel buffer is the root surface, so drawing needs no conversion.
type Preview struct {
	conn    *Connection
	win     *xwindow.Window
	img     *xgraphics.Image
	surface *bitmap.Bound
	logger  *slog.Logger

	quit     chan struct{}
	quitOnce sync.Once

	mu      sync.Mutex
	pointer *Pointer
}

// NewPreview creates and maps the preview window, centred on the monitor
// under the host pointer.
func NewPreview(conn *Connection, cfg PreviewConfig) (*Preview, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", cfg.Width, cfg.Height)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	xu := conn.XUtil

	img := xgraphics.New(xu, image.Rect(0, 0, cfg.Width, cfg.Height))
	win, err := xwindow.Generate(xu)
	if err != nil {
		return nil, fmt.Errorf("failed to generate window id: %w", err)
	}

	x, y := 0, 0
	if mon, err := conn.PointerMonitor(); err == nil {
		x, y = centerOn(mon, cfg.Width, cfg.Height)
	} else {
		logger.Debug("monitor lookup failed, placing preview at origin", "error", err)
	}
	if err := win.CreateChecked(conn.Root, x, y, cfg.Width, cfg.Height, 0); err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	p := &Preview{
		conn:    conn,
		win:     win,
		img:     img,
		surface: bitmap.BindBytes(cfg.Width, cfg.Height, img.Pix),
		logger:  logger,
		quit:    make(chan struct{}),
	}
	mapped := false
	defer func() {
		if !mapped {
			p.release()
		}
	}()

	if err := win.Listen(
		xproto.EventMaskPointerMotion,
		xproto.EventMaskButtonPress,
		xproto.EventMaskButtonRelease,
		xproto.EventMaskKeyPress,
		xproto.EventMaskExposure,
		xproto.EventMaskStructureNotify,
	); err != nil {
		return nil, fmt.Errorf("failed to listen for events: %w", err)
	}

	title := cfg.Title
	if title == "" {
		title = "pixwm"
	}
	if err := ewmh.WmNameSet(xu, win.Id, title); err != nil {
		logger.Debug("failed to set window title", "error", err)
	}
	// Fixed size: the surface cannot be reallocated under the compositor.
	if err := icccm.WmNormalHintsSet(xu, win.Id, &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		MinWidth:  uint(cfg.Width),
		MinHeight: uint(cfg.Height),
		MaxWidth:  uint(cfg.Width),
		MaxHeight: uint(cfg.Height),
	}); err != nil {
		logger.Debug("failed to set size hints", "error", err)
	}

	win.WMGracefulClose(func(w *xwindow.Window) {
		logger.Info("preview window closed")
		p.requestQuit()
	})
	xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			p.img.XPaint(p.win.Id)
		}
	}).Connect(xu, win.Id)

	if cfg.QuitKey != "" {
		configureIgnoreMods(xu)
		if err := bindQuit(xu, win.Id, cfg.QuitKey, p.requestQuit); err != nil {
			return nil, fmt.Errorf("failed to bind quit key %q: %w", cfg.QuitKey, err)
		}
	}

	if err := img.XSurfaceSet(win.Id); err != nil {
		return nil, fmt.Errorf("failed to create pixmap: %w", err)
	}
	win.Map()
	mapped = true
	return p, nil
}

func (p *Preview) requestQuit() {
	p.quitOnce.Do(func() {
		close(p.quit)
		p.mu.Lock()
		if p.pointer != nil {
			p.pointer.close()
		}
		p.mu.Unlock()
	})
}

// Surface returns the image's pixels as the root surface.
func (p *Preview) Surface() *bitmap.Bound { return p.surface }

// Present uploads the image and shows it.
func (p *Preview) Present() error {
	if err := p.img.XDrawChecked(); err != nil {
		return fmt.Errorf("upload image: %w", err)
	}
	p.img.XPaint(p.win.Id)
	return nil
}

// Quit is closed when the window is closed or the quit key is pressed.
func (p *Preview) Quit() <-chan struct{} { return p.quit }

// Pointer returns an input source following the host pointer over the
// window. Motion is reported relative to start and clamped to bounds.
func (p *Preview) Pointer(start bitmap.Point, bounds bitmap.Rect) *Pointer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pointer != nil {
		return p.pointer
	}
	ptr := newPointer(start, bounds)
	p.pointer = ptr
	select {
	case <-p.quit:
		ptr.close()
	default:
	}

	xu := p.conn.XUtil
	xevent.MotionNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		if mv, ok := ptr.track.motion(int(ev.EventX), int(ev.EventY)); ok {
			ptr.push(mv)
		}
	}).Connect(xu, p.win.Id)
	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if e, ok := buttonEvent(uint8(ev.Detail), true); ok {
			ptr.push(e)
		}
	}).Connect(xu, p.win.Id)
	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if e, ok := buttonEvent(uint8(ev.Detail), false); ok {
			ptr.push(e)
		}
	}).Connect(xu, p.win.Id)
	return ptr
}

// Run processes X events until the connection is closed.
func (p *Preview) Run() {
	p.conn.EventLoop()
}

// Close destroys the window and its pixmap. The surface must not be used
// afterwards.
func (p *Preview) Close() {
	p.requestQuit()
	p.release()
}

func (p *Preview) release() {
	xevent.Detach(p.conn.XUtil, p.win.Id)
	keybind.Detach(p.conn.XUtil, p.win.Id)
	p.img.Destroy()
	p.win.Destroy()
}
