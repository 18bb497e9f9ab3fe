//go:build linux

package platform

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/config"
	"github.com/1broseidon/pixwm/internal/evdev"
	"github.com/1broseidon/pixwm/internal/fbdev"
	"github.com/1broseidon/pixwm/internal/input"
	"github.com/1broseidon/pixwm/internal/x11"
)

func openNative(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.BackendFbdev:
		return NewFramebuffer(cfg.Framebuffer, cfg.Mouse, logger)
	case config.BackendX11:
		return NewX11(x11.PreviewConfig{
			Width:   cfg.Width,
			Height:  cfg.Height,
			Title:   "pixwm",
			QuitKey: cfg.X11.QuitHotkey,
			Logger:  logger,
		})
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Framebuffer draws into a Linux framebuffer and reads an evdev mouse.
type Framebuffer struct {
	dev     *fbdev.Device
	console *fbdev.Console
	mouse   *evdev.Mouse
	setting string
	logger  *slog.Logger
}

var _ Backend = (*Framebuffer)(nil)

// NewFramebuffer maps the framebuffer at path and takes over the console.
// mouse is an event device path or "auto"; it is opened by Input.
func NewFramebuffer(path, mouse string, logger *slog.Logger) (*Framebuffer, error) {
	dev, err := fbdev.Open(path)
	if err != nil {
		return nil, err
	}
	console, err := fbdev.GuardConsole()
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("console: %w", err)
	}
	logger.Info("framebuffer opened",
		"path", path,
		"id", dev.FixInfo().Name(),
		"mode", fbdev.Mode(dev.VarInfo()),
		"console", console.Active())
	return &Framebuffer{dev: dev, console: console, setting: mouse, logger: logger}, nil
}

func (b *Framebuffer) Name() string { return "fbdev" }

func (b *Framebuffer) Surface() *bitmap.Bound { return b.dev.Surface() }

// Present is a no-op: the surface is video memory.
func (b *Framebuffer) Present() error { return nil }

func (b *Framebuffer) Input(bitmap.Point, bitmap.Rect) (input.Source, error) {
	if b.mouse != nil {
		return b.mouse, nil
	}
	path, err := evdev.Resolve(b.setting)
	if err != nil {
		return nil, err
	}
	m, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	b.logger.Info("mouse opened", "path", path)
	b.mouse = m
	return m, nil
}

func (b *Framebuffer) Done() <-chan struct{} { return b.console.Quit() }

// Close releases the mouse, the console and the mapping, in that order.
func (b *Framebuffer) Close() error {
	if b.mouse != nil {
		b.mouse.Close()
	}
	b.console.Restore()
	return b.dev.Close()
}

// X11 shows the surface in a preview window.
type X11 struct {
	conn    *x11.Connection
	preview *x11.Preview
}

var _ Backend = (*X11)(nil)

// NewX11 connects to the X server named by $DISPLAY and maps the preview
// window. Events are processed on a background goroutine.
func NewX11(cfg x11.PreviewConfig) (*X11, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	preview, err := x11.NewPreview(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	go preview.Run()
	return &X11{conn: conn, preview: preview}, nil
}

func (b *X11) Name() string { return "x11" }

func (b *X11) Surface() *bitmap.Bound { return b.preview.Surface() }

func (b *X11) Present() error { return b.preview.Present() }

func (b *X11) Input(start bitmap.Point, bounds bitmap.Rect) (input.Source, error) {
	return b.preview.Pointer(start, bounds), nil
}

func (b *X11) Done() <-chan struct{} { return b.preview.Quit() }

func (b *X11) Close() error {
	b.preview.Close()
	b.conn.Close()
	return nil
}
