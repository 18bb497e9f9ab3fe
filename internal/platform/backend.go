// Package platform opens the display target: a Linux framebuffer, an X11
// preview window or an in-memory surface.
package platform

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/config"
	"github.com/1broseidon/pixwm/internal/input"
)

// Backend provides the root surface and the pointer for one display target.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Surface is the root surface. It stays valid until Close.
	Surface() *bitmap.Bound
	// Present makes the current surface contents visible. Backends that
	// draw straight into video memory return nil.
	Present() error
	// Input opens the pointer source. start and bounds describe the cursor
	// position space so sources that report absolute positions can convert.
	Input(start bitmap.Point, bounds bitmap.Rect) (input.Source, error)
	// Done is closed when the user asks the backend to stop.
	Done() <-chan struct{}
	Close() error
}

// Open creates the backend selected by cfg.Backend.
func Open(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(cfg.Width, cfg.Height), nil
	case config.BackendFbdev, config.BackendX11:
		return openNative(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
