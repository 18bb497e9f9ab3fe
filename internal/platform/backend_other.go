//go:build !linux

package platform

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/1broseidon/pixwm/internal/config"
)

func openNative(cfg *config.Config, _ *slog.Logger) (Backend, error) {
	return nil, fmt.Errorf("backend %q is not supported on %s", cfg.Backend, runtime.GOOS)
}
