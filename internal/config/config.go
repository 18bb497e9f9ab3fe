package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/pixwm/internal/bitmap"
)

// Backend selects where the root surface and pointer come from.
type Backend string

const (
	BackendFbdev  Backend = "fbdev"  // Linux framebuffer plus evdev mouse.
	BackendX11    Backend = "x11"    // Preview window on an X server.
	BackendMemory Backend = "memory" // Headless, no input.
)

// NoCarry disables carrying a window with the pointer.
const NoCarry = -1

// DecorationConfig styles the frame of decorated windows.
type DecorationConfig struct {
	Border      int    `yaml:"border"`
	TitleHeight int    `yaml:"title_height"`
	BorderColor string `yaml:"border_color"`
	TitleColor  string `yaml:"title_color"`
}

// WindowConfig places one window. Windows are stacked in list order, the
// first at the bottom.
type WindowConfig struct {
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Color     string `yaml:"color"`
	Decorated bool   `yaml:"decorated"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
	// File is the log file path (empty: stderr)
	File string `yaml:"file,omitempty"`
}

// X11Config configures the preview backend.
type X11Config struct {
	// QuitHotkey closes the preview, e.g. "q" or "Control-q". Empty disables it.
	QuitHotkey string `yaml:"quit_hotkey"`
}

// Config is the effective configuration.
type Config struct {
	Backend     Backend `yaml:"backend"`
	Framebuffer string  `yaml:"framebuffer"`
	// Mouse is an event device path or "auto".
	Mouse string `yaml:"mouse"`
	// Cursor is a ppf file; empty selects the built-in arrow.
	Cursor string `yaml:"cursor"`
	// Background fills the root surface at startup; empty keeps what the
	// device shows.
	Background string `yaml:"background"`
	// Width and Height size the memory and x11 surfaces. The framebuffer
	// always uses the device resolution.
	Width          int              `yaml:"width"`
	Height         int              `yaml:"height"`
	PollIntervalMs int              `yaml:"poll_interval_ms"`
	CarryWindow    int              `yaml:"carry_window"`
	Decoration     DecorationConfig `yaml:"decoration"`
	Windows        []WindowConfig   `yaml:"windows"`
	Logging        LoggingConfig    `yaml:"logging"`
	X11            X11Config        `yaml:"x11"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:        BackendFbdev,
		Framebuffer:    "/dev/fb0",
		Mouse:          "auto",
		Background:     "#ffffff",
		Width:          640,
		Height:         480,
		PollIntervalMs: 50,
		CarryWindow:    NoCarry,
		Decoration: DecorationConfig{
			Border:      2,
			TitleHeight: 18,
			BorderColor: "#2c3e50",
			TitleColor:  "#3498db",
		},
		Windows: []WindowConfig{
			{X: 100, Y: 100, Width: 200, Height: 150, Color: "#ecf0f1", Decorated: true},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		X11: X11Config{
			QuitHotkey: "q",
		},
	}
}

// DefaultConfigPath returns ~/.config/pixwm/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "pixwm", "config.yaml"), nil
}

// PollInterval returns the input readiness wait cap.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// BackgroundPixel returns the startup fill, or nil to keep the device
// contents.
func (c *Config) BackgroundPixel() (*bitmap.Pixel, error) {
	if strings.TrimSpace(c.Background) == "" {
		return nil, nil
	}
	px, err := bitmap.ParseHex(c.Background)
	if err != nil {
		return nil, err
	}
	return &px, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFbdev, BackendX11, BackendMemory:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: fbdev, x11, memory")}
	}
	if c.Backend == BackendFbdev && strings.TrimSpace(c.Framebuffer) == "" {
		return &ValidationError{Path: "framebuffer", Err: fmt.Errorf("framebuffer is required for the fbdev backend")}
	}
	if strings.TrimSpace(c.Mouse) == "" {
		return &ValidationError{Path: "mouse", Err: fmt.Errorf("mouse must be a device path or \"auto\"")}
	}
	if c.Width <= 0 || c.Height <= 0 {
		return &ValidationError{Path: "width", Err: fmt.Errorf("width and height must be > 0")}
	}
	if c.PollIntervalMs <= 0 {
		return &ValidationError{Path: "poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be > 0")}
	}
	if _, err := c.BackgroundPixel(); err != nil {
		return &ValidationError{Path: "background", Err: err}
	}

	d := c.Decoration
	if d.Border < 0 {
		return &ValidationError{Path: "decoration.border", Err: fmt.Errorf("border must be >= 0")}
	}
	if d.TitleHeight < d.Border {
		return &ValidationError{Path: "decoration.title_height", Err: fmt.Errorf("title_height must be >= border")}
	}
	if _, err := bitmap.ParseHex(d.BorderColor); err != nil {
		return &ValidationError{Path: "decoration.border_color", Err: err}
	}
	if _, err := bitmap.ParseHex(d.TitleColor); err != nil {
		return &ValidationError{Path: "decoration.title_color", Err: err}
	}

	for i, w := range c.Windows {
		path := fmt.Sprintf("windows[%d]", i)
		if w.Width <= 0 || w.Height <= 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("width and height must be > 0")}
		}
		if w.X < 0 || w.Y < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("x and y must be >= 0")}
		}
		if _, err := bitmap.ParseHex(w.Color); err != nil {
			return &ValidationError{Path: path + ".color", Err: err}
		}
	}
	if c.CarryWindow < NoCarry || c.CarryWindow >= len(c.Windows) {
		return &ValidationError{Path: "carry_window", Err: fmt.Errorf("carry_window must be -1 or a window index below %d", len(c.Windows))}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: text, json")}
	}
	return nil
}
