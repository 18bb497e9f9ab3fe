// Package scene turns the configured window list and cursor asset into the
// objects the compositor stacks.
package scene

import (
	_ "embed"
	"fmt"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/config"
	"github.com/1broseidon/pixwm/internal/draw"
	"github.com/1broseidon/pixwm/internal/ppf"
	"github.com/1broseidon/pixwm/internal/window"
)

//go:embed arrow.ppf
var arrowPPF string

// Scene is everything the compositor needs besides the root surface.
type Scene struct {
	Windows []*window.Window
	Cursor  *window.Cursor
	Carry   int
}

// Arrow returns the built-in pointer image.
func Arrow() *bitmap.BitMap {
	bm, err := ppf.DecodeString(arrowPPF)
	if err != nil {
		panic(fmt.Sprintf("scene: built-in arrow: %v", err))
	}
	return bm
}

// LoadCursor loads the configured pointer image, or the built-in arrow when
// path is empty.
func LoadCursor(path string) (*bitmap.BitMap, error) {
	if path == "" {
		return Arrow(), nil
	}
	bm, err := ppf.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}
	return bm, nil
}

// Decoration converts the configured frame style.
func Decoration(cfg config.DecorationConfig) (window.Decoration, error) {
	border, err := bitmap.ParseHex(cfg.BorderColor)
	if err != nil {
		return window.Decoration{}, fmt.Errorf("decoration.border_color: %w", err)
	}
	title, err := bitmap.ParseHex(cfg.TitleColor)
	if err != nil {
		return window.Decoration{}, fmt.Errorf("decoration.title_color: %w", err)
	}
	return window.Decoration{
		Border:      cfg.Border,
		TitleHeight: cfg.TitleHeight,
		BorderColor: border,
		TitleColor:  title,
	}, nil
}

// Build creates the windows in stacking order and a cursor centred on a
// root of the given size.
func Build(cfg *config.Config, rootW, rootH int) (*Scene, error) {
	style, err := Decoration(cfg.Decoration)
	if err != nil {
		return nil, err
	}

	windows := make([]*window.Window, 0, len(cfg.Windows))
	for i, wc := range cfg.Windows {
		px, err := bitmap.ParseHex(wc.Color)
		if err != nil {
			return nil, fmt.Errorf("windows[%d]: %w", i, err)
		}
		content := bitmap.New(wc.Width, wc.Height)
		draw.Fill(content, px)

		var s *window.Decoration
		if wc.Decorated {
			s = &style
		}
		windows = append(windows, window.New(content, bitmap.Pt(wc.X, wc.Y), s))
	}

	img, err := LoadCursor(cfg.Cursor)
	if err != nil {
		return nil, err
	}
	start := bitmap.Pt(
		max(0, (rootW-img.Width())/2),
		max(0, (rootH-img.Height())/2),
	)

	return &Scene{
		Windows: windows,
		Cursor:  window.NewCursor(img, start),
		Carry:   cfg.CarryWindow,
	}, nil
}
