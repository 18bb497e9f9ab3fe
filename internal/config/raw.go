package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawDecoration struct {
	Border      *int    `yaml:"border"`
	TitleHeight *int    `yaml:"title_height"`
	BorderColor *string `yaml:"border_color"`
	TitleColor  *string `yaml:"title_color"`
}

type RawLoggingConfig struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	File   *string `yaml:"file"`
}

type RawX11Config struct {
	QuitHotkey *string `yaml:"quit_hotkey"`
}

// RawConfig is one file as written: every field is optional so that
// layered files only override what they set.
type RawConfig struct {
	Include        IncludeList       `yaml:"include"`
	Backend        *Backend          `yaml:"backend"`
	Framebuffer    *string           `yaml:"framebuffer"`
	Mouse          *string           `yaml:"mouse"`
	Cursor         *string           `yaml:"cursor"`
	Background     *string           `yaml:"background"`
	Width          *int              `yaml:"width"`
	Height         *int              `yaml:"height"`
	PollIntervalMs *int              `yaml:"poll_interval_ms"`
	CarryWindow    *int              `yaml:"carry_window"`
	Decoration     *RawDecoration    `yaml:"decoration"`
	Windows        *[]WindowConfig   `yaml:"windows"`
	Logging        *RawLoggingConfig `yaml:"logging"`
	X11            *RawX11Config     `yaml:"x11"`
}

func overlay[T any](base, top *T) *T {
	if top != nil {
		return top
	}
	return base
}

func (c RawConfig) merge(top RawConfig) RawConfig {
	out := c
	out.Include = nil

	out.Backend = overlay(c.Backend, top.Backend)
	out.Framebuffer = overlay(c.Framebuffer, top.Framebuffer)
	out.Mouse = overlay(c.Mouse, top.Mouse)
	out.Cursor = overlay(c.Cursor, top.Cursor)
	out.Background = overlay(c.Background, top.Background)
	out.Width = overlay(c.Width, top.Width)
	out.Height = overlay(c.Height, top.Height)
	out.PollIntervalMs = overlay(c.PollIntervalMs, top.PollIntervalMs)
	out.CarryWindow = overlay(c.CarryWindow, top.CarryWindow)
	// A window list replaces the previous one as a whole.
	out.Windows = overlay(c.Windows, top.Windows)

	if top.Decoration != nil {
		d := RawDecoration{}
		if c.Decoration != nil {
			d = *c.Decoration
		}
		d.Border = overlay(d.Border, top.Decoration.Border)
		d.TitleHeight = overlay(d.TitleHeight, top.Decoration.TitleHeight)
		d.BorderColor = overlay(d.BorderColor, top.Decoration.BorderColor)
		d.TitleColor = overlay(d.TitleColor, top.Decoration.TitleColor)
		out.Decoration = &d
	}
	if top.Logging != nil {
		l := RawLoggingConfig{}
		if c.Logging != nil {
			l = *c.Logging
		}
		l.Level = overlay(l.Level, top.Logging.Level)
		l.Format = overlay(l.Format, top.Logging.Format)
		l.File = overlay(l.File, top.Logging.File)
		out.Logging = &l
	}
	if top.X11 != nil {
		x := RawX11Config{}
		if c.X11 != nil {
			x = *c.X11
		}
		x.QuitHotkey = overlay(x.QuitHotkey, top.X11.QuitHotkey)
		out.X11 = &x
	}
	return out
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	set(&cfg.Backend, raw.Backend)
	set(&cfg.Framebuffer, raw.Framebuffer)
	set(&cfg.Mouse, raw.Mouse)
	set(&cfg.Cursor, raw.Cursor)
	set(&cfg.Background, raw.Background)
	set(&cfg.Width, raw.Width)
	set(&cfg.Height, raw.Height)
	set(&cfg.PollIntervalMs, raw.PollIntervalMs)
	set(&cfg.CarryWindow, raw.CarryWindow)
	set(&cfg.Windows, raw.Windows)

	if d := raw.Decoration; d != nil {
		set(&cfg.Decoration.Border, d.Border)
		set(&cfg.Decoration.TitleHeight, d.TitleHeight)
		set(&cfg.Decoration.BorderColor, d.BorderColor)
		set(&cfg.Decoration.TitleColor, d.TitleColor)
	}
	if l := raw.Logging; l != nil {
		set(&cfg.Logging.Level, l.Level)
		set(&cfg.Logging.Format, l.Format)
		set(&cfg.Logging.File, l.File)
	}
	if x := raw.X11; x != nil {
		set(&cfg.X11.QuitHotkey, x.QuitHotkey)
	}
	return cfg
}
