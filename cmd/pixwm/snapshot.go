package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/1broseidon/pixwm/internal/bitmap"
	"github.com/1broseidon/pixwm/internal/compositor"
	"github.com/1broseidon/pixwm/internal/config"
	"github.com/1broseidon/pixwm/internal/platform"
	"github.com/1broseidon/pixwm/internal/scene"
)

// move is one replayed step: the cursor when window is -1, otherwise the
// outer corner of that window.
type move struct {
	window int
	to     bitmap.Point
}

// moveList collects --move and --move-window flags in command-line order.
type moveList []move

func (l *moveList) String() string {
	parts := make([]string, len(*l))
	for i, m := range *l {
		if m.window < 0 {
			parts[i] = m.to.String()
		} else {
			parts[i] = fmt.Sprintf("%d:%s", m.window, m.to)
		}
	}
	return strings.Join(parts, " ")
}

type cursorMoves struct{ l *moveList }

func (f cursorMoves) String() string {
	if f.l == nil {
		return ""
	}
	return f.l.String()
}

func (f cursorMoves) Set(s string) error {
	p, err := parsePoint(s)
	if err != nil {
		return err
	}
	*f.l = append(*f.l, move{window: -1, to: p})
	return nil
}

type windowMoves struct{ l *moveList }

func (f windowMoves) String() string {
	if f.l == nil {
		return ""
	}
	return f.l.String()
}

func (f windowMoves) Set(s string) error {
	idx, pt, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("invalid window move %q: want I:X,Y", s)
	}
	i, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil || i < 0 {
		return fmt.Errorf("invalid window index in %q", s)
	}
	p, err := parsePoint(pt)
	if err != nil {
		return err
	}
	*f.l = append(*f.l, move{window: i, to: p})
	return nil
}

func parsePoint(s string) (bitmap.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return bitmap.Point{}, fmt.Errorf("invalid point %q: want X,Y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return bitmap.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return bitmap.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return bitmap.Pt(x, y), nil
}

func runSnapshot(args []string) int {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/pixwm/config.yaml)")
	out := fs.String("out", "pixwm.bmp", "Output BMP file")
	var moves moveList
	fs.Var(cursorMoves{&moves}, "move", "Move the cursor to X,Y (repeatable, applied in order)")
	fs.Var(windowMoves{&moves}, "move-window", "Move window I to X,Y, given as I:X,Y (repeatable)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pixwm snapshot [--config PATH] [--out FILE] [--move X,Y]... [--move-window I:X,Y]...")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Render the configured scene into memory, replay cursor moves and save the result.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	mem, frames, err := snapshot(res.Config, moves)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := writeBMP(*out, mem.Surface()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("wrote %s (%dx%d, %d frames)\n", *out, mem.Surface().Width(), mem.Surface().Height(), frames)
	return 0
}

// snapshot renders cfg on a memory backend and applies moves. Moves that
// would leave the surface are reported and skipped.
func snapshot(cfg *config.Config, moves []move) (*platform.Memory, uint64, error) {
	mem := platform.NewMemory(cfg.Width, cfg.Height)
	sc, err := scene.Build(cfg, cfg.Width, cfg.Height)
	if err != nil {
		return nil, 0, err
	}
	bg, err := cfg.BackgroundPixel()
	if err != nil {
		return nil, 0, err
	}
	if bg == nil {
		bg = &bitmap.White
	}
	comp, err := compositor.New(mem.Surface(), sc.Windows, sc.Cursor, compositor.Options{
		Background: bg,
		Carry:      sc.Carry,
		Presenter:  mem,
	})
	if err != nil {
		return nil, 0, err
	}
	if err := comp.Start(); err != nil {
		return nil, 0, err
	}
	for _, m := range moves {
		var err error
		if m.window < 0 {
			err = comp.MoveCursor(m.to)
		} else {
			err = comp.MoveWindow(m.window, m.to)
		}
		if errors.Is(err, compositor.ErrOutOfBounds) {
			fmt.Fprintf(os.Stderr, "skipping move: %v\n", err)
			continue
		}
		if err != nil {
			return nil, 0, err
		}
	}
	return mem, comp.Frames(), nil
}

func writeBMP(path string, s bitmap.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, bitmap.ToImage(s)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
