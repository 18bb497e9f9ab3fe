package fbdev

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Console keeps the text console from drawing over the framebuffer while
// the compositor owns it: input is switched to raw mode so keys do not
// echo, and the text cursor is hidden.
type Console struct {
	in       *os.File
	out      io.Writer
	oldState *term.State
	quit     chan struct{}
}

// GuardConsole takes over the controlling terminal. If stdin is not a
// terminal the returned Console does nothing.
func GuardConsole() (*Console, error) {
	return guard(os.Stdin, os.Stdout)
}

func guard(in *os.File, out io.Writer) (*Console, error) {
	c := &Console{in: in, out: out, quit: make(chan struct{})}
	if !term.IsTerminal(int(in.Fd())) {
		return c, nil
	}
	oldState, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	c.oldState = oldState
	fmt.Fprint(out, "\x1b[?25l") // hide cursor
	go c.watch()
	return c, nil
}

// watch closes the quit channel on q, Ctrl-C or end of input. Raw mode
// disables the terminal's own signal keys.
func (c *Console) watch() {
	defer close(c.quit)
	buf := make([]byte, 16)
	for {
		n, err := c.in.Read(buf)
		if err != nil {
			return
		}
		for _, b := range buf[:n] {
			if b == 'q' || b == 0x03 {
				return
			}
		}
	}
}

// Quit is closed when the user asks to leave from the console. It never
// closes when stdin is not a terminal.
func (c *Console) Quit() <-chan struct{} { return c.quit }

// Active reports whether the terminal was taken over.
func (c *Console) Active() bool { return c.oldState != nil }

// Restore returns the terminal to its previous state.
func (c *Console) Restore() {
	if c.oldState == nil {
		return
	}
	term.Restore(int(c.in.Fd()), c.oldState)
	c.oldState = nil
	fmt.Fprint(c.out, "\x1b[?25h") // show cursor
}
