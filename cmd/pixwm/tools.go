package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/pixwm/internal/evdev"
	"github.com/1broseidon/pixwm/internal/ppf"
)

func runDevices(args []string) int {
	fs := flag.NewFlagSet("devices", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	all := fs.Bool("all", false, "Show every input device, not only pointers")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pixwm devices [--all]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List input devices. '*' marks the mouse chosen by mouse: auto.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	devices, err := evdev.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	picked, err := evdev.FindMouse(devices)
	if err != nil && !errors.Is(err, evdev.ErrNoMouse) {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	shown := 0
	for _, d := range devices {
		if !*all && !d.IsMouse() {
			continue
		}
		mark := " "
		if d.EventNode() != "" && d.EventNode() == picked.EventNode() {
			mark = "*"
		}
		path := d.Path()
		if path == "" {
			path = "-"
		}
		fmt.Printf("%s %-20s %-32s %s\n", mark, path, d.Name, strings.Join(d.Handlers, " "))
		shown++
	}
	if shown == 0 {
		fmt.Println("No pointer devices found")
	}
	return 0
}

func runCursor(args []string) int {
	if len(args) < 2 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  pixwm cursor check FILE")
		fmt.Fprintln(os.Stderr, "  pixwm cursor fmt FILE")
		return 2
	}

	if args[0] != "check" && args[0] != "fmt" {
		fmt.Fprintf(os.Stderr, "Unknown cursor subcommand: %s\n", args[0])
		return 2
	}
	bm, err := ppf.Load(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if args[0] == "check" {
		transparent := 0
		for _, px := range bm.Pix() {
			if px.IsTransparent() {
				transparent++
			}
		}
		fmt.Printf("%s: ok (%dx%d, %d transparent)\n", args[1], bm.Width(), bm.Height(), transparent)
		return 0
	}
	if err := ppf.Encode(os.Stdout, bm); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
