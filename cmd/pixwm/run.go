package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/1broseidon/pixwm/internal/compositor"
	"github.com/1broseidon/pixwm/internal/config"
	"github.com/1broseidon/pixwm/internal/handoff"
	"github.com/1broseidon/pixwm/internal/input"
	"github.com/1broseidon/pixwm/internal/logging"
	"github.com/1broseidon/pixwm/internal/platform"
	"github.com/1broseidon/pixwm/internal/scene"
)

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/pixwm/config.yaml)")
	backendName := fs.String("backend", "", "Override the configured backend (fbdev, x11, memory)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pixwm run [--config PATH] [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Take over the display, draw the configured windows and follow the mouse.")
		fmt.Fprintln(os.Stderr, "Stops on SIGINT/SIGTERM, 'q' on the console, or closing the x11 preview.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config
	if *backendName != "" {
		cfg.Backend = config.Backend(*backendName)
		if err := cfg.Validate(); err != nil {
			log.Printf("Invalid backend: %v", err)
			return 2
		}
	}

	logger, closer, err := logging.Open(cfg.Logging.File, logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		log.Printf("Failed to set up logging: %v", err)
		return 1
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("pixwm failed", "error", err)
		return 1
	}
	return 0
}

// serve runs the render loop and the input bridge until ctx is done, the
// backend asks to stop, or the pointer goes away.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	backend, err := platform.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	defer backend.Close()

	root := backend.Surface()
	sc, err := scene.Build(cfg, root.Width(), root.Height())
	if err != nil {
		return err
	}
	bg, err := cfg.BackgroundPixel()
	if err != nil {
		return err
	}
	comp, err := compositor.New(root, sc.Windows, sc.Cursor, compositor.Options{
		Background: bg,
		Carry:      sc.Carry,
		Presenter:  backend,
		Logger:     logger.With("component", "compositor"),
	})
	if err != nil {
		return err
	}
	if err := comp.Start(); err != nil {
		return err
	}

	start := sc.Cursor.Position()
	bounds := comp.PointerBounds()
	src, err := backend.Input(start, bounds)
	if err != nil {
		return fmt.Errorf("open pointer: %w", err)
	}

	link := handoff.NewLink()
	bridge := input.NewBridge(input.BridgeConfig{
		Bounds:       bounds,
		Start:        start,
		PollInterval: cfg.PollInterval(),
		Logger:       logger.With("component", "input"),
	}, src, link)

	logger.Info("pixwm started",
		"backend", backend.Name(),
		"size", fmt.Sprintf("%dx%d", root.Width(), root.Height()),
		"windows", len(sc.Windows),
		"carry", sc.Carry)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	inputDone := make(chan error, 1)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := comp.Run(ctx, link); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("render loop stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		inputDone <- bridge.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case <-backend.Done():
		logger.Info("quit requested")
	case err := <-inputDone:
		if errors.Is(err, input.ErrClosed) {
			logger.Warn("pointer device closed")
		}
	}
	cancel()
	wg.Wait()
	logger.Info("pixwm stopped", "frames", comp.Frames())
	return nil
}
