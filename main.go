// Command glmandel is an interactive Mandelbrot set viewer. The
// escape-time computation runs on an OpenCL device when one is
// present; panning and zooming recompute the view on demand.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/stewi1014/glmandel/compute"
)

func init() {
	// GLFW and GL live on the main thread.
	runtime.LockOSThread()
}

// Config is the immutable startup configuration. MaxIter is read by
// the kernel and the colour mapper for the life of the process.
type Config struct {
	Width   int
	Height  int
	MaxIter uint32
}

var errInvalidArgument = errors.New("invalid argument")

func parseConfig(args []string) (Config, error) {
	fs := flag.NewFlagSet("glmandel", flag.ContinueOnError)
	width := fs.Int("width", 800, "window width in pixels")
	height := fs.Int("height", 600, "window height in pixels")
	iter := fs.Int("iter", 256, "escape-time iteration bound")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width <= 0 {
		return Config{}, fmt.Errorf("%w: width must be positive, got %d", errInvalidArgument, *width)
	}
	if *height <= 0 {
		return Config{}, fmt.Errorf("%w: height must be positive, got %d", errInvalidArgument, *height)
	}
	if *iter <= 0 {
		return Config{}, fmt.Errorf("%w: iter must be positive, got %d", errInvalidArgument, *iter)
	}

	return Config{Width: *width, Height: *height, MaxIter: uint32(*iter)}, nil
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	config, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(config, log); err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run(config Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	window, err := NewWindow(config.Width, config.Height, "Mandelbrot Set")
	if err != nil {
		return err
	}
	defer window.Close()

	dispatcher, err := newDispatcher(config, log)
	if err != nil {
		return err
	}

	log.Info("starting",
		"width", config.Width,
		"height", config.Height,
		"max_iterations", config.MaxIter,
		"backend", dispatcher.Name(),
	)

	return NewLoop(window, dispatcher, config.MaxIter, log).Run(ctx)
}

// newDispatcher prefers the OpenCL device and degrades to the scalar
// path when none is usable. A grid the device cannot hold is fatal;
// picking a smaller resolution beats silently rendering on the CPU.
func newDispatcher(config Config, log *slog.Logger) (compute.Dispatcher, error) {
	dispatcher, err := compute.NewOpenCL(config.Width, config.Height)
	if err == nil {
		return dispatcher, nil
	}
	if errors.Is(err, compute.ErrResolutionTooLarge) {
		return nil, err
	}

	log.Warn("no compute device, using CPU", "error", err)
	return compute.NewCPU(), nil
}
