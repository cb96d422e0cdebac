package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stewi1014/glmandel/compute"
	"github.com/stewi1014/glmandel/input"
	"github.com/stewi1014/glmandel/palette"
	"github.com/stewi1014/glmandel/viewport"
)

// request asks the compute worker for one frame. The viewport is a
// value snapshot, so the worker never observes a half-applied
// mutation, and the dispatcher rides along so the loop can swap
// backends without sharing mutable state with the worker.
type request struct {
	dispatcher compute.Dispatcher
	view       viewport.Viewport
	maxIter    uint32
}

type result struct {
	frame *compute.Frame
	err   error
}

// Loop is the top-level frame cycle: poll input, apply it to the
// viewport, dispatch computation when the view is dirty, colour and
// present completed frames.
//
// Exactly one compute request is in flight at a time. A completion is
// presented only if its generation still matches the viewport;
// superseded frames are dropped and the view recomputed.
type Loop struct {
	window     *Window
	dispatcher compute.Dispatcher
	log        *slog.Logger

	view       viewport.Viewport
	controller *input.Controller
	maxIter    uint32

	colors   []byte
	fellBack bool
}

func NewLoop(window *Window, dispatcher compute.Dispatcher, maxIter uint32, log *slog.Logger) *Loop {
	l := &Loop{
		window:     window,
		dispatcher: dispatcher,
		log:        log,
		view:       viewport.New(window.width, window.height),
		maxIter:    maxIter,
	}
	l.controller = input.NewController(&l.view)
	return l
}

// Run drives the loop until ctx is cancelled or the user quits. It
// owns the dispatcher and closes it on the way out.
func (l *Loop) Run(ctx context.Context) error {
	reqCh := make(chan request)
	resCh := make(chan result, 1)

	go func() {
		for req := range reqCh {
			frame, err := req.dispatcher.ComputeFrame(ctx, req.view, req.maxIter)
			resCh <- result{frame: frame, err: err}
		}
		close(resCh)
	}()

	dirty := true
	inflight := false

	for ctx.Err() == nil && !l.controller.CloseRequested() && !l.window.ShouldClose() {
		for _, ev := range l.window.PollEvents() {
			if l.controller.Apply(ev) {
				dirty = true
			}
		}

		if dirty && !inflight {
			reqCh <- request{dispatcher: l.dispatcher, view: l.view, maxIter: l.maxIter}
			dirty = false
			inflight = true
		}

		select {
		case res := <-resCh:
			inflight = false
			if l.handleResult(ctx, res) {
				dirty = true
			}
		default:
		}

		// The previous valid frame stays on screen until a newer one
		// replaces it; vsync paces the loop.
		l.window.Present()
	}

	close(reqCh)
	if inflight {
		<-resCh
	}
	l.dispatcher.Close()

	l.log.Info("frame loop stopped")
	return nil
}

// handleResult consumes one compute completion and reports whether the
// view needs recomputing.
func (l *Loop) handleResult(ctx context.Context, res result) bool {
	switch {
	case res.err != nil:
		if ctx.Err() != nil {
			return false
		}
		if errors.Is(res.err, compute.ErrDeviceUnavailable) {
			return l.fallback(res.err)
		}
		l.log.Error("compute failed", "error", res.err)
		return true

	case res.frame.Generation != l.view.Generation:
		// Superseded while in flight; never present out of order.
		l.log.Debug("dropped stale frame",
			"frame_generation", res.frame.Generation,
			"view_generation", l.view.Generation,
		)
		return true

	default:
		l.colors = palette.Map(res.frame.Iterations, l.maxIter, l.colors)
		l.window.Upload(l.colors)
		return false
	}
}

// fallback swaps the device dispatcher for the scalar one. Availability
// beats throughput: the viewer keeps running on the CPU rather than
// crashing with the device.
func (l *Loop) fallback(cause error) bool {
	if l.fellBack {
		// Already on the CPU path; retry on the next dirty frame.
		l.log.Error("compute failed", "backend", l.dispatcher.Name(), "error", cause)
		return true
	}

	l.log.Warn("compute device lost, falling back to CPU",
		"backend", l.dispatcher.Name(),
		"error", cause,
	)
	l.dispatcher.Close()
	l.dispatcher = compute.NewCPU()
	l.fellBack = true
	return true
}
