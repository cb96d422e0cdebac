// Package compute dispatches full-frame escape-time computation, to an
// OpenCL device when one is available and to a host-side worker pool
// otherwise.
package compute

import (
	"context"
	"errors"

	"github.com/stewi1014/glmandel/viewport"
)

var (
	// ErrDeviceUnavailable means the compute backend cannot accept the
	// workload right now. The condition is recoverable: the caller may
	// retry on the next frame or switch to the CPU dispatcher.
	ErrDeviceUnavailable = errors.New("compute device unavailable")

	// ErrResolutionTooLarge means the device cannot hold buffers for
	// the requested pixel grid. Raised at dispatcher creation, never
	// per frame.
	ErrResolutionTooLarge = errors.New("resolution exceeds device capacity")
)

// Frame is one full-frame iteration-count buffer, row-major, values in
// [0, maxIter]. It is owned by its consumer; the dispatcher never
// touches it again after returning it.
//
// Generation records the viewport generation the frame was computed
// for, so stale completions can be detected before presentation.
type Frame struct {
	Iterations []uint32
	Width      int
	Height     int
	Generation uint64
}

// A Dispatcher computes frames. Implementations are not safe for
// concurrent ComputeFrame calls; the frame loop serializes them
// through a single worker.
type Dispatcher interface {
	// ComputeFrame evaluates the escape-time kernel for every pixel of
	// the viewport. Deterministic for given inputs.
	ComputeFrame(ctx context.Context, view viewport.Viewport, maxIter uint32) (*Frame, error)

	// Name identifies the backend in logs.
	Name() string

	// Close releases device resources. The dispatcher is unusable
	// afterwards.
	Close()
}
