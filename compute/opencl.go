package compute

import (
	"context"
	"fmt"

	cl "github.com/CyberChainXyz/go-opencl"

	"github.com/stewi1014/glmandel/mandel"
	"github.com/stewi1014/glmandel/viewport"
)

// OpenCL computes frames on the first available OpenCL device. The
// kernel is compiled once and the device-side iteration buffer is
// allocated once; each frame only sets scalar arguments, runs the
// kernel over one work item per pixel and reads the buffer back.
type OpenCL struct {
	runner *cl.OpenCLRunner
	buffer *cl.Buffer
	device string
	pixels int
}

// NewOpenCL discovers a device and prepares it for width x height
// frames. It returns ErrDeviceUnavailable when no usable device
// exists and ErrResolutionTooLarge when the device cannot allocate
// the iteration buffer.
func NewOpenCL(width, height int) (*OpenCL, error) {
	info, err := cl.Info()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	var device *cl.OpenCLDevice
	for _, platform := range info.Platforms {
		if len(platform.Devices) > 0 {
			device = platform.Devices[0]
			break
		}
	}
	if device == nil {
		return nil, fmt.Errorf("%w: no OpenCL devices found", ErrDeviceUnavailable)
	}

	runner, err := device.InitRunner()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	err = runner.CompileKernels([]string{mandel.KernelSource}, []string{mandel.KernelName}, "")
	if err != nil {
		runner.Free()
		return nil, fmt.Errorf("%w: kernel compilation failed: %v", ErrDeviceUnavailable, err)
	}

	pixels := width * height
	buffer, err := runner.CreateEmptyBuffer(cl.WRITE_ONLY, pixels*4)
	if err != nil {
		runner.Free()
		return nil, fmt.Errorf("%w: %d x %d: %v", ErrResolutionTooLarge, width, height, err)
	}

	return &OpenCL{
		runner: runner,
		buffer: buffer,
		device: device.Name,
		pixels: pixels,
	}, nil
}

func (o *OpenCL) ComputeFrame(ctx context.Context, view viewport.Viewport, maxIter uint32) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if view.Width*view.Height != o.pixels {
		return nil, fmt.Errorf("%w: dispatcher sized for %d pixels, viewport has %d",
			ErrDeviceUnavailable, o.pixels, view.Width*view.Height)
	}

	p := mandel.FrameParams(view, maxIter)
	args := []cl.KernelParam{
		cl.BufferParam(o.buffer),
		cl.Param(&p.CenterX),
		cl.Param(&p.CenterY),
		cl.Param(&p.Scale),
		cl.Param(&p.Width),
		cl.Param(&p.Height),
		cl.Param(&p.IterMax),
	}

	err := o.runner.RunKernel(mandel.KernelName, 1, nil, []uint64{uint64(o.pixels)}, nil, args, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	frame := &Frame{
		Iterations: make([]uint32, o.pixels),
		Width:      view.Width,
		Height:     view.Height,
		Generation: view.Generation,
	}
	if err := cl.ReadBuffer(o.runner, 0, o.buffer, frame.Iterations); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	return frame, nil
}

func (o *OpenCL) Name() string {
	return "opencl/" + o.device
}

func (o *OpenCL) Close() {
	o.runner.Free()
}
