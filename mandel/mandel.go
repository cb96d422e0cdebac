// Package mandel is the escape-time iteration for the Mandelbrot set,
// as a scalar Go function and as OpenCL source for the compute device.
package mandel

import (
	_ "embed"

	"github.com/stewi1014/glmandel/viewport"
)

// KernelName is the entry point in KernelSource.
const KernelName = "mandelbrot"

// KernelSource computes the same escape counts as Escape, one work
// item per pixel, writing iterations[width*py+px].
//
//go:embed kernels/mandelbrot.cl
var KernelSource string

// Escape returns the smallest n <= maxIter for which the orbit
// z(0)=0, z(k+1)=z(k)^2+c leaves the circle |z|=2, or maxIter if the
// orbit stays bounded. maxIter marks "inside the set" by convention.
func Escape(c complex128, maxIter uint32) uint32 {
	cr, ci := real(c), imag(c)

	var zr, zi float64
	for n := uint32(0); n < maxIter; n++ {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		if zr*zr+zi*zi > 4.0 {
			return n
		}
	}
	return maxIter
}

// Params are the per-frame kernel arguments, in the order the kernel
// declares them. Field types match the OpenCL argument types exactly.
type Params struct {
	CenterX float64
	CenterY float64
	Scale   float64
	Width   uint32
	Height  uint32
	IterMax uint32
}

// FrameParams snapshots a viewport into kernel arguments.
func FrameParams(v viewport.Viewport, maxIter uint32) Params {
	return Params{
		CenterX: v.Center[0],
		CenterY: v.Center[1],
		Scale:   v.Scale,
		Width:   uint32(v.Width),
		Height:  uint32(v.Height),
		IterMax: maxIter,
	}
}
