package compute

import (
	"context"
	"runtime"
	"sync"

	"github.com/stewi1014/glmandel/mandel"
	"github.com/stewi1014/glmandel/viewport"
)

// CPU is the scalar fallback dispatcher. Rows are striped across a
// fixed set of goroutines; every pixel goes through mandel.Escape, so
// results match the device kernel exactly.
type CPU struct {
	workers int
}

// NewCPU returns a host-side dispatcher using up to GOMAXPROCS
// workers per frame.
func NewCPU() *CPU {
	return &CPU{workers: runtime.GOMAXPROCS(0)}
}

func (c *CPU) ComputeFrame(ctx context.Context, view viewport.Viewport, maxIter uint32) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame := &Frame{
		Iterations: make([]uint32, view.Width*view.Height),
		Width:      view.Width,
		Height:     view.Height,
		Generation: view.Generation,
	}

	workers := c.workers
	if workers > view.Height {
		workers = view.Height
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for py := worker; py < view.Height; py += workers {
				if ctx.Err() != nil {
					return
				}
				row := frame.Iterations[py*view.Width : (py+1)*view.Width]
				for px := range row {
					p := view.PixelToComplex(float64(px), float64(py))
					row[px] = mandel.Escape(complex(p[0], p[1]), maxIter)
				}
			}
		}(worker)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frame, nil
}

func (c *CPU) Name() string {
	return "cpu"
}

func (c *CPU) Close() {}
