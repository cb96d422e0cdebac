// Package viewport models the visible rectangle of the complex plane
// and its mapping onto a fixed pixel grid.
package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultCenter is the centre of the home view; the full set fits in a
// real-axis span of [-2.5, 1.0] around it.
var DefaultCenter = mgl64.Vec2{-0.5, 0}

// DefaultSpan is the real-axis width of the home view.
const DefaultSpan = 3.5

// minScale is the precision floor for zooming in. It keeps Scale well
// clear of the denormal range, where multiplying by a zoom factor
// rounds to zero and the viewport collapses.
const minScale = math.SmallestNonzeroFloat64 * 1e20

// Viewport is the visible region of the complex plane. Width and
// Height are fixed for the life of the process; Center and Scale are
// mutated by user interaction only.
//
// Generation increments on every mutation. A compute result carries
// the generation it was requested for, and is dropped if the viewport
// has moved on since.
type Viewport struct {
	Center     mgl64.Vec2
	Scale      float64 // plane units per pixel, > 0
	Width      int
	Height     int
	Generation uint64
}

// New returns the home view for the given pixel grid.
func New(width, height int) Viewport {
	return Viewport{
		Center: DefaultCenter,
		Scale:  DefaultSpan / float64(width),
		Width:  width,
		Height: height,
	}
}

// PixelToComplex maps a pixel position, origin top-left, to its point
// in the complex plane.
func (v *Viewport) PixelToComplex(px, py float64) mgl64.Vec2 {
	return v.Center.Add(mgl64.Vec2{
		px - float64(v.Width)/2,
		float64(v.Height)/2 - py,
	}.Mul(v.Scale))
}

// Zoom scales the view by factor, keeping the plane point under the
// focus pixel fixed. Factors below 1 zoom in.
//
// Zooming in stops silently at the float64 precision floor; the view
// never reaches scale zero.
func (v *Viewport) Zoom(focusPx, focusPy, factor float64) {
	if factor <= 0 {
		return
	}

	newScale := v.Scale * factor
	if newScale < minScale {
		newScale = minScale
	}
	if newScale == v.Scale {
		return
	}

	p := v.PixelToComplex(focusPx, focusPy)
	v.Scale = newScale

	// Solve for the centre that puts p back under the focus pixel.
	v.Center = p.Sub(mgl64.Vec2{
		focusPx - float64(v.Width)/2,
		float64(v.Height)/2 - focusPy,
	}.Mul(v.Scale))

	v.Generation++
}

// Pan moves the view by a pixel delta, dragging the plane with the
// pointer: a positive dx moves the view contents right.
func (v *Viewport) Pan(dxPx, dyPx float64) {
	if dxPx == 0 && dyPx == 0 {
		return
	}
	v.Center = v.Center.Sub(mgl64.Vec2{dxPx, -dyPx}.Mul(v.Scale))
	v.Generation++
}

// Reset restores the home view.
func (v *Viewport) Reset() {
	home := New(v.Width, v.Height)
	if v.Center == home.Center && v.Scale == home.Scale {
		return
	}
	v.Center = home.Center
	v.Scale = home.Scale
	v.Generation++
}
