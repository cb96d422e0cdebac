package viewport

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tolerance = 1e-12

func vecNear(a, b mgl64.Vec2) bool {
	return math.Abs(a[0]-b[0]) < tolerance && math.Abs(a[1]-b[1]) < tolerance
}

func TestNewDefaultView(t *testing.T) {
	v := New(800, 600)

	if v.Scale <= 0 {
		t.Fatalf("scale must be positive, got %v", v.Scale)
	}

	// Image centre maps to the view centre.
	centre := v.PixelToComplex(400, 300)
	if !vecNear(centre, mgl64.Vec2{-0.5, 0}) {
		t.Errorf("centre pixel maps to %v, want (-0.5, 0)", centre)
	}

	// Real axis spans [-2.5, 1.0].
	left := v.PixelToComplex(0, 300)
	right := v.PixelToComplex(800, 300)
	if !vecNear(left, mgl64.Vec2{-2.5, 0}) {
		t.Errorf("left edge maps to %v, want (-2.5, 0)", left)
	}
	if !vecNear(right, mgl64.Vec2{1.0, 0}) {
		t.Errorf("right edge maps to %v, want (1.0, 0)", right)
	}
}

func TestPixelToComplexOrientation(t *testing.T) {
	v := New(800, 600)

	top := v.PixelToComplex(400, 0)
	bottom := v.PixelToComplex(400, 600)
	if top[1] <= bottom[1] {
		t.Errorf("pixel y increases downward; top=%v bottom=%v", top, bottom)
	}
}

func TestZoomKeepsAnchor(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		factor float64
	}{
		{"centre in", 400, 300, 0.5},
		{"centre out", 400, 300, 2.0},
		{"corner in", 0, 0, 0.9},
		{"off-centre out", 123, 456, 1.1},
		{"deep", 651, 17, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(800, 600)
			before := v.PixelToComplex(tt.px, tt.py)
			v.Zoom(tt.px, tt.py, tt.factor)
			after := v.PixelToComplex(tt.px, tt.py)
			if !vecNear(before, after) {
				t.Errorf("anchor moved: before=%v after=%v", before, after)
			}
		})
	}
}

func TestZoomRoundTrip(t *testing.T) {
	v := New(800, 600)
	origScale := v.Scale
	origCenter := v.Center

	v.Zoom(400, 300, 0.5)
	v.Zoom(400, 300, 2.0)

	if v.Scale != origScale {
		t.Errorf("scale not restored exactly: got %v, want %v", v.Scale, origScale)
	}
	if !vecNear(v.Center, origCenter) {
		t.Errorf("centre not restored: got %v, want %v", v.Center, origCenter)
	}
}

func TestZoomFloor(t *testing.T) {
	v := New(800, 600)

	for i := 0; i < 20000; i++ {
		v.Zoom(400, 300, 0.5)
	}

	if v.Scale <= 0 {
		t.Fatalf("scale underflowed to %v", v.Scale)
	}

	// Once floored, further zooming in is a no-op.
	gen := v.Generation
	scale := v.Scale
	v.Zoom(400, 300, 0.5)
	if v.Scale != scale {
		t.Errorf("floored scale changed from %v to %v", scale, v.Scale)
	}
	if v.Generation != gen {
		t.Errorf("no-op zoom bumped generation")
	}

	// Zooming back out still works.
	v.Zoom(400, 300, 2.0)
	if v.Scale <= scale {
		t.Errorf("zoom out from floor did not grow scale")
	}
}

func TestZoomIgnoresBadFactor(t *testing.T) {
	v := New(800, 600)
	gen := v.Generation
	v.Zoom(400, 300, 0)
	v.Zoom(400, 300, -1)
	if v.Generation != gen {
		t.Errorf("non-positive factor mutated viewport")
	}
}

func TestPanRoundTrip(t *testing.T) {
	v := New(800, 600)
	orig := v.Center

	v.Pan(37, -114)
	v.Pan(-37, 114)

	if !vecNear(v.Center, orig) {
		t.Errorf("pan round trip moved centre: got %v, want %v", v.Center, orig)
	}
}

func TestPanDirection(t *testing.T) {
	v := New(800, 600)
	before := v.Center

	// Dragging right moves the visible region left.
	v.Pan(10, 0)
	if v.Center[0] >= before[0] {
		t.Errorf("pan right should decrease centre real part: %v -> %v", before, v.Center)
	}

	// Dragging down moves the visible region up.
	v = New(800, 600)
	v.Pan(0, 10)
	if v.Center[1] <= before[1] {
		t.Errorf("pan down should increase centre imaginary part: %v -> %v", before, v.Center)
	}
}

func TestGenerationCounts(t *testing.T) {
	v := New(800, 600)

	v.Pan(1, 0)
	v.Zoom(10, 10, 0.9)
	v.Reset()
	if v.Generation != 3 {
		t.Errorf("generation = %d after three mutations, want 3", v.Generation)
	}

	// Non-mutating operations do not count.
	v.Pan(0, 0)
	v.Reset()
	if v.Generation != 3 {
		t.Errorf("no-op mutated generation: %d", v.Generation)
	}
}

func TestResetRestoresHomeView(t *testing.T) {
	v := New(800, 600)
	home := New(800, 600)

	v.Pan(200, -50)
	v.Zoom(10, 20, 0.25)
	v.Reset()

	if v.Center != home.Center || v.Scale != home.Scale {
		t.Errorf("reset gave centre=%v scale=%v, want centre=%v scale=%v",
			v.Center, v.Scale, home.Center, home.Scale)
	}
}
