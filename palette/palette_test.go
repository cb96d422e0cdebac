package palette

import (
	"bytes"
	"testing"
)

func TestMapDeterministic(t *testing.T) {
	iterations := []uint32{0, 1, 2, 50, 99, 100}

	a := Map(iterations, 100, nil)
	b := Map(iterations, 100, nil)
	if !bytes.Equal(a, b) {
		t.Errorf("identical inputs coloured differently:\n%v\n%v", a, b)
	}
}

func TestMapInteriorIsBlack(t *testing.T) {
	out := Map([]uint32{100}, 100, nil)
	if out[0] != 0 || out[1] != 0 || out[2] != 0 || out[3] != 0xff {
		t.Errorf("interior pixel = %v, want opaque black", out[:4])
	}
}

func TestMapOpaque(t *testing.T) {
	iterations := []uint32{0, 3, 17, 64, 100}
	out := Map(iterations, 100, nil)
	for i := 3; i < len(out); i += 4 {
		if out[i] != 0xff {
			t.Errorf("pixel %d alpha = %d, want 255", i/4, out[i])
		}
	}
}

func TestMapBinaryImage(t *testing.T) {
	// With a bound of 1 only two colours can appear.
	iterations := []uint32{0, 1, 0, 1, 1, 0}
	out := Map(iterations, 1, nil)

	seen := map[[4]byte]bool{}
	for i := 0; i < len(out); i += 4 {
		seen[[4]byte{out[i], out[i+1], out[i+2], out[i+3]}] = true
	}
	if len(seen) != 2 {
		t.Errorf("binary image produced %d colours, want 2", len(seen))
	}
}

func TestMapReusesBuffer(t *testing.T) {
	iterations := []uint32{0, 1, 2, 3}
	dst := make([]byte, 16)
	out := Map(iterations, 10, dst)
	if &out[0] != &dst[0] {
		t.Errorf("Map allocated despite sufficient capacity")
	}

	small := make([]byte, 4)
	out = Map(iterations, 10, small)
	if len(out) != 16 {
		t.Errorf("grown buffer length = %d, want 16", len(out))
	}
}

func TestStopRange(t *testing.T) {
	for _, x := range []float64{-1, 0, 0.25, 0.5, 0.9999, 1, 2} {
		c := Stop(x)
		for i := 0; i < 3; i++ {
			if c[i] < 0 || c[i] > 1 {
				t.Errorf("Stop(%v)[%d] = %v out of range", x, i, c[i])
			}
		}
	}
}

func TestStopEasing(t *testing.T) {
	// The easing reaches the end of the gradient well before x = 1.
	if Stop(0) == Stop(1) {
		t.Errorf("gradient endpoints should differ")
	}
	if Stop(0.9) != Stop(1) {
		t.Errorf("sine easing should saturate near x = 1")
	}
}
