// Package palette converts escape-time iteration buffers into RGBA
// pixel buffers.
package palette

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	cachedMu   sync.Mutex
	cached     [][3]byte
	cachedIter uint32
)

// Interior is the colour of points that never escaped.
var Interior = mgl32.Vec3{0, 0, 0}

// stops is the gradient, deep blue through white to gold and brown.
var stops = [16]mgl32.Vec3{
	{25 / 255.0, 7 / 255.0, 26 / 255.0},
	{0 / 255.0, 120 / 255.0, 50 / 255.0},
	{9 / 255.0, 1 / 255.0, 47 / 255.0},
	{4 / 255.0, 4 / 255.0, 73 / 255.0},
	{0 / 255.0, 7 / 255.0, 100 / 255.0},
	{12 / 255.0, 44 / 255.0, 138 / 255.0},
	{24 / 255.0, 82 / 255.0, 177 / 255.0},
	{57 / 255.0, 125 / 255.0, 209 / 255.0},
	{134 / 255.0, 181 / 255.0, 229 / 255.0},
	{221 / 255.0, 236 / 255.0, 248 / 255.0},
	{241 / 255.0, 201 / 255.0, 95 / 255.0},
	{255 / 255.0, 170 / 255.0, 0 / 255.0},
	{204 / 255.0, 128 / 255.0, 0 / 255.0},
	{153 / 255.0, 87 / 255.0, 0 / 255.0},
	{106 / 255.0, 52 / 255.0, 3 / 255.0},
	{106 / 255.0, 52 / 255.0, 3 / 255.0},
}

// Stop returns the gradient colour for a normalized iteration count
// x in [0, 1], with a sine easing that spends more of the gradient on
// low counts, where the boundary detail is.
func Stop(x float64) mgl32.Vec3 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	i := int(math.Round(math.Sin(math.Pi*x/2) * 15))
	return stops[i]
}

// Map colours an iteration buffer into dst as row-major RGBA8 with the
// same indexing. Iterations equal to maxIter take the Interior colour.
// dst is reused when it has capacity for len(iterations)*4 bytes,
// otherwise a new buffer is allocated; the (possibly new) buffer is
// returned.
//
// The mapping is a pure function of its inputs: recolouring the same
// buffer twice yields identical bytes.
func Map(iterations []uint32, maxIter uint32, dst []byte) []byte {
	n := len(iterations) * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	lut := lookupTable(maxIter)

	for i, it := range iterations {
		var c [3]byte
		if it >= maxIter {
			c = lut[len(lut)-1]
		} else {
			c = lut[it]
		}
		o := i * 4
		dst[o] = c[0]
		dst[o+1] = c[1]
		dst[o+2] = c[2]
		dst[o+3] = 0xff
	}
	return dst
}

// lookupTable precomputes the byte colour of every possible iteration
// count; entry maxIter is the interior colour. The last table is
// cached; the viewer uses one iteration bound for the whole process.
func lookupTable(maxIter uint32) [][3]byte {
	cachedMu.Lock()
	defer cachedMu.Unlock()
	if cached != nil && cachedIter == maxIter {
		return cached
	}

	lut := make([][3]byte, maxIter+1)
	for it := uint32(0); it < maxIter; it++ {
		c := Stop(float64(it) / float64(maxIter))
		lut[it] = vecBytes(c)
	}
	lut[maxIter] = vecBytes(Interior)

	cached, cachedIter = lut, maxIter
	return lut
}

func vecBytes(c mgl32.Vec3) [3]byte {
	return [3]byte{
		byte(c[0]*255 + 0.5),
		byte(c[1]*255 + 0.5),
		byte(c[2]*255 + 0.5),
	}
}
