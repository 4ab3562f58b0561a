// Package vecmath implements the per-point vector kernels used by the cooker:
// interpolation, velocity derivation, coordinate conversion and bounds.
//
// All functions operate on flat []Vec3 slices and never allocate.
package vecmath

import (
	"unsafe"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-points-resampler/internal/simdops"
)

// Vec3 is a single-precision 3D vector (position or velocity).
type Vec3 [3]float32

// Vec3d is a double-precision 3D vector, accepted as a wider source format.
type Vec3d [3]float64

// Axis selects one vector component.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Valid reports whether a names one of the three components.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// Bounds is an axis-aligned bounding box expressed as center and full extent.
type Bounds struct {
	Center Vec3
	Size   Vec3
}

// R3 widens v to a gonum vector.
func (v Vec3) R3() r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// Narrow converts v to single precision.
func (v Vec3d) Narrow() Vec3 {
	return Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Flatten reinterprets pts as a flat xyz component slice sharing the same memory.
func Flatten(pts []Vec3) []float32 {
	if len(pts) == 0 {
		return nil
	}
	return unsafe.Slice(&pts[0][0], len(pts)*componentsPerVec)
}

// Lerp writes out[i] = a[i] + (b[i]-a[i])*t for every i < len(out).
// a and b must hold at least len(out) elements and must not alias out.
func Lerp(out, a, b []Vec3, t float32) {
	a = a[:len(out)]
	b = b[:len(out)]
	for i := range out {
		out[i] = Vec3{
			a[i][0] + (b[i][0]-a[i][0])*t,
			a[i][1] + (b[i][1]-a[i][1])*t,
			a[i][2] + (b[i][2]-a[i][2])*t,
		}
	}
}

// GenerateVelocities writes out[i] = (cur[i]-prev[i])*scale.
//
// cur and prev must describe the same points. When their lengths differ the
// topology changed between frames: out is zero-filled and false is returned.
// out must hold at least len(cur) elements.
func GenerateVelocities(out, cur, prev []Vec3, scale float32) bool {
	out = out[:len(cur)]
	if len(cur) != len(prev) {
		clear(out)
		return false
	}
	for i := range out {
		out[i] = Vec3{
			(cur[i][0] - prev[i][0]) * scale,
			(cur[i][1] - prev[i][1]) * scale,
			(cur[i][2] - prev[i][2]) * scale,
		}
	}
	return true
}

// SwapHandedness negates the given component of every vector in place.
func SwapHandedness(pts []Vec3, axis Axis) {
	for i := range pts {
		pts[i][axis] = -pts[i][axis]
	}
}

// ApplyScale multiplies every component of every vector by factor in place.
// A factor of exactly 1 leaves pts untouched.
func ApplyScale(pts []Vec3, factor float32) {
	if factor == 1 || len(pts) == 0 {
		return
	}
	flat := Flatten(pts)
	simdops.Float32Ops().Scale(flat, flat, factor)
}

// MinMax returns the componentwise minimum and maximum of pts.
// An empty slice yields a zero box.
func MinMax(pts []Vec3) (lo, hi Vec3) {
	if len(pts) == 0 {
		return Vec3{}, Vec3{}
	}
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		for c := range componentsPerVec {
			lo[c] = min(lo[c], p[c])
			hi[c] = max(hi[c], p[c])
		}
	}
	return lo, hi
}

// BoundsOf returns the bounding box of pts. An empty slice yields a zero box.
func BoundsOf(pts []Vec3) Bounds {
	lo, hi := MinMax(pts)
	var b Bounds
	for c := range componentsPerVec {
		b.Center[c] = (lo[c] + hi[c]) * half
		b.Size[c] = hi[c] - lo[c]
	}
	return b
}
