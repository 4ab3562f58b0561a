// Package testutil provides reusable test helper functions for point resampler tests.
package testutil

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-6
	LooseTolerance   = 1e-3
)

// randomExtent bounds the coordinates produced by RandomPositions.
const randomExtent = 100.0

// IndexedPositions returns n points where point i is (i, 2i, 3i).
func IndexedPositions(n int) []vecmath.Vec3 {
	pts := make([]vecmath.Vec3, n)
	for i := range pts {
		f := float32(i)
		pts[i] = vecmath.Vec3{f, 2 * f, 3 * f}
	}
	return pts
}

// RandomPositions returns n reproducible pseudo-random points in [-100, 100)^3.
func RandomPositions(n int, seed uint64) []vecmath.Vec3 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pts := make([]vecmath.Vec3, n)
	for i := range pts {
		for c := range 3 {
			pts[i][c] = float32((rng.Float64()*2 - 1) * randomExtent)
		}
	}
	return pts
}

// AssertVec3InDelta verifies that two vectors match componentwise within tolerance.
func AssertVec3InDelta(t *testing.T, expected, actual vecmath.Vec3, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	for c := range 3 {
		if math.Abs(float64(expected[c])-float64(actual[c])) > tolerance {
			return assert.Fail(t, "vectors differ",
				"expected %v, got %v (component %d)", expected, actual, c)
		}
	}
	return true
}

// AssertVec3sInDelta verifies that two vector slices match elementwise within tolerance.
func AssertVec3sInDelta(t *testing.T, expected, actual []vecmath.Vec3, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		for c := range 3 {
			if math.Abs(float64(expected[i][c])-float64(actual[i][c])) > tolerance {
				return assert.Fail(t, "vectors differ",
					"element %d: expected %v, got %v", i, expected[i], actual[i])
			}
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no component in the slice is NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []vecmath.Vec3, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		for c := range 3 {
			f := float64(v[c])
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return assert.Fail(t, "found NaN or Inf", "s[%d] = %v", i, v)
			}
		}
	}
	return true
}

// AssertAllZero verifies that every vector in the slice is the zero vector.
func AssertAllZero(t *testing.T, s []vecmath.Vec3, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != (vecmath.Vec3{}) {
			return assert.Fail(t, "non-zero vector", "s[%d] = %v", i, v)
		}
	}
	return true
}

// AssertNonIncreasing verifies that s[i] >= s[i+1] for all i.
func AssertNonIncreasing[T cmp.Ordered](t *testing.T, s []T, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] > s[i-1] {
			return assert.Fail(t, "not non-increasing",
				"s[%d]=%v > s[%d]=%v", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertSameVec3Multiset verifies that actual is a permutation of expected.
func AssertSameVec3Multiset(t *testing.T, expected, actual []vecmath.Vec3, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	a := slices.Clone(expected)
	b := slices.Clone(actual)
	slices.SortFunc(a, compareVec3)
	slices.SortFunc(b, compareVec3)
	return assert.Equal(t, a, b, msgAndArgs...)
}

// DistanceFrom returns the Euclidean distance of every point from ref.
func DistanceFrom(pts []vecmath.Vec3, ref vecmath.Vec3) []float64 {
	d := make([]float64, len(pts))
	for i, p := range pts {
		dx := float64(p[0]) - float64(ref[0])
		dy := float64(p[1]) - float64(ref[1])
		dz := float64(p[2]) - float64(ref[2])
		d[i] = math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return d
}

func compareVec3(a, b vecmath.Vec3) int {
	for c := range 3 {
		if r := cmp.Compare(a[c], b[c]); r != 0 {
			return r
		}
	}
	return 0
}
