// Package remap copies raw keyframe properties into a frame's reusable
// buffers, either by identity or through a distance-sort permutation,
// converting element types on the way.
//
// Both primitives tolerate sources that are shorter than the requested count
// (including empty ones): only the overlapping prefix is written and the tail
// keeps whatever the buffer held before.
package remap

import (
	"github.com/tphakala/go-points-resampler/internal/buffer"
	"github.com/tphakala/go-points-resampler/internal/sorting"
	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// Assign resizes dst to count and copies src[i] for i < min(count, len(src)).
func Assign[T, U any](dst *buffer.Buffer[T], src []U, count int, cast func(U) T) {
	dst.ResizeDiscard(count)
	out := dst.Slice()
	n := min(len(out), len(src))
	for i := range n {
		out[i] = cast(src[i])
	}
}

// Remap resizes dst to len(table) and writes src[table[i].Index] into slot i.
// Entries pointing outside src are skipped.
func Remap[T, U any](dst *buffer.Buffer[T], src []U, table []sorting.Entry, cast func(U) T) {
	dst.ResizeDiscard(len(table))
	out := dst.Slice()
	n := min(len(out), len(src))
	for i := range n {
		idx := int(table[i].Index)
		if idx < 0 || idx >= len(src) {
			continue
		}
		out[i] = cast(src[idx])
	}
}

// Vec3 passes single-precision vectors through unchanged.
func Vec3(v vecmath.Vec3) vecmath.Vec3 { return v }

// NarrowVec3 converts double-precision source vectors to single precision.
func NarrowVec3(v vecmath.Vec3d) vecmath.Vec3 { return v.Narrow() }

// NarrowID truncates 64-bit archive IDs to the 32-bit delivery format.
func NarrowID(id uint64) uint32 { return uint32(id) }

// ID passes 32-bit IDs through unchanged.
func ID(id uint32) uint32 { return id }
