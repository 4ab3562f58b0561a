package engine

import (
	"github.com/tphakala/go-points-resampler/internal/buffer"
	"github.com/tphakala/go-points-resampler/internal/sorting"
	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// Snapshot is one keyframe as read from the archive.
//
// The slices are borrowed from the reader and are only valid for the duration
// of the Cook call they are passed to; Cook copies everything it keeps.
// A nil Velocities or IDs slice means the property is absent.
type Snapshot struct {
	Positions  []vecmath.Vec3
	Velocities []vecmath.Vec3
	IDs        []uint64
	Visible    bool
}

// Frame holds the cooked output of one points node.
//
// A Frame is created once per node and reused for every requested time:
// buffers keep their capacity and only their contents are replaced.
// It is mutated only by Cook and read only by delivery.
type Frame struct {
	points     buffer.Buffer[vecmath.Vec3] // Rebuilt primary keyframe
	points2    buffer.Buffer[vecmath.Vec3] // Next keyframe, for interpolation
	pointsInt  buffer.Buffer[vecmath.Vec3] // Interpolated positions
	pointsPrev buffer.Buffer[vecmath.Vec3] // Previous interpolated positions
	velocities buffer.Buffer[vecmath.Vec3]
	ids        buffer.Buffer[uint32]
	sortTable  buffer.Buffer[sorting.Entry]

	// active is whichever position buffer downstream consumers should read.
	active *buffer.Buffer[vecmath.Vec3]

	bounds  vecmath.Bounds
	visible bool
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	f := &Frame{}
	f.active = &f.points
	return f
}

// Positions returns the active positions. The slice aliases frame storage.
func (f *Frame) Positions() []vecmath.Vec3 {
	return f.active.Slice()
}

// Velocities returns the cooked velocities, or nil when none are available.
func (f *Frame) Velocities() []vecmath.Vec3 {
	if f.velocities.Empty() {
		return nil
	}
	return f.velocities.Slice()
}

// IDs returns the cooked IDs, or nil when the stream has none.
func (f *Frame) IDs() []uint32 {
	if f.ids.Empty() {
		return nil
	}
	return f.ids.Slice()
}

// Bounds returns the bounding box of the rebuilt primary positions.
func (f *Frame) Bounds() vecmath.Bounds {
	return f.bounds
}

// Visible returns the visibility of the current sample.
func (f *Frame) Visible() bool {
	return f.visible
}

// Count returns the number of points in the primary keyframe.
func (f *Frame) Count() int {
	return f.points.Len()
}

// Interpolated reports whether the active positions are interpolated.
func (f *Frame) Interpolated() bool {
	return f.active == &f.pointsInt
}

// SortTable returns the last distance-sort permutation (empty when unsorted).
func (f *Frame) SortTable() []sorting.Entry {
	return f.sortTable.Slice()
}
