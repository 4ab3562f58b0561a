package engine

import (
	"github.com/tphakala/go-points-resampler/internal/remap"
	"github.com/tphakala/go-points-resampler/internal/sorting"
	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// Params are the per-node cook settings.
type Params struct {
	Sort         bool
	SortPosition vecmath.Vec3
	Sorter       sorting.Sorter // nil sorts serially

	SwapHandedness    bool
	HandednessAxis    vecmath.Axis
	ScaleFactor       float32
	VertexMotionScale float32
}

// DefaultParams returns unsorted, unconverted settings with unit scales.
func DefaultParams() Params {
	return Params{
		ScaleFactor:       1,
		VertexMotionScale: 1,
	}
}

// CookInput is everything one Cook call needs.
type CookInput struct {
	Summary Summary

	// IndexChanged is true when the sample index differs from the last cook,
	// or on the first cook of a frame.
	IndexChanged bool

	// Current is the keyframe at the sample index. Required when IndexChanged.
	Current *Snapshot

	// Next is the following keyframe; only its positions are read.
	// Required when IndexChanged and the summary interpolates.
	Next *Snapshot

	// Offset is the interpolation fraction in [0, 1] between Current and Next.
	Offset float32

	Params Params
}

// CookResult reports which stages of the state machine ran.
type CookResult struct {
	Skipped          bool
	Rebuilt          bool
	Sorted           bool
	Interpolated     bool
	VelocityFallback bool // derived velocities were zero-filled
	TopologyChanged  bool // the fallback was caused by a point count change, not a first frame
	Count            int
}

// Cook updates f for one requested time.
//
// Nothing is recomputed when the topology is stable and the sample index did
// not change. A changed index rebuilds positions, velocities, IDs and bounds
// from the snapshots. Interpolating streams additionally blend the two
// keyframes on every call, since the offset moves even between keyframes.
func Cook(f *Frame, in CookInput) CookResult {
	summary := in.Summary
	if !summary.InterpolatePoints && !in.IndexChanged {
		return CookResult{Skipped: true, Count: f.Count()}
	}

	var res CookResult
	if in.IndexChanged && in.Current != nil {
		res.Sorted = rebuild(f, in)
		res.Rebuilt = true
	}

	if summary.InterpolatePoints {
		prev, ok := interpolate(f, in)
		res.Interpolated = true
		res.VelocityFallback = !ok
		res.TopologyChanged = !ok && prev > 0
	}

	res.Count = f.Count()
	return res
}

// rebuild copies the snapshots into the frame, applies coordinate conversion
// and recomputes bounds. It reports whether the points were sorted.
func rebuild(f *Frame, in CookInput) bool {
	cur := in.Current
	p := in.Params
	summary := in.Summary
	count := len(cur.Positions)

	var next []vecmath.Vec3
	if summary.InterpolatePoints && in.Next != nil {
		next = in.Next.Positions
	}
	explicitVelocities := !summary.ComputeVelocities && cur.Velocities != nil

	if p.Sort {
		sorting.Build(&f.sortTable, cur.Positions, p.SortPosition)
		sorter := p.Sorter
		if sorter == nil {
			sorter = sorting.Serial{}
		}
		sorter.Sort(f.sortTable.Slice())
		table := f.sortTable.Slice()

		remap.Remap(&f.points, cur.Positions, table, remap.Vec3)
		if summary.InterpolatePoints {
			remap.Remap(&f.points2, next, table, remap.Vec3)
		}
		if explicitVelocities {
			remap.Remap(&f.velocities, cur.Velocities, table, remap.Vec3)
		}
		if cur.IDs != nil {
			remap.Remap(&f.ids, cur.IDs, table, remap.NarrowID)
		}
	} else {
		f.sortTable.Reset()
		remap.Assign(&f.points, cur.Positions, count, remap.Vec3)
		if summary.InterpolatePoints {
			remap.Assign(&f.points2, next, count, remap.Vec3)
		}
		if explicitVelocities {
			remap.Assign(&f.velocities, cur.Velocities, count, remap.Vec3)
		}
		if cur.IDs != nil {
			remap.Assign(&f.ids, cur.IDs, count, remap.NarrowID)
		}
	}

	if !summary.InterpolatePoints {
		f.points2.Reset()
	}
	if !explicitVelocities && !summary.ComputeVelocities {
		f.velocities.Reset()
	}
	if cur.IDs == nil {
		f.ids.Reset()
	}
	f.active = &f.points
	f.visible = cur.Visible

	// Flip before scale; derived velocities inherit both from the positions.
	if p.SwapHandedness {
		vecmath.SwapHandedness(f.points.Slice(), p.HandednessAxis)
		vecmath.SwapHandedness(f.points2.Slice(), p.HandednessAxis)
		if explicitVelocities {
			vecmath.SwapHandedness(f.velocities.Slice(), p.HandednessAxis)
		}
	}
	if p.ScaleFactor != 1 {
		vecmath.ApplyScale(f.points.Slice(), p.ScaleFactor)
		vecmath.ApplyScale(f.points2.Slice(), p.ScaleFactor)
		if explicitVelocities {
			vecmath.ApplyScale(f.velocities.Slice(), p.ScaleFactor)
		}
	}

	f.bounds = vecmath.BoundsOf(f.points.Slice())
	return p.Sort
}

// interpolate blends the two keyframes into pointsInt and, when required,
// derives velocities from the previous interpolated positions. It returns the
// previous interpolated point count and false if velocities had to be
// zero-filled because that count differs from the current one.
func interpolate(f *Frame, in CookInput) (int, bool) {
	compute := in.Summary.ComputeVelocities
	if compute {
		f.pointsInt.Swap(&f.pointsPrev)
	}

	n := f.points.Len()
	f.pointsInt.ResizeDiscard(n)
	// Without a rebuilt next keyframe the tail is held at the primary positions.
	m := min(n, f.points2.Len())
	vecmath.Lerp(f.pointsInt.Slice()[:m], f.points.Slice(), f.points2.Slice(), in.Offset)
	copy(f.pointsInt.Slice()[m:], f.points.Slice()[m:])
	f.active = &f.pointsInt

	if !compute {
		return 0, true
	}
	f.velocities.ResizeDiscard(n)
	ok := vecmath.GenerateVelocities(f.velocities.Slice(), f.pointsInt.Slice(), f.pointsPrev.Slice(),
		in.Params.VertexMotionScale)
	return f.pointsPrev.Len(), ok
}
