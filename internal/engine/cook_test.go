package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-points-resampler/internal/sorting"
	"github.com/tphakala/go-points-resampler/internal/testutil"
	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// =============================================================================
// Rebuild / Skip
// =============================================================================

func staticSummary() Summary {
	return DeriveSummary(PropertyInfo{HasIDs: true}, false)
}

func interpolatingSummary() Summary {
	return DeriveSummary(PropertyInfo{HasIDs: true, ConstantIDs: true}, true)
}

func TestCook_SortedEndToEnd(t *testing.T) {
	f := NewFrame()
	params := DefaultParams()
	params.Sort = true

	res := Cook(f, CookInput{
		Summary:      staticSummary(),
		IndexChanged: true,
		Current: &Snapshot{
			Positions: []vecmath.Vec3{{3, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 0, 0}},
			IDs:       []uint64{30, 10, 20, 0},
			Visible:   true,
		},
		Params: params,
	})

	assert.True(t, res.Rebuilt)
	assert.True(t, res.Sorted)
	assert.Equal(t, 4, res.Count)
	assert.Equal(t, []vecmath.Vec3{{3, 0, 0}, {2, 0, 0}, {1, 0, 0}, {0, 0, 0}}, f.Positions())
	assert.Equal(t, []uint32{30, 20, 10, 0}, f.IDs())
	assert.Equal(t, []int32{0, 2, 1, 3}, []int32{
		f.SortTable()[0].Index, f.SortTable()[1].Index, f.SortTable()[2].Index, f.SortTable()[3].Index,
	})
	assert.True(t, f.Visible())
	assert.Equal(t, vecmath.Bounds{Center: vecmath.Vec3{1.5, 0, 0}, Size: vecmath.Vec3{3, 0, 0}}, f.Bounds())
}

func TestCook_SkipWhenIndexUnchanged(t *testing.T) {
	f := NewFrame()
	snap := &Snapshot{
		Positions:  testutil.RandomPositions(64, 1),
		Velocities: testutil.RandomPositions(64, 2),
		IDs:        make([]uint64, 64),
	}
	in := CookInput{
		Summary:      DeriveSummary(PropertyInfo{HasVelocities: true, HasIDs: true}, false),
		IndexChanged: true,
		Current:      snap,
		Params:       DefaultParams(),
	}
	in.Params.Sort = true

	Cook(f, in)
	wantPts := append([]vecmath.Vec3(nil), f.Positions()...)
	wantVel := append([]vecmath.Vec3(nil), f.Velocities()...)
	wantBounds := f.Bounds()

	// A second cook with the same index must be a no-op, even if the borrowed
	// snapshot memory has since been reused by the reader.
	in.IndexChanged = false
	in.Current = &Snapshot{Positions: testutil.RandomPositions(10, 99)}
	res := Cook(f, in)

	assert.True(t, res.Skipped)
	assert.Equal(t, wantPts, f.Positions())
	assert.Equal(t, wantVel, f.Velocities())
	assert.Equal(t, wantBounds, f.Bounds())
}

func TestCook_UnsortedIsIdentity(t *testing.T) {
	f := NewFrame()
	pts := testutil.RandomPositions(100, 3)

	Cook(f, CookInput{
		Summary:      staticSummary(),
		IndexChanged: true,
		Current:      &Snapshot{Positions: pts},
		Params:       DefaultParams(),
	})

	assert.Equal(t, pts, f.Positions())
	assert.Empty(t, f.SortTable())
	assert.Nil(t, f.IDs(), "absent IDs must not be reported")
	assert.Nil(t, f.Velocities())
}

func TestCook_SortIsPermutation(t *testing.T) {
	f := NewFrame()
	pts := testutil.RandomPositions(20_000, 4)
	ref := vecmath.Vec3{10, -20, 5}
	params := DefaultParams()
	params.Sort = true
	params.SortPosition = ref
	params.Sorter = sorting.NewParallel(4, 0)

	Cook(f, CookInput{
		Summary:      staticSummary(),
		IndexChanged: true,
		Current:      &Snapshot{Positions: pts},
		Params:       params,
	})

	testutil.AssertSameVec3Multiset(t, pts, f.Positions())
	testutil.AssertNonIncreasing(t, testutil.DistanceFrom(f.Positions(), ref))
}

func TestCook_SortedVelocitiesFollowPoints(t *testing.T) {
	f := NewFrame()
	params := DefaultParams()
	params.Sort = true

	Cook(f, CookInput{
		Summary:      DeriveSummary(PropertyInfo{HasVelocities: true}, false),
		IndexChanged: true,
		Current: &Snapshot{
			Positions:  []vecmath.Vec3{{1, 0, 0}, {5, 0, 0}},
			Velocities: []vecmath.Vec3{{0, 1, 0}, {0, 5, 0}},
		},
		Params: params,
	})

	assert.Equal(t, []vecmath.Vec3{{5, 0, 0}, {1, 0, 0}}, f.Positions())
	assert.Equal(t, []vecmath.Vec3{{0, 5, 0}, {0, 1, 0}}, f.Velocities())
}

func TestCook_FlipThenScale(t *testing.T) {
	f := NewFrame()
	params := DefaultParams()
	params.SwapHandedness = true
	params.HandednessAxis = vecmath.AxisY
	params.ScaleFactor = 2

	Cook(f, CookInput{
		Summary:      DeriveSummary(PropertyInfo{HasVelocities: true}, false),
		IndexChanged: true,
		Current: &Snapshot{
			Positions:  []vecmath.Vec3{{1, 2, 3}},
			Velocities: []vecmath.Vec3{{1, 1, 1}},
		},
		Params: params,
	})

	assert.Equal(t, []vecmath.Vec3{{2, -4, 6}}, f.Positions())
	assert.Equal(t, []vecmath.Vec3{{2, -2, 2}}, f.Velocities())
	assert.Equal(t, vecmath.Vec3{2, -4, 6}, f.Bounds().Center)
}

func TestCook_EmptySnapshot(t *testing.T) {
	f := NewFrame()
	params := DefaultParams()
	params.Sort = true

	var res CookResult
	require.NotPanics(t, func() {
		res = Cook(f, CookInput{
			Summary:      staticSummary(),
			IndexChanged: true,
			Current:      &Snapshot{Positions: []vecmath.Vec3{}, IDs: []uint64{}},
			Params:       params,
		})
	})

	assert.Equal(t, 0, res.Count)
	assert.Empty(t, f.Positions())
	assert.Equal(t, vecmath.Bounds{}, f.Bounds())
}

func TestCook_ShrinkingSnapshot(t *testing.T) {
	f := NewFrame()
	in := CookInput{
		Summary:      staticSummary(),
		IndexChanged: true,
		Current:      &Snapshot{Positions: testutil.IndexedPositions(100), IDs: make([]uint64, 100)},
		Params:       DefaultParams(),
	}
	Cook(f, in)
	require.Len(t, f.Positions(), 100)

	in.Current = &Snapshot{Positions: testutil.IndexedPositions(10), IDs: make([]uint64, 10)}
	Cook(f, in)
	assert.Len(t, f.Positions(), 10)
	assert.Len(t, f.IDs(), 10)
	assert.Equal(t, testutil.IndexedPositions(10), f.Positions())
}

func TestCook_IDsDropWhenAbsent(t *testing.T) {
	f := NewFrame()
	in := CookInput{
		Summary:      staticSummary(),
		IndexChanged: true,
		Current:      &Snapshot{Positions: testutil.IndexedPositions(3), IDs: []uint64{1, 2, 3}},
		Params:       DefaultParams(),
	}
	Cook(f, in)
	require.Equal(t, []uint32{1, 2, 3}, f.IDs())

	in.Current = &Snapshot{Positions: testutil.IndexedPositions(3)}
	Cook(f, in)
	assert.Nil(t, f.IDs())
}

// =============================================================================
// Interpolation
// =============================================================================

func TestCook_InterpolatesEveryCall(t *testing.T) {
	f := NewFrame()
	summary := interpolatingSummary()
	require.True(t, summary.InterpolatePoints)
	require.True(t, summary.ComputeVelocities)

	cur := &Snapshot{Positions: []vecmath.Vec3{{0, 0, 0}, {10, 0, 0}}, IDs: []uint64{1, 2}}
	next := &Snapshot{Positions: []vecmath.Vec3{{4, 0, 0}, {10, 8, 0}}, IDs: []uint64{1, 2}}

	res := Cook(f, CookInput{
		Summary: summary, IndexChanged: true, Current: cur, Next: next,
		Offset: 0.25, Params: DefaultParams(),
	})
	assert.True(t, res.Rebuilt)
	assert.True(t, res.Interpolated)
	assert.True(t, res.VelocityFallback, "first frame has no previous positions")
	assert.False(t, res.TopologyChanged)
	assert.True(t, f.Interpolated())
	assert.Equal(t, []vecmath.Vec3{{1, 0, 0}, {10, 2, 0}}, f.Positions())
	testutil.AssertAllZero(t, f.Velocities())

	// Same keyframes, later offset: no rebuild, fresh interpolation.
	res = Cook(f, CookInput{
		Summary: summary, IndexChanged: false, Offset: 0.75, Params: DefaultParams(),
	})
	assert.False(t, res.Rebuilt)
	assert.True(t, res.Interpolated)
	assert.False(t, res.VelocityFallback)
	assert.Equal(t, []vecmath.Vec3{{3, 0, 0}, {10, 6, 0}}, f.Positions())
	assert.Equal(t, []vecmath.Vec3{{2, 0, 0}, {0, 4, 0}}, f.Velocities())

	// Bounds follow the rebuilt keyframe, not the interpolated positions.
	assert.Equal(t, vecmath.Vec3{5, 0, 0}, f.Bounds().Center)
}

func TestCook_InterpolationBoundaries(t *testing.T) {
	cur := &Snapshot{Positions: testutil.RandomPositions(50, 5), IDs: make([]uint64, 50)}
	next := &Snapshot{Positions: testutil.RandomPositions(50, 6)}

	for _, tc := range []struct {
		offset float32
		want   []vecmath.Vec3
	}{
		{0, cur.Positions},
		{1, next.Positions},
	} {
		f := NewFrame()
		Cook(f, CookInput{
			Summary: interpolatingSummary(), IndexChanged: true, Current: cur, Next: next,
			Offset: tc.offset, Params: DefaultParams(),
		})
		testutil.AssertVec3sInDelta(t, tc.want, f.Positions(), testutil.LooseTolerance)
	}
}

func TestCook_MotionScale(t *testing.T) {
	f := NewFrame()
	params := DefaultParams()
	params.VertexMotionScale = 10
	cur := &Snapshot{Positions: []vecmath.Vec3{{0, 0, 0}}, IDs: []uint64{1}}
	next := &Snapshot{Positions: []vecmath.Vec3{{1, 0, 0}}, IDs: []uint64{1}}

	Cook(f, CookInput{Summary: interpolatingSummary(), IndexChanged: true, Current: cur, Next: next, Params: params})
	Cook(f, CookInput{Summary: interpolatingSummary(), Offset: 0.5, Params: params})

	assert.Equal(t, []vecmath.Vec3{{5, 0, 0}}, f.Velocities())
}

func TestCook_TopologyChangeZeroFillsVelocities(t *testing.T) {
	f := NewFrame()
	summary := interpolatingSummary()

	Cook(f, CookInput{
		Summary: summary, IndexChanged: true,
		Current: &Snapshot{Positions: testutil.IndexedPositions(7), IDs: make([]uint64, 7)},
		Next:    &Snapshot{Positions: testutil.IndexedPositions(7)},
		Offset:  0.5, Params: DefaultParams(),
	})

	res := Cook(f, CookInput{
		Summary: summary, IndexChanged: true,
		Current: &Snapshot{Positions: testutil.IndexedPositions(10), IDs: make([]uint64, 10)},
		Next:    &Snapshot{Positions: testutil.IndexedPositions(10)},
		Offset:  0.5, Params: DefaultParams(),
	})

	assert.True(t, res.VelocityFallback)
	assert.True(t, res.TopologyChanged)
	require.Len(t, f.Velocities(), 10)
	testutil.AssertAllZero(t, f.Velocities())
}

func TestCook_InterpolatedCopiesAreTransformed(t *testing.T) {
	f := NewFrame()
	params := DefaultParams()
	params.SwapHandedness = true
	params.HandednessAxis = vecmath.AxisY
	params.ScaleFactor = 2

	Cook(f, CookInput{
		Summary: interpolatingSummary(), IndexChanged: true,
		Current: &Snapshot{Positions: []vecmath.Vec3{{1, 2, 3}}, IDs: []uint64{1}},
		Next:    &Snapshot{Positions: []vecmath.Vec3{{1, 2, 3}}},
		Offset:  0.5, Params: params,
	})

	assert.Equal(t, []vecmath.Vec3{{2, -4, 6}}, f.Positions())
}

func TestCook_SortedInterpolationUsesSamePermutation(t *testing.T) {
	f := NewFrame()
	params := DefaultParams()
	params.Sort = true

	Cook(f, CookInput{
		Summary: interpolatingSummary(), IndexChanged: true,
		Current: &Snapshot{Positions: []vecmath.Vec3{{1, 0, 0}, {9, 0, 0}}, IDs: []uint64{1, 2}},
		Next:    &Snapshot{Positions: []vecmath.Vec3{{2, 0, 0}, {8, 0, 0}}},
		Offset:  1, Params: params,
	})

	// Point 1 is farther in the current keyframe, so it leads in both.
	assert.Equal(t, []vecmath.Vec3{{8, 0, 0}, {2, 0, 0}}, f.Positions())
}

// =============================================================================
// Summary
// =============================================================================

func TestDeriveSummary(t *testing.T) {
	testCases := []struct {
		name        string
		info        PropertyInfo
		interpolate bool
		want        Summary
	}{
		{
			name: "static_points",
			info: PropertyInfo{ConstantPositions: true, HasIDs: true, ConstantIDs: true},
			want: Summary{ConstantPoints: true, HasIDs: true, ConstantIDs: true},
		},
		{
			name:        "interpolate_derives_velocities",
			info:        PropertyInfo{HasIDs: true, ConstantIDs: true},
			interpolate: true,
			want: Summary{
				HasIDs: true, ConstantIDs: true, HasVelocities: true,
				InterpolatePoints: true, ComputeVelocities: true,
			},
		},
		{
			name:        "interpolate_keeps_explicit_velocities",
			info:        PropertyInfo{HasVelocities: true, HasIDs: true, ConstantIDs: true},
			interpolate: true,
			want: Summary{
				HasIDs: true, ConstantIDs: true, HasVelocities: true,
				InterpolatePoints: true,
			},
		},
		{
			name:        "varying_ids_disable_interpolation",
			info:        PropertyInfo{HasIDs: true},
			interpolate: true,
			want:        Summary{HasIDs: true},
		},
		{
			name:        "ids_presence_independent_of_velocities",
			info:        PropertyInfo{HasVelocities: true},
			interpolate: true,
			want:        Summary{HasVelocities: true},
		},
		{
			name:        "constant_points_never_interpolate",
			info:        PropertyInfo{ConstantPositions: true, HasIDs: true, ConstantIDs: true},
			interpolate: true,
			want:        Summary{ConstantPoints: true, HasIDs: true, ConstantIDs: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveSummary(tc.info, tc.interpolate)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestSummary_Valid(t *testing.T) {
	assert.False(t, Summary{ConstantPoints: true, InterpolatePoints: true}.Valid())
	assert.False(t, Summary{ComputeVelocities: true}.Valid())
	assert.True(t, Summary{}.Valid())
}
