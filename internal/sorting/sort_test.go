package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-points-resampler/internal/buffer"
	"github.com/tphakala/go-points-resampler/internal/testutil"
	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

func indices(entries []Entry) []int32 {
	out := make([]int32, len(entries))
	for i, e := range entries {
		out[i] = e.Index
	}
	return out
}

func distances(entries []Entry) []float32 {
	out := make([]float32, len(entries))
	for i, e := range entries {
		out[i] = e.Distance
	}
	return out
}

func TestBuildAndSort_FarthestFirst(t *testing.T) {
	pts := []vecmath.Vec3{{3, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 0, 0}}

	var table buffer.Buffer[Entry]
	Build(&table, pts, vecmath.Vec3{})
	require.Equal(t, []float32{3, 1, 2, 0}, distances(table.Slice()))

	Serial{}.Sort(table.Slice())
	assert.Equal(t, []int32{0, 2, 1, 3}, indices(table.Slice()))
}

func TestBuild_RelativeToReference(t *testing.T) {
	pts := []vecmath.Vec3{{1, 1, 1}, {4, 5, 1}}

	var table buffer.Buffer[Entry]
	Build(&table, pts, vecmath.Vec3{1, 1, 1})
	assert.Equal(t, []float32{0, 5}, distances(table.Slice()))
}

func TestBuild_Empty(t *testing.T) {
	var table buffer.Buffer[Entry]
	Build(&table, nil, vecmath.Vec3{})
	assert.Equal(t, 0, table.Len())
	assert.NotPanics(t, func() { NewParallel(4, 0).Sort(table.Slice()) })
}

func TestCompare_TiesByIndex(t *testing.T) {
	entries := []Entry{{1, 3}, {2, 5}, {1, 0}, {2, 1}}
	Serial{}.Sort(entries)
	assert.Equal(t, []Entry{{2, 1}, {2, 5}, {1, 0}, {1, 3}}, entries)
}

func TestParallel_MatchesSerial(t *testing.T) {
	testCases := []struct {
		name    string
		n       int
		workers int
	}{
		{"below_chunk_size", 1000, 8},
		{"two_chunks", 2 * minChunkSize, 2},
		{"odd_chunk_count", 3*minChunkSize + 17, 3},
		{"many_chunks", 200_000, 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pts := testutil.RandomPositions(tc.n, uint64(tc.n))
			// Force exact ties so the tie-break is exercised.
			for i := 0; i < len(pts); i += 97 {
				pts[i] = vecmath.Vec3{10, 0, 0}
			}
			ref := vecmath.Vec3{1, -2, 3}

			var serial, parallel buffer.Buffer[Entry]
			Build(&serial, pts, ref)
			Build(&parallel, pts, ref)

			Serial{}.Sort(serial.Slice())
			NewParallel(tc.workers, 0).Sort(parallel.Slice())

			require.Equal(t, serial.Slice(), parallel.Slice())
			testutil.AssertNonIncreasing(t, distances(parallel.Slice()))
		})
	}
}

func TestParallel_IsPermutation(t *testing.T) {
	const n = 50_000
	pts := testutil.RandomPositions(n, 42)

	var table buffer.Buffer[Entry]
	Build(&table, pts, vecmath.Vec3{})
	NewParallel(4, 0).Sort(table.Slice())

	seen := make([]bool, n)
	for _, e := range table.Slice() {
		require.False(t, seen[e.Index], "index %d appears twice", e.Index)
		seen[e.Index] = true
	}
}

func TestParallel_ReusesScratch(t *testing.T) {
	p := NewParallel(4, 0)
	for seed := range uint64(3) {
		pts := testutil.RandomPositions(5*minChunkSize, seed)
		var want, got buffer.Buffer[Entry]
		Build(&want, pts, vecmath.Vec3{})
		Build(&got, pts, vecmath.Vec3{})

		Serial{}.Sort(want.Slice())
		p.Sort(got.Slice())
		require.Equal(t, want.Slice(), got.Slice(), "seed %d", seed)
	}
}

func TestForStrategy(t *testing.T) {
	assert.Equal(t, "serial", ForStrategy(StrategySerial, 0).Name())
	assert.Equal(t, "parallel", ForStrategy(StrategyParallel, 0).Name())

	auto, ok := ForStrategy(StrategyAuto, 0).(*Parallel)
	require.True(t, ok)
	assert.Equal(t, DefaultParallelThreshold, auto.threshold)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{StrategyAuto, StrategySerial, StrategyParallel} {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyAuto, got)

	_, err = ParseStrategy("bogus")
	assert.Error(t, err)
}
