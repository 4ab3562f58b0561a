package resampler

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSortStrategiesAgree checks that every sort strategy yields the same
// delivered order, including for points at equal distance.
func TestSortStrategiesAgree(t *testing.T) {
	const numPoints = 50_000

	rng := rand.New(rand.NewPCG(7, 11))
	pts := make([]Vec3, numPoints)
	ids := make([]uint64, numPoints)
	for i := range pts {
		// Quantized coordinates produce many equal distances.
		pts[i] = Vec3{
			float32(rng.IntN(20) - 10),
			float32(rng.IntN(20) - 10),
			float32(rng.IntN(20) - 10),
		}
		ids[i] = uint64(i)
	}

	cook := func(t *testing.T, strategy string) *Target {
		t.Helper()
		reader := newFakeReader(PropertyInfo{HasIDs: true}, pts)
		reader.ids = [][]uint64{ids}

		cfg := DefaultConfig()
		cfg.Sort = true
		cfg.SortPosition = Vec3{1, 2, 3}
		cfg.SortStrategy = strategy
		cfg.ParallelSortThreshold = 1024

		p, err := New(reader, unitSampling(1), &cfg)
		require.NoError(t, err)
		defer func() { _ = p.Close() }()

		s, err := p.Cook(context.Background(), 0)
		require.NoError(t, err)
		target := NewTarget(p.Summary(), numPoints)
		s.Deliver(target, false)
		s.Wait()
		return target
	}

	serial := cook(t, "serial")
	for _, strategy := range []string{"parallel", "auto"} {
		t.Run(strategy, func(t *testing.T) {
			got := cook(t, strategy)
			assert.Equal(t, serial.IDs, got.IDs)
			assert.Equal(t, serial.Positions, got.Positions)
		})
	}
}

func BenchmarkCookSorted(b *testing.B) {
	const numPoints = 100_000
	rng := rand.New(rand.NewPCG(1, 2))
	pts := make([]Vec3, numPoints)
	for i := range pts {
		pts[i] = Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
	}

	for _, strategy := range []string{"serial", "parallel"} {
		b.Run(strategy, func(b *testing.B) {
			reader := newFakeReader(PropertyInfo{}, pts)
			cfg := DefaultConfig()
			cfg.Sort = true
			cfg.SortStrategy = strategy
			p, err := New(reader, unitSampling(1), &cfg)
			if err != nil {
				b.Fatal(err)
			}
			ctx := context.Background()
			b.ResetTimer()
			for i := range b.N {
				// Alternate the reference point so every iteration rebuilds.
				p.SetSortPosition(Vec3{float32(i % 2), 0, 0})
				if _, err := p.Cook(ctx, 0); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
