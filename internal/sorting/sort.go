// Package sorting computes the farthest-first permutation used to reorder
// points for back-to-front compositing.
//
// Entries are ordered by descending distance with ties broken by ascending
// index. Because that comparison is a strict total order, the serial and
// parallel sorters produce bit-identical tables for the same input.
package sorting

import (
	"cmp"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-points-resampler/internal/buffer"
	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// Entry pairs a point's distance from the reference with its original index.
type Entry struct {
	Distance float32
	Index    int32
}

// Compare orders a before b when a is farther, or equally far with a lower index.
func Compare(a, b Entry) int {
	if c := cmp.Compare(b.Distance, a.Distance); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}

// Build resizes table to len(pts) and fills it with the distance of every
// point from ref, in original order.
func Build(table *buffer.Buffer[Entry], pts []vecmath.Vec3, ref vecmath.Vec3) {
	table.ResizeDiscard(len(pts))
	entries := table.Slice()
	origin := ref.R3()
	for i, p := range pts {
		entries[i] = Entry{
			Distance: float32(r3.Norm(r3.Sub(p.R3(), origin))),
			Index:    int32(i),
		}
	}
}

// Sorter orders a distance table in place.
type Sorter interface {
	Sort(entries []Entry)
	Name() string
}

// Strategy selects a Sorter implementation.
type Strategy int

const (
	// StrategyAuto sorts in parallel once the table reaches the threshold.
	StrategyAuto Strategy = iota

	// StrategySerial always sorts on the calling goroutine.
	StrategySerial

	// StrategyParallel always splits the table across goroutines.
	StrategyParallel
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategySerial:
		return "serial"
	case StrategyParallel:
		return "parallel"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a configuration name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "auto":
		return StrategyAuto, nil
	case "serial":
		return StrategySerial, nil
	case "parallel":
		return StrategyParallel, nil
	default:
		return StrategyAuto, fmt.Errorf("unknown sort strategy %q", name)
	}
}

// ForStrategy returns a new Sorter for s. threshold is the minimum table size
// for which StrategyAuto goes parallel; values <= 0 use the default.
func ForStrategy(s Strategy, threshold int) Sorter {
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	switch s {
	case StrategySerial:
		return Serial{}
	case StrategyParallel:
		return NewParallel(0, 0)
	default:
		return NewParallel(0, threshold)
	}
}

// Serial sorts with slices.SortFunc on the calling goroutine.
type Serial struct{}

// Sort orders entries farthest-first.
func (Serial) Sort(entries []Entry) {
	slices.SortFunc(entries, Compare)
}

// Name returns "serial".
func (Serial) Name() string { return "serial" }

// Parallel sorts contiguous chunks concurrently and merges them pairwise.
// It keeps a scratch buffer between calls, so one instance must not be used
// by several goroutines at once.
type Parallel struct {
	workers   int
	threshold int
	scratch   buffer.Buffer[Entry]
}

// NewParallel creates a parallel sorter. workers <= 0 uses GOMAXPROCS.
// Tables shorter than threshold are sorted serially.
func NewParallel(workers, threshold int) *Parallel {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Parallel{workers: workers, threshold: threshold}
}

// Name returns "parallel".
func (p *Parallel) Name() string { return "parallel" }

// Sort orders entries farthest-first.
func (p *Parallel) Sort(entries []Entry) {
	n := len(entries)
	chunks := min(p.workers, n/minChunkSize)
	if n < p.threshold || chunks < 2 {
		slices.SortFunc(entries, Compare)
		return
	}

	bounds := make([]int, chunks+1)
	for i := range bounds {
		bounds[i] = i * n / chunks
	}

	var g errgroup.Group
	for i := range chunks {
		run := entries[bounds[i]:bounds[i+1]]
		g.Go(func() error {
			slices.SortFunc(run, Compare)
			return nil
		})
	}
	_ = g.Wait()

	p.scratch.ResizeDiscard(n)
	src, dst := entries, p.scratch.Slice()
	for len(bounds) > 2 {
		next := make([]int, 0, len(bounds)/2+1)
		var mg errgroup.Group
		for i := 0; i+1 < len(bounds); i += 2 {
			lo := bounds[i]
			if i+2 >= len(bounds) {
				// Odd run out: carry it over unchanged.
				hi := bounds[i+1]
				mg.Go(func() error {
					copy(dst[lo:hi], src[lo:hi])
					return nil
				})
				next = append(next, lo)
				continue
			}
			mid, hi := bounds[i+1], bounds[i+2]
			mg.Go(func() error {
				merge(dst[lo:hi], src[lo:mid], src[mid:hi])
				return nil
			})
			next = append(next, lo)
		}
		_ = mg.Wait()
		next = append(next, n)
		bounds = next
		src, dst = dst, src
	}

	if &src[0] != &entries[0] {
		copy(entries, src)
	}
}

// merge combines two sorted runs into dst, which must hold len(a)+len(b).
func merge(dst, a, b []Entry) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if Compare(b[j], a[i]) < 0 {
			dst[k] = b[j]
			j++
		} else {
			dst[k] = a[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}
