package resampler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tphakala/go-points-resampler/internal/engine"
	"github.com/tphakala/go-points-resampler/internal/sorting"
)

// Points cooks the samples of one points node.
//
// A Points instance owns a single reusable Sample. Cook, Deliver, Wait and
// Close must be called from one goroutine; different Points instances are
// fully independent and may be driven concurrently.
type Points struct {
	reader   Reader
	sampling Sampling
	config   Config
	info     PropertyInfo
	summary  Summary
	sorter   sorting.Sorter
	logger   *zap.Logger

	sort         bool
	sortPosition Vec3

	sample    *Sample
	lastIndex int
	cooked    bool
	dirty     bool
}

// Sample is the cooked output of a Points node for the most recent Cook.
// It stays owned by its Points and is overwritten by the next Cook.
type Sample struct {
	frame     *engine.Frame
	deliverer *engine.Deliverer
	index     int
	offset    float32
}

// SampleSummary describes a cooked sample.
type SampleSummary struct {
	// Count is the number of points in the cooked keyframe.
	Count int
}

// Option configures a Points node.
type Option func(*Points)

// WithLogger sets the logger used for cook diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Points) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSorter overrides the sorter selected by Config.SortStrategy.
func WithSorter(s sorting.Sorter) Option {
	return func(p *Points) {
		if s != nil {
			p.sorter = s
		}
	}
}

// New creates a points node reading from reader and mapping time with sampling.
// A nil config uses DefaultConfig.
func New(reader Reader, sampling Sampling, config *Config, opts ...Option) (*Points, error) {
	if reader == nil || sampling == nil {
		return nil, fmt.Errorf("%w: reader and sampling are required", ErrNilCollaborator)
	}

	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	strategy, err := sorting.ParseStrategy(cfg.SortStrategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	info := reader.Properties()
	p := &Points{
		reader:       reader,
		sampling:     sampling,
		config:       cfg,
		info:         info,
		summary:      engine.DeriveSummary(info, cfg.InterpolateSamples),
		sorter:       sorting.ForStrategy(strategy, cfg.ParallelSortThreshold),
		logger:       zap.NewNop(),
		sort:         cfg.Sort,
		sortPosition: cfg.SortPosition,
		sample: &Sample{
			frame:     engine.NewFrame(),
			deliverer: engine.NewDeliverer(cfg.AsyncLoad),
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	p.logger.Debug("points node created",
		zap.Int("samples", reader.SampleCount()),
		zap.Bool("interpolate", p.summary.InterpolatePoints),
		zap.Bool("compute_velocities", p.summary.ComputeVelocities),
		zap.String("sorter", p.sorter.Name()),
	)

	return p, nil
}

// Cook produces the sample for playback time t.
//
// Any background delivery from the previous sample is joined first. Raw
// properties are only read when the keyframe index changes (or sort settings
// changed); interpolating streams are re-blended on every call.
func (p *Points) Cook(ctx context.Context, t float64) (*Sample, error) {
	s := p.sample
	s.deliverer.Wait()

	index, offset := p.sampling.IndexAt(t)
	count := p.reader.SampleCount()
	if index < 0 || index >= count {
		return nil, fmt.Errorf("%w: index %d for time %g (samples: %d)", ErrSampleIndex, index, t, count)
	}

	changed := !p.cooked || p.dirty || index != p.lastIndex
	in := engine.CookInput{
		Summary:      p.summary,
		IndexChanged: changed,
		Offset:       offset,
		Params:       p.params(),
	}

	if changed {
		cur, next, err := p.read(ctx, index)
		if err != nil {
			p.logger.Error("sample read failed", zap.Int("index", index), zap.Error(err))
			return nil, err
		}
		in.Current = cur
		in.Next = next
	}

	res := engine.Cook(s.frame, in)
	p.lastIndex = index
	p.cooked = true
	p.dirty = false
	s.index = index
	s.offset = offset

	if res.TopologyChanged {
		p.logger.Warn("point count changed between interpolated frames, velocities zeroed",
			zap.Int("index", index),
			zap.Int("count", res.Count),
		)
	}
	if !res.Skipped {
		p.logger.Debug("sample cooked",
			zap.Int("index", index),
			zap.Float32("offset", offset),
			zap.Int("count", res.Count),
			zap.Bool("rebuilt", res.Rebuilt),
			zap.Bool("sorted", res.Sorted),
			zap.Bool("interpolated", res.Interpolated),
		)
	}

	return s, nil
}

// read fetches the borrowed snapshots for a changed index.
func (p *Points) read(ctx context.Context, index int) (cur, next *engine.Snapshot, err error) {
	cur = &engine.Snapshot{}

	if cur.Visible, err = p.reader.Visibility(ctx, index); err != nil {
		return nil, nil, fmt.Errorf("%w: visibility at %d: %w", ErrRead, index, err)
	}
	if cur.Positions, err = p.reader.Positions(ctx, index); err != nil {
		return nil, nil, fmt.Errorf("%w: positions at %d: %w", ErrRead, index, err)
	}
	if p.info.HasVelocities && !p.summary.ComputeVelocities {
		if cur.Velocities, err = p.reader.Velocities(ctx, index); err != nil {
			return nil, nil, fmt.Errorf("%w: velocities at %d: %w", ErrRead, index, err)
		}
		if cur.Velocities == nil {
			cur.Velocities = []Vec3{}
		}
	}
	if p.info.HasIDs {
		if cur.IDs, err = p.reader.IDs(ctx, index); err != nil {
			return nil, nil, fmt.Errorf("%w: ids at %d: %w", ErrRead, index, err)
		}
		if cur.IDs == nil {
			cur.IDs = []uint64{}
		}
	}

	if p.summary.InterpolatePoints {
		// The last keyframe interpolates towards itself.
		nextIndex := min(index+1, p.reader.SampleCount()-1)
		next = &engine.Snapshot{}
		if next.Positions, err = p.reader.Positions(ctx, nextIndex); err != nil {
			return nil, nil, fmt.Errorf("%w: positions at %d: %w", ErrRead, nextIndex, err)
		}
	}

	return cur, next, nil
}

func (p *Points) params() engine.Params {
	return engine.Params{
		Sort:              p.sort,
		SortPosition:      p.sortPosition,
		Sorter:            p.sorter,
		SwapHandedness:    p.config.SwapHandedness,
		HandednessAxis:    p.config.HandednessAxis,
		ScaleFactor:       p.config.ScaleFactor,
		VertexMotionScale: p.config.VertexMotionScale,
	}
}

// SetSort enables or disables distance sorting. A change takes effect at the
// next Cook, which rebuilds even if the keyframe index is unchanged.
func (p *Points) SetSort(v bool) {
	if v != p.sort {
		p.dirty = true
	}
	p.sort = v
}

// Sort reports whether distance sorting is enabled.
func (p *Points) Sort() bool {
	return p.sort
}

// SetSortPosition sets the sort reference point.
func (p *Points) SetSortPosition(v Vec3) {
	if p.sort && v != p.sortPosition {
		p.dirty = true
	}
	p.sortPosition = v
}

// SortPosition returns the sort reference point.
func (p *Points) SortPosition() Vec3 {
	return p.sortPosition
}

// Summary returns the stream summary derived at construction.
func (p *Points) Summary() Summary {
	return p.summary
}

// Config returns the configuration the node was created with.
func (p *Points) Config() Config {
	return p.config
}

// Close joins any outstanding background delivery. The node must not be used
// afterwards.
func (p *Points) Close() error {
	p.sample.deliverer.Wait()
	return nil
}

// Deliver copies the sample into target. Unless sync is set, ForceSync is in
// effect, or Config.AsyncLoad is false, the copy runs in the background and
// target must not be read until Wait returns.
func (s *Sample) Deliver(target *Target, sync bool) {
	s.deliverer.Deliver(s.frame, target, sync)
}

// Wait blocks until any background delivery has finished. It also clears
// ForceSync.
func (s *Sample) Wait() {
	s.deliverer.Wait()
}

// ForceSync makes deliveries synchronous until the next Wait.
func (s *Sample) ForceSync() {
	s.deliverer.ForceSync()
}

// Summary returns the point count of the cooked sample.
func (s *Sample) Summary() SampleSummary {
	return SampleSummary{Count: s.frame.Count()}
}

// Index returns the keyframe index the sample was cooked from.
func (s *Sample) Index() int {
	return s.index
}

// Offset returns the interpolation offset the sample was cooked with.
func (s *Sample) Offset() float32 {
	return s.offset
}

// Bounds returns the sample's bounding box.
func (s *Sample) Bounds() Bounds {
	return s.frame.Bounds()
}

// Visible returns the sample's visibility.
func (s *Sample) Visible() bool {
	return s.frame.Visible()
}
