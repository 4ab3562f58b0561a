package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	resampler "github.com/tphakala/go-points-resampler"
	"github.com/tphakala/go-points-resampler/internal/config"
	"github.com/tphakala/go-points-resampler/internal/memstore"
)

// playStats summarizes a playback run.
type playStats struct {
	Cooks     int
	Rebuilds  int
	MaxPoints int
	Elapsed   time.Duration
}

// cookTimes returns the playback times from start to end (inclusive) at
// rate calls per second, capped at limit entries when limit > 0.
func cookTimes(start, end, rate float64, limit int) []float64 {
	if rate <= 0 || end < start {
		return nil
	}
	n := int((end-start)*rate+1e-9) + 1
	if limit > 0 {
		n = min(n, limit)
	}
	times := make([]float64, n)
	for i := range times {
		times[i] = start + float64(i)/rate
	}
	return times
}

// play cooks every playback time and delivers each sample into a target
// sized for it.
func play(ctx context.Context, store *memstore.Store, cfg *config.Config, log *zap.Logger) (playStats, error) {
	var stats playStats

	sampling := store.Sampling()
	p, err := resampler.New(store, sampling, &cfg.Points, resampler.WithLogger(log.Named("points")))
	if err != nil {
		return stats, err
	}
	defer func() { _ = p.Close() }()

	end := cfg.Playback.End
	if end <= cfg.Playback.Start {
		end = sampling.TimeAt(sampling.Count - 1)
	}
	times := cookTimes(cfg.Playback.Start, end, cfg.Playback.Rate, cfg.Playback.Limit)

	log.Info("playback starting",
		zap.String("scene", cfg.Playback.Scene),
		zap.Int("keyframes", store.SampleCount()),
		zap.Int("cooks", len(times)),
		zap.Bool("interpolate", p.Summary().InterpolatePoints),
		zap.Bool("sort", p.Sort()),
	)

	began := time.Now()
	lastIndex := -1
	var target *resampler.Target
	for _, t := range times {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		s, err := p.Cook(ctx, t)
		if err != nil {
			return stats, fmt.Errorf("cook at %gs: %w", t, err)
		}
		stats.Cooks++
		if s.Index() != lastIndex {
			stats.Rebuilds++
			lastIndex = s.Index()
		}

		// Cook joined the previous delivery, so the target can be replaced.
		count := s.Summary().Count
		stats.MaxPoints = max(stats.MaxPoints, count)
		if target == nil || len(target.Positions) != count {
			target = resampler.NewTarget(p.Summary(), count)
		}

		sync := !cfg.Playback.Async || cfg.Playback.Dump
		s.Deliver(target, sync)

		bounds := s.Bounds()
		log.Debug("sample delivered",
			zap.Float64("time", t),
			zap.Int("index", s.Index()),
			zap.Float32("offset", s.Offset()),
			zap.Int("count", count),
			zap.Bool("visible", s.Visible()),
			zap.Stringer("center", bounds.Center),
			zap.Stringer("size", bounds.Size),
		)
		if cfg.Playback.Dump {
			dumpTarget(log, target)
		}
	}

	stats.Elapsed = time.Since(began)
	return stats, nil
}

func dumpTarget(log *zap.Logger, target *resampler.Target) {
	for i, pos := range target.Positions {
		fields := []zap.Field{zap.Int("i", i), zap.Stringer("p", pos)}
		if target.Velocities != nil {
			fields = append(fields, zap.Stringer("v", target.Velocities[i]))
		}
		if target.IDs != nil {
			fields = append(fields, zap.Uint32("id", target.IDs[i]))
		}
		log.Info("point", fields...)
	}
}
