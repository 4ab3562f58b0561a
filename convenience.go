package resampler

import (
	"context"
	"fmt"
)

// CookAt cooks a single time and delivers it synchronously into target.
// It is a convenience for one-off evaluation; playback should keep a Points
// node alive so unchanged keyframes are not re-read.
func CookAt(ctx context.Context, reader Reader, sampling Sampling, config *Config, t float64, target *Target) (SampleSummary, error) {
	p, err := New(reader, sampling, config)
	if err != nil {
		return SampleSummary{}, err
	}
	defer func() { _ = p.Close() }()

	s, err := p.Cook(ctx, t)
	if err != nil {
		return SampleSummary{}, fmt.Errorf("cook at %g: %w", t, err)
	}
	s.Deliver(target, true)
	return s.Summary(), nil
}

// NewTarget allocates a target sized for count points. Velocities and IDs
// are only allocated when the summary reports them.
func NewTarget(summary Summary, count int) *Target {
	t := &Target{Positions: make([]Vec3, count)}
	if summary.HasVelocities {
		t.Velocities = make([]Vec3, count)
	}
	if summary.HasIDs {
		t.IDs = make([]uint32, count)
	}
	return t
}
