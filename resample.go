package resampler

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-points-resampler/internal/engine"
	"github.com/tphakala/go-points-resampler/internal/sorting"
	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// Vec3 is a single-precision point or velocity.
type Vec3 = vecmath.Vec3

// Axis selects the component negated by the handedness conversion.
type Axis = vecmath.Axis

// Handedness axes.
const (
	AxisX = vecmath.AxisX
	AxisY = vecmath.AxisY
	AxisZ = vecmath.AxisZ
)

// Bounds is an axis-aligned bounding box given as center and full extent.
type Bounds = vecmath.Bounds

// Summary describes what a points stream supports and how it is cooked.
type Summary = engine.Summary

// PropertyInfo describes which properties a stream carries.
type PropertyInfo = engine.PropertyInfo

// Target is a set of caller-owned destination buffers for Sample.Deliver.
// Nil slices are not written.
type Target = engine.Target

// DeriveSummary computes the cook summary for a stream's properties.
// interpolate mirrors Config.InterpolateSamples.
func DeriveSummary(info PropertyInfo, interpolate bool) Summary {
	return engine.DeriveSummary(info, interpolate)
}

// Reader is the archive collaborator that supplies raw keyframe properties.
//
// Slices returned by Positions, Velocities and IDs are borrowed: they must
// stay valid until the Cook call that requested them returns, and are never
// retained after it.
type Reader interface {
	// Properties reports which properties exist and which are constant.
	Properties() PropertyInfo

	// SampleCount returns the number of stored keyframes.
	SampleCount() int

	// Positions returns the positions at keyframe index.
	Positions(ctx context.Context, index int) ([]Vec3, error)

	// Velocities returns the velocities at keyframe index.
	// Only called when Properties reports HasVelocities.
	Velocities(ctx context.Context, index int) ([]Vec3, error)

	// IDs returns the stable point IDs at keyframe index.
	// Only called when Properties reports HasIDs.
	IDs(ctx context.Context, index int) ([]uint64, error)

	// Visibility returns whether the node is visible at keyframe index.
	Visibility(ctx context.Context, index int) (bool, error)
}

// Sampling maps a playback time to a keyframe index and the fractional
// offset towards the following keyframe.
type Sampling interface {
	IndexAt(t float64) (index int, offset float32)
}

// Config holds the point cooking configuration.
type Config struct {
	// Sort orders points farthest-first from SortPosition.
	Sort bool `yaml:"sort" env:"SORT"`

	// SortPosition is the reference point for Sort, typically the camera.
	SortPosition Vec3 `yaml:"sort_position" env:"SORT_POSITION"`

	// SortStrategy selects the sorter: "auto", "serial" or "parallel".
	// The resulting order is identical for every strategy.
	SortStrategy string `yaml:"sort_strategy" env:"SORT_STRATEGY"`

	// ParallelSortThreshold is the point count at which "auto" sorts in parallel.
	// Zero uses the default.
	ParallelSortThreshold int `yaml:"parallel_sort_threshold" env:"PARALLEL_SORT_THRESHOLD"`

	// AsyncLoad allows Sample.Deliver to copy in the background.
	AsyncLoad bool `yaml:"async_load" env:"ASYNC_LOAD"`

	// SwapHandedness negates HandednessAxis on positions and velocities.
	SwapHandedness bool `yaml:"swap_handedness" env:"SWAP_HANDEDNESS"`

	// HandednessAxis is the component negated by SwapHandedness (default x).
	HandednessAxis Axis `yaml:"handedness_axis" env:"HANDEDNESS_AXIS"`

	// ScaleFactor uniformly scales positions and velocities.
	ScaleFactor float32 `yaml:"scale_factor" env:"SCALE_FACTOR"`

	// VertexMotionScale scales velocities derived from interpolation.
	VertexMotionScale float32 `yaml:"vertex_motion_scale" env:"VERTEX_MOTION_SCALE"`

	// InterpolateSamples blends keyframes for streams with constant IDs.
	InterpolateSamples bool `yaml:"interpolate_samples" env:"INTERPOLATE_SAMPLES"`
}

// DefaultConfig returns a Config with unit scales, async delivery and
// interpolation enabled, and sorting disabled.
func DefaultConfig() Config {
	return Config{
		SortStrategy:       sorting.StrategyAuto.String(),
		AsyncLoad:          true,
		HandednessAxis:     AxisX,
		ScaleFactor:        defaultScaleFactor,
		VertexMotionScale:  defaultVertexMotionScale,
		InterpolateSamples: true,
	}
}

// Common errors returned by the resampler.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid points configuration")

	// ErrNilCollaborator indicates a missing Reader or Sampling.
	ErrNilCollaborator = errors.New("nil collaborator")

	// ErrRead wraps failures reported by the Reader.
	ErrRead = errors.New("sample read failed")

	// ErrSampleIndex indicates Sampling returned an index outside the stream.
	ErrSampleIndex = errors.New("sample index out of range")
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !isFinite(c.ScaleFactor) || c.ScaleFactor == 0 {
		return fmt.Errorf("%w: scale factor must be finite and non-zero", ErrInvalidConfig)
	}

	if !isFinite(c.VertexMotionScale) {
		return fmt.Errorf("%w: vertex motion scale must be finite", ErrInvalidConfig)
	}

	for i, v := range c.SortPosition {
		if !isFinite(v) {
			return fmt.Errorf("%w: sort position component %d is not finite", ErrInvalidConfig, i)
		}
	}

	if !c.HandednessAxis.Valid() {
		return fmt.Errorf("%w: handedness axis must be x, y or z", ErrInvalidConfig)
	}

	if _, err := sorting.ParseStrategy(c.SortStrategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.ParallelSortThreshold < 0 {
		return fmt.Errorf("%w: parallel sort threshold must not be negative", ErrInvalidConfig)
	}

	return nil
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
