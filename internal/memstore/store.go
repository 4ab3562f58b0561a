package memstore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	resampler "github.com/tphakala/go-points-resampler"
	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// ErrIndex is returned for keyframe indices outside the store.
var ErrIndex = errors.New("keyframe index out of range")

// Store serves a Scene through the resampler.Reader interface.
// Returned slices alias the scene and must not be modified.
type Store struct {
	scene *Scene
	info  resampler.PropertyInfo
}

var _ resampler.Reader = (*Store)(nil)

// New creates a store over scene. Property presence and constancy are
// derived from the keyframes.
func New(scene *Scene) (*Store, error) {
	if scene == nil || len(scene.Frames) == 0 {
		return nil, ErrEmptyScene
	}
	return &Store{scene: scene, info: deriveInfo(scene.Frames)}, nil
}

// Open loads a scene file and creates a store over it.
func Open(path string) (*Store, error) {
	scene, err := LoadScene(path)
	if err != nil {
		return nil, err
	}
	return New(scene)
}

func deriveInfo(frames []Frame) resampler.PropertyInfo {
	var info resampler.PropertyInfo
	for _, f := range frames {
		info.HasVelocities = info.HasVelocities || f.Velocities != nil
		info.HasIDs = info.HasIDs || f.IDs != nil
	}

	first := frames[0]
	info.ConstantPositions = true
	info.ConstantIDs = info.HasIDs
	for _, f := range frames[1:] {
		if !slices.Equal(f.Positions, first.Positions) {
			info.ConstantPositions = false
		}
		if !slices.Equal(f.IDs, first.IDs) {
			info.ConstantIDs = false
		}
	}
	return info
}

// Scene returns the underlying scene.
func (s *Store) Scene() *Scene {
	return s.scene
}

// Sampling returns the uniform time sampling of the scene.
func (s *Store) Sampling() resampler.UniformSampling {
	return resampler.NewUniformSampling(s.scene.Start, s.scene.FrameRate, len(s.scene.Frames))
}

// Properties implements resampler.Reader.
func (s *Store) Properties() resampler.PropertyInfo {
	return s.info
}

// SampleCount implements resampler.Reader.
func (s *Store) SampleCount() int {
	return len(s.scene.Frames)
}

func (s *Store) frame(ctx context.Context, index int) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(s.scene.Frames) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndex, index, len(s.scene.Frames))
	}
	return &s.scene.Frames[index], nil
}

// Positions implements resampler.Reader.
func (s *Store) Positions(ctx context.Context, index int) ([]vecmath.Vec3, error) {
	f, err := s.frame(ctx, index)
	if err != nil {
		return nil, err
	}
	return f.Positions, nil
}

// Velocities implements resampler.Reader.
func (s *Store) Velocities(ctx context.Context, index int) ([]vecmath.Vec3, error) {
	f, err := s.frame(ctx, index)
	if err != nil {
		return nil, err
	}
	return f.Velocities, nil
}

// IDs implements resampler.Reader.
func (s *Store) IDs(ctx context.Context, index int) ([]uint64, error) {
	f, err := s.frame(ctx, index)
	if err != nil {
		return nil, err
	}
	return f.IDs, nil
}

// Visibility implements resampler.Reader.
func (s *Store) Visibility(ctx context.Context, index int) (bool, error) {
	f, err := s.frame(ctx, index)
	if err != nil {
		return false, err
	}
	return !f.Hidden, nil
}
