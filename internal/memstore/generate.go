package memstore

import (
	"math"

	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// GenerateOptions describes a synthetic spiral scene.
type GenerateOptions struct {
	Points     int     // Points per keyframe
	Frames     int     // Number of keyframes
	FrameRate  float64 // Keyframes per second
	Radius     float32 // Spiral radius
	Velocities bool    // Store explicit velocities
	IDs        bool    // Store stable point IDs
}

// Generate builds a scene of points orbiting the Y axis. Point i keeps its
// ID across keyframes, so the scene interpolates when IDs are stored.
func Generate(opts GenerateOptions) *Scene {
	scene := &Scene{
		Name:      "spiral",
		FrameRate: opts.FrameRate,
		Frames:    make([]Frame, opts.Frames),
	}

	dt := 1.0
	if opts.FrameRate > 0 {
		dt = 1 / opts.FrameRate
	}

	for k := range scene.Frames {
		f := &scene.Frames[k]
		f.Positions = make([]vecmath.Vec3, opts.Points)
		if opts.Velocities {
			f.Velocities = make([]vecmath.Vec3, opts.Points)
		}
		if opts.IDs {
			f.IDs = make([]uint64, opts.Points)
		}

		for i := range opts.Points {
			angle := float64(i)*0.1 + float64(k)*dt
			sin, cos := math.Sincos(angle)
			f.Positions[i] = vecmath.Vec3{
				opts.Radius * float32(cos),
				float32(i) * 0.01,
				opts.Radius * float32(sin),
			}
			if opts.Velocities {
				// d/dt of the orbit, per keyframe.
				f.Velocities[i] = vecmath.Vec3{
					-opts.Radius * float32(sin*dt),
					0,
					opts.Radius * float32(cos*dt),
				}
			}
			if opts.IDs {
				f.IDs[i] = uint64(i)
			}
		}
	}
	return scene
}
