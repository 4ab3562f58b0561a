package resampler

// Configuration defaults
const (
	defaultScaleFactor       = 1.0 // No unit conversion
	defaultVertexMotionScale = 1.0 // Derived velocities in units per keyframe
)

// Uniform sampling defaults
const (
	defaultFrameRate = 30.0 // Keyframes per second when no step is given
)
