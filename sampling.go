package resampler

import "math"

// UniformSampling maps time to keyframes stored at a fixed interval.
type UniformSampling struct {
	// Start is the time of keyframe 0.
	Start float64
	// Step is the time between keyframes. Zero or negative uses 1/30.
	Step float64
	// Count is the number of keyframes.
	Count int
}

// NewUniformSampling creates a sampling of count keyframes at frameRate,
// starting at start.
func NewUniformSampling(start, frameRate float64, count int) UniformSampling {
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}
	return UniformSampling{Start: start, Step: 1 / frameRate, Count: count}
}

// IndexAt returns the keyframe at or before t and the fractional offset
// towards the next keyframe. Times outside the range clamp to the first or
// last keyframe with a zero offset.
func (u UniformSampling) IndexAt(t float64) (int, float32) {
	if u.Count <= 0 {
		return 0, 0
	}
	step := u.Step
	if step <= 0 {
		step = 1 / defaultFrameRate
	}

	pos := (t - u.Start) / step
	if math.IsNaN(pos) || pos <= 0 {
		return 0, 0
	}
	last := u.Count - 1
	if pos >= float64(last) {
		return last, 0
	}

	index := int(math.Floor(pos))
	return index, float32(pos - float64(index))
}

// TimeAt returns the time of keyframe index.
func (u UniformSampling) TimeAt(index int) float64 {
	step := u.Step
	if step <= 0 {
		step = 1 / defaultFrameRate
	}
	return u.Start + float64(index)*step
}
