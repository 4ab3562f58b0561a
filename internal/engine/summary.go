// Package engine implements the per-node point cooking state machine and the
// delivery of cooked frames into caller-owned buffers.
package engine

// PropertyInfo describes which properties a points stream carries and which
// of them are constant over time.
type PropertyInfo struct {
	ConstantPositions bool
	HasVelocities     bool
	HasIDs            bool
	ConstantIDs       bool
}

// Summary records what a points stream supports and how it must be cooked.
type Summary struct {
	ConstantPoints    bool
	HasVelocities     bool
	HasIDs            bool
	ConstantIDs       bool
	InterpolatePoints bool
	ComputeVelocities bool
}

// DeriveSummary computes the cook summary for a stream.
//
// Interpolation between keyframes is only meaningful when IDs stay constant
// (so point i in one keyframe is point i in the next) while positions vary.
// When it is enabled, velocities are derived from consecutive interpolated
// frames instead of being read.
func DeriveSummary(info PropertyInfo, interpolate bool) Summary {
	s := Summary{
		ConstantPoints: info.ConstantPositions,
		HasVelocities:  info.HasVelocities,
		HasIDs:         info.HasIDs,
	}
	if s.HasIDs {
		s.ConstantIDs = info.ConstantIDs
		if s.ConstantIDs && interpolate && !s.ConstantPoints {
			s.InterpolatePoints = true
			s.HasVelocities = true
			s.ComputeVelocities = !info.HasVelocities
		}
	}
	return s
}

// Valid reports whether s satisfies the summary invariants.
func (s Summary) Valid() bool {
	if s.ConstantPoints && s.InterpolatePoints {
		return false
	}
	if s.ComputeVelocities && !s.InterpolatePoints {
		return false
	}
	return true
}
