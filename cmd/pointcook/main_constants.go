package main

// Default values for the -generate mode
const (
	defaultGeneratePoints = 10000 // Points per keyframe
	defaultGenerateFrames = 48    // Two seconds at 24 fps
	defaultGenerateRate   = 24.0  // Keyframes per second
	defaultGenerateRadius = 10.0  // Spiral radius in scene units
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)
