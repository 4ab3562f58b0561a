package main

import (
	"flag"
	"fmt"

	"github.com/tphakala/go-points-resampler/internal/config"
	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// cliFlags holds the parsed command-line values.
type cliFlags struct {
	config string

	scene        string
	start        float64
	end          float64
	rate         float64
	limit        int
	sync         bool
	dump         bool
	sort         bool
	sortPosition vecmath.Vec3
	strategy     string
	swap         bool
	axis         vecmath.Axis
	scale        float64
	motionScale  float64
	noInterp     bool
	debug        bool
	logFile      string

	generate   string
	points     int
	frames     int
	fps        float64
	velocities bool
	noIDs      bool
}

func registerFlags(fs *flag.FlagSet) *cliFlags {
	f := &cliFlags{}

	fs.StringVar(&f.config, "config", "", "Path to config file (default ./"+config.DefaultFileName+" if present)")

	fs.StringVar(&f.scene, "scene", "", "Scene file (.yaml, .zst or .lz4)")
	fs.Float64Var(&f.start, "start", 0, "First cooked time in seconds")
	fs.Float64Var(&f.end, "end", 0, "Last cooked time in seconds (default: scene end)")
	fs.Float64Var(&f.rate, "rate", 0, "Cook calls per second of playback")
	fs.IntVar(&f.limit, "limit", 0, "Maximum number of cook calls")
	fs.BoolVar(&f.sync, "sync", false, "Deliver synchronously")
	fs.BoolVar(&f.dump, "dump", false, "Log every delivered point")
	fs.BoolVar(&f.sort, "sort", false, "Sort points farthest-first from -sort-position")
	fs.TextVar(&f.sortPosition, "sort-position", vecmath.Vec3{}, "Sort reference point as x,y,z")
	fs.StringVar(&f.strategy, "strategy", "", "Sort strategy: auto, serial, parallel")
	fs.BoolVar(&f.swap, "swap-handedness", false, "Negate -axis on positions and velocities")
	fs.TextVar(&f.axis, "axis", vecmath.AxisX, "Handedness axis: x, y or z")
	fs.Float64Var(&f.scale, "scale", 0, "Uniform scale factor")
	fs.Float64Var(&f.motionScale, "motion-scale", 0, "Scale for derived velocities")
	fs.BoolVar(&f.noInterp, "no-interpolate", false, "Disable keyframe interpolation")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.logFile, "log-file", "", "Also log to this rotated file")

	fs.StringVar(&f.generate, "generate", "", "Write a synthetic spiral scene to this path and exit")
	fs.IntVar(&f.points, "points", defaultGeneratePoints, "Points per generated keyframe")
	fs.IntVar(&f.frames, "frames", defaultGenerateFrames, "Generated keyframes")
	fs.Float64Var(&f.fps, "fps", defaultGenerateRate, "Generated keyframe rate")
	fs.BoolVar(&f.velocities, "velocities", false, "Store velocities in the generated scene")
	fs.BoolVar(&f.noIDs, "no-ids", false, "Omit IDs from the generated scene")

	return f
}

// applyFlags applies explicitly set CLI flags over the loaded config.
func applyFlags(cfg *config.Config, fs *flag.FlagSet, f *cliFlags) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "scene":
			cfg.Playback.Scene = f.scene
		case "start":
			cfg.Playback.Start = f.start
		case "end":
			cfg.Playback.End = f.end
		case "rate":
			cfg.Playback.Rate = f.rate
		case "limit":
			cfg.Playback.Limit = f.limit
		case "sync":
			cfg.Playback.Async = !f.sync
		case "dump":
			cfg.Playback.Dump = f.dump
		case "sort":
			cfg.Points.Sort = f.sort
		case "sort-position":
			cfg.Points.SortPosition = f.sortPosition
		case "strategy":
			cfg.Points.SortStrategy = f.strategy
		case "swap-handedness":
			cfg.Points.SwapHandedness = f.swap
		case "axis":
			cfg.Points.HandednessAxis = f.axis
		case "scale":
			cfg.Points.ScaleFactor = float32(f.scale)
		case "motion-scale":
			cfg.Points.VertexMotionScale = float32(f.motionScale)
		case "no-interpolate":
			cfg.Points.InterpolateSamples = !f.noInterp
		case "debug":
			if f.debug {
				cfg.Logging.Level = "debug"
			}
		case "log-file":
			cfg.Logging.File.Path = f.logFile
		case "config", "generate", "points", "frames", "fps", "velocities", "no-ids":
		default:
			err = fmt.Errorf("unhandled flag -%s", fl.Name)
		}
	})
	return err
}
