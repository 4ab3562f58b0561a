// Package resampler cooks per-frame point-cloud samples from a keyframed
// points stream.
//
// A [Points] node reads raw keyframes through a [Reader], maps playback time
// to keyframes with a [Sampling], and produces a reusable [Sample] holding
// positions, velocities, IDs, visibility and bounds ready for a renderer.
//
// # Cooking
//
// Each call to [Points.Cook] does one of three things:
//
//   - Skip: the keyframe index is unchanged and the stream does not
//     interpolate, so the previous sample is kept as-is.
//   - Rebuild: the keyframe index changed. Properties are read, optionally
//     sorted farthest-first from [Config.SortPosition], converted with
//     [Config.SwapHandedness] and [Config.ScaleFactor], and the bounding box
//     is recomputed.
//   - Interpolate: streams with constant IDs and varying positions blend the
//     current and next keyframe by the sampling offset on every call. When
//     the stream has no velocities they are derived from the change in
//     interpolated positions between calls.
//
// # Delivery
//
// [Sample.Deliver] copies the sample into caller-owned [Target] buffers.
// With [Config.AsyncLoad] the copy runs in the background; the next Cook,
// Deliver or an explicit [Sample.Wait] joins it. At most one copy is ever
// outstanding per node.
//
//	p, err := resampler.New(reader, resampler.NewUniformSampling(0, 24, n), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	for _, t := range times {
//	    s, err := p.Cook(ctx, t)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    target := resampler.NewTarget(p.Summary(), s.Summary().Count)
//	    s.Deliver(target, false)
//	    s.Wait()
//	    render(target)
//	}
//
// # Sorting
//
// Sorting orders points by descending distance from the reference point,
// breaking ties by original index. The order is a strict total order, so
// serial and parallel sorting ([Config.SortStrategy]) yield identical output.
package resampler
