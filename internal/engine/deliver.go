package engine

import (
	"golang.org/x/sync/errgroup"

	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// Target is a set of caller-owned destination buffers.
//
// Nil slices are skipped. Each slice receives at most len(slice) elements.
// The caller must keep the target alive and untouched until the delivery
// that writes it has been joined.
type Target struct {
	Positions  []vecmath.Vec3
	Velocities []vecmath.Vec3
	IDs        []uint32

	Visible bool
	Center  vecmath.Vec3
	Size    vecmath.Vec3
}

// Deliverer copies a cooked frame into targets, on the calling goroutine or
// in the background. It tracks at most one outstanding background copy.
//
// The frame must not be cooked again until Wait has returned; Deliver and
// Wait themselves must be called from a single goroutine.
type Deliverer struct {
	async     bool
	forceSync bool
	task      *errgroup.Group
}

// NewDeliverer creates a deliverer. When async is false every delivery runs
// synchronously.
func NewDeliverer(async bool) *Deliverer {
	return &Deliverer{async: async}
}

// ForceSync makes deliveries synchronous until the next Wait.
func (d *Deliverer) ForceSync() {
	d.forceSync = true
}

// Pending reports whether a background copy has been started and not joined.
func (d *Deliverer) Pending() bool {
	return d.task != nil
}

// Deliver copies f into t. The copy runs on the calling goroutine when sync
// is set, when ForceSync is in effect, or when async delivery is disabled;
// otherwise it runs in the background and Deliver returns immediately.
// Any earlier background copy is joined first. It reports whether the copy
// was started in the background.
func (d *Deliverer) Deliver(f *Frame, t *Target, sync bool) bool {
	d.join()

	if sync || d.forceSync || !d.async {
		fill(f, t)
		return false
	}

	g := &errgroup.Group{}
	g.Go(func() error {
		fill(f, t)
		return nil
	})
	d.task = g
	return true
}

// Wait blocks until any background copy has finished and clears ForceSync.
func (d *Deliverer) Wait() {
	d.join()
	d.forceSync = false
}

func (d *Deliverer) join() {
	if d.task == nil {
		return
	}
	_ = d.task.Wait()
	d.task = nil
}

// fill writes the frame into t. Missing velocities and IDs are zero-filled
// for the active point count.
func fill(f *Frame, t *Target) {
	t.Visible = f.visible

	pts := f.active.Slice()
	if t.Positions != nil {
		copy(t.Positions, pts)
	}
	if t.Velocities != nil {
		if !f.velocities.Empty() {
			f.velocities.CopyTo(t.Velocities)
		} else {
			clear(t.Velocities[:min(len(t.Velocities), len(pts))])
		}
	}
	if t.IDs != nil {
		if !f.ids.Empty() {
			f.ids.CopyTo(t.IDs)
		} else {
			clear(t.IDs[:min(len(t.IDs), len(pts))])
		}
	}

	t.Center = f.bounds.Center
	t.Size = f.bounds.Size
}
