package telemetry

import "sync"

// Display is what a renderer shows for the telemetry panel. When Available
// is false every numeric field must be rendered as unavailable; the values
// are retained only so the next successful poll resumes from them.
type Display struct {
	Available bool

	// Headline is the animated view of Total. It never exceeds Total except
	// while a downward correction is being applied.
	Headline int64

	Total    int64
	Accepted int64
	Dropped  int64
	PPS      float64

	WarnThreshold Threshold
	DropThreshold Threshold

	State DOSState
}

// Reconcile merges snap into prev. Counters are taken as reported, empty
// threshold fields are seeded from the server's suggestion and the headline
// snaps down immediately when the new total is below it. Upward movement of
// the headline is left to an Animation.
func Reconcile(prev Display, snap Snapshot) Display {
	next := prev
	next.Available = true
	next.Total = snap.Total
	next.Accepted = snap.Accepted
	next.Dropped = snap.Dropped
	next.PPS = snap.PacketsPerSecond
	next.State = snap.State

	if !next.WarnThreshold.Set {
		next.WarnThreshold = Threshold{Value: snap.WarnThreshold, Set: true}
	}
	if !next.DropThreshold.Set {
		next.DropThreshold = Threshold{Value: snap.DropThreshold, Set: true}
	}

	if snap.Total < prev.Headline {
		next.Headline = snap.Total
	}
	return next
}

// Fail degrades prev after a failed poll.
func Fail(prev Display) Display {
	next := prev
	next.Available = false
	return next
}

// animationSteps is the number of frames an animation is spread over.
const animationSteps = 5

// Animation moves a counter toward a target in bounded steps without
// overshooting.
type Animation struct {
	current int64
	target  int64
	step    int64
}

// NewAnimation starts an animation from from to to. A target below from is
// not animated: the animation is created already finished at to.
func NewAnimation(from, to int64) Animation {
	if to <= from {
		return Animation{current: to, target: to, step: 1}
	}
	delta := to - from
	step := (delta + animationSteps - 1) / animationSteps
	return Animation{current: from, target: to, step: max(1, step)}
}

// Next advances one frame and returns the value to show.
func (a *Animation) Next() (value int64, done bool) {
	if a.current < a.target {
		a.current += a.step
		if a.current > a.target {
			a.current = a.target
		}
	}
	return a.current, a.current >= a.target
}

// Done reports whether the target has been reached.
func (a Animation) Done() bool {
	return a.current >= a.target
}

// Target returns the value the animation ends on.
func (a Animation) Target() int64 {
	return a.target
}

// Reconciler holds the displayed telemetry state and applies poll results to
// it. Results are sequence-stamped; a result older than the last applied one
// is dropped.
type Reconciler struct {
	mu      sync.Mutex
	display Display
	anim    *Animation
	lastSeq uint64
}

// NewReconciler creates a Reconciler with an empty display. Non-zero
// thresholds in cfg are treated as user-entered values.
func NewReconciler(cfg Config) *Reconciler {
	r := &Reconciler{}
	if cfg.WarnThreshold > 0 {
		r.display.WarnThreshold = Threshold{Value: cfg.WarnThreshold, Set: true}
	}
	if cfg.DropThreshold > 0 {
		r.display.DropThreshold = Threshold{Value: cfg.DropThreshold, Set: true}
	}
	return r
}

// Display returns the current display state.
func (r *Reconciler) Display() Display {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.display
}

// Apply merges a successful poll stamped with seq. It cancels any running
// animation and starts a new one toward the new total. applied is false when
// seq is stale.
func (r *Reconciler) Apply(seq uint64, snap Snapshot) (d Display, applied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq <= r.lastSeq {
		return r.display, false
	}
	r.lastSeq = seq

	r.display = Reconcile(r.display, snap)
	r.anim = nil
	if snap.Total > r.display.Headline {
		a := NewAnimation(r.display.Headline, snap.Total)
		r.anim = &a
	}
	return r.display, true
}

// ApplyFailure degrades the display after a failed poll stamped with seq and
// cancels any running animation.
func (r *Reconciler) ApplyFailure(seq uint64) (d Display, applied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq <= r.lastSeq {
		return r.display, false
	}
	r.lastSeq = seq

	r.display = Fail(r.display)
	r.anim = nil
	return r.display, true
}

// Step advances the running animation by one frame. running is false once
// the headline has reached its target or when nothing is animating.
func (r *Reconciler) Step() (d Display, running bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.anim == nil {
		return r.display, false
	}
	v, done := r.anim.Next()
	r.display.Headline = v
	if done {
		r.anim = nil
	}
	return r.display, !done
}

// Animating reports whether a headline animation is pending.
func (r *Reconciler) Animating() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.anim != nil
}

// SetWarnThreshold records a user-entered warn threshold. It is never
// overwritten by server suggestions.
func (r *Reconciler) SetWarnThreshold(v int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display.WarnThreshold = Threshold{Value: v, Set: true}
}

// SetDropThreshold records a user-entered drop threshold.
func (r *Reconciler) SetDropThreshold(v int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display.DropThreshold = Threshold{Value: v, Set: true}
}
