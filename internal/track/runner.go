// Package track models the player token running along a one-dimensional track.
package track

import (
	"time"

	"github.com/tomz197/redlight/internal/clock"
)

// Config holds the runner's movement parameters.
type Config struct {
	Start     float64       // Starting position; the goal sits at -Start
	Speed     float64       // Distance covered per tick while moving
	StopDecay time.Duration // How long velocity takes to reach zero after release
}

// Runner owns the player's position and velocity. Position only ever
// decreases, towards the goal.
type Runner struct {
	sched *clock.Scheduler
	cfg   Config

	position float64
	velocity float64
	frozen   bool

	// Linear decay state, active between EndMove and the decay timer firing.
	decayFrom  float64
	decayStart time.Time
	decay      *clock.Timer
}

// NewRunner places a stopped runner at the start of the track.
func NewRunner(sched *clock.Scheduler, cfg Config) *Runner {
	return &Runner{
		sched:    sched,
		cfg:      cfg,
		position: cfg.Start,
	}
}

// BeginMove sets full speed immediately, cancelling any stop in progress.
func (r *Runner) BeginMove() {
	if r.frozen {
		return
	}
	r.cancelDecay()
	r.velocity = r.cfg.Speed
}

// EndMove starts slowing down. Velocity falls linearly to zero over
// StopDecay, so a player who releases late can still be caught moving.
func (r *Runner) EndMove() {
	if r.frozen || r.decay.Active() {
		return
	}
	if r.velocity <= 0 {
		return
	}
	if r.cfg.StopDecay <= 0 {
		r.velocity = 0
		return
	}
	r.decayFrom = r.velocity
	r.decayStart = r.sched.Now()
	r.decay = r.sched.AfterFunc(r.cfg.StopDecay, func() {
		r.velocity = 0
		r.decay = nil
	})
}

// Advance moves the runner one tick along the track.
func (r *Runner) Advance() {
	if r.frozen {
		return
	}
	r.position -= r.Velocity()
}

// Velocity returns the speed at the current clock time.
func (r *Runner) Velocity() float64 {
	if !r.decay.Active() {
		return r.velocity
	}
	elapsed := r.sched.Now().Sub(r.decayStart)
	remaining := 1 - float64(elapsed)/float64(r.cfg.StopDecay)
	if remaining <= 0 {
		return 0
	}
	return r.decayFrom * remaining
}

// Position returns the runner's place on the track.
func (r *Runner) Position() float64 {
	return r.position
}

// Moving reports whether the runner has any velocity left.
func (r *Runner) Moving() bool {
	return r.Velocity() > 0
}

// Freeze pins the current velocity and position. Every later call is a no-op.
func (r *Runner) Freeze() {
	if r.frozen {
		return
	}
	r.velocity = r.Velocity()
	r.cancelDecay()
	r.frozen = true
}

func (r *Runner) cancelDecay() {
	r.decay.Stop()
	r.decay = nil
}
