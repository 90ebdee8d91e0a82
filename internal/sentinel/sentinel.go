// Package sentinel implements the doll: a watcher that alternates between
// facing the player (red light) and facing away (green light) on randomized
// dwell times.
package sentinel

import (
	"math/rand"
	"time"

	"github.com/tomz197/redlight/internal/clock"
)

// Facing is the direction the doll is looking.
type Facing int

const (
	Toward Facing = iota // Watching the player, moving is fatal
	Away                 // Looking away, moving is safe
)

func (f Facing) String() string {
	switch f {
	case Toward:
		return "toward"
	case Away:
		return "away"
	default:
		return "unknown"
	}
}

// Range is an inclusive interval of dwell times.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Pick returns a uniformly random duration in [Min, Max].
func (r Range) Pick(rng *rand.Rand) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int63n(int64(r.Max-r.Min)+1))
}

// Config holds the doll's timing parameters.
type Config struct {
	TowardDwell     Range         // How long the doll watches
	AwayDwell       Range         // How long the doll looks away
	TurnTowardDelay time.Duration // Turn time before a red light counts
	TurnAwayDelay   time.Duration // Turn time before a green light counts
}

// Cycle is the doll's look-direction oscillator. The visual facing flips
// immediately; the effective facing used for safety checks follows after
// the configured turn delay.
type Cycle struct {
	sched *clock.Scheduler
	cfg   Config
	rng   *rand.Rand

	facing    Facing
	effective Facing
	running   bool
	flips     int

	dwell  *clock.Timer // Next flip of the loop
	expose *clock.Timer // Pending effective-facing change
}

// New creates a stopped cycle. The doll is drawn facing the player, but
// the opening turn of Start still takes TurnTowardDelay to count.
func New(sched *clock.Scheduler, cfg Config, rng *rand.Rand) *Cycle {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Cycle{
		sched:     sched,
		cfg:       cfg,
		rng:       rng,
		facing:    Toward,
		effective: Away,
	}
}

// Start begins the loop: turn toward, dwell, turn away, dwell, repeat.
// Starting a running cycle does nothing.
func (c *Cycle) Start() {
	if c.running {
		return
	}
	c.running = true
	c.lookToward()
}

// Stop cancels all pending timers. The cycle never schedules again.
func (c *Cycle) Stop() {
	c.running = false
	c.dwell.Stop()
	c.expose.Stop()
	c.dwell = nil
	c.expose = nil
}

// Unsafe reports whether moving right now gets the player caught.
func (c *Cycle) Unsafe() bool {
	return c.effective == Toward
}

// Facing returns where the doll is visually looking.
func (c *Cycle) Facing() Facing {
	return c.facing
}

// Flips returns how many turns the loop has made since Start, counting
// the opening turn toward the player.
func (c *Cycle) Flips() int {
	return c.flips
}

func (c *Cycle) lookToward() {
	if !c.running {
		return
	}
	c.turn(Toward, c.cfg.TurnTowardDelay)
	c.dwell = c.sched.AfterFunc(c.cfg.TowardDwell.Pick(c.rng), c.lookAway)
}

func (c *Cycle) lookAway() {
	if !c.running {
		return
	}
	c.turn(Away, c.cfg.TurnAwayDelay)
	c.dwell = c.sched.AfterFunc(c.cfg.AwayDwell.Pick(c.rng), c.lookToward)
}

// turn flips the visual facing and schedules the effective change.
// A flip supersedes any exposure still pending from the previous one.
func (c *Cycle) turn(to Facing, delay time.Duration) {
	c.facing = to
	c.flips++
	c.expose.Stop()
	c.expose = nil
	if delay <= 0 {
		c.effective = to
		return
	}
	c.expose = c.sched.AfterFunc(delay, func() {
		if c.running {
			c.effective = to
		}
	})
}
