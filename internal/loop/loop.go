// Package loop provides the fixed-rate frame loop and the tick driver that
// connects it to a game session.
package loop

import (
	"context"
	"time"

	"github.com/tomz197/redlight/internal/clock"
	"github.com/tomz197/redlight/internal/game"
)

// Frame is called once per frame with the time since the previous frame.
// Returning false stops the loop.
type Frame func(delta time.Duration) bool

// Run calls frame at the target rate until it returns false or ctx is done.
func Run(ctx context.Context, fps int, frame Frame) error {
	if fps <= 0 {
		fps = 60
	}
	frameTime := time.Second / time.Duration(fps)
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		if !frame(delta) {
			return nil
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}
}

// Driver is the tick driver for one session: every step moves the
// session's clock forward, letting due timers fire, then calls OnTick.
type Driver struct {
	sched    *clock.Scheduler
	session  *game.Session
	maxDelta time.Duration
}

// NewDriver binds session to the scheduler it was created with. A positive
// maxDelta caps how far a single step may move the clock.
func NewDriver(sched *clock.Scheduler, session *game.Session, maxDelta time.Duration) *Driver {
	return &Driver{
		sched:    sched,
		session:  session,
		maxDelta: maxDelta,
	}
}

// Step advances one frame. It returns false once the session has ended.
func (d *Driver) Step(delta time.Duration) bool {
	if d.maxDelta > 0 && delta > d.maxDelta {
		delta = d.maxDelta
	}
	d.sched.Advance(delta)
	return d.session.OnTick()
}
