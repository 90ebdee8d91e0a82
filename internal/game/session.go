// Package game implements the red light, green light session: phase
// transitions, win/lose/timeout detection and the per-frame tick hook.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/redlight/internal/clock"
	"github.com/tomz197/redlight/internal/sentinel"
	"github.com/tomz197/redlight/internal/track"
)

// Sentinel is the watcher the session reads on every evaluation.
// *sentinel.Cycle implements it.
type Sentinel interface {
	Start()
	Stop()
	Unsafe() bool
}

// facer is implemented by sentinels that can report their visual facing.
type facer interface {
	Facing() sentinel.Facing
}

// flipper is implemented by sentinels that count their turns.
type flipper interface {
	Flips() int
}

// Compile-time check that the doll satisfies Sentinel.
var _ Sentinel = (*sentinel.Cycle)(nil)

// Session is one run of the game. It is driven from a single goroutine:
// the host advances the scheduler and calls OnTick once per frame.
type Session struct {
	cfg      Config
	sched    *clock.Scheduler
	runner   *track.Runner
	doll     Sentinel
	rng      *rand.Rand
	logger   *log.Logger
	observer func(Event)

	phase   Phase
	outcome Outcome
	status  string
	ticks   int

	runStart time.Time
	endedAt  time.Time

	step  *clock.Timer // Next countdown number
	limit *clock.Timer // Time-limit expiry
}

// Option customizes a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithSentinel replaces the randomized doll, e.g. with one pinned to a facing.
func WithSentinel(doll Sentinel) Option {
	return func(s *Session) {
		s.doll = doll
	}
}

// WithRand seeds the doll's dwell times.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithObserver registers a callback for phase changes.
func WithObserver(fn func(Event)) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// New validates cfg and creates a session in the loading phase.
func New(cfg Config, sched *clock.Scheduler, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:    cfg,
		sched:  sched,
		runner: track.NewRunner(sched, cfg.trackConfig()),
		phase:  PhaseLoading,
		status: StatusLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.doll == nil {
		s.doll = sentinel.New(sched, cfg.sentinelConfig(), s.rng)
	}
	return s, nil
}

// Begin starts the countdown. It only has an effect while loading.
func (s *Session) Begin() {
	if s.phase != PhaseLoading {
		return
	}
	s.setPhase(PhaseCountdown, countdownStatus(s.cfg.CountdownFrom))
	s.countDown(s.cfg.CountdownFrom)
}

// OnInputStart is called when the player presses move.
func (s *Session) OnInputStart() {
	if s.phase != PhaseRunning {
		return
	}
	s.runner.BeginMove()
}

// OnInputEnd is called when the player releases move.
func (s *Session) OnInputEnd() {
	if s.phase != PhaseRunning {
		return
	}
	s.runner.EndMove()
}

// OnTick advances the runner one step and evaluates the rules. It returns
// false once the session has ended; later calls do nothing.
func (s *Session) OnTick() bool {
	if s.phase == PhaseEnded {
		return false
	}
	s.ticks++
	s.runner.Advance()
	s.evaluate()
	return s.phase != PhaseEnded
}

// Phase returns the current lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// Outcome returns how the run ended, or OutcomeNone while it is still going.
func (s *Session) Outcome() Outcome { return s.outcome }

// Status returns the message to show the player.
func (s *Session) Status() string { return s.status }

// Ticks returns how many times OnTick has run before the end, countdown
// frames included.
func (s *Session) Ticks() int { return s.ticks }

// Config returns the session's configuration.
func (s *Session) Config() Config { return s.cfg }

// Position returns the runner's place on the track.
func (s *Session) Position() float64 { return s.runner.Position() }

// Velocity returns the runner's current speed.
func (s *Session) Velocity() float64 { return s.runner.Velocity() }

// Goal returns the finish position.
func (s *Session) Goal() float64 { return s.cfg.Goal() }

// GoalLine returns the position at or below which the run is won.
func (s *Session) GoalLine() float64 { return s.cfg.Goal() + s.cfg.GoalEpsilon }

// Unsafe reports whether the doll currently catches movement.
func (s *Session) Unsafe() bool { return s.doll.Unsafe() }

// Facing returns where the doll is visibly looking.
func (s *Session) Facing() sentinel.Facing {
	if f, ok := s.doll.(facer); ok {
		return f.Facing()
	}
	if s.doll.Unsafe() {
		return sentinel.Toward
	}
	return sentinel.Away
}

// Progress returns how far along the track the runner is, from 0 at the
// start to 1 at the goal.
func (s *Session) Progress() float64 {
	length := s.cfg.StartDistance - s.cfg.Goal()
	p := (s.cfg.StartDistance - s.runner.Position()) / length
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Remaining returns the time left on the clock. Before the run it is the
// full limit; after the end it stays at the value it had when the run ended.
func (s *Session) Remaining() time.Duration {
	var now time.Time
	switch s.phase {
	case PhaseLoading, PhaseCountdown:
		return s.cfg.TimeLimit
	case PhaseEnded:
		now = s.endedAt
	default:
		now = s.sched.Now()
	}
	left := s.runStart.Add(s.cfg.TimeLimit).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// countDown shows n and schedules n-1. At zero the run starts.
func (s *Session) countDown(n int) {
	if s.phase != PhaseCountdown {
		return
	}
	if n <= 0 {
		s.startRunning()
		return
	}
	s.status = countdownStatus(n)
	s.step = s.sched.AfterFunc(s.cfg.CountdownStep, func() {
		s.countDown(n - 1)
	})
}

func (s *Session) startRunning() {
	s.step = nil
	s.runStart = s.sched.Now()
	s.setPhase(PhaseRunning, StatusGo)
	s.doll.Start()
	s.limit = s.sched.AfterFunc(s.cfg.TimeLimit, s.evaluate)
}

// evaluate checks the end conditions. Order matters: being caught moving
// beats crossing the goal on the same tick, and both beat the clock.
func (s *Session) evaluate() {
	if s.phase != PhaseRunning {
		return
	}
	switch {
	case s.runner.Moving() && s.doll.Unsafe():
		s.end(OutcomeLose)
	case s.runner.Position() <= s.GoalLine():
		s.end(OutcomeWin)
	case !s.sched.Now().Before(s.runStart.Add(s.cfg.TimeLimit)):
		s.end(OutcomeTimeout)
	}
}

func (s *Session) end(o Outcome) {
	s.outcome = o
	s.endedAt = s.sched.Now()

	s.doll.Stop()
	s.step.Stop()
	s.limit.Stop()
	s.step, s.limit = nil, nil
	s.runner.Freeze()

	s.setPhase(PhaseEnded, outcomeStatus(o))
	kv := []any{
		"outcome", o,
		"position", fmt.Sprintf("%.3f", s.runner.Position()),
		"elapsed", s.endedAt.Sub(s.runStart),
		"ticks", s.ticks,
	}
	if f, ok := s.doll.(flipper); ok {
		kv = append(kv, "turns", f.Flips())
	}
	s.logger.Info("run ended", kv...)
}

func (s *Session) setPhase(p Phase, status string) {
	s.logger.Debug("phase changed", "from", s.phase, "to", p)
	s.phase = p
	s.status = status
	if s.observer != nil {
		s.observer(Event{
			Phase:   p,
			Outcome: s.outcome,
			Status:  status,
			At:      s.sched.Elapsed(),
		})
	}
}

func countdownStatus(n int) string {
	if n <= 0 {
		return StatusGo
	}
	return fmt.Sprintf("Starting in %d", n)
}
