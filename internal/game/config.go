package game

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomz197/redlight/internal/sentinel"
	"github.com/tomz197/redlight/internal/track"
)

// ErrInvalidConfig is returned (wrapped) for any configuration that would
// make the game unwinnable or untestable.
var ErrInvalidConfig = errors.New("invalid game config")

// Movement speeds per tick. Steady is the default; Classic is the faster
// variant paired with a zero goal epsilon.
const (
	SpeedSteady  = 0.016
	SpeedClassic = 0.03
)

// Config holds every tunable game parameter.
type Config struct {
	StartDistance float64       // Track runs from StartDistance to -StartDistance
	GoalEpsilon   float64       // Win once position <= goal + GoalEpsilon
	Speed         float64       // Distance per tick while moving
	StopDecay     time.Duration // Velocity ramp-down after releasing move

	TowardDwell     sentinel.Range
	AwayDwell       sentinel.Range
	TurnTowardDelay time.Duration
	TurnAwayDelay   time.Duration

	CountdownFrom int           // "Starting in N" steps before GO
	CountdownStep time.Duration // Time each countdown number is shown
	TimeLimit     time.Duration
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		StartDistance: 3,
		GoalEpsilon:   0.4,
		Speed:         SpeedSteady,
		StopDecay:     100 * time.Millisecond,

		TowardDwell:     sentinel.Range{Min: time.Second, Max: 2 * time.Second},
		AwayDwell:       sentinel.Range{Min: 750 * time.Millisecond, Max: 1500 * time.Millisecond},
		TurnTowardDelay: 450 * time.Millisecond,
		TurnAwayDelay:   150 * time.Millisecond,

		CountdownFrom: 3,
		CountdownStep: time.Second,
		TimeLimit:     10 * time.Second,
	}
}

// ClassicConfig returns the faster tuning: quicker runner, exact goal line.
func ClassicConfig() Config {
	cfg := DefaultConfig()
	cfg.Speed = SpeedClassic
	cfg.GoalEpsilon = 0
	return cfg
}

// Preset returns a named configuration ("default" or "classic").
func Preset(name string) (Config, error) {
	switch name {
	case "", "default", "steady":
		return DefaultConfig(), nil
	case "classic":
		return ClassicConfig(), nil
	default:
		return Config{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
	}
}

// Goal returns the finish line position.
func (c Config) Goal() float64 {
	return -c.StartDistance
}

// Validate reports every out-of-range value at once.
func (c Config) Validate() error {
	var errs []error
	check := func(bad bool, format string, args ...any) {
		if bad {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	checkFinite := func(name string, v float64) {
		check(math.IsNaN(v) || math.IsInf(v, 0), "%s %v must be a finite number", name, v)
	}
	checkFinite("start distance", c.StartDistance)
	checkFinite("goal epsilon", c.GoalEpsilon)
	checkFinite("speed", c.Speed)

	check(c.StartDistance <= 0, "start distance %v must be positive", c.StartDistance)
	check(c.GoalEpsilon < 0, "goal epsilon %v must not be negative", c.GoalEpsilon)
	check(c.StartDistance > 0 && c.GoalEpsilon >= c.StartDistance,
		"goal epsilon %v must be smaller than start distance %v", c.GoalEpsilon, c.StartDistance)
	check(c.Speed <= 0, "speed %v must be positive", c.Speed)
	check(c.StopDecay < 0, "stop decay %v must not be negative", c.StopDecay)

	checkRange := func(name string, r sentinel.Range) {
		check(r.Min < 0, "%s dwell min %v must not be negative", name, r.Min)
		check(r.Max < r.Min, "%s dwell max %v is below min %v", name, r.Max, r.Min)
	}
	checkRange("toward", c.TowardDwell)
	checkRange("away", c.AwayDwell)
	check(c.TowardDwell.Max <= 0 && c.AwayDwell.Max <= 0, "doll dwell times cannot both be zero")
	check(c.TurnTowardDelay < 0, "turn-toward delay %v must not be negative", c.TurnTowardDelay)
	check(c.TurnAwayDelay < 0, "turn-away delay %v must not be negative", c.TurnAwayDelay)

	check(c.CountdownFrom < 0, "countdown %d must not be negative", c.CountdownFrom)
	check(c.CountdownStep < 0, "countdown step %v must not be negative", c.CountdownStep)
	check(c.TimeLimit <= 0, "time limit %v must be positive", c.TimeLimit)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (c Config) sentinelConfig() sentinel.Config {
	return sentinel.Config{
		TowardDwell:     c.TowardDwell,
		AwayDwell:       c.AwayDwell,
		TurnTowardDelay: c.TurnTowardDelay,
		TurnAwayDelay:   c.TurnAwayDelay,
	}
}

func (c Config) trackConfig() track.Config {
	return track.Config{
		Start:     c.StartDistance,
		Speed:     c.Speed,
		StopDecay: c.StopDecay,
	}
}
