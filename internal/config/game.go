package config

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tomz197/redlight/internal/game"
)

// Environment keys for game tuning.
const (
	KeyPreset          = "REDLIGHT_PRESET"
	KeyStartDistance   = "REDLIGHT_START_DISTANCE"
	KeyGoalEpsilon     = "REDLIGHT_GOAL_EPSILON"
	KeySpeed           = "REDLIGHT_SPEED"
	KeyStopDecay       = "REDLIGHT_STOP_DECAY"
	KeyTowardMin       = "REDLIGHT_TOWARD_MIN"
	KeyTowardMax       = "REDLIGHT_TOWARD_MAX"
	KeyAwayMin         = "REDLIGHT_AWAY_MIN"
	KeyAwayMax         = "REDLIGHT_AWAY_MAX"
	KeyTurnTowardDelay = "REDLIGHT_TURN_TOWARD_DELAY"
	KeyTurnAwayDelay   = "REDLIGHT_TURN_AWAY_DELAY"
	KeyCountdown       = "REDLIGHT_COUNTDOWN"
	KeyCountdownStep   = "REDLIGHT_COUNTDOWN_STEP"
	KeyTimeLimit       = "REDLIGHT_TIME_LIMIT"
	KeyLogLevel        = "REDLIGHT_LOG_LEVEL"
)

// GameFromEnv builds the game configuration from the process environment.
func GameFromEnv() (game.Config, error) {
	return Game(nil)
}

// Game builds the game configuration: a preset, then individual overrides.
// The result is validated, so a returned error always wraps
// game.ErrInvalidConfig.
func Game(lookup LookupFunc) (game.Config, error) {
	r := NewReader(lookup)

	cfg, err := game.Preset(r.String(KeyPreset, "default"))
	if err != nil {
		return game.Config{}, err
	}

	cfg.StartDistance = r.Float(KeyStartDistance, cfg.StartDistance)
	cfg.GoalEpsilon = r.Float(KeyGoalEpsilon, cfg.GoalEpsilon)
	cfg.Speed = r.Float(KeySpeed, cfg.Speed)
	cfg.StopDecay = r.Duration(KeyStopDecay, cfg.StopDecay)
	cfg.TowardDwell.Min = r.Duration(KeyTowardMin, cfg.TowardDwell.Min)
	cfg.TowardDwell.Max = r.Duration(KeyTowardMax, cfg.TowardDwell.Max)
	cfg.AwayDwell.Min = r.Duration(KeyAwayMin, cfg.AwayDwell.Min)
	cfg.AwayDwell.Max = r.Duration(KeyAwayMax, cfg.AwayDwell.Max)
	cfg.TurnTowardDelay = r.Duration(KeyTurnTowardDelay, cfg.TurnTowardDelay)
	cfg.TurnAwayDelay = r.Duration(KeyTurnAwayDelay, cfg.TurnAwayDelay)
	cfg.CountdownFrom = r.Int(KeyCountdown, cfg.CountdownFrom)
	cfg.CountdownStep = r.Duration(KeyCountdownStep, cfg.CountdownStep)
	cfg.TimeLimit = r.Duration(KeyTimeLimit, cfg.TimeLimit)

	if err := r.Err(); err != nil {
		return game.Config{}, fmt.Errorf("%w: %w", game.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}

// LogLevel returns the configured log level, defaulting to info.
func LogLevel(lookup LookupFunc) (log.Level, error) {
	r := NewReader(lookup)
	return log.ParseLevel(r.String(KeyLogLevel, "info"))
}
