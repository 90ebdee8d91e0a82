// Package config centralizes the host-side tuning: frame rate, screen
// limits and connection housekeeping. Game rules live in game.Config.
package config

import "time"

// Render area limits. Larger terminals get a centered box of this size.
const (
	MaxTermWidth  = 100
	MaxTermHeight = 24
	MinTermWidth  = 40
	MinTermHeight = 18
)

// Track layout
const (
	TrackPadding = 6 // Columns between the render edge and the track ends
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// MaxFrameDelta caps how much session time a single frame may advance, so
// a stalled connection does not skip straight past the doll's turns.
const MaxFrameDelta = 100 * time.Millisecond
