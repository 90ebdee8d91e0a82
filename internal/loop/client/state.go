package client

import (
	"time"

	"github.com/tomz197/redlight/internal/game"
	"github.com/tomz197/redlight/internal/input"
)

// Screen identifies what the client is showing.
type Screen int

const (
	ScreenGame     Screen = iota // The session, in whatever phase it is in
	ScreenShutdown               // Server is shutting down
)

// ClientState holds per-connection state outside the session itself.
type ClientState struct {
	Input         input.Input
	Screen        Screen
	Running       bool          // Client loop running
	Reported      bool          // Outcome of the current session sent to the hub
	Runs          int           // Sessions started on this connection
	Record        string        // Latest record announcement
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	wasInactive   bool
	prevScreen    Screen
	prevPhase     game.Phase
	tooSmall      bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:  ScreenGame,
		Running: true,
	}
}
