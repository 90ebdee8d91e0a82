package game

import "time"

// Phase is the session lifecycle stage. Phases only move forward.
type Phase int

const (
	PhaseLoading   Phase = iota // Waiting for the host to call Begin
	PhaseCountdown              // "Starting in N"
	PhaseRunning                // Doll active, input accepted
	PhaseEnded                  // Outcome recorded, nothing changes any more
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseCountdown:
		return "countdown"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Outcome is how a run finished.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLose
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Status lines shown to the player.
const (
	StatusLoading = "Loading..."
	StatusGo      = "GO!"
	StatusWin     = "You win!"
	StatusLose    = "You lose!"
	StatusTimeout = "Ran out of time =("
)

func outcomeStatus(o Outcome) string {
	switch o {
	case OutcomeWin:
		return StatusWin
	case OutcomeLose:
		return StatusLose
	case OutcomeTimeout:
		return StatusTimeout
	default:
		return ""
	}
}

// Event reports a phase change to an observer.
type Event struct {
	Phase   Phase
	Outcome Outcome
	Status  string
	At      time.Duration // Session clock time since creation
}
