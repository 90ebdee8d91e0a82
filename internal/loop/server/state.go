package server

import (
	"sort"
	"time"

	"github.com/tomz197/redlight/internal/game"
)

// TopRunsSize is how many fastest wins the leaderboard keeps.
const TopRunsSize = 5

// TopRunEntry represents a single entry on the leaderboard.
type TopRunEntry struct {
	Username string
	Elapsed  time.Duration
	clientID int // Used for deterministic tie-break when times are equal
}

// Stats holds the hub's running totals. It is owned by the Server and
// guarded by its lock.
type Stats struct {
	Wins     int
	Losses   int
	Timeouts int
	topRuns  []TopRunEntry
}

// Snapshot is an immutable copy of the hub state for rendering.
type Snapshot struct {
	Players  int
	Wins     int
	Losses   int
	Timeouts int
	TopRuns  []TopRunEntry // Fastest wins, best first
}

// NewStats creates empty totals.
func NewStats() *Stats {
	return &Stats{}
}

// Add tallies one outcome. It reports whether the run is a new fastest win.
func (st *Stats) Add(clientID int, username string, outcome game.Outcome, elapsed time.Duration) bool {
	switch outcome {
	case game.OutcomeWin:
		st.Wins++
	case game.OutcomeLose:
		st.Losses++
		return false
	case game.OutcomeTimeout:
		st.Timeouts++
		return false
	default:
		return false
	}

	record := len(st.topRuns) == 0 || elapsed < st.topRuns[0].Elapsed
	st.topRuns = append(st.topRuns, TopRunEntry{
		Username: username,
		Elapsed:  elapsed,
		clientID: clientID,
	})
	sort.SliceStable(st.topRuns, func(i, j int) bool {
		a, b := st.topRuns[i], st.topRuns[j]
		if a.Elapsed != b.Elapsed {
			return a.Elapsed < b.Elapsed
		}
		return a.clientID < b.clientID
	})
	if len(st.topRuns) > TopRunsSize {
		st.topRuns = st.topRuns[:TopRunsSize]
	}
	return record
}

// Snapshot copies the totals together with the current player count.
func (st *Stats) Snapshot(players int) *Snapshot {
	top := make([]TopRunEntry, len(st.topRuns))
	copy(top, st.topRuns)
	return &Snapshot{
		Players:  players,
		Wins:     st.Wins,
		Losses:   st.Losses,
		Timeouts: st.Timeouts,
		TopRuns:  top,
	}
}

// Best returns the fastest win, if any.
func (sn *Snapshot) Best() (TopRunEntry, bool) {
	if sn == nil || len(sn.TopRuns) == 0 {
		return TopRunEntry{}, false
	}
	return sn.TopRuns[0], true
}
