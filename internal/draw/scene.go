package draw

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/redlight/internal/game"
	"github.com/tomz197/redlight/internal/sentinel"
)

// Track glyphs. The goal is on the left, the start on the right.
const (
	GlyphTrack  = '─'
	GlyphEnd    = '┃'
	GlyphGoal   = '┊'
	GlyphRunner = '●'
)

// Doll art, three rows each.
var (
	dollWatching = []string{
		` .---. `,
		`( o o )`,
		` '-^-' `,
	}
	dollTurned = []string{
		` .---. `,
		`(#####)`,
		` '---' `,
	}
)

// Scene is everything needed to draw one frame of the game.
type Scene struct {
	Width     int     // Columns available
	TrackLen  int     // Columns the track occupies
	Progress  float64 // 0 at the start, 1 at the goal
	GoalLine  float64 // Progress at which the run is won
	Facing    sentinel.Facing
	Phase     game.Phase
	Outcome   game.Outcome
	Status    string
	Remaining time.Duration
	Hint      string
}

// SceneFor captures a session's state for drawing.
func SceneFor(s *game.Session, width, trackLen int) Scene {
	cfg := s.Config()
	return Scene{
		Width:     width,
		TrackLen:  trackLen,
		Progress:  s.Progress(),
		GoalLine:  (cfg.StartDistance - s.GoalLine()) / (2 * cfg.StartDistance),
		Facing:    s.Facing(),
		Phase:     s.Phase(),
		Outcome:   s.Outcome(),
		Status:    s.Status(),
		Remaining: s.Remaining(),
	}
}

// TrackCells lays out the track as runes and returns the runner's column.
func TrackCells(n int, progress, goalLine float64) ([]rune, int) {
	if n < 3 {
		n = 3
	}
	cells := make([]rune, n)
	for i := range cells {
		cells[i] = GlyphTrack
	}
	cells[0] = GlyphEnd
	cells[n-1] = GlyphEnd

	if goal := column(n, goalLine); goal > 0 && goal < n-1 {
		cells[goal] = GlyphGoal
	}
	runner := column(n, progress)
	cells[runner] = GlyphRunner
	return cells, runner
}

// column maps progress (0 = start on the right, 1 = goal on the left) to a cell.
func column(n int, progress float64) int {
	progress = math.Max(0, math.Min(1, progress))
	return int(math.Round((1 - progress) * float64(n-1)))
}

// Lines renders the scene as centered, full-width lines.
func (st Styles) Lines(sc Scene) []string {
	watching := sc.Facing == sentinel.Toward
	art, light, lightStyle := dollTurned, "GREEN LIGHT", st.Green
	if watching {
		art, light, lightStyle = dollWatching, "RED LIGHT", st.Red
	}
	if sc.Phase == game.PhaseLoading {
		light = ""
	}

	lines := []string{
		st.Title.Render("R E D   L I G H T  ·  G R E E N   L I G H T"),
		"",
	}
	for _, row := range art {
		lines = append(lines, lightStyle.Render(row))
	}
	lines = append(lines,
		lightStyle.Render(light),
		"",
		st.track(sc),
		st.Hint.Render(trackLabels(sc.TrackLen)),
		"",
		st.statusStyle(sc).Render(sc.Status),
		st.HUD.Render(fmt.Sprintf("Time left: %4.1fs", sc.Remaining.Seconds())),
		"",
		st.Hint.Render(sc.Hint),
	)

	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(sc.Width, lipgloss.Center, line)
	}
	return lines
}

func (st Styles) track(sc Scene) string {
	cells, runner := TrackCells(sc.TrackLen, sc.Progress, sc.GoalLine)
	var b strings.Builder
	b.WriteString(st.Track.Render(string(cells[:runner])))
	b.WriteString(st.Runner.Render(string(cells[runner])))
	b.WriteString(st.Track.Render(string(cells[runner+1:])))
	return b.String()
}

func (st Styles) statusStyle(sc Scene) lipgloss.Style {
	switch sc.Outcome {
	case game.OutcomeWin:
		return st.Win
	case game.OutcomeLose:
		return st.Lose
	case game.OutcomeTimeout:
		return st.Timeout
	default:
		return st.Status
	}
}

func trackLabels(n int) string {
	const left, right = "GOAL", "START"
	if n < len(left)+len(right)+1 {
		return ""
	}
	return left + strings.Repeat(" ", n-len(left)-len(right)) + right
}
