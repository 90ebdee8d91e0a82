package client

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/redlight/internal/draw"
	"github.com/tomz197/redlight/internal/game"
	"github.com/tomz197/redlight/internal/loop/config"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	screenChanged := c.state.Screen != c.state.prevScreen
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if screenChanged || inactiveChanged {
		c.frame.Clear()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}

	var lines []string
	switch {
	case c.state.tooSmall:
		lines = c.tooSmallLines()
	case c.state.Screen == ScreenShutdown:
		lines = c.shutdownLines()
	case c.state.isInactive:
		lines = c.inactivityLines()
	default:
		lines = c.gameLines()
	}
	c.writeLines(lines)

	return c.frame.Flush()
}

// writeLines writes lines centered in the render area. Every line is
// padded to the full width so shorter text overwrites the previous frame.
func (c *Client) writeLines(lines []string) {
	top := (c.renderHeight-len(lines))/2 + 1
	if top < 1 {
		top = 1
	}
	for i, line := range lines {
		row := top + i
		if row > c.renderHeight {
			break
		}
		c.frame.Line(row, lipgloss.PlaceHorizontal(c.renderWidth, lipgloss.Center, line))
	}
}

// gameLines draws the session and the hub totals below it.
func (c *Client) gameLines() []string {
	trackLen := c.renderWidth - 2*config.TrackPadding
	sc := draw.SceneFor(c.session, c.renderWidth, trackLen)
	sc.Hint = c.hint()

	lines := c.styles.Lines(sc)
	lines = append(lines,
		"",
		c.styles.HUD.Render(c.statsLine()),
		c.styles.Goal.Render(c.state.Record),
	)
	return lines
}

func (c *Client) hint() string {
	switch c.session.Phase() {
	case game.PhaseLoading:
		return "Press ENTER to start  ·  Q to quit"
	case game.PhaseEnded:
		return "Press ENTER to play again  ·  Q to quit"
	default:
		return "Hold A or ← to move  ·  SPACE toggles  ·  Q quits"
	}
}

// statsLine summarizes the hub snapshot. Fixed-width fields keep the line
// from jittering as numbers grow.
func (c *Client) statsLine() string {
	snap := c.server.GetSnapshot()
	if snap == nil {
		return ""
	}
	line := fmt.Sprintf("Players: %-3d Wins: %-4d Losses: %-4d Timeouts: %-4d",
		snap.Players, snap.Wins, snap.Losses, snap.Timeouts)
	if best, ok := snap.Best(); ok {
		line += fmt.Sprintf(" Best: %.2fs", best.Elapsed.Seconds())
	}
	return line
}

// inactivityLines draws the inactivity warning screen.
func (c *Client) inactivityLines() []string {
	left := int(config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	return []string{
		c.styles.Title.Render("INACTIVITY WARNING"),
		"",
		fmt.Sprintf("You have been inactive for too long. Disconnecting in %d seconds.", left),
		"",
		c.styles.Hint.Render("Press any key to continue"),
	}
}

// shutdownLines draws the server shutdown notification screen.
func (c *Client) shutdownLines() []string {
	remaining := int(c.state.shutdownTimer) + 1
	return []string{
		c.styles.Title.Render("SERVER SHUTTING DOWN"),
		"",
		"The server is restarting for maintenance.",
		"Please reconnect in a moment.",
		"",
		fmt.Sprintf("Disconnecting in %d seconds...", remaining),
		"",
		c.styles.Hint.Render("Press Q to disconnect now"),
	}
}

func (c *Client) tooSmallLines() []string {
	return []string{
		"Terminal too small",
		fmt.Sprintf("need %dx%d", config.MinTermWidth, config.MinTermHeight),
	}
}
