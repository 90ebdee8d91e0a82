package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/redlight/internal/clock"
	"github.com/tomz197/redlight/internal/draw"
	"github.com/tomz197/redlight/internal/game"
	"github.com/tomz197/redlight/internal/input"
	"github.com/tomz197/redlight/internal/loop"
	"github.com/tomz197/redlight/internal/loop/config"
	"github.com/tomz197/redlight/internal/loop/server"
)

// Client handles rendering and input for a single connection. It owns one
// game session at a time and reports each outcome to the hub.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	gameCfg      game.Config
	sched        *clock.Scheduler
	session      *game.Session
	driver       *loop.Driver
	intent       input.Intent
	styles       draw.Styles
	frame        *draw.FrameWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	err          error

	renderWidth  int
	renderHeight int
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Term         string      // TERM of the connecting terminal, picks the color profile
	Game         game.Config // Zero value means game.DefaultConfig()
	Logger       *log.Logger
}

// NewClient creates a new client connected to the given hub.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	gameCfg := opts.Game
	if gameCfg == (game.Config{}) {
		gameCfg = game.DefaultConfig()
	}
	if err := gameCfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	c := &Client{
		server:       gs,
		state:        NewClientState(),
		gameCfg:      gameCfg,
		styles:       draw.NewStyles(draw.NewRenderer(w, opts.Term)),
		frame:        draw.NewFrameWriter(w),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		logger:       logger.With("user", opts.Username),
	}
	if err := c.newSession(); err != nil {
		return nil, err
	}
	c.updateScreen()
	c.handle = gs.RegisterClient(opts.Username)
	return c, nil
}

// Run starts the client loop. Blocks until the client disconnects, the
// server stops or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	draw.EnterScreen(c.writer)
	err := loop.Run(ctx, config.ClientTargetFPS, c.runFrame)

	// Unregister from server
	c.server.UnregisterClient(c.handle.ID)

	draw.LeaveScreen(c.writer)
	if c.err != nil {
		return c.err
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runFrame runs one iteration of the client loop.
func (c *Client) runFrame(delta time.Duration) bool {
	c.step(input.ReadInput(c.inputStream), delta)
	if err := c.drawFrame(); err != nil {
		c.err = err
		return false
	}
	return c.state.Running
}

// step applies one frame of input and time, without drawing.
func (c *Client) step(in input.Input, delta time.Duration) {
	c.state.delta = delta
	c.processInput(in)

	// Check for server events
	c.processServerEvents()

	// Handle screen resize
	c.updateScreen()

	switch c.state.Screen {
	case ScreenGame:
		c.updateGame()
	case ScreenShutdown:
		c.updateShutdownState()
	}
}

// processInput records this frame's input and tracks inactivity.
func (c *Client) processInput(in input.Input) {
	c.state.Input = in

	if len(in.Pressed) > 0 || in.Move {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive player")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
	}
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventNewRecord:
				c.state.Record = fmt.Sprintf("New record by %s: %.2fs", displayName(event.Username), event.Elapsed.Seconds())
			case server.EventServerShutdown:
				c.state.Screen = ScreenShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual output
// outside the new render area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.renderWidth || renderHeight != c.renderHeight {
		c.frame.Clear()
	}
	c.renderWidth = renderWidth
	c.renderHeight = renderHeight
	c.frame.SetOrigin(offsetCol, offsetRow)
	c.state.tooSmall = renderWidth < config.MinTermWidth || renderHeight < config.MinTermHeight
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateGame feeds input to the session and moves its clock forward.
func (c *Client) updateGame() {
	in := c.state.Input

	switch c.session.Phase() {
	case game.PhaseLoading:
		if !in.Enter && !in.Toggle {
			return
		}
		c.beginRun()
	case game.PhaseEnded:
		if in.Enter {
			if err := c.newSession(); err != nil {
				c.err = err
				c.state.Running = false
				return
			}
			c.beginRun()
		}
		return
	default:
		start, stop := c.intent.Update(in)
		if start {
			c.session.OnInputStart()
		}
		if stop {
			c.session.OnInputEnd()
		}
	}

	c.driver.Step(c.state.delta)
	phase := c.session.Phase()

	// A key held through the countdown starts moving on GO.
	if phase == game.PhaseRunning && c.state.prevPhase != game.PhaseRunning && c.intent.Moving() {
		c.session.OnInputStart()
	}

	if phase == game.PhaseEnded && !c.state.Reported {
		c.state.Reported = true
		elapsed := c.session.Config().TimeLimit - c.session.Remaining()
		c.server.ReportOutcome(c.handle.ID, c.session.Outcome(), elapsed)
		c.logger.Debug("outcome reported",
			"outcome", c.session.Outcome(),
			"elapsed", elapsed,
			"frames", c.session.Ticks(),
		)
	}
	c.state.prevPhase = phase
}

// newSession replaces the current session with a fresh one in the
// loading phase, on a fresh clock.
func (c *Client) newSession() error {
	c.sched = clock.New(time.Now())
	session, err := game.New(c.gameCfg, c.sched, game.WithLogger(c.logger))
	if err != nil {
		return err
	}
	c.session = session
	c.driver = loop.NewDriver(c.sched, session, config.MaxFrameDelta)
	c.state.Reported = false
	c.state.prevPhase = game.PhaseLoading
	return nil
}

// beginRun starts the countdown with a clean input state.
func (c *Client) beginRun() {
	input.ResetKeyInput(c.inputStream)
	c.intent.Reset()
	c.state.Runs++
	c.logger.Debug("run starting", "run", c.state.Runs)
	c.session.Begin()
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

func displayName(username string) string {
	if username == "" {
		return "anonymous"
	}
	return username
}
