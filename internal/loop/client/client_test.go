package client

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/redlight/internal/game"
	"github.com/tomz197/redlight/internal/input"
	"github.com/tomz197/redlight/internal/loop/server"
)

// fakeServer records what a client reports.
type fakeServer struct {
	mu       sync.Mutex
	handle   *server.ClientHandle
	outcomes []game.Outcome
	gone     bool
}

var _ server.GameServer = (*fakeServer)(nil)

func (f *fakeServer) RegisterClient(username string) *server.ClientHandle {
	f.handle = &server.ClientHandle{ID: 7, Username: username, EventsCh: make(chan server.ClientEvent, 4)}
	return f.handle
}

func (f *fakeServer) UnregisterClient(int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gone = true
}

func (f *fakeServer) ReportOutcome(_ int, outcome game.Outcome, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}

func (f *fakeServer) GetSnapshot() *server.Snapshot {
	return &server.Snapshot{Players: 1}
}

func newTestClient(t *testing.T, width, height int) (*Client, *fakeServer, *bytes.Buffer) {
	t.Helper()
	gs := &fakeServer{}
	var out bytes.Buffer
	c, err := NewClient(gs, bufio.NewReader(strings.NewReader("")), &out, ClientOptions{
		Username:     "tester",
		TermSizeFunc: func() (int, int, error) { return width, height, nil },
		Logger:       log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, gs, &out
}

// runCountdown steps idle frames until the run starts.
func runCountdown(t *testing.T, c *Client, in input.Input) {
	t.Helper()
	for i := 0; i < 100 && c.session.Phase() != game.PhaseRunning; i++ {
		c.step(in, 100*time.Millisecond)
	}
	if c.session.Phase() != game.PhaseRunning {
		t.Fatalf("phase = %v, want running", c.session.Phase())
	}
}

func TestEnterBeginsAndOutcomeIsReportedOnce(t *testing.T) {
	c, gs, _ := newTestClient(t, 80, 24)

	c.step(input.Input{}, 16*time.Millisecond)
	if c.session.Phase() != game.PhaseLoading {
		t.Fatalf("phase = %v, want loading", c.session.Phase())
	}

	c.step(input.Input{Enter: true, Pressed: []byte{'\r'}}, 0)
	if c.session.Phase() != game.PhaseCountdown {
		t.Fatalf("phase = %v, want countdown", c.session.Phase())
	}
	runCountdown(t, c, input.Input{})

	// The doll's opening turn completes while the player keeps running.
	for i := 0; i < 100 && c.session.Phase() != game.PhaseEnded; i++ {
		c.step(input.Input{Move: true, Pressed: []byte{'a'}}, 16*time.Millisecond)
	}
	if c.session.Outcome() != game.OutcomeLose {
		t.Fatalf("outcome = %v, want lose", c.session.Outcome())
	}
	c.step(input.Input{}, 16*time.Millisecond)
	c.step(input.Input{}, 16*time.Millisecond)

	if len(gs.outcomes) != 1 || gs.outcomes[0] != game.OutcomeLose {
		t.Fatalf("reported %v, want one lose", gs.outcomes)
	}

	c.step(input.Input{Enter: true, Pressed: []byte{'\r'}}, 0)
	if c.session.Phase() != game.PhaseCountdown || c.state.Runs != 2 {
		t.Fatalf("after replay phase = %v runs = %d", c.session.Phase(), c.state.Runs)
	}
}

func TestInputIgnoredBeforeRun(t *testing.T) {
	c, _, _ := newTestClient(t, 80, 24)
	c.step(input.Input{Move: true, Pressed: []byte{'a'}}, 50*time.Millisecond)
	if c.session.Phase() != game.PhaseLoading || c.session.Velocity() != 0 {
		t.Fatalf("phase = %v velocity = %f", c.session.Phase(), c.session.Velocity())
	}
}

func TestLoadingFramesDoNotTick(t *testing.T) {
	c, _, _ := newTestClient(t, 80, 24)
	for i := 0; i < 10; i++ {
		c.step(input.Input{}, 16*time.Millisecond)
	}
	if c.session.Phase() != game.PhaseLoading || c.session.Ticks() != 0 {
		t.Fatalf("phase = %v ticks = %d, want loading with no ticks", c.session.Phase(), c.session.Ticks())
	}

	c.step(input.Input{Enter: true, Pressed: []byte{'\r'}}, 16*time.Millisecond)
	if c.session.Ticks() != 1 {
		t.Fatalf("ticks after Enter = %d, want 1", c.session.Ticks())
	}
}

func TestHeldThroughCountdownMovesOnGo(t *testing.T) {
	c, _, _ := newTestClient(t, 80, 24)
	c.step(input.Input{Enter: true, Pressed: []byte{'\r'}}, 0)

	held := input.Input{Move: true, Pressed: []byte{'a'}}
	runCountdown(t, c, held)
	if c.session.Velocity() <= 0 {
		t.Fatalf("velocity = %f, want moving on GO", c.session.Velocity())
	}

	// The opening turn toward is still in progress, so the first running
	// frames are safe.
	start := c.session.Position()
	for i := 0; i < 5; i++ {
		c.step(held, 16*time.Millisecond)
	}
	if c.session.Phase() != game.PhaseRunning || c.session.Outcome() == game.OutcomeLose {
		t.Fatalf("phase = %v outcome = %v, want still running", c.session.Phase(), c.session.Outcome())
	}
	if c.session.Position() >= start {
		t.Fatalf("position %f did not advance from %f", c.session.Position(), start)
	}
}

func TestServerShutdownEndsClient(t *testing.T) {
	c, gs, _ := newTestClient(t, 80, 24)
	gs.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}

	c.step(input.Input{}, 0)
	if c.state.Screen != ScreenShutdown || !c.state.Running {
		t.Fatalf("screen = %v running = %v", c.state.Screen, c.state.Running)
	}
	c.step(input.Input{}, 11*time.Second)
	if c.state.Running {
		t.Fatal("client still running after shutdown display")
	}
}

func TestClosedEventsChannelEndsClient(t *testing.T) {
	c, gs, _ := newTestClient(t, 80, 24)
	close(gs.handle.EventsCh)
	c.step(input.Input{}, 0)
	if c.state.Running {
		t.Fatal("client still running after hub closed its channel")
	}
}

func TestRecordEvent(t *testing.T) {
	c, gs, out := newTestClient(t, 80, 24)
	gs.handle.EventsCh <- server.ClientEvent{Type: server.EventNewRecord, Username: "bob", Elapsed: 4200 * time.Millisecond}
	c.step(input.Input{}, 0)
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "New record by bob: 4.20s") {
		t.Fatalf("record not shown:\n%s", out.String())
	}
}

func TestQuit(t *testing.T) {
	c, _, _ := newTestClient(t, 80, 24)
	c.step(input.Input{Quit: true, Pressed: []byte{'q'}}, 0)
	if c.state.Running {
		t.Fatal("Q should stop the client")
	}
}

func TestDrawFrame(t *testing.T) {
	c, _, out := newTestClient(t, 80, 24)
	c.step(input.Input{}, 0)
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	screen := out.String()
	for _, want := range []string{"Loading...", "Press ENTER to start", "Players: 1", "Time left: 10.0s"} {
		if !strings.Contains(screen, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestDrawFrameTooSmall(t *testing.T) {
	c, _, out := newTestClient(t, 30, 10)
	c.step(input.Input{}, 0)
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "Terminal too small") {
		t.Fatalf("expected too-small notice:\n%s", out.String())
	}
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{80, 24, 80, 24, 0, 0},
		{120, 40, 100, 24, 10, 8},
		{30, 10, 30, 10, 0, 0},
	}
	for _, tt := range tests {
		rw, rh, oc, or := clampTermSize(tt.w, tt.h)
		if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
			t.Errorf("clampTermSize(%d, %d) = %d, %d, %d, %d", tt.w, tt.h, rw, rh, oc, or)
		}
	}
}

func TestInvalidGameConfig(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Speed = -1
	_, err := NewClient(&fakeServer{}, bufio.NewReader(strings.NewReader("")), io.Discard, ClientOptions{
		Game:   cfg,
		Logger: log.New(io.Discard),
	})
	if err == nil {
		t.Fatal("expected invalid config error")
	}
}
