package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func TestParseKeys(t *testing.T) {
	s := newStream()
	in := s.parse([]byte("q \r"), at(0))
	if !in.Quit || !in.Toggle || !in.Enter {
		t.Fatalf("parse = %+v, want quit, toggle and enter", in)
	}
	if in.Move {
		t.Fatal("no move key was pressed")
	}
}

func TestLeftArrowMoves(t *testing.T) {
	s := newStream()
	in := s.parse([]byte("\x1b[D"), at(0))
	if !in.Move {
		t.Fatal("left arrow did not register as move")
	}
	if in.Quit || in.Toggle {
		t.Fatalf("escape sequence leaked into other keys: %+v", in)
	}

	// Other arrows are swallowed without effect.
	s = newStream()
	if in := s.parse([]byte("\x1b[C"), at(0)); in.Move {
		t.Fatal("right arrow registered as move")
	}
}

func TestHoldSurvivesRepeatDelay(t *testing.T) {
	s := newStream()
	s.parse([]byte("a"), at(0))

	// Terminal auto-repeat typically starts after a few hundred ms.
	if in := s.parse(nil, at(400)); !in.Move {
		t.Fatal("first press released before auto-repeat could start")
	}
	if in := s.parse([]byte("a"), at(450)); !in.Move {
		t.Fatal("repeat not counted as held")
	}
	if in := s.parse([]byte("a"), at(480)); !in.Move {
		t.Fatal("repeat not counted as held")
	}
	// Once repeating, silence longer than the repeat window is a release.
	if in := s.parse(nil, at(480+int(repeatHold/time.Millisecond))); in.Move {
		t.Fatal("release not detected after repeats stopped")
	}
}

func TestSingleTapReleases(t *testing.T) {
	s := newStream()
	s.parse([]byte("h"), at(0))
	if in := s.parse(nil, at(int(firstPressHold/time.Millisecond))); in.Move {
		t.Fatal("single tap still held after the first-press window")
	}
	// A fresh press starts a new hold.
	if in := s.parse([]byte("h"), at(1000)); !in.Move {
		t.Fatal("new press after release not registered")
	}
}

func TestResetKeyInput(t *testing.T) {
	s := newStream()
	s.parse([]byte("a"), at(0))
	ResetKeyInput(s)
	if in := s.parse(nil, at(10)); in.Move {
		t.Fatal("move still held after reset")
	}
	ResetKeyInput(nil)
}

func TestStartStreamDrains(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("q")))
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if in := ReadInput(s); in.Quit {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("quit key never arrived through the stream")
}

func TestIntentEdges(t *testing.T) {
	var it Intent

	steps := []struct {
		in          Input
		start, stop bool
	}{
		{Input{Move: true}, true, false},
		{Input{Move: true}, false, false},
		{Input{}, false, true},
		{Input{Toggle: true}, true, false}, // SPACE latches movement
		{Input{}, false, false},
		{Input{Move: true}, false, false}, // Already moving
		{Input{Toggle: true, Move: true}, false, false},
		{Input{}, false, true},
	}
	for i, step := range steps {
		start, stop := it.Update(step.in)
		if start != step.start || stop != step.stop {
			t.Fatalf("step %d: start=%v stop=%v, want %v/%v", i, start, stop, step.start, step.stop)
		}
	}

	it.Update(Input{Toggle: true})
	it.Reset()
	if it.Moving() {
		t.Fatal("Reset left movement on")
	}
}
