// Package input turns raw terminal bytes into the game's few controls.
//
// Terminals only report key presses, never releases, so a held move key is
// inferred from auto-repeat: the key counts as held while presses keep
// arriving inside the hold window.
package input

import (
	"bufio"
	"time"
)

// Hold windows for the move key. The first press must survive the
// terminal's auto-repeat delay; once repeats are flowing the window shrinks
// so a release is noticed quickly.
const (
	firstPressHold = 550 * time.Millisecond
	repeatHold     = 120 * time.Millisecond
)

// Input represents the current frame's input state.
type Input struct {
	Quit    bool // Q pressed this frame
	Move    bool // Move key held
	Toggle  bool // SPACE pressed this frame
	Enter   bool // ENTER pressed this frame
	Pressed []byte
}

// keyState tracks the move key across frames.
type keyState struct {
	moveFirst time.Time // Start of the current hold
	moveLast  time.Time // Most recent press
	repeating bool      // A repeat arrived inside the first-press window
}

// Stream delivers input bytes via a channel and tracks key state across reads.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128)}
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				return s.parse(buf, time.Now())
			}
			buf = append(buf, b)
		default:
			return s.parse(buf, time.Now())
		}
	}
}

// ResetKeyInput forgets any held key, e.g. when a new game starts.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
}

// parse applies the bytes read this frame and reports the resulting input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if buf[i+2] == 'D' { // Left arrow
				s.pressMove(now)
			}
			i += 2
			continue
		}

		switch b {
		case 'q', 'Q':
			in.Quit = true
		case 'a', 'A', 'h', 'H':
			s.pressMove(now)
		case ' ':
			in.Toggle = true
		case '\n', '\r':
			in.Enter = true
		}
	}

	in.Move = s.moveHeld(now)
	return in
}

func (s *Stream) pressMove(now time.Time) {
	st := &s.state
	if !st.moveLast.IsZero() && now.Sub(st.moveLast) < st.window() {
		if now.After(st.moveFirst) {
			st.repeating = true
		}
		st.moveLast = now
		return
	}
	st.moveFirst = now
	st.moveLast = now
	st.repeating = false
}

func (s *Stream) moveHeld(now time.Time) bool {
	st := &s.state
	if st.moveLast.IsZero() {
		return false
	}
	if now.Sub(st.moveLast) < st.window() {
		return true
	}
	s.state = keyState{}
	return false
}

func (st *keyState) window() time.Duration {
	if st.repeating {
		return repeatHold
	}
	return firstPressHold
}

// Intent folds the held key and the SPACE toggle into a single move
// signal and reports its edges.
type Intent struct {
	toggled bool
	moving  bool
}

// Update applies one frame of input. start is true on the frame movement
// begins, stop on the frame it ends.
func (it *Intent) Update(in Input) (start, stop bool) {
	if in.Toggle {
		it.toggled = !it.toggled
	}
	want := in.Move || it.toggled
	switch {
	case want && !it.moving:
		start = true
	case !want && it.moving:
		stop = true
	}
	it.moving = want
	return start, stop
}

// Moving reports whether movement is currently requested.
func (it *Intent) Moving() bool {
	return it.moving
}

// Reset clears the toggle and the movement state.
func (it *Intent) Reset() {
	*it = Intent{}
}
