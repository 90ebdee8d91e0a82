// Package draw renders the game to an ANSI terminal.
package draw

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// ANSI sequences used by the game screen.
const (
	seqHome       = "\033[H"
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
)

// maxChunkSize bounds each write to the underlying writer so a frame
// leaves as a few SSH packets instead of one large burst.
const maxChunkSize = 4096

// FrameWriter collects one frame of positioned lines inside the render
// area and sends it on Flush.
type FrameWriter struct {
	buf  []byte
	out  io.Writer
	left int // Columns between the terminal edge and the render area
	top  int // Rows above the render area
}

// NewFrameWriter creates a FrameWriter for w with the render area at the
// terminal's top-left corner.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{out: w}
}

// SetOrigin moves the render area, e.g. to center it after a resize.
func (fw *FrameWriter) SetOrigin(left, top int) {
	fw.left = left
	fw.top = top
}

// Clear queues a full terminal clear ahead of the lines that follow.
func (fw *FrameWriter) Clear() {
	fw.buf = append(fw.buf, seqClear...)
}

// Line queues s at the start of render-area row (1-based).
func (fw *FrameWriter) Line(row int, s string) {
	fw.buf = append(fw.buf, "\033["...)
	fw.buf = strconv.AppendInt(fw.buf, int64(row+fw.top), 10)
	fw.buf = append(fw.buf, ';')
	fw.buf = strconv.AppendInt(fw.buf, int64(1+fw.left), 10)
	fw.buf = append(fw.buf, 'H')
	fw.buf = append(fw.buf, s...)
}

// Flush writes the queued frame in chunks and parks the cursor at home.
func (fw *FrameWriter) Flush() error {
	if len(fw.buf) == 0 {
		return nil
	}
	fw.buf = append(fw.buf, seqHome...)
	data := fw.buf
	fw.buf = fw.buf[:0]
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := fw.out.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterScreen hides the cursor and clears the terminal for the game.
func EnterScreen(w io.Writer) {
	_, _ = io.WriteString(w, seqHideCursor+seqClear)
}

// LeaveScreen clears what the game drew and shows the cursor again.
func LeaveScreen(w io.Writer) {
	_, _ = io.WriteString(w, seqClear+seqShowCursor)
}
