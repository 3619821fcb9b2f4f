package term

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Reader wraps golang.org/x/term's line editor in raw mode, giving the
// REPL history navigation and in-line editing without reimplementing a
// terminal driver.
type Reader struct {
	term    *term.Terminal
	fd      int
	oldState *term.State
}

// NewReader puts stdin into raw mode and returns a line reader with the
// given prompt. Call Close to restore the terminal.
func NewReader(prompt string) (*Reader, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	rw := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}

	t := term.NewTerminal(rw, prompt)
	return &Reader{term: t, fd: fd, oldState: oldState}, nil
}

func (r *Reader) SetPrompt(prompt string) {
	r.term.SetPrompt(prompt)
}

// ReadLine blocks for one line of input, honoring Up/Down history and
// Ctrl-C/Ctrl-D as io.EOF.
func (r *Reader) ReadLine() (string, error) {
	return r.term.ReadLine()
}

func (r *Reader) Close() {
	term.Restore(r.fd, r.oldState)
}
