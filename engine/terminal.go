package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	keyInterrupt = 0x03
	keyEOF       = 0x04
)

// ErrInterrupted is returned by TerminalInput when the user presses Ctrl-C.
var ErrInterrupted = errors.New("input interrupted")

// TerminalInput reads single keystrokes from a terminal without waiting for
// a newline. Each ReadRune switches the terminal into raw mode for the
// duration of the read.
type TerminalInput struct {
	f    *os.File
	echo io.Writer
}

// NewTerminalInput wraps f, which must be a terminal. Keystrokes are echoed
// to echo when it is non-nil, since raw mode disables the terminal's own echo.
func NewTerminalInput(f *os.File, echo io.Writer) *TerminalInput {
	return &TerminalInput{f: f, echo: echo}
}

// ReadRune implements io.RuneReader.
func (t *TerminalInput) ReadRune() (rune, int, error) {
	fd := int(t.f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	var buf [utf8.UTFMax]byte
	n := 0
	for n < len(buf) {
		if _, err := t.f.Read(buf[n : n+1]); err != nil {
			return 0, 0, err
		}
		n++
		if n == 1 {
			switch buf[0] {
			case keyInterrupt:
				return 0, 0, ErrInterrupted
			case keyEOF:
				return 0, 0, io.EOF
			case '\r':
				buf[0] = '\n'
			}
		}
		if utf8.FullRune(buf[:n]) {
			break
		}
	}

	r, size := utf8.DecodeRune(buf[:n])
	if t.echo != nil {
		if r == '\n' {
			fmt.Fprint(t.echo, "\r\n")
		} else {
			fmt.Fprint(t.echo, string(r))
		}
	}
	return r, size, nil
}

// Read implements io.Reader by reading a single keystroke into p.
func (t *TerminalInput) Read(p []byte) (int, error) {
	if len(p) < utf8.UTFMax {
		return 0, io.ErrShortBuffer
	}
	r, _, err := t.ReadRune()
	if err != nil {
		return 0, err
	}
	return utf8.EncodeRune(p, r), nil
}
