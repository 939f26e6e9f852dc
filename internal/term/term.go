// Package term reads raw keyboard input from a terminal and translates it
// into controller events. It owns the terminal mode; the reader goroutine
// lives for the process and exits when stdin closes.
package term

import (
	"errors"
	"os"

	"golang.org/x/term"

	"github.com/drafterkit/drafter/internal/controller"
)

// ErrNotTerminal is returned when the input file is not an interactive tty.
var ErrNotTerminal = errors.New("input is not a terminal")

// Start switches f into raw mode and streams decoded key events. The
// returned stop function restores the previous terminal state.
func Start(f *os.File, events chan<- controller.Event) (stop func(), err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	go readLoop(f, events)

	return func() {
		_ = term.Restore(fd, oldState)
	}, nil
}

func readLoop(f *os.File, events chan<- controller.Event) {
	buf := make([]byte, 64)
	for {
		n, err := f.Read(buf)
		if err != nil {
			send(events, controller.Event{Kind: controller.Quit})
			return
		}
		for _, ev := range Decode(buf[:n]) {
			send(events, ev)
		}
	}
}

// send never blocks; when the loop falls behind, excess keystrokes are
// dropped rather than stalling the reader.
func send(events chan<- controller.Event, ev controller.Event) {
	select {
	case events <- ev:
	default:
	}
}

// Decode translates a raw input chunk into events. It understands control
// keys, CSI arrow sequences, and printable runes.
func Decode(chunk []byte) []controller.Event {
	var out []controller.Event
	for i := 0; i < len(chunk); i++ {
		b := chunk[i]
		switch {
		case b == 0x03 || b == 0x04: // ctrl-c, ctrl-d
			out = append(out, controller.Event{Kind: controller.Quit})
		case b == '\r' || b == '\n' || b == ' ':
			out = append(out, controller.Event{Kind: controller.KeyEnter})
		case b == 0x1b:
			if i+2 < len(chunk) && chunk[i+1] == '[' {
				switch chunk[i+2] {
				case 'A':
					out = append(out, controller.Event{Kind: controller.KeyUp})
				case 'B':
					out = append(out, controller.Event{Kind: controller.KeyDown})
				case 'C':
					out = append(out, controller.Event{Kind: controller.KeyRight})
				case 'D':
					out = append(out, controller.Event{Kind: controller.KeyLeft})
				}
				i += 2
				continue
			}
			out = append(out, controller.Event{Kind: controller.KeyEscape})
		case b >= 0x20 && b < 0x7f:
			out = append(out, controller.Event{Kind: controller.KeyRune, Rune: rune(b)})
		}
	}
	return out
}
