// Package term is a text terminal frontend. The terminal is switched to raw
// mode, frames are drawn with ANSI escape sequences and half block
// characters, and key presses are read from stdin.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mnafees/chopper/v2/internal/vm"
	"golang.org/x/term"
)

// Terminals do not report key releases, a key counts as held down for
// this long after its last press or autorepeat.
const keyHold = 150 * time.Millisecond

const (
	escape = 0x1b
	ctrlC  = 0x03

	cursorHome = "\x1b[H"
	clearAll   = "\x1b[2J"
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

// keymap maps a QWERTY keyboard to the CHIP-8 keypad, see pkg/sdl.
var keymap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Terminal implements the display and input surfaces of the machine.
type Terminal struct {
	in  *os.File
	out io.Writer
	now func() time.Time

	oldState *term.State

	mu       sync.Mutex
	deadline [16]time.Time // key is held until its deadline
	halt     atomic.Bool
	closed   atomic.Bool
}

// New returns a terminal frontend reading keys from in and drawing to out.
func New(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		in:  in,
		out: out,
		now: time.Now,
	}
}

// Start switches the input to raw mode, if it is a terminal, and starts
// reading keys in the background.
func (t *Terminal) Start() error {
	fd := int(t.in.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("setting terminal raw mode: %w", err)
		}
		t.oldState = state
	}

	if _, err := io.WriteString(t.out, clearAll+hideCursor); err != nil {
		return fmt.Errorf("clearing terminal: %w", err)
	}

	go t.readKeys(t.in)
	return nil
}

// Close restores the terminal state changed by Start. A blocking read of
// the input file cannot be interrupted, so the reader started by Start stays
// parked on it until the next byte arrives or the process exits. Bytes read
// after Close are dropped.
func (t *Terminal) Close() error {
	t.closed.Store(true)
	_, _ = io.WriteString(t.out, showCursor+"\r\n")
	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	t.oldState = nil
	return nil
}

// RenderFrame draws frame with two CHIP-8 rows per text line.
func (t *Terminal) RenderFrame(frame vm.Frame) error {
	if _, err := io.WriteString(t.out, render(frame)); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Keys returns the keys pressed recently enough to count as held down.
func (t *Terminal) Keys() vm.Keypad {
	now := t.now()
	var keys vm.Keypad

	t.mu.Lock()
	for key, until := range t.deadline {
		if now.Before(until) {
			keys.Set(uint8(key))
		}
	}
	t.mu.Unlock()
	return keys
}

// HaltRequested reports whether Escape or Ctrl-C was pressed.
func (t *Terminal) HaltRequested() bool {
	return t.halt.Load()
}

func (t *Terminal) readKeys(r io.Reader) {
	reader := bufio.NewReader(r)
	for {
		b, err := reader.ReadByte()
		if err != nil || t.closed.Load() {
			return
		}
		t.handleByte(b)
	}
}

func (t *Terminal) handleByte(b byte) {
	if t.closed.Load() {
		return
	}
	switch b {
	case escape, ctrlC:
		t.halt.Store(true)
		return
	}

	key, ok := keymap[lower(b)]
	if !ok {
		return
	}
	t.mu.Lock()
	t.deadline[key] = t.now().Add(keyHold)
	t.mu.Unlock()
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

// render returns the escape sequences and characters that draw frame from
// the top left corner of the terminal.
func render(frame vm.Frame) string {
	var sb strings.Builder
	sb.WriteString(cursorHome)
	for y := 0; y < vm.ScreenHeight; y += 2 {
		for x := 0; x < vm.ScreenWidth; x++ {
			top, bottom := frame[y][x] == 1, frame[y+1][x] == 1
			switch {
			case top && bottom:
				sb.WriteString("█")
			case top:
				sb.WriteString("▀")
			case bottom:
				sb.WriteString("▄")
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
