// Package headless provides display and input surfaces that keep everything
// in memory. They are used for scripted runs without a window and in tests.
package headless

import (
	"strings"
	"sync"

	"github.com/mnafees/chopper/v2/internal/vm"
)

// Screen records the frames rendered by the machine.
type Screen struct {
	mu     sync.Mutex
	last   vm.Frame
	frames int
}

// NewScreen returns an empty screen.
func NewScreen() *Screen {
	return &Screen{}
}

// RenderFrame stores a copy of frame.
func (s *Screen) RenderFrame(frame vm.Frame) error {
	s.mu.Lock()
	s.last = frame
	s.frames++
	s.mu.Unlock()
	return nil
}

// Frames returns how many frames were rendered.
func (s *Screen) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Last returns the most recently rendered frame.
func (s *Screen) Last() vm.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// String renders the last frame as text, one line per row, '#' for lit
// pixels and '.' for dark ones.
func (s *Screen) String() string {
	frame := s.Last()
	var sb strings.Builder
	sb.Grow(vm.ScreenHeight * (vm.ScreenWidth + 1))
	for _, row := range frame {
		for _, px := range row {
			if px == 1 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// KeyEvent presses or releases a key when the input is polled for the
// At'th time, counting from 1.
type KeyEvent struct {
	At   uint64
	Key  uint8
	Down bool
}

// Keypad replays a script of key events. Events must be ordered by At.
type Keypad struct {
	mu        sync.Mutex
	script    []KeyEvent
	next      int
	polls     uint64
	keys      vm.Keypad
	haltAfter uint64
	halted    bool
}

// NewKeypad returns an input surface replaying script. A non-zero
// haltAfter requests a halt after that many polls.
func NewKeypad(script []KeyEvent, haltAfter uint64) *Keypad {
	return &Keypad{
		script:    script,
		haltAfter: haltAfter,
	}
}

// Keys applies all events that are due and returns the resulting keypad.
func (k *Keypad) Keys() vm.Keypad {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.polls++
	for k.next < len(k.script) && k.script[k.next].At <= k.polls {
		ev := k.script[k.next]
		if ev.Down {
			k.keys.Set(ev.Key)
		} else {
			k.keys.Unset(ev.Key)
		}
		k.next++
	}
	if k.haltAfter > 0 && k.polls >= k.haltAfter {
		k.halted = true
	}
	return k.keys
}

// Halt requests the machine to stop at the next loop iteration.
func (k *Keypad) Halt() {
	k.mu.Lock()
	k.halted = true
	k.mu.Unlock()
}

// HaltRequested reports whether a halt was requested.
func (k *Keypad) HaltRequested() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.halted
}
