// Package sdl is the SDL2 window frontend. It must be driven from the main
// goroutine: the machine run loop polls SDL events through Keys.
package sdl

import (
	"fmt"

	"github.com/mnafees/chopper/v2/internal/vm"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	window    *sdl.Window
	surface   *sdl.Surface
	pixelSize int32

	keys vm.Keypad
	quit bool
}

// NewIO returns a new I/O instance for the SDL frontend. Every CHIP-8
// pixel is drawn as a square of scale window pixels.
func NewIO(scale int) *IO {
	return &IO{
		pixelSize: int32(scale),
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		vm.ScreenWidth*io.pixelSize, vm.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window

	io.surface, err = window.GetSurface()
	if err != nil {
		io.Destroy()
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		io.Destroy()
		return fmt.Errorf("clearing window: %w", err)
	}
	return nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.window != nil {
		_ = io.window.Destroy()
		io.window = nil
	}
	sdl.Quit()
}

// RenderFrame draws the frame on the window surface.
func (io *IO) RenderFrame(frame vm.Frame) error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window: %w", err)
	}

	size := io.pixelSize
	for y := range frame {
		for x, px := range frame[y] {
			if px == 0 {
				continue
			}
			rect := &sdl.Rect{X: int32(x) * size, Y: int32(y) * size, W: size, H: size}
			if err := io.surface.FillRect(rect, spriteColor); err != nil {
				return fmt.Errorf("drawing pixel: %w", err)
			}
		}
	}

	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window: %w", err)
	}
	return nil
}

// Keys drains the SDL event queue and returns the keys held down.
func (io *IO) Keys() vm.Keypad {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			io.handleKey(t)
		case *sdl.QuitEvent:
			io.quit = true
		}
	}
	return io.keys
}

// HaltRequested reports whether the window was closed or Escape pressed.
func (io *IO) HaltRequested() bool {
	return io.quit
}

func (io *IO) handleKey(event *sdl.KeyboardEvent) {
	code := event.Keysym.Scancode
	if code == sdl.SCANCODE_ESCAPE {
		io.quit = true
		return
	}

	key, ok := keymap(code)
	if !ok {
		return
	}
	switch event.GetType() {
	case sdl.KEYDOWN:
		io.keys.Set(key)
	case sdl.KEYUP:
		io.keys.Unset(key)
	}
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) (uint8, bool) {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1, true
	case sdl.SCANCODE_2:
		return 0x2, true
	case sdl.SCANCODE_3:
		return 0x3, true
	case sdl.SCANCODE_4:
		return 0xC, true
	case sdl.SCANCODE_Q:
		return 0x4, true
	case sdl.SCANCODE_W:
		return 0x5, true
	case sdl.SCANCODE_E:
		return 0x6, true
	case sdl.SCANCODE_R:
		return 0xD, true
	case sdl.SCANCODE_A:
		return 0x7, true
	case sdl.SCANCODE_S:
		return 0x8, true
	case sdl.SCANCODE_D:
		return 0x9, true
	case sdl.SCANCODE_F:
		return 0xE, true
	case sdl.SCANCODE_Z:
		return 0xA, true
	case sdl.SCANCODE_X:
		return 0x0, true
	case sdl.SCANCODE_C:
		return 0xB, true
	case sdl.SCANCODE_V:
		return 0xF, true
	default:
		return 0, false
	}
}
