// Package ebiten is the ebiten window frontend. ebiten owns the main
// goroutine, the machine runs in a separate goroutine and exchanges only
// frame and keypad snapshots with the window.
package ebiten

import (
	"fmt"
	"image/color"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/mnafees/chopper/v2/internal/vm"
	"golang.org/x/image/font/basicfont"
)

var (
	screenColor = color.RGBA{R: 0x1A, G: 0x23, B: 0x7E, A: 0xFF}
	spriteColor = color.RGBA{R: 0x9F, G: 0xA8, B: 0xDA, A: 0xFF}
	statusColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// keymap maps a QWERTY keyboard to the CHIP-8 keypad, see pkg/sdl.
var keymap = []struct {
	key   ebiten.Key
	chip8 uint8
}{
	{ebiten.Key1, 0x1}, {ebiten.Key2, 0x2}, {ebiten.Key3, 0x3}, {ebiten.Key4, 0xC},
	{ebiten.KeyQ, 0x4}, {ebiten.KeyW, 0x5}, {ebiten.KeyE, 0x6}, {ebiten.KeyR, 0xD},
	{ebiten.KeyA, 0x7}, {ebiten.KeyS, 0x8}, {ebiten.KeyD, 0x9}, {ebiten.KeyF, 0xE},
	{ebiten.KeyZ, 0xA}, {ebiten.KeyX, 0x0}, {ebiten.KeyC, 0xB}, {ebiten.KeyV, 0xF},
}

// Window implements the display and input surfaces of the machine.
type Window struct {
	scale int
	title string

	mu     sync.Mutex
	pixels []byte // RGBA copy of the last rendered frame
	image  *ebiten.Image

	keys       atomic.Uint32
	halt       atomic.Bool
	done       atomic.Bool
	showStatus bool
}

// New returns a window that draws every CHIP-8 pixel as a square of scale
// window pixels.
func New(scale int, title string) *Window {
	w := &Window{
		scale:  scale,
		title:  title,
		pixels: make([]byte, vm.ScreenWidth*vm.ScreenHeight*4),
	}
	w.fill(vm.Frame{})
	return w
}

// Run starts run in a new goroutine and runs the ebiten game loop on the
// calling goroutine, which must be the main one, until run returned. The
// window closing or Escape requests the machine to halt.
func (w *Window) Run(run func() error) error {
	ebiten.SetWindowSize(vm.ScreenWidth*w.scale, vm.ScreenHeight*w.scale)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowClosingHandled(true)

	runErr := make(chan error, 1)
	go func() {
		runErr <- run()
		w.done.Store(true)
	}()

	if err := ebiten.RunGame(w); err != nil {
		w.halt.Store(true)
		<-runErr
		return fmt.Errorf("running window: %w", err)
	}
	w.halt.Store(true)
	return <-runErr
}

// RenderFrame stores a copy of frame for the next Draw call.
func (w *Window) RenderFrame(frame vm.Frame) error {
	w.mu.Lock()
	w.fill(frame)
	w.mu.Unlock()
	return nil
}

// Keys returns the keys held down at the last window update.
func (w *Window) Keys() vm.Keypad {
	return vm.Keypad(w.keys.Load())
}

// HaltRequested reports whether the window was closed or Escape pressed.
func (w *Window) HaltRequested() bool {
	return w.halt.Load()
}

// Update polls the keyboard.
func (w *Window) Update() error {
	if w.done.Load() {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.halt.Store(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		w.showStatus = !w.showStatus
	}

	var keys vm.Keypad
	for _, m := range keymap {
		if ebiten.IsKeyPressed(m.key) {
			keys.Set(m.chip8)
		}
	}
	w.keys.Store(uint32(keys))
	return nil
}

// Draw scales the last frame onto the screen.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(vm.ScreenWidth, vm.ScreenHeight)
	}
	w.mu.Lock()
	w.image.WritePixels(w.pixels)
	w.mu.Unlock()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.image, op)

	if w.showStatus {
		face := basicfont.Face7x13
		text.Draw(screen, statusLine(w.Keys()), face, 4, 14, statusColor)
	}
}

// Layout keeps the logical screen at the scaled CHIP-8 resolution.
func (w *Window) Layout(_, _ int) (int, int) {
	return vm.ScreenWidth * w.scale, vm.ScreenHeight * w.scale
}

func (w *Window) fill(frame vm.Frame) {
	i := 0
	for y := range frame {
		for _, px := range frame[y] {
			c := screenColor
			if px == 1 {
				c = spriteColor
			}
			w.pixels[i] = c.R
			w.pixels[i+1] = c.G
			w.pixels[i+2] = c.B
			w.pixels[i+3] = c.A
			i += 4
		}
	}
}

// statusLine lists the pressed CHIP-8 keys.
func statusLine(keys vm.Keypad) string {
	var sb strings.Builder
	sb.WriteString("ESC quit  keys:")
	for key := uint8(0); key <= 0xF; key++ {
		if keys.Pressed(key) {
			fmt.Fprintf(&sb, " %X", key)
		}
	}
	return sb.String()
}
