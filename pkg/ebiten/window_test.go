package ebiten

import (
	"testing"

	"github.com/mnafees/chopper/v2/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func TestWindowRenderFrame(t *testing.T) {
	w := New(4, "test")
	var frame vm.Frame
	frame[0][1] = 1

	assert.NoError(t, w.RenderFrame(frame))
	assert.Equal(t, []byte{screenColor.R, screenColor.G, screenColor.B, 0xFF}, w.pixels[0:4])
	assert.Equal(t, []byte{spriteColor.R, spriteColor.G, spriteColor.B, 0xFF}, w.pixels[4:8])
}

func TestWindowSurfaces(t *testing.T) {
	w := New(1, "test")
	assert.Equal(t, vm.Keypad(0), w.Keys())
	assert.False(t, w.HaltRequested())

	w.keys.Store(1<<0xA | 1<<0x3)
	assert.True(t, w.Keys().Pressed(0xA))
	assert.True(t, w.Keys().Pressed(0x3))

	w.halt.Store(true)
	assert.True(t, w.HaltRequested())
}

func TestWindowLayout(t *testing.T) {
	w := New(10, "test")
	width, height := w.Layout(0, 0)
	assert.Equal(t, 640, width)
	assert.Equal(t, 320, height)
}

func TestKeymapCoversKeypad(t *testing.T) {
	var keys vm.Keypad
	for _, m := range keymap {
		assert.False(t, keys.Pressed(m.chip8), "key mapped twice")
		keys.Set(m.chip8)
	}
	assert.Equal(t, vm.Keypad(0xFFFF), keys)
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "ESC quit  keys:", statusLine(0))
	assert.Equal(t, "ESC quit  keys: 0 F", statusLine(1|1<<0xF))
}
