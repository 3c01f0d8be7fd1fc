package headless

import (
	"context"
	"strings"
	"testing"

	"github.com/mnafees/chopper/v2/internal/vm"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestScreen(t *testing.T) {
	screen := NewScreen()
	var frame vm.Frame
	frame[0][0] = 1
	frame[31][63] = 1

	assert.NoError(t, screen.RenderFrame(frame))
	assert.Equal(t, 1, screen.Frames())
	assert.Equal(t, frame, screen.Last())

	lines := strings.Split(strings.TrimSuffix(screen.String(), "\n"), "\n")
	assert.Equal(t, vm.ScreenHeight, len(lines))
	assert.Equal(t, "#"+strings.Repeat(".", 63), lines[0])
	assert.Equal(t, strings.Repeat(".", 63)+"#", lines[31])
}

func TestKeypadScript(t *testing.T) {
	keypad := NewKeypad([]KeyEvent{
		{At: 2, Key: 0x5, Down: true},
		{At: 2, Key: 0xA, Down: true},
		{At: 4, Key: 0x5, Down: false},
	}, 0)

	assert.Equal(t, vm.Keypad(0), keypad.Keys())
	keys := keypad.Keys()
	assert.True(t, keys.Pressed(0x5))
	assert.True(t, keys.Pressed(0xA))
	keys = keypad.Keys()
	assert.True(t, keys.Pressed(0x5))
	keys = keypad.Keys()
	assert.False(t, keys.Pressed(0x5))
	assert.True(t, keys.Pressed(0xA))
	assert.False(t, keypad.HaltRequested())
}

func TestKeypadHalt(t *testing.T) {
	keypad := NewKeypad(nil, 2)
	keypad.Keys()
	assert.False(t, keypad.HaltRequested())
	keypad.Keys()
	assert.True(t, keypad.HaltRequested())

	keypad = NewKeypad(nil, 0)
	keypad.Halt()
	assert.True(t, keypad.HaltRequested())
}

func TestMachineWithHeadlessSurfaces(t *testing.T) {
	// wait for a key, show its glyph at (0,0), then spin forever
	program := []byte{
		0xF0, 0x0A, // key V0
		0xF0, 0x29, // font V0
		0x61, 0x00, // mov V1,0x0
		0xD1, 0x15, // sprite V1,V1,5
		0x12, 0x08, // jmp 0x208
	}
	screen := NewScreen()
	keypad := NewKeypad([]KeyEvent{{At: 3, Key: 0x1, Down: true}}, 20)

	m := vm.NewMachine(vm.Options{
		Display: screen,
		Input:   keypad,
		Logger:  log.NewTestLogger(t),
		Seed:    1,
	})
	report, err := m.Execute(context.Background(), program)
	assert.NoError(t, err)
	assert.Equal(t, vm.HaltRequested, report.Halt)
	assert.Equal(t, uint8(1), report.State.V[0])
	assert.Equal(t, 1, screen.Frames())

	// glyph 1 is 0x20 0x60 0x20 0x20 0x70
	frame := screen.Last()
	assert.Equal(t, 8, frame.Lit())
	assert.Equal(t, uint8(1), frame[0][2])
	assert.Equal(t, uint8(1), frame[1][1])
	assert.Equal(t, uint8(1), frame[4][3])
}
