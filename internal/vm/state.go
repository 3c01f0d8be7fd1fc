// Package vm implements the CHIP-8 virtual machine: machine state, the
// instruction decoder, the executor and the run loop.
//
// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
package vm

import "fmt"

// CHIP-8 VM constants
const (
	TotalMemory    = 0x1000
	ProgramStart   = 0x200
	MaxProgramSize = TotalMemory - ProgramStart

	ScreenWidth  = 64
	ScreenHeight = 32

	stackDepth = 16
	glyphSize  = 5
	fontSize   = 16 * glyphSize
)

var fontset = [fontSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Glyph returns the 5 byte font bitmap of the hex digit d.
func Glyph(d uint8) [glyphSize]uint8 {
	var g [glyphSize]uint8
	off := int(d&0xF) * glyphSize
	copy(g[:], fontset[off:off+glyphSize])
	return g
}

// Frame is the 64 x 32 monochrome display, stored row-major. Every pixel
// is either 0 or 1.
type Frame [ScreenHeight][ScreenWidth]uint8

// Clear turns every pixel off.
func (f *Frame) Clear() {
	*f = Frame{}
}

// Lit returns the number of pixels that are on.
func (f *Frame) Lit() int {
	n := 0
	for _, row := range f {
		for _, px := range row {
			n += int(px)
		}
	}
	return n
}

// Keypad holds the pressed state of the 16 CHIP-8 keys in the form of
// individual bits. So when 0 is pushed in the keypad, the 0'th bit will be
// set and so on.
type Keypad uint16

// Set marks key as pressed.
func (k *Keypad) Set(key uint8) {
	*k |= 1 << (key & 0xF)
}

// Unset marks key as released.
func (k *Keypad) Unset(key uint8) {
	*k &^= 1 << (key & 0xF)
}

// Pressed returns whether key is currently held down.
func (k Keypad) Pressed(key uint8) bool {
	mask := Keypad(1) << (key & 0xF)
	return k&mask == mask
}

// First returns the lowest pressed key, if any.
func (k Keypad) First() (uint8, bool) {
	for key := uint8(0); key <= 0xF; key++ {
		if k.Pressed(key) {
			return key, true
		}
	}
	return 0, false
}

// State is the complete mutable state of one CHIP-8 machine. A fresh State
// is created for every Execute call and owned by the run loop.
type State struct {
	V      [16]uint8          // 16 general purpose 8-bit registers, VF doubles as flag
	I      uint16             // 16-bit register that is generally used to store memory addresses
	PC     uint16             // Program counter
	SP     uint8              // Stack pointer, number of saved return addresses
	Stack  [stackDepth]uint16 // Return addresses of active calls
	Delay  uint8              // Delay timer
	Sound  uint8              // Sound timer
	Memory [TotalMemory]uint8 // 4 KB global memory

	Display Frame  // 64 px x 32 px display
	Keys    Keypad // Keys currently held down

	dirty   bool // display changed since the last render
	waiting bool // blocked in Fx0A
	waitReg uint8
}

// NewState returns a reset machine with the font table installed and the
// program counter at the program load address.
func NewState() *State {
	s := &State{PC: ProgramStart}
	copy(s.Memory[:], fontset[:])
	return s
}

// Load copies a program image into memory at the load address.
func (s *State) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %s", ErrProgramTooLarge, sizeDetail(len(program)))
	}
	copy(s.Memory[ProgramStart:], program)
	return nil
}

// Fetch reads the big-endian instruction word at the program counter.
func (s *State) Fetch() uint16 {
	return uint16(s.Memory[s.PC])<<8 | uint16(s.Memory[s.PC+1])
}

// Dirty reports whether the display changed since it was last rendered.
func (s *State) Dirty() bool {
	return s.dirty
}

// Waiting reports whether the machine is blocked on a key press and for
// which register.
func (s *State) Waiting() (uint8, bool) {
	return s.waitReg, s.waiting
}

func (s *State) push(addr uint16) bool {
	if int(s.SP) >= stackDepth {
		return false
	}
	s.Stack[s.SP] = addr
	s.SP++
	return true
}

func (s *State) pop() (uint16, bool) {
	if s.SP == 0 {
		return 0, false
	}
	s.SP--
	return s.Stack[s.SP], true
}
