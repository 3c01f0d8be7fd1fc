// Package options contains the program options.
package options

// Modes of operation.
const (
	ModeHexdump = "hexdump"
	ModeDisasm  = "disasm"
	ModeEmulate = "emulate"
	ModeAll     = "all"
)

// Frontends that can display the emulated machine.
const (
	FrontendSDL      = "sdl"
	FrontendEbiten   = "ebiten"
	FrontendTerm     = "term"
	FrontendHeadless = "headless"
)

// Modes lists all valid modes.
var Modes = []string{ModeHexdump, ModeDisasm, ModeEmulate, ModeAll}

// Frontends lists all valid frontends.
var Frontends = []string{FrontendSDL, FrontendEbiten, FrontendTerm, FrontendHeadless}

// Positional contains positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"CHIP-8 program file"`
}

// Flags contains behavior options.
type Flags struct {
	Mode     string `flag:"mode" usage:"what to do with the program: hexdump, disasm, emulate, all" default:"emulate"`
	Frontend string `flag:"frontend" usage:"frontend to emulate in: sdl, ebiten, term, headless" default:"sdl"`
	Origin   uint   `flag:"origin" usage:"address of the first byte in the disassembly listing"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// MachineFlags contains emulation tunables.
type MachineFlags struct {
	Clock        int    `flag:"clock" usage:"instructions per second, 0 runs unthrottled" default:"600"`
	TimerDivisor int    `flag:"timer-divisor" usage:"instructions per timer decrement" default:"10"`
	Scale        int    `flag:"scale" usage:"window pixels per CHIP-8 pixel" default:"10"`
	Seed         int64  `flag:"seed" usage:"random number seed, 0 seeds from the clock"`
	MaxCycles    uint64 `flag:"max-cycles" usage:"stop after this many instructions, 0 runs until halted"`
	Mute         bool   `flag:"mute" usage:"disable the sound timer tone"`
}

// Program options of the emulator.
type Program struct {
	Positional
	Flags
	MachineFlags
}

// Emulates reports whether the selected mode runs the program.
func (p Program) Emulates() bool {
	return p.Mode == ModeEmulate || p.Mode == ModeAll
}

// Describes reports whether the selected mode prints the program.
func (p Program) Describes() bool {
	return p.Mode != ModeEmulate
}
