package vm

import "fmt"

// Op identifies an instruction variant.
type Op uint8

// Instruction variants, one per CHIP-8 opcode.
const (
	OpInvalid Op = iota
	OpCls    // 00E0
	OpRet    // 00EE
	OpSys    // 0nnn
	OpJp     // 1nnn
	OpCall   // 2nnn
	OpSeImm  // 3xkk
	OpSneImm // 4xkk
	OpSeReg  // 5xy0
	OpLdImm  // 6xkk
	OpAddImm // 7xkk
	OpLdReg  // 8xy0
	OpOr     // 8xy1
	OpAnd    // 8xy2
	OpXor    // 8xy3
	OpAddReg // 8xy4
	OpSub    // 8xy5
	OpShr    // 8xy6
	OpSubn   // 8xy7
	OpShl    // 8xyE
	OpSneReg // 9xy0
	OpLdI    // Annn
	OpJpV0   // Bnnn
	OpRnd    // Cxkk
	OpDrw    // Dxyn
	OpSkp    // Ex9E
	OpSknp   // ExA1
	OpLdVxDT // Fx07
	OpLdVxK  // Fx0A
	OpLdDTVx // Fx15
	OpLdSTVx // Fx18
	OpAddI   // Fx1E
	OpLdF    // Fx29
	OpLdB    // Fx33
	OpStore  // Fx55
	OpLoad   // Fx65
)

// Instruction is a decoded instruction word with its operand fields.
type Instruction struct {
	Op   Op
	Word uint16 // 16-bit opcode of the instruction
	X    uint8  // the lower 4 bits of the high byte of the instruction
	Y    uint8  // the upper 4 bits of the low byte of the instruction
	N    uint8  // the lowest 4 bits of the instruction
	KK   uint8  // the lowest 8 bits of the instruction
	NNN  uint16 // the lowest 12 bits of the instruction
}

// Decode parses an instruction word. The returned bool is false when the
// word matches no CHIP-8 instruction, in which case Op is OpInvalid.
func Decode(word uint16) (Instruction, bool) {
	ins := Instruction{
		Word: word,
		X:    uint8((word >> 8) & 0x000F),
		Y:    uint8((word >> 4) & 0x000F),
		N:    uint8(word & 0x000F),
		KK:   uint8(word & 0x00FF),
		NNN:  word & 0x0FFF,
	}
	ins.Op = decodeOp(ins)
	return ins, ins.Op != OpInvalid
}

func decodeOp(ins Instruction) Op {
	switch ins.Word & 0xF000 { // Compare against the first 4 bits of the instruction only
	case 0x0000:
		if ins.Word&0xFFF0 != 0x00E0 {
			return OpSys
		}
		switch ins.KK {
		case 0xE0:
			return OpCls
		case 0xEE:
			return OpRet
		}
	case 0x1000:
		return OpJp
	case 0x2000:
		return OpCall
	case 0x3000:
		return OpSeImm
	case 0x4000:
		return OpSneImm
	case 0x5000:
		if ins.N == 0x0 {
			return OpSeReg
		}
	case 0x6000:
		return OpLdImm
	case 0x7000:
		return OpAddImm
	case 0x8000:
		switch ins.N {
		case 0x0:
			return OpLdReg
		case 0x1:
			return OpOr
		case 0x2:
			return OpAnd
		case 0x3:
			return OpXor
		case 0x4:
			return OpAddReg
		case 0x5:
			return OpSub
		case 0x6:
			return OpShr
		case 0x7:
			return OpSubn
		case 0xE:
			return OpShl
		}
	case 0x9000:
		if ins.N == 0x0 {
			return OpSneReg
		}
	case 0xA000:
		return OpLdI
	case 0xB000:
		return OpJpV0
	case 0xC000:
		return OpRnd
	case 0xD000:
		return OpDrw
	case 0xE000:
		switch ins.KK {
		case 0x9E:
			return OpSkp
		case 0xA1:
			return OpSknp
		}
	case 0xF000:
		switch ins.KK {
		case 0x07:
			return OpLdVxDT
		case 0x0A:
			return OpLdVxK
		case 0x15:
			return OpLdDTVx
		case 0x18:
			return OpLdSTVx
		case 0x1E:
			return OpAddI
		case 0x29:
			return OpLdF
		case 0x33:
			return OpLdB
		case 0x55:
			return OpStore
		case 0x65:
			return OpLoad
		}
	}
	return OpInvalid
}

// String returns the mnemonic of the instruction. It is the describe-only
// counterpart of executing it and never touches machine state.
func (ins Instruction) String() string {
	x, y := ins.X, ins.Y
	switch ins.Op {
	case OpCls:
		return "cls"
	case OpRet:
		return "rtn"
	case OpSys:
		return fmt.Sprintf("call 0x%x", ins.NNN)
	case OpJp:
		return fmt.Sprintf("jmp 0x%x", ins.NNN)
	case OpCall:
		return fmt.Sprintf("jsr 0x%x", ins.NNN)
	case OpSeImm:
		return fmt.Sprintf("skip.eq V%X,0x%x", x, ins.KK)
	case OpSneImm:
		return fmt.Sprintf("skip.ne V%X,0x%x", x, ins.KK)
	case OpSeReg:
		return fmt.Sprintf("skip.eq V%X,V%X", x, y)
	case OpLdImm:
		return fmt.Sprintf("mov V%X,0x%x", x, ins.KK)
	case OpAddImm:
		return fmt.Sprintf("add V%X,0x%x", x, ins.KK)
	case OpLdReg:
		return fmt.Sprintf("mov V%X,V%X", x, y)
	case OpOr:
		return fmt.Sprintf("or V%X,V%X", x, y)
	case OpAnd:
		return fmt.Sprintf("and V%X,V%X", x, y)
	case OpXor:
		return fmt.Sprintf("xor V%X,V%X", x, y)
	case OpAddReg:
		return fmt.Sprintf("add.c V%X,V%X", x, y)
	case OpSub:
		return fmt.Sprintf("sub.b V%X,V%X", x, y)
	case OpShr:
		return fmt.Sprintf("shr V%X", x)
	case OpSubn:
		return fmt.Sprintf("rsb V%X,V%X", x, y)
	case OpShl:
		return fmt.Sprintf("shl V%X", x)
	case OpSneReg:
		return fmt.Sprintf("skip.ne V%X,V%X", x, y)
	case OpLdI:
		return fmt.Sprintf("mov I,0x%x", ins.NNN)
	case OpJpV0:
		return fmt.Sprintf("jmp 0x%x+V0", ins.NNN)
	case OpRnd:
		return fmt.Sprintf("rand V%X,rnd&0x%x", x, ins.KK)
	case OpDrw:
		return fmt.Sprintf("sprite V%X,V%X,%d", x, y, ins.N)
	case OpSkp:
		return fmt.Sprintf("skip.press V%X", x)
	case OpSknp:
		return fmt.Sprintf("skip.npress V%X", x)
	case OpLdVxDT:
		return fmt.Sprintf("gdelay V%X", x)
	case OpLdVxK:
		return fmt.Sprintf("key V%X", x)
	case OpLdDTVx:
		return fmt.Sprintf("sdelay V%X", x)
	case OpLdSTVx:
		return fmt.Sprintf("ssound V%X", x)
	case OpAddI:
		return fmt.Sprintf("add I,V%X", x)
	case OpLdF:
		return fmt.Sprintf("font V%X", x)
	case OpLdB:
		return fmt.Sprintf("bcd I,V%X", x)
	case OpStore:
		return fmt.Sprintf("store [I],V0-V%X", x)
	case OpLoad:
		return fmt.Sprintf("load V0-V%X,[I]", x)
	default:
		return "unknown/bad opcode"
	}
}
