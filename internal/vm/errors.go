package vm

import (
	"errors"
	"fmt"
)

// Error kinds reported by the machine. UnknownOpcode and the stack errors
// are recoverable, the run continues. MemoryOutOfRange and ProgramTooLarge
// stop the run.
var (
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrStackUnderflow   = errors.New("stack underflow")
	ErrStackOverflow    = errors.New("stack overflow")
	ErrMemoryOutOfRange = errors.New("memory access out of range")
	ErrProgramTooLarge  = errors.New("program size exceeds the maximum size")
)

// Fault describes an error kind together with the machine location that
// raised it.
type Fault struct {
	Err    error  // One of the Err* kinds
	PC     uint16 // Address of the faulting instruction
	Opcode uint16 // Faulting instruction word
	Detail string // Additional error context
}

func (f *Fault) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("%v at 0x%04X (opcode %04X): %s", f.Err, f.PC, f.Opcode, f.Detail)
	}
	return fmt.Sprintf("%v at 0x%04X (opcode %04X)", f.Err, f.PC, f.Opcode)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Fatal reports whether the fault must stop the run.
func (f *Fault) Fatal() bool {
	return errors.Is(f.Err, ErrMemoryOutOfRange)
}

func sizeDetail(size int) string {
	return fmt.Sprintf("%d bytes, limit is %d", size, MaxProgramSize)
}

func rangeDetail(op string, addr, count int) string {
	return fmt.Sprintf("%s of %d bytes at 0x%04X", op, count, addr)
}
