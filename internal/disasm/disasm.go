// Package disasm renders CHIP-8 program images as a disassembly listing or
// as a hexdump without executing them.
package disasm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mnafees/chopper/v2/internal/vm"
)

// Line is one decoded 2 byte word of a program image.
type Line struct {
	Address     uint16
	Instruction vm.Instruction
	Valid       bool
}

// Listing is the disassembly of a complete program image.
type Listing struct {
	Lines []Line
	Bad   int // number of words that do not decode to an instruction
}

// Disassemble decodes every 2 byte word of program. Addresses start at
// origin. A trailing odd byte is not an instruction and is skipped.
func Disassemble(program []byte, origin uint16) Listing {
	listing := Listing{
		Lines: make([]Line, 0, len(program)/2),
	}

	for offset := 0; offset+1 < len(program); offset += 2 {
		word := uint16(program[offset])<<8 | uint16(program[offset+1])
		ins, valid := vm.Decode(word)
		if !valid {
			listing.Bad++
		}
		listing.Lines = append(listing.Lines, Line{
			Address:     origin + uint16(offset),
			Instruction: ins,
			Valid:       valid,
		})
	}
	return listing
}

// Write prints the listing with a column header and a summary trailer.
func (l Listing) Write(w io.Writer) error {
	buf := bufio.NewWriter(w)

	_, _ = fmt.Fprintf(buf, "\naddr  op  note\n")
	_, _ = fmt.Fprintf(buf, "---- ---- ---------------\n")
	for _, line := range l.Lines {
		_, _ = fmt.Fprintf(buf, "%04x %04x %s\n", line.Address, line.Instruction.Word, line.Instruction)
	}
	_, _ = fmt.Fprintf(buf, "\ntotal instructions %d\n", len(l.Lines))
	_, _ = fmt.Fprintf(buf, "found %d bad instructions\n", l.Bad)

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}
