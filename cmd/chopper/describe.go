package main

import (
	"io"

	"github.com/mnafees/chopper/v2/internal/disasm"
	"github.com/mnafees/chopper/v2/internal/options"
)

// describe prints the program without running it.
func describe(opts options.Program, program []byte, out io.Writer) error {
	if opts.Mode == options.ModeHexdump || opts.Mode == options.ModeAll {
		if err := disasm.Hexdump(out, program); err != nil {
			return err
		}
	}
	if opts.Mode == options.ModeDisasm || opts.Mode == options.ModeAll {
		listing := disasm.Disassemble(program, uint16(opts.Origin))
		if err := listing.Write(out); err != nil {
			return err
		}
	}
	return nil
}
