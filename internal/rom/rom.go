// Package rom loads CHIP-8 program images from disk.
package rom

import (
	"fmt"
	"io"
	"os"

	"github.com/mnafees/chopper/v2/internal/vm"
)

// Load reads the program image stored in filename.
func Load(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file '%s': %w", filename, err)
	}
	defer func() { _ = file.Close() }()

	data, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("loading program '%s': %w", filename, err)
	}
	return data, nil
}

// Read reads a program image from r. Images that do not fit into the
// program area of memory are rejected with vm.ErrProgramTooLarge.
func Read(r io.Reader) ([]byte, error) {
	// one byte more than allowed is enough to detect an oversized image
	data, err := io.ReadAll(io.LimitReader(r, vm.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	if len(data) > vm.MaxProgramSize {
		return nil, fmt.Errorf("%w: more than %d bytes", vm.ErrProgramTooLarge, vm.MaxProgramSize)
	}
	return data, nil
}
