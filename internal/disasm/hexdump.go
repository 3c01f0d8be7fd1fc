package disasm

import (
	"bufio"
	"fmt"
	"io"
)

const bytesPerRow = 16

// Hexdump writes data as rows of 16 bytes, each row prefixed by the offset
// of its first byte.
func Hexdump(w io.Writer, data []byte) error {
	buf := bufio.NewWriter(w)

	_, _ = fmt.Fprintf(buf, "HEXDUMP %d bytes\n", len(data))
	for i, b := range data {
		if i%bytesPerRow == 0 {
			_, _ = fmt.Fprintf(buf, "%07x ", i)
		}
		_, _ = fmt.Fprintf(buf, "%02x ", b)

		if (i+1)%bytesPerRow == 0 || i+1 == len(data) {
			_ = buf.WriteByte('\n')
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing hexdump: %w", err)
	}
	return nil
}
