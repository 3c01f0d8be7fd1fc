// Package beep plays the CHIP-8 sound timer tone through oto.
package beep

import (
	"encoding/binary"
	"sync/atomic"
)

// Default audio settings, mono output at 44.1kHz and a 440Hz square wave.
const (
	DefaultSampleRate = 44100
	DefaultFrequency  = 440
)

const (
	amplitude     = 0x1800
	bytesPerFrame = 2 // mono signed 16 bit little endian
)

// Tone is a square wave generator that can be switched on and off while
// it is being read. Silence is returned while it is off.
type Tone struct {
	on atomic.Bool

	halfPeriod int // samples per half wave
	position   int
}

// NewTone returns a switched off tone of the given frequency.
func NewTone(sampleRate, frequency int) *Tone {
	half := sampleRate / (2 * frequency)
	if half < 1 {
		half = 1
	}
	return &Tone{halfPeriod: half}
}

// SetTone switches the tone on or off.
func (t *Tone) SetTone(on bool) {
	t.on.Store(on)
}

// On reports whether the tone is switched on.
func (t *Tone) On() bool {
	return t.on.Load()
}

// Read fills p with whole samples. It never fails and never ends.
func (t *Tone) Read(p []byte) (int, error) {
	n := len(p) - len(p)%bytesPerFrame
	on := t.on.Load()

	for i := 0; i < n; i += bytesPerFrame {
		var sample int16
		if on {
			sample = amplitude
			if (t.position/t.halfPeriod)%2 == 1 {
				sample = -amplitude
			}
			t.position = (t.position + 1) % (2 * t.halfPeriod)
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(sample))
	}
	return n, nil
}
