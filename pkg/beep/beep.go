package beep

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Beeper plays a Tone on the default audio device.
type Beeper struct {
	*Tone

	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
}

// New opens the audio device and starts playing a switched off tone. Only
// one Beeper can exist per process.
func New(sampleRate, frequency int) (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	tone := NewTone(sampleRate, frequency)
	player := ctx.NewPlayer(tone)
	player.Play()

	return &Beeper{
		Tone:   tone,
		ctx:    ctx,
		player: player,
	}, nil
}

// Close stops the audio output.
func (b *Beeper) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player == nil {
		return nil
	}
	b.Tone.SetTone(false)
	err := b.player.Close()
	b.player = nil
	if err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}
