package audio

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

type otoOutput struct {
	mu     sync.Mutex
	player *oto.Player
	reader *StreamReader
}

func newOtoOutput(sampleRate int, source SampleSource) (*otoOutput, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	<-ready
	reader := NewStreamReader(source)
	return &otoOutput{player: ctx.NewPlayer(reader), reader: reader}, nil
}

func (o *otoOutput) Play() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		o.player.Play()
	}
}

func (o *otoOutput) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		o.player.Pause()
	}
}

func (o *otoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		o.player.Pause()
		err := o.player.Close()
		o.player = nil
		if err != nil {
			return err
		}
	}
	return o.reader.Close()
}
