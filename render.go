package tenori

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/cbegin/tenori-go/internal/audio"
	"github.com/cbegin/tenori-go/internal/effects"
	"github.com/cbegin/tenori-go/internal/song"
)

// RenderChannels is the channel count of rendered audio: every voice lands
// in both channels of an interleaved stereo stream.
const RenderChannels = 2

// RenderConfig controls offline rendering. A zero MasterGain means unity and
// an all-zero EQ means flat.
type RenderConfig struct {
	SampleRate int
	Seconds    float64
	MasterGain float32
	EQ         [effects.Bands]float32
	// BlockFrames is how often the simulated host steps the machine;
	// zero means every 10ms.
	BlockFrames int
}

// Render plays s from the top for cfg.Seconds against a simulated clock and
// returns interleaved stereo samples.
func Render(s *song.Song, cfg RenderConfig) ([]float32, error) {
	if cfg.SampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	if cfg.Seconds < 0 || math.IsNaN(cfg.Seconds) {
		return nil, errors.New("seconds must not be negative")
	}
	var opts []audio.MixerOption
	if cfg.MasterGain != 0 {
		opts = append(opts, audio.WithMasterGain(cfg.MasterGain))
	}
	if cfg.EQ != ([effects.Bands]float32{}) {
		opts = append(opts, audio.WithEQ(cfg.EQ))
	}
	mixer := audio.NewMixer(cfg.SampleRate, opts...)

	m := New(WithSink(mixer), WithRand(NewRand(0)))
	if err := m.LoadSong(s); err != nil {
		return nil, err
	}
	block := cfg.BlockFrames
	if block <= 0 {
		block = max(cfg.SampleRate/100, 1)
	}

	start := time.Unix(0, 0)
	m.Resume()
	m.Tick(start)
	m.PlayBeat()

	frames := int(float64(cfg.SampleRate) * cfg.Seconds)
	out := make([]float32, frames*RenderChannels)
	for done := 0; done < frames; {
		if done > 0 {
			m.Step(start.Add(time.Duration(done) * time.Second / time.Duration(cfg.SampleRate)))
		}
		n := min(block, frames-done)
		mixer.Process(out[done*RenderChannels : (done+n)*RenderChannels])
		done += n
	}
	return out, nil
}

// wavHeader is the canonical 44-byte RIFF header for IEEE float PCM.
type wavHeader struct {
	RIFF          [4]byte
	ChunkSize     uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

const wavFormatFloat = 3

// WriteWAV writes the interleaved stereo output of Render as a 32-bit float
// WAV file.
func WriteWAV(w io.Writer, samples []float32, sampleRate int) error {
	const bytesPerSample = 4
	dataSize := len(samples) * bytesPerSample
	hdr := wavHeader{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(36 + dataSize),
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		Format:        wavFormatFloat,
		Channels:      RenderChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * RenderChannels * bytesPerSample),
		BlockAlign:    RenderChannels * bytesPerSample,
		BitsPerSample: 8 * bytesPerSample,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      uint32(dataSize),
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("wav header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("wav samples: %w", err)
	}
	return nil
}
