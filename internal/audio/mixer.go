package audio

import (
	"math"
	"sync/atomic"

	"github.com/viterin/vek/vek32"

	"github.com/cbegin/tenori-go/internal/effects"
	"github.com/cbegin/tenori-go/internal/signal"
	"github.com/cbegin/tenori-go/internal/timbre"
)

// MaxPending is how many notes may wait for the audio thread before Play
// starts dropping them.
const MaxPending = 256

// Mixer receives notes from the control side and renders every live voice
// into the output stream. Play is safe to call from any goroutine; Process
// belongs to the audio thread.
type Mixer struct {
	sampleRate int
	notes      chan timbre.Note
	voices     []signal.Signal
	voiceBuf   []float32
	mixBuf     []float32

	gain   atomic.Uint32 // float32 bits
	noComp bool
	eq     *effects.EQ5Band
	bus    *effects.Chain

	active  atomic.Int32
	dropped atomic.Uint64
	started atomic.Uint64
}

type MixerOption func(*Mixer)

// WithMasterGain sets the initial master gain.
func WithMasterGain(g float32) MixerOption {
	return func(m *Mixer) { m.SetMasterGain(g) }
}

// WithEQ sets the initial master EQ band gains.
func WithEQ(gains [effects.Bands]float32) MixerOption {
	return func(m *Mixer) { m.eq.SetGains(gains) }
}

// WithoutCompressor leaves the master bus unprotected. Useful for tests that
// compare exact sample values.
func WithoutCompressor() MixerOption {
	return func(m *Mixer) { m.noComp = true }
}

func NewMixer(sampleRate int, opts ...MixerOption) *Mixer {
	m := &Mixer{
		sampleRate: sampleRate,
		notes:      make(chan timbre.Note, MaxPending),
		voices:     make([]signal.Signal, 0, 64),
		eq:         effects.NewEQ5Band(sampleRate),
	}
	m.SetMasterGain(1)
	for _, opt := range opts {
		opt(m)
	}
	m.bus = effects.NewChain()
	if !m.noComp {
		m.bus.Add(effects.NewBusCompressor(sampleRate))
	}
	m.bus.Add(m.eq)
	return m
}

// Play queues a note without blocking. It returns false, and counts a drop,
// when the audio thread has fallen MaxPending notes behind.
func (m *Mixer) Play(n timbre.Note) bool {
	select {
	case m.notes <- n:
		return true
	default:
		m.dropped.Add(1)
		return false
	}
}

func (m *Mixer) SampleRate() int { return m.sampleRate }

func (m *Mixer) SetMasterGain(g float32) {
	if g < 0 || math.IsNaN(float64(g)) {
		g = 0
	}
	m.gain.Store(math.Float32bits(g))
}

func (m *Mixer) MasterGain() float32 {
	return math.Float32frombits(m.gain.Load())
}

// EQ exposes the master EQ; its gains may be changed while audio runs.
func (m *Mixer) EQ() *effects.EQ5Band { return m.eq }

// ActiveVoices is the number of voices sounding after the last Process.
func (m *Mixer) ActiveVoices() int { return int(m.active.Load()) }

// Dropped counts notes Play refused because the queue was full.
func (m *Mixer) Dropped() uint64 { return m.dropped.Load() }

// Started counts notes that reached the audio thread.
func (m *Mixer) Started() uint64 { return m.started.Load() }

func (m *Mixer) drain() {
	for {
		select {
		case n := <-m.notes:
			m.voices = append(m.voices, n.Signal(m.sampleRate))
			m.started.Add(1)
		default:
			return
		}
	}
}

// Process renders len(dst)/2 stereo frames. Voices are mono and land in
// both channels.
func (m *Mixer) Process(dst []float32) {
	m.drain()
	frames := len(dst) / 2
	if cap(m.mixBuf) < frames {
		m.mixBuf = make([]float32, frames)
		m.voiceBuf = make([]float32, frames)
	}
	mix := m.mixBuf[:frames]
	clear(mix)
	buf := m.voiceBuf[:frames]

	live := m.voices[:0]
	for _, v := range m.voices {
		n := fill(buf, v)
		vek32.Add_Inplace(mix[:n], buf[:n])
		if n == frames {
			live = append(live, v)
		}
	}
	clear(m.voices[len(live):])
	m.voices = live
	m.active.Store(int32(len(live)))

	vek32.MulNumber_Inplace(mix, m.MasterGain())

	for i, s := range mix {
		l, r := m.bus.Process(s, s)
		dst[2*i] = l
		dst[2*i+1] = r
	}
	if len(dst)%2 == 1 {
		dst[len(dst)-1] = 0
	}
}

// fill pulls up to len(buf) samples from a mono voice, reporting how many it
// got before the voice ended.
func fill(buf []float32, v signal.Signal) int {
	for i := range buf {
		s, ok := v.Next()
		if !ok {
			return i
		}
		buf[i] = s
	}
	return len(buf)
}
