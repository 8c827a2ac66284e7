package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/cbegin/tenori-go/internal/envelope"
	"github.com/cbegin/tenori-go/internal/timbre"
)

const testRate = 1000

// shortNote sounds at +/-volume for exactly ten samples at testRate.
func shortNote(volume float32) timbre.Note {
	return timbre.Note{
		Volume: volume,
		Timbre: timbre.Timbre{Square: 1, Envelope: envelope.Envelope{Sustain: 1, Hold: 0.01}},
	}
}

func TestMixerSilentWithoutVoices(t *testing.T) {
	m := NewMixer(testRate)
	dst := []float32{1, 1, 1, 1}
	m.Process(dst)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d] = %v, want 0", i, v)
		}
	}
}

func TestMixerRendersAndRetiresVoices(t *testing.T) {
	m := NewMixer(testRate, WithoutCompressor())
	if !m.Play(shortNote(0.5)) {
		t.Fatal("Play refused on empty queue")
	}
	dst := make([]float32, 2*8)
	m.Process(dst)
	if m.ActiveVoices() != 1 || m.Started() != 1 {
		t.Fatalf("active %d started %d", m.ActiveVoices(), m.Started())
	}
	for i := 0; i < len(dst); i += 2 {
		if dst[i] != dst[i+1] {
			t.Fatalf("frame %d not centered: %v %v", i/2, dst[i], dst[i+1])
		}
		if math.Abs(float64(dst[i])) != 0.5 {
			t.Fatalf("frame %d = %v, want +/-0.5", i/2, dst[i])
		}
	}

	m.Process(dst)
	if m.ActiveVoices() != 0 {
		t.Fatalf("voice still active after it ended: %d", m.ActiveVoices())
	}
	// Two frames of the voice remain, then silence.
	if dst[4] != 0 || dst[2*7] != 0 {
		t.Fatalf("expected silence after voice ended: %v", dst)
	}
}

func TestMixerSumsVoicesAndAppliesGain(t *testing.T) {
	m := NewMixer(testRate, WithoutCompressor(), WithMasterGain(0.5))
	m.Play(shortNote(1))
	m.Play(shortNote(1))
	dst := make([]float32, 2*4)
	m.Process(dst)
	if m.ActiveVoices() != 2 {
		t.Fatalf("active = %d", m.ActiveVoices())
	}
	if dst[0] != 1 {
		t.Fatalf("first frame = %v, want 1", dst[0])
	}
}

func TestMixerPlayDropsWhenFull(t *testing.T) {
	m := NewMixer(testRate)
	for i := 0; i < MaxPending; i++ {
		if !m.Play(shortNote(1)) {
			t.Fatalf("note %d refused below capacity", i)
		}
	}
	if m.Play(shortNote(1)) {
		t.Fatal("Play should refuse when the queue is full")
	}
	if m.Dropped() != 1 {
		t.Fatalf("dropped = %d", m.Dropped())
	}
	m.Process(make([]float32, 2))
	if !m.Play(shortNote(1)) {
		t.Fatal("queue should accept again after the audio thread drains it")
	}
}

func TestMixerCompressorTamesLoudStack(t *testing.T) {
	m := NewMixer(testRate)
	for i := 0; i < 16; i++ {
		m.Play(timbre.Note{Volume: 1, Timbre: timbre.Timbre{Square: 1, Envelope: envelope.Envelope{Sustain: 1, Hold: 1}}})
	}
	dst := make([]float32, 2*500)
	m.Process(dst)
	last := math.Abs(float64(dst[len(dst)-2]))
	if last >= 16 {
		t.Fatalf("compressor did not reduce a 16x stack: %v", last)
	}
}

func TestMixerEQZeroSilences(t *testing.T) {
	m := NewMixer(testRate, WithoutCompressor(), WithEQ([5]float32{}))
	m.Play(shortNote(1))
	dst := make([]float32, 2*8)
	m.Process(dst)
	for i, v := range dst {
		if math.Abs(float64(v)) > 1e-6 {
			t.Fatalf("dst[%d] = %v with every band at zero", i, v)
		}
	}
}

type rampSource struct{ next float32 }

func (r *rampSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = r.next
		r.next++
	}
}

func TestStreamReaderEncodesLittleEndianFloats(t *testing.T) {
	r := NewStreamReader(&rampSource{})
	p := make([]byte, 8*3+5) // trailing partial frame is left alone
	n, err := r.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 24 {
		t.Fatalf("n = %d, want 24", n)
	}
	for i := 0; i < 6; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if got != float32(i) {
			t.Fatalf("sample %d = %v", i, got)
		}
	}
	if n, _ := r.Read(make([]byte, 7)); n != 0 {
		t.Fatalf("short read returned %d", n)
	}
}

func TestClosedOutputsStopPullingSource(t *testing.T) {
	src := &rampSource{}
	out := &otoOutput{reader: NewStreamReader(src)}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	if n, err := out.reader.Read(make([]byte, 16)); n != 0 || !errors.Is(err, io.EOF) {
		t.Fatalf("Read after Close = %d, %v; want 0, EOF", n, err)
	}
	if src.next != 0 {
		t.Fatalf("source pulled %v samples after Close", src.next)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := Open("alsa-direct", 44100, NewMixer(44100)); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Open("oto", 0, NewMixer(44100)); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}
