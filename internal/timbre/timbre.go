// Package timbre describes how a voice sounds and turns a triggered note into
// a finite signal.
package timbre

import (
	"math"

	"github.com/cbegin/tenori-go/internal/effects"
	"github.com/cbegin/tenori-go/internal/envelope"
	"github.com/cbegin/tenori-go/internal/signal"
)

// ReverbBlock is the span, in samples, the reverb stage processes at a time.
const ReverbBlock = 512

// Distortion multiplies by Gain then hard-clips at +/- Threshold.
// A zero Gain means the stage is absent, whatever the Threshold, so the zero
// value is no distortion rather than silence. Use Volume to mute a track.
type Distortion struct {
	Gain      float32
	Threshold float32
}

func (d Distortion) clips() bool {
	return d.Threshold > 0 && !math.IsInf(float64(d.Threshold), 0)
}

// Configured reports whether the stage changes the signal at all.
func (d Distortion) Configured() bool {
	return d.Gain != 0 && (d.Gain != 1 || d.clips())
}

// Reverb blends a decaying tail of Duration seconds into the voice.
type Reverb struct {
	Mix      float32
	Duration float32
}

func (r Reverb) Configured() bool {
	return r.Mix != 0 && r.Duration > 0
}

// Timbre is copied into every Note, so edits never reach voices that are
// already sounding.
type Timbre struct {
	Sine     float32
	Triangle float32
	Square   float32
	Sawtooth float32
	Noise    float32

	Distortion Distortion
	Reverb     Reverb
	Envelope   envelope.Envelope
}

// Default is a plain square voice.
func Default() Timbre {
	return Timbre{Square: 1, Envelope: envelope.Default()}
}

// Frequency converts a semitone offset from A4 to Hz.
func Frequency(tone int) float64 {
	return 440 * math.Pow(1.0595, float64(tone))
}

// Source builds the un-enveloped mono voice at freq. Oscillators with a zero
// or negative weight are not created. Noise is low-passed at freq.
func (t Timbre) Source(freq float64, sampleRate int) signal.Signal {
	mix := signal.NewMixer(1, sampleRate)
	add := func(weight float32, osc signal.Signal) {
		mix.Add(signal.Amplify(osc, weight))
	}
	if t.Sine > 0 {
		add(t.Sine, signal.Sine(freq, sampleRate))
	}
	if t.Triangle > 0 {
		add(t.Triangle, signal.Triangle(freq, sampleRate))
	}
	if t.Square > 0 {
		add(t.Square, signal.Square(freq, sampleRate))
	}
	if t.Sawtooth > 0 {
		add(t.Sawtooth, signal.Sawtooth(freq, sampleRate))
	}
	if t.Noise > 0 {
		add(t.Noise, signal.NewNoise(freq, sampleRate, math.Float64bits(freq)))
	}

	var out signal.Signal = mix
	if t.Distortion.Configured() {
		out = effects.Apply(out, effects.NewDistortion(t.Distortion.Gain, t.Distortion.Threshold))
	}
	if t.Reverb.Configured() {
		tail := int(t.Reverb.Duration * float32(sampleRate))
		out = effects.Buffered(out, effects.NewReverb(sampleRate, t.Reverb.Mix, t.Reverb.Duration), ReverbBlock, tail)
	}
	return out
}

// Note is one triggered voice: plain data, safe to pass between goroutines.
type Note struct {
	Tone   int
	Volume float32
	Timbre Timbre
}

// Signal is the full voice: source, envelope, then volume.
func (n Note) Signal(sampleRate int) signal.Signal {
	src := n.Timbre.Source(Frequency(n.Tone), sampleRate)
	return signal.Amplify(n.Timbre.Envelope.Modulate(src), n.Volume)
}
