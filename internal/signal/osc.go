package signal

import (
	"math"
	"math/rand/v2"
)

const twoPi = math.Pi * 2

type Wave int

const (
	WaveSine Wave = iota
	WaveTriangle
	WaveSquare
	WaveSawtooth
)

func (w Wave) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSquare:
		return "square"
	case WaveSawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

// Oscillator is an endless mono periodic waveform in [-1, 1].
type Oscillator struct {
	wave       Wave
	step       float64
	phase      float64 // [0, 1)
	sampleRate int
}

func NewOscillator(wave Wave, freq float64, sampleRate int) *Oscillator {
	o := &Oscillator{wave: wave, sampleRate: sampleRate}
	if sampleRate > 0 {
		o.step = freq / float64(sampleRate)
	}
	return o
}

func Sine(freq float64, sampleRate int) *Oscillator {
	return NewOscillator(WaveSine, freq, sampleRate)
}

func Triangle(freq float64, sampleRate int) *Oscillator {
	return NewOscillator(WaveTriangle, freq, sampleRate)
}

func Square(freq float64, sampleRate int) *Oscillator {
	return NewOscillator(WaveSquare, freq, sampleRate)
}

func Sawtooth(freq float64, sampleRate int) *Oscillator {
	return NewOscillator(WaveSawtooth, freq, sampleRate)
}

func (o *Oscillator) Next() (float32, bool) {
	var out float64
	switch o.wave {
	case WaveSine:
		out = math.Sin(twoPi * o.phase)
	case WaveTriangle:
		out = 1 - 2*math.Abs(2*o.phase-1)
	case WaveSquare:
		out = -1
		if o.phase < 0.5 {
			out = 1
		}
	case WaveSawtooth:
		out = 2*o.phase - 1
	}
	o.phase += o.step
	for o.phase >= 1 {
		o.phase -= 1
	}
	return float32(out), true
}

func (o *Oscillator) Channels() int   { return 1 }
func (o *Oscillator) SampleRate() int { return o.sampleRate }

// NoiseQ is the resonance of the low-pass applied to Noise.
const NoiseQ = 2.0

// Noise is white uniform noise run through a biquad low-pass whose cutoff
// follows the pitch the noise was requested at, so higher rows sound brighter.
type Noise struct {
	rng        *rand.Rand
	sampleRate int

	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
	filtered           bool
}

func NewNoise(cutoff float64, sampleRate int, seed uint64) *Noise {
	n := &Noise{
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		sampleRate: sampleRate,
	}
	nyquist := float64(sampleRate) / 2
	if cutoff > 0 && cutoff < nyquist {
		w0 := twoPi * cutoff / float64(sampleRate)
		alpha := math.Sin(w0) / (2 * NoiseQ)
		cos := math.Cos(w0)
		a0 := 1 + alpha
		n.b0 = (1 - cos) / 2 / a0
		n.b1 = (1 - cos) / a0
		n.b2 = (1 - cos) / 2 / a0
		n.a1 = -2 * cos / a0
		n.a2 = (1 - alpha) / a0
		n.filtered = true
	}
	return n
}

func (n *Noise) Next() (float32, bool) {
	x := n.rng.Float64()*2 - 1
	if !n.filtered {
		return float32(x), true
	}
	y := n.b0*x + n.b1*n.x1 + n.b2*n.x2 - n.a1*n.y1 - n.a2*n.y2
	n.x2, n.x1 = n.x1, x
	n.y2, n.y1 = n.y1, y
	return float32(y), true
}

func (n *Noise) Channels() int   { return 1 }
func (n *Noise) SampleRate() int { return n.sampleRate }
