package effects

import "math"

// Reverb is a mono Schroeder reverb: four parallel comb filters followed by
// two allpass filters. Comb feedback is chosen so each comb decays by 60 dB
// over the requested duration.
type Reverb struct {
	combs   [4]combFilter
	allpass [2]allpassFilter
	mix     float32
}

type combFilter struct {
	buf []float32
	pos int
	fb  float32
}

type allpassFilter struct {
	buf []float32
	pos int
	fb  float32
}

// roomSize scales the comb delay lengths; 0.5 gives ~25ms at any rate.
const roomSize = 0.5

// NewReverb creates a reverb whose tail lasts roughly duration seconds.
// mix is the wet/dry ratio, 0..1.
func NewReverb(sampleRate int, mix, duration float32) *Reverb {
	base := int(float32(sampleRate) * roomSize * 0.05)
	if base < 10 {
		base = 10
	}
	r := &Reverb{mix: clamp(mix, 0, 1)}
	// Comb filter delay lengths (prime-ish ratios to avoid resonances)
	combLens := [4]int{base, base * 1117 / 1000, base * 1271 / 1000, base * 1437 / 1000}
	for i := range r.combs {
		r.combs[i] = combFilter{
			buf: make([]float32, combLens[i]),
			fb:  decayFeedback(combLens[i], sampleRate, duration),
		}
	}
	apLens := [2]int{base * 347 / 1000, base * 213 / 1000}
	for i := range r.allpass {
		r.allpass[i] = allpassFilter{
			buf: make([]float32, max(apLens[i], 1)),
			fb:  0.5,
		}
	}
	return r
}

// decayFeedback returns the per-pass gain that yields -60 dB after duration.
func decayFeedback(delay, sampleRate int, duration float32) float32 {
	if duration <= 0 || sampleRate <= 0 {
		return 0
	}
	passes := float64(duration) * float64(sampleRate) / float64(delay)
	return clamp(float32(math.Pow(10, -3/passes)), 0, 0.98)
}

func (r *Reverb) Process(x float32) float32 {
	var out float32
	for i := range r.combs {
		out += r.combs[i].process(x)
	}
	out *= 0.25
	for i := range r.allpass {
		out = r.allpass[i].process(out)
	}
	return x*(1-r.mix) + out*r.mix
}

func (r *Reverb) Reset() {
	for i := range r.combs {
		clear(r.combs[i].buf)
		r.combs[i].pos = 0
	}
	for i := range r.allpass {
		clear(r.allpass[i].buf)
		r.allpass[i].pos = 0
	}
}

func (c *combFilter) process(in float32) float32 {
	out := c.buf[c.pos]
	c.buf[c.pos] = in + out*c.fb
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (a *allpassFilter) process(in float32) float32 {
	bufOut := a.buf[a.pos]
	out := -in + bufOut
	a.buf[a.pos] = in + bufOut*a.fb
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}
