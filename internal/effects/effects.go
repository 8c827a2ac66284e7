package effects

import "github.com/cbegin/tenori-go/internal/signal"

// Effector processes a mono stream one sample at a time.
type Effector interface {
	Process(x float32) float32
	Reset()
}

// StereoEffector processes interleaved stereo frames on the master bus.
type StereoEffector interface {
	Process(l, r float32) (float32, float32)
	Reset()
}

// Chain applies a sequence of master-bus effects in order.
type Chain struct {
	effects []StereoEffector
}

func NewChain(effects ...StereoEffector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(l, r float32) (float32, float32) {
	for _, e := range c.effects {
		l, r = e.Process(l, r)
	}
	return l, r
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e StereoEffector) {
	c.effects = append(c.effects, e)
}

func (c *Chain) Len() int { return len(c.effects) }

type applied struct {
	src signal.Signal
	fx  Effector
}

// Apply runs fx over src sample by sample.
func Apply(src signal.Signal, fx Effector) signal.Signal {
	return &applied{src: src, fx: fx}
}

func (a *applied) Next() (float32, bool) {
	v, ok := a.src.Next()
	if !ok {
		return 0, false
	}
	return a.fx.Process(v), true
}

func (a *applied) Channels() int   { return a.src.Channels() }
func (a *applied) SampleRate() int { return a.src.SampleRate() }

// buffered pulls contiguous spans from its source, processes each span as a
// whole and serves it back one sample at a time. Once the source ends it keeps
// feeding silence through fx for tail samples so decaying effects ring out.
type buffered struct {
	src   signal.Signal
	fx    Effector
	buf   []float32
	pos   int
	tail  int
	ended bool
}

// Buffered wraps src with fx using blocks of the given size.
func Buffered(src signal.Signal, fx Effector, block, tail int) signal.Signal {
	if block < 1 {
		block = 1
	}
	return &buffered{src: src, fx: fx, buf: make([]float32, 0, block), tail: tail}
}

func (b *buffered) Next() (float32, bool) {
	if b.pos >= len(b.buf) && !b.fill() {
		return 0, false
	}
	v := b.buf[b.pos]
	b.pos++
	return v, true
}

func (b *buffered) fill() bool {
	b.buf = b.buf[:0]
	b.pos = 0
	for len(b.buf) < cap(b.buf) {
		if !b.ended {
			v, ok := b.src.Next()
			if ok {
				b.buf = append(b.buf, v)
				continue
			}
			b.ended = true
		}
		if b.tail <= 0 {
			break
		}
		b.tail--
		b.buf = append(b.buf, 0)
	}
	for i, v := range b.buf {
		b.buf[i] = b.fx.Process(v)
	}
	return len(b.buf) > 0
}

func (b *buffered) Channels() int   { return b.src.Channels() }
func (b *buffered) SampleRate() int { return b.src.SampleRate() }

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
