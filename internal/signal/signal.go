package signal

// Signal is a pull-based stream of amplitude samples. Multi-channel signals
// interleave one sample per channel for every frame. Next returns false once
// the stream has ended; after that it keeps returning false.
type Signal interface {
	Next() (float32, bool)
	Channels() int
	SampleRate() int
}

type amplified struct {
	src  Signal
	gain float32
}

// Amplify scales every sample of src by gain.
func Amplify(src Signal, gain float32) Signal {
	return &amplified{src: src, gain: gain}
}

func (a *amplified) Next() (float32, bool) {
	v, ok := a.src.Next()
	if !ok {
		return 0, false
	}
	return v * a.gain, true
}

func (a *amplified) Channels() int   { return a.src.Channels() }
func (a *amplified) SampleRate() int { return a.src.SampleRate() }

// Mixer sums any number of signals sharing one channel layout and rate.
// Inputs that end are dropped; the mix ends when no inputs remain.
type Mixer struct {
	channels   int
	sampleRate int
	srcs       []Signal
}

func NewMixer(channels, sampleRate int) *Mixer {
	if channels < 1 {
		channels = 1
	}
	return &Mixer{channels: channels, sampleRate: sampleRate}
}

// Mix is shorthand for a Mixer pre-loaded with srcs.
func Mix(channels, sampleRate int, srcs ...Signal) *Mixer {
	m := NewMixer(channels, sampleRate)
	for _, s := range srcs {
		m.Add(s)
	}
	return m
}

func (m *Mixer) Add(s Signal) {
	if s != nil {
		m.srcs = append(m.srcs, s)
	}
}

// Len reports how many inputs are still live.
func (m *Mixer) Len() int { return len(m.srcs) }

func (m *Mixer) Next() (float32, bool) {
	if len(m.srcs) == 0 {
		return 0, false
	}
	var sum float32
	live := m.srcs[:0]
	for _, s := range m.srcs {
		v, ok := s.Next()
		if !ok {
			continue
		}
		sum += v
		live = append(live, s)
	}
	for i := len(live); i < len(m.srcs); i++ {
		m.srcs[i] = nil
	}
	m.srcs = live
	if len(live) == 0 {
		return 0, false
	}
	return sum, true
}

func (m *Mixer) Channels() int   { return m.channels }
func (m *Mixer) SampleRate() int { return m.sampleRate }

type taken struct {
	src  Signal
	left int
}

// Take limits src to at most n samples.
func Take(src Signal, n int) Signal {
	return &taken{src: src, left: n}
}

func (t *taken) Next() (float32, bool) {
	if t.left <= 0 {
		return 0, false
	}
	t.left--
	return t.src.Next()
}

func (t *taken) Channels() int   { return t.src.Channels() }
func (t *taken) SampleRate() int { return t.src.SampleRate() }

type constant struct {
	value      float32
	channels   int
	sampleRate int
}

// Constant is an endless signal repeating value.
func Constant(value float32, sampleRate, channels int) Signal {
	if channels < 1 {
		channels = 1
	}
	return &constant{value: value, channels: channels, sampleRate: sampleRate}
}

func (c *constant) Next() (float32, bool) { return c.value, true }
func (c *constant) Channels() int         { return c.channels }
func (c *constant) SampleRate() int       { return c.sampleRate }

type slice struct {
	samples    []float32
	pos        int
	channels   int
	sampleRate int
}

// FromSlice plays back interleaved samples once.
func FromSlice(samples []float32, sampleRate, channels int) Signal {
	if channels < 1 {
		channels = 1
	}
	return &slice{samples: samples, channels: channels, sampleRate: sampleRate}
}

func (s *slice) Next() (float32, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	v := s.samples[s.pos]
	s.pos++
	return v, true
}

func (s *slice) Channels() int   { return s.channels }
func (s *slice) SampleRate() int { return s.sampleRate }

// Collect drains up to max samples from src. A negative max drains until the
// stream ends, which never happens for endless signals.
func Collect(src Signal, max int) []float32 {
	var out []float32
	for max < 0 || len(out) < max {
		v, ok := src.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}
