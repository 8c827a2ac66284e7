// Package envelope shapes the amplitude of a signal over time with an
// attack/decay/hold/release contour around a sustain level.
package envelope

import "github.com/cbegin/tenori-go/internal/signal"

// Envelope durations are in seconds; Sustain is a level in [0, 1] held for
// Hold seconds between decay and release. A zero duration skips its phase.
type Envelope struct {
	Attack  float32
	Decay   float32
	Sustain float32
	Hold    float32
	Release float32
}

func Default() Envelope {
	return Envelope{Sustain: 1, Hold: 0.3}
}

// Duration is the total length of the contour in seconds.
func (e Envelope) Duration() float32 {
	return e.Attack + e.Decay + e.Hold + e.Release
}

// Level returns the amplitude at tick frames into the note, or false once the
// release phase has finished. Phases are tested in order and each finished
// phase's length is subtracted before the next test, so a zero-length phase
// never reaches its division.
func (e Envelope) Level(tick float32, rate float32) (float32, bool) {
	limit := float32(rate * e.Attack)
	if tick < limit {
		return float32(tick/rate) * (1 / e.Attack), true
	}
	tick = float32(tick - limit)

	limit = float32(rate * e.Decay)
	if tick < limit {
		return 1 - float32(tick/rate)*float32((1-e.Sustain)/e.Decay), true
	}
	tick = float32(tick - limit)

	limit = float32(rate * e.Hold)
	if tick < limit {
		return e.Sustain, true
	}
	tick = float32(tick - limit)

	limit = float32(rate * e.Release)
	if tick < limit {
		return e.Sustain - float32(tick/rate)*float32(e.Sustain/e.Release), true
	}
	return 0, false
}

// Modulate wraps src so every sample is scaled by the envelope. The result
// ends when the release completes or when src ends, whichever is first.
func (e Envelope) Modulate(src signal.Signal) signal.Signal {
	channels := src.Channels()
	if channels < 1 {
		channels = 1
	}
	return &shaped{
		env:      e,
		src:      src,
		channels: float32(channels),
		rate:     float32(src.SampleRate()),
	}
}

type shaped struct {
	env      Envelope
	src      signal.Signal
	elapsed  uint64
	channels float32
	rate     float32
	done     bool
}

func (s *shaped) Next() (float32, bool) {
	if s.done {
		return 0, false
	}
	in, ok := s.src.Next()
	if !ok {
		s.done = true
		return 0, false
	}
	tick := float32(s.elapsed) / s.channels
	s.elapsed++
	level, ok := s.env.Level(tick, s.rate)
	if !ok {
		s.done = true
		return 0, false
	}
	return in * level, true
}

func (s *shaped) Channels() int   { return s.src.Channels() }
func (s *shaped) SampleRate() int { return s.src.SampleRate() }
