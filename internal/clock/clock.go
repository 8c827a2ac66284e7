// Package clock turns wall-clock time and tempo into a position inside the
// step loop.
package clock

import (
	"math"
	"time"
)

// LoopLength is the number of beats (grid columns) in one loop.
const LoopLength = 16

const DefaultTempo = 90

// Clock tracks the loop position in beats. It is driven by the host's frame
// loop and is not safe for concurrent use.
type Clock struct {
	tempo   int
	pos     float32 // beats, [0, LoopLength)
	playing bool
	last    time.Time
	started bool
}

// New returns a playing clock at position 0.
func New(tempo int) *Clock {
	return &Clock{tempo: tempo, playing: true}
}

// Tick advances the position by the time elapsed since the previous call and
// reports whether a new beat was entered. The first call, and the first call
// after a resume, only record now.
func (c *Clock) Tick(now time.Time) bool {
	old := c.Beat()
	if c.started && c.playing {
		dt := float32(now.Sub(c.last).Seconds())
		if dt > 0 {
			bps := float32(c.tempo) / 60.0
			c.pos += dt * bps
			for c.pos >= LoopLength {
				c.pos -= LoopLength
			}
		}
	}
	c.last = now
	c.started = true
	return c.Beat() != old
}

// Beat is the index of the current grid column.
func (c *Clock) Beat() int {
	return int(math.Floor(float64(c.pos)))
}

// Ratio is how far through the loop the position is, in [0, 1).
func (c *Clock) Ratio() float32 {
	return c.pos / LoopLength
}

func (c *Clock) Position() float32 { return c.pos }

// Seek moves to pos beats, wrapped into the loop. Negative values clamp to 0.
func (c *Clock) Seek(pos float32) {
	if pos < 0 || math.IsNaN(float64(pos)) {
		pos = 0
	}
	for pos >= LoopLength {
		pos -= LoopLength
	}
	c.pos = pos
}

// Reset returns to position 0 and forgets the reference time, so the next
// Tick starts a fresh interval.
func (c *Clock) Reset() {
	c.pos = 0
	c.started = false
}

func (c *Clock) Tempo() int { return c.tempo }

// SetTempo changes the beats per minute used from the next Tick on; beats
// already counted are not rescaled.
func (c *Clock) SetTempo(bpm int) {
	if bpm < 0 {
		bpm = 0
	}
	c.tempo = bpm
}

func (c *Clock) Playing() bool { return c.playing }

func (c *Clock) Pause() { c.SetPlaying(false) }

// Resume restarts the clock. Time spent paused is never counted.
func (c *Clock) Resume() { c.SetPlaying(true) }

func (c *Clock) SetPlaying(playing bool) {
	if playing && !c.playing {
		c.started = false
	}
	c.playing = playing
}
