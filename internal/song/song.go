// Package song is the persisted form of a machine: tempo plus tracks, with
// grids stored as '0'/'1' strings. It validates everything it reads so the
// engine never sees a malformed pattern.
package song

import (
	"errors"
	"fmt"
	"math"

	"github.com/cbegin/tenori-go/internal/envelope"
	"github.com/cbegin/tenori-go/internal/grid"
	"github.com/cbegin/tenori-go/internal/scale"
	"github.com/cbegin/tenori-go/internal/timbre"
)

var (
	ErrInvalidSong   = errors.New("invalid song")
	ErrUnknownFormat = errors.New("unknown song format")
)

// MaxVolume is the loudest accepted track volume.
const MaxVolume = 2

type Song struct {
	Tempo  uint32  `yaml:"tempo" msgpack:"tempo"`
	Tracks []Track `yaml:"tracks" msgpack:"tracks"`
}

type Track struct {
	Name   string  `yaml:"name" msgpack:"name"`
	Volume float32 `yaml:"volume" msgpack:"volume"`
	Scale  string  `yaml:"scale" msgpack:"scale"`
	Notes  string  `yaml:"notes" msgpack:"notes"`
	Timbre Timbre  `yaml:"timbre" msgpack:"timbre"`
}

type Timbre struct {
	Sine       float32     `yaml:"sine" msgpack:"sine"`
	Triangle   float32     `yaml:"triangle" msgpack:"triangle"`
	Square     float32     `yaml:"square" msgpack:"square"`
	Sawtooth   float32     `yaml:"sawtooth" msgpack:"sawtooth"`
	Noise      float32     `yaml:"noise" msgpack:"noise"`
	Envelope   Envelope    `yaml:"envelope" msgpack:"envelope"`
	Distortion *Distortion `yaml:"distortion,omitempty" msgpack:"distortion,omitempty"`
	Reverb     *Reverb     `yaml:"reverb,omitempty" msgpack:"reverb,omitempty"`
}

type Envelope struct {
	Attack  float32 `yaml:"attack" msgpack:"attack"`
	Decay   float32 `yaml:"decay" msgpack:"decay"`
	Sustain float32 `yaml:"sustain" msgpack:"sustain"`
	Hold    float32 `yaml:"hold" msgpack:"hold"`
	Release float32 `yaml:"release" msgpack:"release"`
}

type Distortion struct {
	Gain      float32 `yaml:"gain" msgpack:"gain"`
	Threshold float32 `yaml:"threshold" msgpack:"threshold"`
}

type Reverb struct {
	Mix      float32 `yaml:"mix" msgpack:"mix"`
	Duration float32 `yaml:"duration" msgpack:"duration"`
}

// NewTrack captures a live track's pattern and timbre.
func NewTrack(name string, volume float32, g grid.Grid, t timbre.Timbre) Track {
	return Track{
		Name:   name,
		Volume: volume,
		Scale:  g.Scale.String(),
		Notes:  g.Encode(),
		Timbre: FromTimbre(t),
	}
}

// Grid decodes the track's notes under its scale.
func (t Track) Grid() (grid.Grid, error) {
	sc, err := scale.Parse(t.Scale)
	if err != nil {
		return grid.Grid{}, err
	}
	g, err := grid.Decode(t.Notes)
	if err != nil {
		return grid.Grid{}, err
	}
	g.Scale = sc
	return g, nil
}

func FromTimbre(t timbre.Timbre) Timbre {
	out := Timbre{
		Sine:     t.Sine,
		Triangle: t.Triangle,
		Square:   t.Square,
		Sawtooth: t.Sawtooth,
		Noise:    t.Noise,
		Envelope: Envelope(t.Envelope),
	}
	if t.Distortion != (timbre.Distortion{}) {
		d := Distortion(t.Distortion)
		out.Distortion = &d
	}
	if t.Reverb != (timbre.Reverb{}) {
		r := Reverb(t.Reverb)
		out.Reverb = &r
	}
	return out
}

// Live converts back to the engine's timbre.
func (t Timbre) Live() timbre.Timbre {
	out := timbre.Timbre{
		Sine:     t.Sine,
		Triangle: t.Triangle,
		Square:   t.Square,
		Sawtooth: t.Sawtooth,
		Noise:    t.Noise,
		Envelope: envelope.Envelope(t.Envelope),
	}
	if t.Distortion != nil {
		out.Distortion = timbre.Distortion(*t.Distortion)
	}
	if t.Reverb != nil {
		out.Reverb = timbre.Reverb(*t.Reverb)
	}
	return out
}

// Validate reports the first problem that would stop the song from loading.
func (s *Song) Validate() error {
	if s.Tempo == 0 {
		return fmt.Errorf("%w: tempo must be positive", ErrInvalidSong)
	}
	for i, t := range s.Tracks {
		if err := t.validate(); err != nil {
			return fmt.Errorf("%w: track %d (%q): %w", ErrInvalidSong, i, t.Name, err)
		}
	}
	return nil
}

func (t Track) validate() error {
	if _, err := t.Grid(); err != nil {
		return err
	}
	if !finite(t.Volume) || t.Volume < 0 || t.Volume > MaxVolume {
		return fmt.Errorf("volume %v outside [0, %d]", t.Volume, MaxVolume)
	}
	tb := t.Timbre
	fields := []struct {
		name string
		v    float32
	}{
		{"sine", tb.Sine},
		{"triangle", tb.Triangle},
		{"square", tb.Square},
		{"sawtooth", tb.Sawtooth},
		{"noise", tb.Noise},
		{"attack", tb.Envelope.Attack},
		{"decay", tb.Envelope.Decay},
		{"sustain", tb.Envelope.Sustain},
		{"hold", tb.Envelope.Hold},
		{"release", tb.Envelope.Release},
	}
	for _, f := range fields {
		if !finite(f.v) || f.v < 0 {
			return fmt.Errorf("%s must be a non-negative number, got %v", f.name, f.v)
		}
	}
	if r := tb.Reverb; r != nil && (!finite(r.Mix) || !finite(r.Duration) || r.Duration < 0) {
		return fmt.Errorf("reverb mix %v duration %v", r.Mix, r.Duration)
	}
	if d := tb.Distortion; d != nil && !finite(d.Gain) {
		return fmt.Errorf("distortion gain %v", d.Gain)
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
