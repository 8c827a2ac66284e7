package effects

import (
	"math"
	"sync/atomic"
)

// Bands is the number of master EQ bands.
const Bands = 5

// EQ5Band is the master equalizer. Bands are split at 200Hz, 800Hz, 2.5kHz
// and 8kHz. Gains are stored as float32 bit patterns so the host can change
// them while the audio thread reads without locking.
type EQ5Band struct {
	gains  [Bands]atomic.Uint32
	alphas [Bands - 1]float32 // crossover filter coefficients
	lpL    [Bands - 1]float32
	lpR    [Bands - 1]float32
}

var crossovers = [Bands - 1]float64{200, 800, 2500, 8000}

// NewEQ5Band creates an EQ with all gains at unity.
func NewEQ5Band(sampleRate int) *EQ5Band {
	eq := &EQ5Band{}
	dt := 1.0 / float64(sampleRate)
	for i, freq := range crossovers {
		rc := 1.0 / (2.0 * math.Pi * freq)
		eq.alphas[i] = float32(dt / (rc + dt))
	}
	for i := range eq.gains {
		eq.gains[i].Store(math.Float32bits(1.0))
	}
	return eq
}

// SetGain sets the gain for band (0-4). 1.0 = unity. Out-of-range bands are ignored.
func (eq *EQ5Band) SetGain(band int, gain float32) {
	if band >= 0 && band < Bands {
		eq.gains[band].Store(math.Float32bits(gain))
	}
}

func (eq *EQ5Band) SetGains(gains [Bands]float32) {
	for i, g := range gains {
		eq.SetGain(i, g)
	}
}

// Gain returns the gain for band, or 1 for an unknown band.
func (eq *EQ5Band) Gain(band int) float32 {
	if band >= 0 && band < Bands {
		return math.Float32frombits(eq.gains[band].Load())
	}
	return 1.0
}

// Flat reports whether every band is at unity.
func (eq *EQ5Band) Flat() bool {
	for i := range eq.gains {
		if eq.Gain(i) != 1 {
			return false
		}
	}
	return true
}

// Process splits the frame into bands and sums them back with their gains.
// A flat EQ passes frames through untouched.
func (eq *EQ5Band) Process(l, r float32) (float32, float32) {
	if eq.Flat() {
		return l, r
	}
	var bandL, bandR [Bands]float32
	remL, remR := l, r
	for i := range eq.alphas {
		eq.lpL[i] += eq.alphas[i] * (remL - eq.lpL[i])
		eq.lpR[i] += eq.alphas[i] * (remR - eq.lpR[i])
		bandL[i] = eq.lpL[i]
		bandR[i] = eq.lpR[i]
		remL -= bandL[i]
		remR -= bandR[i]
	}
	bandL[Bands-1] = remL
	bandR[Bands-1] = remR

	var outL, outR float32
	for i := range bandL {
		g := eq.Gain(i)
		outL += bandL[i] * g
		outR += bandR[i] * g
	}
	return outL, outR
}

func (eq *EQ5Band) Reset() {
	clear(eq.lpL[:])
	clear(eq.lpR[:])
}
