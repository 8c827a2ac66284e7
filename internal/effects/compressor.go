package effects

import "math"

// Compressor is a stereo-linked bus compressor. Both channels share one
// envelope follower so the stereo image does not wander under gain reduction.
type Compressor struct {
	threshold float32
	ratio     float32
	attack    float32 // coefficient
	release   float32 // coefficient
	makeup    float32
	env       float32
}

// NewCompressor creates a compressor.
// thresholdDB: threshold in dB (e.g., -6)
// ratio: compression ratio (e.g., 4 for 4:1)
// attackMs, releaseMs: envelope follower times
// makeupDB: makeup gain in dB
func NewCompressor(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float32) *Compressor {
	if ratio < 1 {
		ratio = 1
	}
	return &Compressor{
		threshold: dbToGain(thresholdDB),
		ratio:     ratio,
		attack:    followerCoeff(attackMs, sampleRate),
		release:   followerCoeff(releaseMs, sampleRate),
		makeup:    dbToGain(makeupDB),
	}
}

// NewBusCompressor returns the settings used on the mixer output.
func NewBusCompressor(sampleRate int) *Compressor {
	return NewCompressor(sampleRate, -6, 4, 2, 120, 0)
}

func (c *Compressor) Process(l, r float32) (float32, float32) {
	peak := max(float32(math.Abs(float64(l))), float32(math.Abs(float64(r))))
	if peak > c.env {
		c.env += c.attack * (peak - c.env)
	} else {
		c.env += c.release * (peak - c.env)
	}
	g := c.gain(c.env) * c.makeup
	return l * g, r * g
}

func (c *Compressor) gain(env float32) float32 {
	if env <= c.threshold || c.threshold <= 0 {
		return 1.0
	}
	over := env / c.threshold
	return float32(math.Pow(float64(over), float64(1.0/c.ratio-1)))
}

func (c *Compressor) Reset() {
	c.env = 0
}

func dbToGain(db float32) float32 {
	return float32(math.Pow(10, float64(db)/20))
}

func followerCoeff(ms float32, sampleRate int) float32 {
	samples := float64(ms) * float64(sampleRate) / 1000.0
	if samples <= 0 {
		return 1
	}
	return float32(1.0 - math.Exp(-1.0/samples))
}
