package effects

import "math"

// Distortion multiplies by a gain and hard-clips at +/- threshold.
// A threshold that is non-positive or infinite disables clipping.
type Distortion struct {
	gain      float32
	threshold float32
	clip      bool
}

func NewDistortion(gain, threshold float32) *Distortion {
	return &Distortion{
		gain:      gain,
		threshold: threshold,
		clip:      threshold > 0 && !math.IsInf(float64(threshold), 0),
	}
}

func (d *Distortion) Process(x float32) float32 {
	x *= d.gain
	if d.clip {
		x = clamp(x, -d.threshold, d.threshold)
	}
	return x
}

func (d *Distortion) Reset() {}
