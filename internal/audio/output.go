package audio

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownBackend = errors.New("unknown audio backend")

// Backends lists the accepted backend names; the first is the default.
var Backends = []string{"ebiten", "oto"}

// Output is an open audio device pulling from a SampleSource.
type Output interface {
	Play()
	Pause()
	Close() error
}

// Open starts the named backend at sampleRate. A failure here is fatal for
// the host: there is no retry.
func Open(backend string, sampleRate int, source SampleSource) (Output, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sample rate must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "ebiten":
		return newEbitenOutput(sampleRate, source)
	case "oto":
		return newOtoOutput(sampleRate, source)
	default:
		return nil, fmt.Errorf("%w %q (expected %s)", ErrUnknownBackend, backend, strings.Join(Backends, "|"))
	}
}
