package timbre

import (
	"fmt"
	"strings"

	"github.com/cbegin/tenori-go/internal/envelope"
)

// Preset names, in menu order.
var Presets = []string{"square", "sine", "triangle", "sawtooth", "noise"}

// Preset returns a single-oscillator timbre with the default envelope.
func Preset(name string) (Timbre, error) {
	t := Timbre{Envelope: envelope.Default()}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "square", "":
		t.Square = 1
	case "sine":
		t.Sine = 1
	case "triangle":
		t.Triangle = 1
	case "sawtooth", "saw":
		t.Sawtooth = 1
	case "noise":
		t.Noise = 1
	default:
		return Timbre{}, fmt.Errorf("unknown preset %q", name)
	}
	return t, nil
}
