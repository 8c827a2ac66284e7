// Package scale maps grid rows to semitone offsets from A4.
package scale

import (
	"fmt"
	"strings"
)

type Scale int

const (
	CMajor Scale = iota
	CMinor
	Chromatic
	Pentatonic
)

// All lists every scale in menu order.
var All = []Scale{CMajor, CMinor, Chromatic, Pentatonic}

// Rows is the length of every tone table.
const Rows = 16

// Tables are indexed bottom row first.
var tables = [...][Rows]int{
	CMajor:     {-9, -7, -5, -4, -2, 0, 2, 3, 5, 7, 8, 10, 12, 14, 15, 17},
	CMinor:     {-9, -7, -6, -4, -2, -1, 1, 3, 5, 6, 8, 10, 11, 13, 15, 17},
	Chromatic:  {-9, -8, -7, -6, -5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5, 6},
	Pentatonic: {-9, -7, -5, -2, 0, 3, 5, 7, 10, 12, 15, 17, 19, 22, 24, 27},
}

// Tone returns the semitone offset for row, counted from the bottom of the
// grid. Rows past the table, and unknown scales, yield 0.
func (s Scale) Tone(row int) int {
	if s < 0 || int(s) >= len(tables) || row < 0 || row >= Rows {
		return 0
	}
	return tables[s][row]
}

func (s Scale) String() string {
	switch s {
	case CMajor:
		return "CMajor"
	case CMinor:
		return "CMinor"
	case Chromatic:
		return "Chromatic"
	case Pentatonic:
		return "Pentatonic"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

// Label is the human-readable menu name.
func (s Scale) Label() string {
	switch s {
	case CMajor:
		return "C Major"
	case CMinor:
		return "C Minor"
	default:
		return s.String()
	}
}

// Parse accepts either the String form or the Label form, case-insensitively.
func Parse(name string) (Scale, error) {
	n := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
	for _, s := range All {
		if strings.ToLower(s.String()) == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown scale %q", name)
}

func (s Scale) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(tables) {
		return nil, fmt.Errorf("unknown scale %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Scale) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
