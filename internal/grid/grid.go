// Package grid holds a track's step pattern: a square on/off matrix where
// columns are beats and rows are pitches, plus the scale that names them.
package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cbegin/tenori-go/internal/clock"
	"github.com/cbegin/tenori-go/internal/scale"
)

// Size is the side of the matrix; rows and beats share the loop length.
const Size = clock.LoopLength

// Cells is the total number of steps in a grid.
const Cells = Size * Size

var (
	ErrBadLength = errors.New("grid: wrong number of cells")
	ErrBadCell   = errors.New("grid: cell must be '0' or '1'")
)

// Grid is a value type. Row 0 is the top row (highest pitch) and cells are
// stored row-major: index = row*Size + beat.
type Grid struct {
	Scale scale.Scale
	cells [Cells]bool
}

func New(s scale.Scale) Grid {
	return Grid{Scale: s}
}

func inRange(row, beat int) bool {
	return row >= 0 && row < Size && beat >= 0 && beat < Size
}

// Toggle flips one cell. Cells outside the matrix are ignored.
func (g *Grid) Toggle(row, beat int) {
	if !inRange(row, beat) {
		return
	}
	i := row*Size + beat
	g.cells[i] = !g.cells[i]
}

func (g *Grid) Set(row, beat int, on bool) {
	if !inRange(row, beat) {
		return
	}
	g.cells[row*Size+beat] = on
}

func (g *Grid) On(row, beat int) bool {
	return inRange(row, beat) && g.cells[row*Size+beat]
}

func (g *Grid) Clear() {
	g.cells = [Cells]bool{}
}

// Count reports how many cells are on.
func (g *Grid) Count() int {
	n := 0
	for _, on := range g.cells {
		if on {
			n++
		}
	}
	return n
}

// ActiveTones returns the semitone offset of every lit row in the beat
// column, scanning top to bottom. An out-of-range beat yields nil.
func (g *Grid) ActiveTones(beat int) []int {
	if beat < 0 || beat >= Size {
		return nil
	}
	var tones []int
	for row := 0; row < Size; row++ {
		if g.cells[row*Size+beat] {
			tones = append(tones, g.Scale.Tone(Size-1-row))
		}
	}
	return tones
}

// Encode renders the cells as a row-major string of '0' and '1'.
func (g *Grid) Encode() string {
	var b strings.Builder
	b.Grow(Cells)
	for _, on := range g.cells {
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Decode parses the Encode form. The scale is left at its zero value.
func Decode(notes string) (Grid, error) {
	var g Grid
	if len(notes) != Cells {
		return g, fmt.Errorf("%w: got %d, want %d", ErrBadLength, len(notes), Cells)
	}
	for i := 0; i < Cells; i++ {
		switch notes[i] {
		case '1':
			g.cells[i] = true
		case '0':
		default:
			return Grid{}, fmt.Errorf("%w: %q at %d", ErrBadCell, notes[i], i)
		}
	}
	return g, nil
}
