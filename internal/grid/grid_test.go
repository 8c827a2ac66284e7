package grid

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cbegin/tenori-go/internal/scale"
)

func TestActiveTonesTopToBottom(t *testing.T) {
	g := New(scale.CMajor)
	g.Toggle(0, 3)  // top row, highest pitch
	g.Toggle(15, 3) // bottom row
	g.Toggle(8, 3)
	g.Toggle(8, 4)

	got := g.ActiveTones(3)
	want := []int{scale.CMajor.Tone(15), scale.CMajor.Tone(7), scale.CMajor.Tone(0)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ActiveTones(3) mismatch (-want +got):\n%s", diff)
	}
	if want[0] != 17 || want[2] != -9 {
		t.Fatalf("unexpected table ends %v", want)
	}
	if got := g.ActiveTones(5); len(got) != 0 {
		t.Fatalf("empty column gave %v", got)
	}
}

func TestActiveTonesFollowScale(t *testing.T) {
	g := New(scale.Pentatonic)
	g.Set(0, 0, true)
	if got := g.ActiveTones(0); len(got) != 1 || got[0] != 27 {
		t.Fatalf("got %v, want [27]", got)
	}
	g.Scale = scale.Chromatic
	if got := g.ActiveTones(0); len(got) != 1 || got[0] != 6 {
		t.Fatalf("got %v, want [6]", got)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	g := New(scale.CMajor)
	g.Toggle(4, 9)
	if !g.On(4, 9) {
		t.Fatal("cell should be on")
	}
	g.Toggle(4, 9)
	if g.On(4, 9) || g.Count() != 0 {
		t.Fatal("cell should be off again")
	}
}

func TestOutOfRangeIsIgnored(t *testing.T) {
	g := New(scale.CMajor)
	g.Toggle(-1, 0)
	g.Toggle(16, 0)
	g.Set(0, 16, true)
	g.Set(0, -3, true)
	if g.Count() != 0 {
		t.Fatalf("out-of-range writes landed: %d cells on", g.Count())
	}
	if g.On(99, 99) {
		t.Fatal("On outside matrix should be false")
	}
	if g.ActiveTones(16) != nil || g.ActiveTones(-1) != nil {
		t.Fatal("out-of-range beat should yield nil")
	}
}

func TestClear(t *testing.T) {
	g := New(scale.CMinor)
	for i := 0; i < Size; i++ {
		g.Set(i, i, true)
	}
	g.Clear()
	if g.Count() != 0 {
		t.Fatalf("%d cells still on", g.Count())
	}
	if g.Scale != scale.CMinor {
		t.Fatal("Clear should keep the scale")
	}
}

func TestGridIsValueType(t *testing.T) {
	a := New(scale.CMajor)
	a.Set(1, 1, true)
	b := a
	b.Toggle(1, 1)
	if !a.On(1, 1) {
		t.Fatal("copy shares storage with its source")
	}
}

func TestEncodeDecode(t *testing.T) {
	g := New(scale.CMajor)
	g.Set(0, 0, true)
	g.Set(0, 15, true)
	g.Set(15, 0, true)
	g.Set(7, 9, true)

	s := g.Encode()
	if len(s) != Cells {
		t.Fatalf("encoded length %d", len(s))
	}
	if s[0] != '1' || s[15] != '1' || s[15*Size] != '1' || s[7*Size+9] != '1' || s[1] != '0' {
		t.Fatalf("cells not row-major: %s", s[:32])
	}

	back, err := Decode(s)
	if err != nil {
		t.Fatal(err)
	}
	back.Scale = g.Scale
	if back != g {
		t.Fatal("decode did not reproduce the grid")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	if _, err := Decode(strings.Repeat("0", Cells-1)); !errors.Is(err, ErrBadLength) {
		t.Fatalf("short input: %v", err)
	}
	if _, err := Decode(strings.Repeat("0", Cells) + "1"); !errors.Is(err, ErrBadLength) {
		t.Fatalf("long input: %v", err)
	}
	bad := []byte(strings.Repeat("0", Cells))
	bad[40] = 'x'
	if _, err := Decode(string(bad)); !errors.Is(err, ErrBadCell) {
		t.Fatalf("bad cell: %v", err)
	}
}
