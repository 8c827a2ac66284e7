package scale

import "testing"

func TestToneGoldenTables(t *testing.T) {
	golden := map[Scale][Rows]int{
		CMajor:     {-9, -7, -5, -4, -2, 0, 2, 3, 5, 7, 8, 10, 12, 14, 15, 17},
		CMinor:     {-9, -7, -6, -4, -2, -1, 1, 3, 5, 6, 8, 10, 11, 13, 15, 17},
		Chromatic:  {-9, -8, -7, -6, -5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5, 6},
		Pentatonic: {-9, -7, -5, -2, 0, 3, 5, 7, 10, 12, 15, 17, 19, 22, 24, 27},
	}
	for _, s := range All {
		t.Run(s.String(), func(t *testing.T) {
			want := golden[s]
			for row := 0; row < Rows; row++ {
				if got := s.Tone(row); got != want[row] {
					t.Errorf("Tone(%d) = %d, want %d", row, got, want[row])
				}
			}
		})
	}
}

func TestToneOutOfRangeRowIsZero(t *testing.T) {
	for _, s := range All {
		for _, row := range []int{16, 17, 100, -1} {
			if got := s.Tone(row); got != 0 {
				t.Errorf("%v.Tone(%d) = %d, want 0", s, row, got)
			}
		}
	}
}

func TestTablesRiseMonotonically(t *testing.T) {
	for _, s := range All {
		for row := 1; row < Rows; row++ {
			if s.Tone(row) <= s.Tone(row-1) {
				t.Errorf("%v: row %d (%d) not above row %d (%d)", s, row, s.Tone(row), row-1, s.Tone(row-1))
			}
		}
	}
}

func TestParseAcceptsNamesAndLabels(t *testing.T) {
	cases := map[string]Scale{
		"CMajor":     CMajor,
		"c major":    CMajor,
		"C Minor":    CMinor,
		"chromatic":  Chromatic,
		"PENTATONIC": Pentatonic,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := Parse("lydian"); err == nil {
		t.Error("expected error for unknown scale")
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, s := range All {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Scale
		if err := got.UnmarshalText(b); err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Errorf("round trip %v -> %v", s, got)
		}
	}
	if _, err := Scale(9).MarshalText(); err == nil {
		t.Error("expected error for unknown scale")
	}
}
