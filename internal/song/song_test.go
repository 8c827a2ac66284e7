package song

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cbegin/tenori-go/internal/envelope"
	"github.com/cbegin/tenori-go/internal/grid"
	"github.com/cbegin/tenori-go/internal/scale"
	"github.com/cbegin/tenori-go/internal/timbre"
)

func demoTrack() (grid.Grid, timbre.Timbre) {
	g := grid.New(scale.Pentatonic)
	g.Set(0, 0, true)
	g.Set(3, 4, true)
	g.Set(15, 15, true)
	tb := timbre.Timbre{
		Sine:       0.25,
		Noise:      0.5,
		Distortion: timbre.Distortion{Gain: 2, Threshold: 0.8},
		Envelope:   envelope.Envelope{Attack: 0.01, Decay: 0.1, Sustain: 0.6, Hold: 0.2, Release: 0.3},
	}
	return g, tb
}

func demoSong() *Song {
	g, tb := demoTrack()
	plain := grid.New(scale.CMajor)
	plain.Set(8, 2, true)
	return &Song{
		Tempo: 120,
		Tracks: []Track{
			NewTrack("lead", 1.5, g, tb),
			NewTrack("bass", 0.75, plain, timbre.Default()),
		},
	}
}

func TestTrackRoundTripsThroughEveryFormat(t *testing.T) {
	g, tb := demoTrack()
	for _, f := range []Format{YAML, MsgPack} {
		t.Run(f.String(), func(t *testing.T) {
			in := &Song{Tempo: 90, Tracks: []Track{NewTrack("lead", 1.25, g, tb)}}
			data, err := Encode(in, f)
			if err != nil {
				t.Fatal(err)
			}
			out, err := Decode(data, f)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(in, out); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}

			tr := out.Tracks[0]
			gotGrid, err := tr.Grid()
			if err != nil {
				t.Fatal(err)
			}
			if gotGrid != g {
				t.Fatal("step matrix or scale changed")
			}
			if tr.Volume != 1.25 {
				t.Fatalf("volume = %v", tr.Volume)
			}
			if got := tr.Timbre.Live(); got != tb {
				t.Fatalf("timbre = %+v, want %+v", got, tb)
			}
		})
	}
}

func TestYAMLUsesReadableFields(t *testing.T) {
	data, err := Encode(demoSong(), YAML)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"tempo: 120", "scale: Pentatonic", "scale: CMajor", "sustain: 0.6", "distortion:"} {
		if !strings.Contains(text, want) {
			t.Errorf("yaml missing %q:\n%s", want, text)
		}
	}
	// Effects left at zero are omitted.
	if strings.Count(text, "distortion:") != 1 || strings.Contains(text, "reverb:") {
		t.Errorf("unexpected effect blocks:\n%s", text)
	}
}

func TestDecodeRejectsUnknownYAMLKeys(t *testing.T) {
	doc := "tempo: 90\ntracks: []\nswing: 0.2\n"
	if _, err := Decode([]byte(doc), YAML); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(s *Song){
		"zero tempo":     func(s *Song) { s.Tempo = 0 },
		"short notes":    func(s *Song) { s.Tracks[0].Notes = s.Tracks[0].Notes[1:] },
		"bad cell":       func(s *Song) { s.Tracks[0].Notes = "2" + s.Tracks[0].Notes[1:] },
		"unknown scale":  func(s *Song) { s.Tracks[1].Scale = "Lydian" },
		"loud volume":    func(s *Song) { s.Tracks[0].Volume = 2.5 },
		"negative gain":  func(s *Song) { s.Tracks[1].Timbre.Square = -1 },
		"nan sustain":    func(s *Song) { s.Tracks[0].Timbre.Envelope.Sustain = float32(math.NaN()) },
		"reverb nothing": func(s *Song) { s.Tracks[0].Timbre.Reverb = &Reverb{Mix: 0.5, Duration: -1} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := demoSong()
			mutate(s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSong) {
				t.Fatalf("Validate() = %v, want ErrInvalidSong", err)
			}
		})
	}
	if err := demoSong().Validate(); err != nil {
		t.Fatalf("demo song invalid: %v", err)
	}
}

func TestDecodeReportsBadLengthThroughWrapping(t *testing.T) {
	doc := `tempo: 90
tracks:
  - name: short
    volume: 1
    scale: CMajor
    notes: "0101"
    timbre: {square: 1, envelope: {sustain: 1, hold: 0.3}}
`
	_, err := Decode([]byte(doc), YAML)
	if !errors.Is(err, ErrInvalidSong) || !errors.Is(err, grid.ErrBadLength) {
		t.Fatalf("err = %v", err)
	}
}

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"beat.tenori":  YAML,
		"beat.YAML":    YAML,
		"x/beat.yml":   YAML,
		"beat.tenorib": MsgPack,
		"beat.msgpack": MsgPack,
	}
	for path, want := range cases {
		got, err := FormatFor(path)
		if err != nil || got != want {
			t.Errorf("FormatFor(%q) = %v, %v; want %v", path, got, err, want)
		}
	}
	if _, err := FormatFor("beat.toml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("toml: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"song.tenori", "song.tenorib"} {
		path := filepath.Join(dir, name)
		want := demoSong()
		if err := Save(path, want); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("left %d files behind", len(entries))
	}
}

func TestSaveInvalidKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.tenori")
	if err := Save(path, demoSong()); err != nil {
		t.Fatal(err)
	}
	bad := demoSong()
	bad.Tempo = 0
	if err := Save(path, bad); !errors.Is(err, ErrInvalidSong) {
		t.Fatalf("Save = %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("existing song damaged: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.tenori"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}
