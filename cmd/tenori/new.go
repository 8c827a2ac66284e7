package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cbegin/tenori-go"
	"github.com/cbegin/tenori-go/internal/envelope"
	"github.com/cbegin/tenori-go/internal/scale"
	"github.com/cbegin/tenori-go/internal/song"
	"github.com/cbegin/tenori-go/internal/timbre"
)

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Write a demo song (.tenori for YAML, .tenorib for MessagePack)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := song.Save(args[0], demoSong()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
		return nil
	},
}

// demoSong is a kick, hat and pentatonic lead loop.
func demoSong() *song.Song {
	m := tenori.New(tenori.WithTempo(tenori.DefaultTempo))

	kick := timbre.Timbre{
		Sine:       1,
		Distortion: timbre.Distortion{Gain: 2, Threshold: 0.8},
		Envelope:   envelope.Envelope{Sustain: 1, Hold: 0.05, Release: 0.15},
	}
	k := m.AddTrack("kick", kick)
	m.Edit(k.ID, func(t *tenori.Track) {
		for beat := 0; beat < tenori.LoopLength; beat += 4 {
			t.Grid.Set(15, beat, true)
		}
	})

	hat := timbre.Timbre{Noise: 0.6, Envelope: envelope.Envelope{Sustain: 1, Release: 0.08}}
	h := m.AddTrack("hats", hat)
	m.Edit(h.ID, func(t *tenori.Track) {
		t.Volume = 0.6
		for beat := 2; beat < tenori.LoopLength; beat += 4 {
			t.Grid.Set(0, beat, true)
		}
	})

	lead := timbre.Timbre{
		Square:   0.4,
		Triangle: 0.6,
		Reverb:   timbre.Reverb{Mix: 0.25, Duration: 0.6},
		Envelope: envelope.Envelope{Attack: 0.01, Decay: 0.1, Sustain: 0.6, Hold: 0.1, Release: 0.2},
	}
	l := m.AddTrack("lead", lead)
	m.Edit(l.ID, func(t *tenori.Track) {
		t.Volume = 0.5
		t.Grid.Scale = scale.Pentatonic
		for i, row := range []int{6, 4, 5, 3, 6, 2, 4, 1} {
			t.Grid.Set(row, i*2+1, true)
		}
	})
	return m.Song()
}
