package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cbegin/tenori-go"
	"github.com/cbegin/tenori-go/internal/song"
	"github.com/cbegin/tenori-go/internal/timbre"
)

var infoSeed uint64

var infoCmd = &cobra.Command{
	Use:   "info <song>",
	Short: "Show a song's tempo and tracks",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().Uint64Var(&infoSeed, "seed", 1, "seed for track colors")
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := song.Load(args[0])
	if err != nil {
		return err
	}
	m := tenori.New(tenori.WithRand(tenori.NewRand(infoSeed)), tenori.WithLogger(logger))
	if err := m.LoadSong(s); err != nil {
		return err
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, title.Render(fmt.Sprintf("%s  %d bpm  %d tracks", args[0], m.Tempo(), len(s.Tracks))))
	for _, t := range m.Tracks() {
		hex := fmt.Sprintf("#%02x%02x%02x", t.Color.R, t.Color.G, t.Color.B)
		name := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hex)).Width(16).Render(t.Name)
		fmt.Fprintf(w, "%s %-10s vol %.2f  %3d steps  %s\n",
			name, t.Grid.Scale.Label(), t.Volume, t.Grid.Count(), dim.Render(describe(t.Timbre)))
	}
	return nil
}

// describe lists the non-zero oscillator weights and configured effects.
func describe(tb timbre.Timbre) string {
	var parts []string
	for _, w := range []struct {
		name string
		v    float32
	}{
		{"sine", tb.Sine},
		{"triangle", tb.Triangle},
		{"square", tb.Square},
		{"saw", tb.Sawtooth},
		{"noise", tb.Noise},
	} {
		if w.v > 0 {
			parts = append(parts, fmt.Sprintf("%s %.2f", w.name, w.v))
		}
	}
	if tb.Distortion.Configured() {
		parts = append(parts, fmt.Sprintf("dist x%.1f", tb.Distortion.Gain))
	}
	if tb.Reverb.Configured() {
		parts = append(parts, fmt.Sprintf("verb %.0f%% %.1fs", tb.Reverb.Mix*100, tb.Reverb.Duration))
	}
	env := tb.Envelope
	parts = append(parts, fmt.Sprintf("env %.2f/%.2f/%.2f/%.2f/%.2f", env.Attack, env.Decay, env.Sustain, env.Hold, env.Release))
	return strings.Join(parts, ", ")
}
