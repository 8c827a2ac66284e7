package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cbegin/tenori-go"
	"github.com/cbegin/tenori-go/internal/song"
)

var (
	renderOutput  string
	renderSeconds float64
	renderTempo   int
)

var renderCmd = &cobra.Command{
	Use:   "render <song>",
	Short: "Render a song to a 32-bit float WAV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output WAV path (default: song name with .wav)")
	renderCmd.Flags().Float64Var(&renderSeconds, "seconds", 0, "length in seconds (default: two loops)")
	renderCmd.Flags().IntVar(&renderTempo, "tempo", 0, "override the song tempo (BPM)")
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := song.Load(args[0])
	if err != nil {
		return err
	}
	if renderTempo > 0 {
		s.Tempo = uint32(renderTempo)
	}
	eq, err := eqBands()
	if err != nil {
		return err
	}
	seconds := renderSeconds
	if seconds <= 0 {
		seconds = 2 * tenori.LoopLength * 60 / float64(s.Tempo)
	}
	out := renderOutput
	if out == "" {
		out = strings.TrimSuffix(args[0], ext(args[0])) + ".wav"
	}

	samples, err := tenori.Render(s, tenori.RenderConfig{
		SampleRate: sampleRate,
		Seconds:    seconds,
		MasterGain: volume,
		EQ:         eq,
	})
	if err != nil {
		return err
	}
	if err := writeWAV(out, samples); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	logger.Info("rendered", "song", args[0], "output", out, "seconds", seconds, "sample_rate", sampleRate)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%.1fs)\n", out, seconds)
	return nil
}

func writeWAV(path string, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := tenori.WriteWAV(w, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ext(path string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexAny(path, `/\`) {
		return path[i:]
	}
	return ""
}
