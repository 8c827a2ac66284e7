package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cbegin/tenori-go/internal/effects"
)

var (
	logLevel   string
	sampleRate int
	volume     float32
	eqGains    []float32

	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "tenori",
	Short: "Step-sequencer drum machine",
	Long: `tenori - a 16-step, 16-row sequencer with synthesized voices.

Songs are YAML (.tenori, .yaml) or MessagePack (.tenorib).

Examples:
  tenori new beat.tenori
  tenori play beat.tenori --tempo 120
  tenori render beat.tenori -o beat.wav --seconds 30`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("invalid --log-level %q", logLevel)
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().IntVar(&sampleRate, "sample-rate", 48000, "output sample rate")
	rootCmd.PersistentFlags().Float32Var(&volume, "volume", 1, "master volume scalar")
	rootCmd.PersistentFlags().Float32SliceVar(&eqGains, "eq", nil, "master EQ gains for the five bands, e.g. 1.2,1,1,0.9,0.8")

	rootCmd.AddCommand(playCmd, renderCmd, infoCmd, newCmd)
}

// eqBands returns the --eq gains, or flat when unset.
func eqBands() ([effects.Bands]float32, error) {
	bands := [effects.Bands]float32{1, 1, 1, 1, 1}
	if len(eqGains) == 0 {
		return bands, nil
	}
	if len(eqGains) != effects.Bands {
		return bands, fmt.Errorf("--eq needs %d gains, got %d", effects.Bands, len(eqGains))
	}
	copy(bands[:], eqGains)
	return bands, nil
}
