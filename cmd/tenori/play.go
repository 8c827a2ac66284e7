package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cbegin/tenori-go"
	"github.com/cbegin/tenori-go/internal/audio"
	"github.com/cbegin/tenori-go/internal/song"
)

const (
	frameRate = 60
	minTempo  = 20
	maxTempo  = 180
	tempoStep = 5
)

var (
	backend     string
	playTempo   int
	playSeconds float64
)

var playCmd = &cobra.Command{
	Use:   "play <song>",
	Short: "Play a song on the audio device",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&backend, "backend", audio.Backends[0], "audio backend: "+strings.Join(audio.Backends, "|"))
	playCmd.Flags().IntVar(&playTempo, "tempo", 0, "override the song tempo (BPM)")
	playCmd.Flags().Float64Var(&playSeconds, "seconds", 0, "stop after this many seconds (0 = until q)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	s, err := song.Load(args[0])
	if err != nil {
		return err
	}
	eq, err := eqBands()
	if err != nil {
		return err
	}

	mixer := audio.NewMixer(sampleRate, audio.WithMasterGain(volume), audio.WithEQ(eq))
	out, err := audio.Open(backend, sampleRate, mixer)
	if err != nil {
		return fmt.Errorf("open audio: %w", err)
	}
	defer out.Close()

	m := tenori.New(tenori.WithSink(mixer), tenori.WithLogger(logger))
	if err := m.LoadSong(s); err != nil {
		return err
	}
	if playTempo > 0 {
		m.SetTempo(playTempo)
	}
	logger.Info("playing", "song", args[0], "tempo", m.Tempo(), "tracks", len(s.Tracks), "backend", backend)

	keys := make(chan byte, 8)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer term.Restore(fd, old)
		go readKeys(keys)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var deadline <-chan time.Time
	if playSeconds > 0 {
		timer := time.NewTimer(time.Duration(playSeconds * float64(time.Second)))
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	out.Play()
	m.Resume()
	m.Tick(time.Now())
	m.PlayBeat()
	events := m.Watch()
	status := newStatusLine(os.Stdout)
	status.draw(m)

	var dropped uint64
	for {
		select {
		case <-ctx.Done():
			status.done()
			return nil
		case <-deadline:
			status.done()
			return nil
		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if !handleKey(m, k) {
				status.done()
				return nil
			}
			status.draw(m)
		case <-events:
			status.draw(m)
		case now := <-ticker.C:
			m.Step(now)
			if d := mixer.Dropped(); d != dropped {
				logger.Warn("notes dropped", "total", d)
				dropped = d
			}
		}
	}
}

// handleKey applies one keypress and reports whether to keep playing.
func handleKey(m *tenori.Machine, k byte) bool {
	switch k {
	case ' ':
		m.TogglePlaying()
	case '+', '=':
		m.SetTempo(min(m.Tempo()+tempoStep, maxTempo))
	case '-', '_':
		m.SetTempo(max(m.Tempo()-tempoStep, minTempo))
	case 'q', 'Q', 3, 4: // ctrl-c, ctrl-d arrive as bytes in raw mode
		return false
	}
	return true
}

func readKeys(keys chan<- byte) {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			close(keys)
			return
		}
		if n == 1 {
			keys <- buf[0]
		}
	}
}

type statusLine struct {
	w      *os.File
	on     lipgloss.Style
	off    lipgloss.Style
	paused lipgloss.Style
}

func newStatusLine(w *os.File) *statusLine {
	return &statusLine{
		w:      w,
		on:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")),
		off:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
		paused: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb000")),
	}
}

func (s *statusLine) draw(m *tenori.Machine) {
	beat := m.Beat()
	var b strings.Builder
	for i := 0; i < tenori.LoopLength; i++ {
		if i == beat {
			b.WriteString(s.on.Render("●"))
		} else {
			b.WriteString(s.off.Render("·"))
		}
	}
	state := "playing"
	if !m.Playing() {
		state = s.paused.Render("paused")
	}
	fmt.Fprintf(s.w, "\r%s  %3d bpm  %s  ", b.String(), m.Tempo(), state)
}

func (s *statusLine) done() {
	fmt.Fprint(s.w, "\r\n")
}
