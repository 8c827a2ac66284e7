// Package tenori is a step-sequencer drum machine. A Machine owns the loop
// clock and the tracks; the host calls Step once per frame and the Machine
// hands every note of each newly entered beat to its Sink.
package tenori

import (
	"errors"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/cbegin/tenori-go/internal/clock"
	"github.com/cbegin/tenori-go/internal/grid"
	"github.com/cbegin/tenori-go/internal/scale"
	"github.com/cbegin/tenori-go/internal/song"
	"github.com/cbegin/tenori-go/internal/timbre"
)

const (
	LoopLength   = clock.LoopLength
	DefaultTempo = clock.DefaultTempo
)

// Sink receives triggered notes. Play must not block; it reports false when
// the note was dropped.
type Sink interface {
	Play(note timbre.Note) bool
}

// Track is one instrument lane.
type Track struct {
	ID     uuid.UUID
	Name   string
	Volume float32
	Grid   grid.Grid
	Timbre timbre.Timbre
	Color  color.RGBA
}

type EventKind int

const (
	EventBeat EventKind = iota
	EventLoopWrapped
)

// Event is sent from Watch() for every beat the Machine schedules.
// EventLoopWrapped is sent before the EventBeat of beat that follows it.
type Event struct {
	Kind  EventKind
	Beat  int
	Notes int
}

type Option func(*config)

type config struct {
	tempo  int
	sink   Sink
	logger *slog.Logger
	rng    *rand.Rand
}

func defaultConfig() config {
	return config{tempo: DefaultTempo}
}

func WithTempo(bpm int) Option {
	return func(cfg *config) { cfg.tempo = bpm }
}

// WithSink sets where notes are played. Without one, notes are only returned.
func WithSink(s Sink) Option {
	return func(cfg *config) { cfg.sink = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithRand sets the generator used for track colors.
func WithRand(r *rand.Rand) Option {
	return func(cfg *config) { cfg.rng = r }
}

// NewRand returns a deterministic generator for WithRand.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5bd1e995))
}

type Machine struct {
	mu     sync.Mutex
	clock  *clock.Clock
	tracks []*Track
	sink   Sink
	log    *slog.Logger
	rng    *rand.Rand

	eventCh   chan Event
	eventChMu sync.Mutex
}

func New(opts ...Option) *Machine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.rng == nil {
		cfg.rng = NewRand(uint64(time.Now().UnixNano()))
	}
	return &Machine{
		clock: clock.New(max(cfg.tempo, 1)),
		sink:  cfg.sink,
		log:   cfg.logger,
		rng:   cfg.rng,
	}
}

// Tick advances the loop clock to now and reports whether a new beat began.
func (m *Machine) Tick(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock.Tick(now)
}

func (m *Machine) Beat() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock.Beat()
}

// Ratio is how far through the loop playback is, in [0, 1).
func (m *Machine) Ratio() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock.Ratio()
}

// NotesForBeat snapshots a note for every lit cell of the current beat,
// track by track.
func (m *Machine) NotesForBeat() []timbre.Note {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notesLocked()
}

func (m *Machine) notesLocked() []timbre.Note {
	beat := m.clock.Beat()
	var notes []timbre.Note
	for _, t := range m.tracks {
		for _, tone := range t.Grid.ActiveTones(beat) {
			notes = append(notes, timbre.Note{Tone: tone, Volume: t.Volume, Timbre: t.Timbre})
		}
	}
	return notes
}

// Play hands one note to the sink.
func (m *Machine) Play(note timbre.Note) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playLocked(note)
}

func (m *Machine) playLocked(note timbre.Note) bool {
	if m.sink == nil {
		return false
	}
	if !m.sink.Play(note) {
		m.log.Debug("note dropped", "tone", note.Tone, "beat", m.clock.Beat())
		return false
	}
	return true
}

// Step is the per-frame entry point: it ticks the clock and, when a new beat
// began, plays and returns that beat's notes. Beats skipped by a long frame
// are not replayed.
func (m *Machine) Step(now time.Time) []timbre.Note {
	m.mu.Lock()
	old := m.clock.Beat()
	if !m.clock.Tick(now) {
		m.mu.Unlock()
		return nil
	}
	beat := m.clock.Beat()
	notes := m.scheduleLocked()
	m.mu.Unlock()

	if beat < old {
		m.sendEvent(Event{Kind: EventLoopWrapped, Beat: beat})
	}
	m.sendEvent(Event{Kind: EventBeat, Beat: beat, Notes: len(notes)})
	return notes
}

// PlayBeat plays the current beat's notes without moving the clock. Hosts
// call it when starting from position 0, which Tick never reports as new.
func (m *Machine) PlayBeat() []timbre.Note {
	m.mu.Lock()
	beat := m.clock.Beat()
	notes := m.scheduleLocked()
	m.mu.Unlock()
	m.sendEvent(Event{Kind: EventBeat, Beat: beat, Notes: len(notes)})
	return notes
}

func (m *Machine) scheduleLocked() []timbre.Note {
	notes := m.notesLocked()
	for _, n := range notes {
		m.playLocked(n)
	}
	return notes
}

func (m *Machine) sendEvent(ev Event) {
	m.eventChMu.Lock()
	ch := m.eventCh
	m.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
			// Nobody listening fast enough; drop event
		}
	}
}

// Watch returns a channel that receives beat events. The channel is buffered
// (cap 16) and events are dropped rather than blocking Step. Only the most
// recent Watch() channel receives events.
func (m *Machine) Watch() <-chan Event {
	ch := make(chan Event, 16)
	m.eventChMu.Lock()
	m.eventCh = ch
	m.eventChMu.Unlock()
	return ch
}

// AddTrack appends a track with an empty C major grid, full volume and a
// random color.
func (m *Machine) AddTrack(name string, tb timbre.Timbre) Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.newTrackLocked(name, tb)
	t.Grid = grid.New(scale.CMajor)
	m.tracks = append(m.tracks, t)
	m.log.Info("track added", "id", t.ID, "name", t.Name)
	return *t
}

func (m *Machine) newTrackLocked(name string, tb timbre.Timbre) *Track {
	if name == "" {
		name = "New Track"
	}
	return &Track{
		ID:     uuid.New(),
		Name:   name,
		Volume: 1,
		Timbre: tb,
		Color:  randomColor(m.rng),
	}
}

// randomColor picks one of 72 fully saturated hues.
func randomColor(rng *rand.Rand) color.RGBA {
	hue := float64(rng.IntN(72) * 5)
	r, g, b := colorful.Hsl(hue, 1, 0.5).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func (m *Machine) RemoveTrack(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tracks {
		if t.ID == id {
			m.tracks = append(m.tracks[:i], m.tracks[i+1:]...)
			m.log.Info("track removed", "id", id, "name", t.Name)
			return true
		}
	}
	return false
}

// Track returns a copy of the track with id.
func (m *Machine) Track(id uuid.UUID) (Track, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t := m.findLocked(id); t != nil {
		return *t, true
	}
	return Track{}, false
}

func (m *Machine) findLocked(id uuid.UUID) *Track {
	for _, t := range m.tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Tracks returns copies of every track in order.
func (m *Machine) Tracks() []Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Track, len(m.tracks))
	for i, t := range m.tracks {
		out[i] = *t
	}
	return out
}

// Edit runs fn on the live track. Changes reach notes triggered afterwards;
// notes already playing keep the timbre they were started with. The ID
// cannot be changed.
func (m *Machine) Edit(id uuid.UUID, fn func(t *Track)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.findLocked(id)
	if t == nil {
		return false
	}
	fn(t)
	t.ID = id
	return true
}

// Toggle flips one grid cell of a track.
func (m *Machine) Toggle(id uuid.UUID, row, beat int) bool {
	return m.Edit(id, func(t *Track) { t.Grid.Toggle(row, beat) })
}

func (m *Machine) Tempo() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock.Tempo()
}

// SetTempo changes the beats per minute. Tempos below 1 are raised to 1 so
// the machine always snapshots to a valid Song.
func (m *Machine) SetTempo(bpm int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock.SetTempo(max(bpm, 1))
}

func (m *Machine) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock.Playing()
}

func (m *Machine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock.Pause()
}

func (m *Machine) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock.Resume()
}

// TogglePlaying flips between paused and playing and returns the new state.
func (m *Machine) TogglePlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock.SetPlaying(!m.clock.Playing())
	return m.clock.Playing()
}

// Song snapshots tempo and tracks into their persisted form.
func (m *Machine) Song() *song.Song {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &song.Song{Tempo: uint32(m.clock.Tempo())}
	for _, t := range m.tracks {
		s.Tracks = append(s.Tracks, song.NewTrack(t.Name, t.Volume, t.Grid, t.Timbre))
	}
	return s
}

// LoadSong replaces tempo and tracks. The machine is left paused at the
// start of the loop.
func (m *Machine) LoadSong(s *song.Song) error {
	if s == nil {
		return errors.New("nil song")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tracks := make([]*Track, 0, len(s.Tracks))
	for _, st := range s.Tracks {
		g, err := st.Grid()
		if err != nil {
			return err
		}
		t := m.newTrackLocked(st.Name, st.Timbre.Live())
		t.Volume = st.Volume
		t.Grid = g
		tracks = append(tracks, t)
	}
	m.tracks = tracks
	m.clock.SetTempo(int(s.Tempo))
	m.clock.Reset()
	m.clock.Pause()
	m.log.Info("song loaded", "tempo", s.Tempo, "tracks", len(tracks))
	return nil
}
