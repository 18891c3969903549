// internal/game/session.go
//
// Game session for a single player.
// Responsibilities:
//   - Build and shuffle the board, register cards (Restart).
//   - Run the timer from Start until every card is matched.
//   - Flip/compare/match logic with the two-card pending comparison.
//   - Flip mismatched pairs back after FlipBackDelay.
//   - Best-time and difficulty persistence through Records.
//
// Notes:
//   - All mutations are serialised by one mutex; timer ticks and flip-back
//     resolutions are just more events on that single logical thread.
//   - Restart and Teardown bump the session epoch and cancel the timer and
//     any pending flip-back. A tick or resolution scheduled under an older
//     epoch is ignored if it still fires.

package game

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FlipBackDelay is how long a mismatched pair stays face up.
const FlipBackDelay = time.Second

// Records is the persistence collaborator for the best time and the
// selected difficulty. A false ok means nothing usable is stored.
type Records interface {
	BestTime(ctx context.Context) (seconds int, ok bool, err error)
	SetBestTime(ctx context.Context, seconds int) error
	ClearBestTime(ctx context.Context) error
	Difficulty(ctx context.Context) (d Difficulty, ok bool, err error)
	SetDifficulty(ctx context.Context, d Difficulty) error
}

// Config wires a Session to its collaborators. Zero values get defaults:
// real clock, crypto randomness, no persistence, no presentation.
type Config struct {
	Clock     clockwork.Clock
	Rand      IntN
	Records   Records
	Presenter Presenter
	Logger    *zerolog.Logger
	OnEvent   func(Event) // called under the session lock
}

// Session owns every piece of mutable game state for one player.
type Session struct {
	clock   clockwork.Clock
	rand    IntN
	records Records
	view    Presenter
	log     zerolog.Logger
	onEvent func(Event)

	mu           sync.Mutex
	registry     *Registry
	pending      []Handle
	state        State
	selected     Difficulty // what the difficulty control shows
	board        Difficulty // what the current board was built with
	timer        *Timer
	flipBack     clockwork.Timer
	epoch        uint64
	startEnabled bool
	timeLabel    string
	bestLabel    string
	closed       bool
}

// View is a point-in-time copy of the session, for the HTTP layer.
type View struct {
	State           State
	Difficulty      Difficulty
	BoardDifficulty Difficulty
	Cards           []Face
	Pending         int
	Elapsed         int
	TimeLabel       string
	BestLabel       string
	StartEnabled    bool
}

// New loads persisted records, builds the first board and returns an idle
// session.
func New(ctx context.Context, cfg Config) *Session {
	s := &Session{
		clock:    cfg.Clock,
		rand:     cfg.Rand,
		records:  cfg.Records,
		view:     cfg.Presenter,
		onEvent:  cfg.OnEvent,
		registry: NewRegistry(),
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.rand == nil {
		s.rand = CryptoIntN
	}
	if s.records == nil {
		s.records = noRecords{}
	}
	if s.view == nil {
		s.view = nopPresenter{}
	}
	if s.onEvent == nil {
		s.onEvent = func(Event) {}
	}
	s.log = log.Logger
	if cfg.Logger != nil {
		s.log = *cfg.Logger
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	best, ok := s.loadBest(ctx)
	s.bestLabel = BestLabel(best, ok)
	s.view.ShowBest(s.bestLabel)

	if d, ok, err := s.records.Difficulty(ctx); err != nil {
		s.log.Warn().Err(err).Msg("load difficulty")
	} else if ok {
		s.selected = d
	}
	s.resetLocked()
	return s
}

// Restart discards the board and builds a fresh shuffled one at the
// selected difficulty. Valid from any state; the session ends up idle.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.epoch++
	s.cancelLocked()

	epoch := s.epoch
	s.timer = NewTimer(s.clock, func(elapsed int) { s.tick(epoch, elapsed) })

	s.registry.Clear()
	colors := BuildBoard(s.selected)
	Shuffle(colors, s.rand)
	for _, c := range colors {
		s.registry.Register(c)
	}
	s.board = s.selected
	s.pending = s.pending[:0]
	s.state = StateIdle

	s.startEnabled = true
	s.view.SetStartEnabled(true)
	s.timeLabel = TimeLabel(0)
	s.view.ShowTime(s.timeLabel)
	s.syncLocked()
	s.emit(Event{Kind: EventRestarted})
}

// cancelLocked stops the timer and any scheduled flip-back.
func (s *Session) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.flipBack != nil {
		s.flipBack.Stop()
		s.flipBack = nil
	}
}

// Start begins the timer and accepts flips. Only an idle session starts;
// otherwise Start returns false and changes nothing.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateIdle {
		return false
	}
	s.startEnabled = false
	s.view.SetStartEnabled(false)
	s.timer.Start()
	s.state = StateRunning
	s.emit(Event{Kind: EventStarted})
	return true
}

// Flip turns the card at h face up. It returns false when the flip was
// ignored: the game is not running, two cards are awaiting resolution, or
// the card is already face up. An unknown handle is ErrCardNotFound.
func (s *Session) Flip(ctx context.Context, h Handle) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.registry.card(h)
	if err != nil {
		return false, err
	}
	if s.closed || s.state != StateRunning || len(s.pending) >= 2 || c.Flipped {
		return false, nil
	}

	c.Flipped = true
	s.syncLocked()
	s.pending = append(s.pending, h)
	if len(s.pending) < 2 {
		return true, nil
	}

	a, _ := s.registry.card(s.pending[0])
	b, _ := s.registry.card(s.pending[1])
	pair := []Handle{s.pending[0], s.pending[1]}
	if a.Color == b.Color {
		a.Matched, b.Matched = true, true
		s.pending = s.pending[:0]
		s.emit(Event{Kind: EventMatched, Handles: pair})
		if s.registry.allMatched() {
			s.endGameLocked(ctx)
		}
		return true, nil
	}

	s.emit(Event{Kind: EventMismatched, Handles: pair})
	epoch := s.epoch
	s.flipBack = s.clock.AfterFunc(FlipBackDelay, func() { s.resolveMismatch(epoch) })
	return true, nil
}

// resolveMismatch turns a mismatched pair back face down.
func (s *Session) resolveMismatch(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || epoch != s.epoch || len(s.pending) != 2 {
		return
	}
	for _, h := range s.pending {
		if c, err := s.registry.card(h); err == nil {
			c.Flipped = false
		}
	}
	s.pending = s.pending[:0]
	s.flipBack = nil
	s.syncLocked()
}

func (s *Session) tick(epoch uint64, elapsed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || epoch != s.epoch || s.state != StateRunning {
		return
	}
	s.timeLabel = TimeLabel(elapsed)
	s.view.ShowTime(s.timeLabel)
}

// endGameLocked freezes the timer and records a new best if it is one.
func (s *Session) endGameLocked(ctx context.Context) {
	if s.state != StateRunning {
		return
	}
	s.timer.Stop()
	elapsed := s.timer.Elapsed()
	s.timeLabel = TimeLabel(elapsed)
	s.view.ShowTime(s.timeLabel)

	best, ok := s.loadBest(ctx)
	// A zero best counts as none, so any finish replaces it.
	newBest := !ok || best == 0 || elapsed < best
	if newBest {
		if err := s.records.SetBestTime(ctx, elapsed); err != nil {
			s.log.Warn().Err(err).Int("seconds", elapsed).Msg("save best time")
		}
		best = elapsed
	}
	s.bestLabel = BestLabel(best, true)
	s.view.ShowBest(s.bestLabel)
	s.state = StateWon
	s.emit(Event{Kind: EventWon, Elapsed: elapsed, Best: best, NewBest: newBest})
}

// ChangeDifficulty selects and persists d. The board is rebuilt right away
// unless a game is running, in which case d applies from the next Restart.
func (s *Session) ChangeDifficulty(ctx context.Context, d Difficulty) error {
	if !d.Valid() {
		return ErrUnknownDifficulty
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.selected = d
	if err := s.records.SetDifficulty(ctx, d); err != nil {
		s.log.Warn().Err(err).Str("difficulty", d.String()).Msg("save difficulty")
	}
	if s.state != StateRunning {
		s.resetLocked()
	}
	return nil
}

// WipeBestTime forgets the stored best time.
func (s *Session) WipeBestTime(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if err := s.records.ClearBestTime(ctx); err != nil {
		s.log.Warn().Err(err).Msg("clear best time")
	}
	s.bestLabel = BestLabel(0, false)
	s.view.ShowBest(s.bestLabel)
}

// Snapshot copies the current state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		State:           s.state,
		Difficulty:      s.selected,
		BoardDifficulty: s.board,
		Cards:           Project(s.registry.All()),
		Pending:         len(s.pending),
		Elapsed:         s.timer.Elapsed(),
		TimeLabel:       s.timeLabel,
		BestLabel:       s.bestLabel,
		StartEnabled:    s.startEnabled,
	}
}

// Teardown cancels the timer and any pending flip-back. The session
// ignores all input afterwards.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.epoch++
	s.cancelLocked()
}

func (s *Session) syncLocked() { s.view.SyncCards(Project(s.registry.All())) }

func (s *Session) loadBest(ctx context.Context) (int, bool) {
	best, ok, err := s.records.BestTime(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("load best time")
		return 0, false
	}
	return best, ok
}

func (s *Session) emit(e Event) {
	e.Difficulty = s.board
	s.onEvent(e)
}

type noRecords struct{}

func (noRecords) BestTime(context.Context) (int, bool, error)          { return 0, false, nil }
func (noRecords) SetBestTime(context.Context, int) error               { return nil }
func (noRecords) ClearBestTime(context.Context) error                  { return nil }
func (noRecords) Difficulty(context.Context) (Difficulty, bool, error) { return Normal, false, nil }
func (noRecords) SetDifficulty(context.Context, Difficulty) error      { return nil }
