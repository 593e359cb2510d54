// internal/session/manager.go
//
// Session manager for daily attempts.
// Responsibilities:
//   - Resolve a (owner, language, date) to today's challenge via the catalog
//     loader and the scheduler.
//   - Hold in-memory sessions for active play, keyed by owner|language|date.
//   - Short-circuit already-completed challenges to their recorded outcome
//     (the replay guard: a finished day never re-runs or re-scores).
//   - Record terminal outcomes exactly once through the progress store.
//   - Broadcast state changes to subscribers.
//
// Error taxonomy:
//   - ErrNoChallenge: nothing scheduled for the date (pre-epoch days and
//     exhausted catalogs land here too, via an empty schedule).
//   - ErrIncompleteChallenge: a scheduled entry with no category, i.e. the
//     catalog is malformed, distinct from "nothing scheduled".
//   - Catalog fetch failures pass through wrapped; callers retry by
//     calling Load again.

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
	"github.com/oussamaessid/brainbox-server/internal/game"
	"github.com/oussamaessid/brainbox-server/internal/schedule"
	"github.com/oussamaessid/brainbox-server/internal/store"
)

var (
	// ErrNoChallenge means the requested date has no scheduled challenge.
	ErrNoChallenge = errors.New("session: no challenge available for date")

	// ErrIncompleteChallenge means a challenge exists but carries no category.
	ErrIncompleteChallenge = errors.New("session: challenge has no category data")
)

// View is what callers render: either an active session or the recorded
// outcome of an already-completed day.
type View struct {
	Language   catalog.Language
	Date       string
	Completed  bool          // true when the replay guard fired
	Won        bool          // recorded outcome, only meaningful when Completed
	TotalScore int           // cumulative score for the language
	Session    *game.Session // nil when Completed
}

// Event describes one state change, delivered to subscribers.
type Event struct {
	Owner    string
	Language catalog.Language
	Date     string
	State    game.State
	Lives    int
	Revealed int
	Score    int
}

// Manager owns active sessions and drives them against the store.
type Manager struct {
	loader    *catalog.Loader
	store     store.Store
	epoch     time.Time
	lookahead int
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*game.Session

	subMu sync.Mutex
	subs  []func(Event)
}

// Option tweaks Manager construction.
type Option func(*Manager)

// WithClock overrides the wall clock (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New constructs a Manager.
func New(loader *catalog.Loader, st store.Store, epoch time.Time, lookaheadDays int, opts ...Option) *Manager {
	m := &Manager{
		loader:    loader,
		store:     st,
		epoch:     epoch,
		lookahead: lookaheadDays,
		now:       time.Now,
		sessions:  make(map[string]*game.Session),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Subscribe registers a callback invoked after every state change.
// Callbacks run synchronously on the mutating goroutine; keep them cheap.
func (m *Manager) Subscribe(fn func(Event)) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Manager) notify(owner string, lang catalog.Language, date string, s *game.Session) {
	ev := Event{
		Owner:    owner,
		Language: lang,
		Date:     date,
		State:    s.State(),
		Lives:    s.Lives,
		Revealed: s.RevealedCount,
		Score:    s.Score,
	}
	m.subMu.Lock()
	subs := make([]func(Event), len(m.subs))
	copy(subs, m.subs)
	m.subMu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func sessionKey(owner string, lang catalog.Language, date string) string {
	return owner + "|" + string(lang) + "|" + date
}

// Load resolves the challenge for (owner, lang, date) and returns a View.
// An empty date means "today". Completed days short-circuit to the recorded
// outcome; otherwise an in-memory session is created or reused.
func (m *Manager) Load(ctx context.Context, owner string, lang catalog.Language, date string) (*View, error) {
	if date == "" {
		date = schedule.DateKey(m.now())
	}

	total, err := m.store.Score(ctx, owner, lang)
	if err != nil {
		return nil, fmt.Errorf("session: load score: %w", err)
	}

	// Replay guard: report the recorded outcome, never re-run the day.
	if won, ok, err := m.recorded(ctx, owner, lang, date); err != nil {
		return nil, err
	} else if ok {
		return &View{Language: lang, Date: date, Completed: true, Won: won, TotalScore: total}, nil
	}

	cats, err := m.loader.Load(ctx, lang)
	if err != nil {
		// Recoverable: a later Load retries the fetch.
		m.loader.Invalidate(lang)
		return nil, fmt.Errorf("session: load catalog: %w", err)
	}

	challenges := schedule.Compute(cats, m.now(), m.epoch, m.lookahead)
	ch, ok := challenges[date]
	if !ok {
		return nil, ErrNoChallenge
	}
	if len(ch.Categories) == 0 {
		return nil, ErrIncompleteChallenge
	}

	key := sessionKey(owner, lang, date)
	m.mu.Lock()
	sess, ok := m.sessions[key]
	if !ok {
		sess = game.NewSession(ch.Categories[0], total)
		m.sessions[key] = sess
	}
	m.mu.Unlock()

	return &View{Language: lang, Date: date, TotalScore: sess.Score, Session: sess}, nil
}

// Teasers returns the upcoming challenge dates within the lookahead window.
// Only the dates; the category stays hidden.
func (m *Manager) Teasers(ctx context.Context, lang catalog.Language) ([]string, error) {
	cats, err := m.loader.Load(ctx, lang)
	if err != nil {
		m.loader.Invalidate(lang)
		return nil, fmt.Errorf("session: load catalog: %w", err)
	}
	today := schedule.DateKey(m.now())
	var out []string
	for date := range schedule.Compute(cats, m.now(), m.epoch, m.lookahead) {
		if date != today {
			out = append(out, date)
		}
	}
	return out, nil
}

// Guess submits a guess for (owner, lang, date). The session must have been
// loaded first; terminal outcomes are persisted exactly once.
func (m *Manager) Guess(ctx context.Context, owner string, lang catalog.Language, date, guess string) (*View, int, error) {
	view, err := m.Load(ctx, owner, lang, date)
	if err != nil {
		return nil, 0, err
	}
	if view.Completed {
		return view, 0, nil
	}
	sess := view.Session

	m.mu.Lock()
	awarded, state := sess.SubmitGuess(guess)
	m.mu.Unlock()

	if state == game.StateWon || state == game.StateLost {
		// First terminal transition records the outcome; RecordResult is
		// idempotent so a racing duplicate is a no-op.
		if _, err := m.store.RecordResult(ctx, owner, lang, view.Date, state == game.StateWon, awarded); err != nil {
			return nil, 0, fmt.Errorf("session: record result: %w", err)
		}
	}
	m.notify(owner, lang, view.Date, sess)

	view.TotalScore = sess.Score
	return view, awarded, nil
}

// AppendLetter adds a character to the pending guess of an active session.
func (m *Manager) AppendLetter(ctx context.Context, owner string, lang catalog.Language, date, ch string) (*View, error) {
	view, err := m.Load(ctx, owner, lang, date)
	if err != nil {
		return nil, err
	}
	if view.Completed {
		return view, nil
	}
	m.mu.Lock()
	view.Session.AppendLetter(ch)
	m.mu.Unlock()
	m.notify(owner, lang, view.Date, view.Session)
	return view, nil
}

// Backspace drops the last character of the pending guess.
func (m *Manager) Backspace(ctx context.Context, owner string, lang catalog.Language, date string) (*View, error) {
	view, err := m.Load(ctx, owner, lang, date)
	if err != nil {
		return nil, err
	}
	if view.Completed {
		return view, nil
	}
	m.mu.Lock()
	view.Session.Backspace()
	m.mu.Unlock()
	m.notify(owner, lang, view.Date, view.Session)
	return view, nil
}

// recorded looks up the stored outcome for a (owner, lang, date).
func (m *Manager) recorded(ctx context.Context, owner string, lang catalog.Language, date string) (won, ok bool, err error) {
	won, ok, err = m.store.Result(ctx, owner, lang, date)
	if err != nil {
		err = fmt.Errorf("session: read result: %w", err)
	}
	return won, ok, err
}
