package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
	"github.com/oussamaessid/brainbox-server/internal/game"
	"github.com/oussamaessid/brainbox-server/internal/schedule"
	"github.com/oussamaessid/brainbox-server/internal/store"
)

var epoch = time.Date(2026, time.January, 28, 0, 0, 0, 0, time.Local)

// newManager builds a Manager on the embedded catalogs, a memory store,
// and a fixed clock.
func newManager(now time.Time) (*Manager, store.Store) {
	st := store.NewMemoryStore()
	loader := catalog.NewLoader(catalog.NewFetcher(""))
	m := New(loader, st, epoch, schedule.DefaultLookaheadDays, WithClock(func() time.Time { return now }))
	return m, st
}

func TestLoad_TodayChallenge(t *testing.T) {
	m, _ := newManager(epoch)
	view, err := m.Load(context.Background(), "dev1", catalog.English, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if view.Completed {
		t.Fatal("fresh day reported completed")
	}
	if view.Date != schedule.DateKey(epoch) {
		t.Errorf("Date = %q; want %q", view.Date, schedule.DateKey(epoch))
	}
	sess := view.Session
	if sess == nil {
		t.Fatal("no session for active day")
	}
	if sess.Lives != game.StartingLives || sess.RevealedCount != 1 {
		t.Errorf("session = lives %d revealed %d; want 5, 1", sess.Lives, sess.RevealedCount)
	}
	// Epoch day is day 1: first category of the catalog.
	cats, _ := catalog.Embedded(catalog.English)
	if sess.Category.Name != cats[0].Name {
		t.Errorf("category = %q; want %q", sess.Category.Name, cats[0].Name)
	}
}

func TestLoad_ReusesActiveSession(t *testing.T) {
	m, _ := newManager(epoch)
	ctx := context.Background()
	a, err := m.Load(ctx, "dev1", catalog.English, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a.Session.AppendLetter("x")
	b, err := m.Load(ctx, "dev1", catalog.English, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Session != b.Session {
		t.Error("second Load created a fresh session for the same day")
	}
	if b.Session.Guess != "x" {
		t.Errorf("Guess = %q; want %q", b.Session.Guess, "x")
	}
}

func TestLoad_SessionsIsolatedPerOwnerAndLanguage(t *testing.T) {
	m, _ := newManager(epoch)
	ctx := context.Background()
	a, _ := m.Load(ctx, "dev1", catalog.English, "")
	b, _ := m.Load(ctx, "dev2", catalog.English, "")
	c, _ := m.Load(ctx, "dev1", catalog.French, "")
	if a.Session == b.Session || a.Session == c.Session {
		t.Error("sessions shared across owners or languages")
	}
}

func TestLoad_BeforeEpoch(t *testing.T) {
	m, _ := newManager(epoch.AddDate(0, 0, -3))
	_, err := m.Load(context.Background(), "dev1", catalog.English, "")
	if !errors.Is(err, ErrNoChallenge) {
		t.Fatalf("Load before epoch = %v; want ErrNoChallenge", err)
	}
}

func TestLoad_ExhaustedCatalog(t *testing.T) {
	// The embedded English catalog is finite; far past the epoch there is
	// nothing left to schedule.
	m, _ := newManager(epoch.AddDate(0, 0, 1000))
	_, err := m.Load(context.Background(), "dev1", catalog.English, "")
	if !errors.Is(err, ErrNoChallenge) {
		t.Fatalf("Load past exhaustion = %v; want ErrNoChallenge", err)
	}
}

func TestLoad_CatalogFailureIsRetryable(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"Fruits": ["a", "b", "c", "d", "e"]}`))
	}))
	defer srv.Close()

	st := store.NewMemoryStore()
	loader := catalog.NewLoader(catalog.NewFetcher(srv.URL))
	m := New(loader, st, epoch, 6, WithClock(func() time.Time { return epoch }))

	ctx := context.Background()
	if _, err := m.Load(ctx, "dev1", catalog.English, ""); err == nil {
		t.Fatal("expected catalog failure")
	}

	// Re-invoking the load path after the source recovers succeeds.
	fail.Store(false)
	view, err := m.Load(ctx, "dev1", catalog.English, "")
	if err != nil {
		t.Fatalf("Load after recovery: %v", err)
	}
	if view.Session.Category.Name != "Fruits" {
		t.Errorf("category = %q; want Fruits", view.Session.Category.Name)
	}
}

func TestGuess_WinRecordsOnce(t *testing.T) {
	m, st := newManager(epoch)
	ctx := context.Background()

	view, err := m.Load(ctx, "dev1", catalog.English, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	answer := view.Session.Category.Name

	got, awarded, err := m.Guess(ctx, "dev1", catalog.English, "", answer)
	if err != nil {
		t.Fatalf("Guess: %v", err)
	}
	if awarded != 100 {
		t.Errorf("awarded = %d; want 100", awarded)
	}
	if got.Session.State() != game.StateWon {
		t.Errorf("state = %q; want won", got.Session.State())
	}

	date := schedule.DateKey(epoch)
	won, ok, _ := st.Result(ctx, "dev1", catalog.English, date)
	if !ok || !won {
		t.Errorf("stored result = won=%v ok=%v; want recorded win", won, ok)
	}
	if n, _ := st.Score(ctx, "dev1", catalog.English); n != 100 {
		t.Errorf("stored score = %d; want 100", n)
	}
}

func TestGuess_LossRecordsZeroScore(t *testing.T) {
	m, st := newManager(epoch)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, _, err := m.Guess(ctx, "dev1", catalog.English, "", "definitely wrong"); err != nil {
			t.Fatalf("Guess %d: %v", i, err)
		}
	}
	date := schedule.DateKey(epoch)
	won, ok, _ := st.Result(ctx, "dev1", catalog.English, date)
	if !ok || won {
		t.Errorf("stored result = won=%v ok=%v; want recorded loss", won, ok)
	}
	if n, _ := st.Score(ctx, "dev1", catalog.English); n != 0 {
		t.Errorf("stored score = %d; want 0", n)
	}
}

func TestReplayGuard(t *testing.T) {
	m, _ := newManager(epoch)
	ctx := context.Background()

	view, _ := m.Load(ctx, "dev1", catalog.English, "")
	answer := view.Session.Category.Name
	if _, _, err := m.Guess(ctx, "dev1", catalog.English, "", answer); err != nil {
		t.Fatalf("Guess: %v", err)
	}

	// A fresh manager simulates an app restart: the recorded outcome must
	// short-circuit, not re-run the session.
	st2 := m.store
	loader := catalog.NewLoader(catalog.NewFetcher(""))
	m2 := New(loader, st2, epoch, 6, WithClock(func() time.Time { return epoch }))

	got, err := m2.Load(ctx, "dev1", catalog.English, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Completed || !got.Won {
		t.Fatalf("replay view = completed=%v won=%v; want completed win", got.Completed, got.Won)
	}
	if got.TotalScore != 100 {
		t.Errorf("TotalScore = %d; want 100 (not re-applied)", got.TotalScore)
	}

	// Guessing on a completed day changes nothing.
	again, awarded, err := m2.Guess(ctx, "dev1", catalog.English, "", answer)
	if err != nil {
		t.Fatalf("Guess on completed: %v", err)
	}
	if awarded != 0 || !again.Completed {
		t.Errorf("completed-day guess: awarded=%d completed=%v; want 0, true", awarded, again.Completed)
	}
}

func TestTeasers(t *testing.T) {
	m, _ := newManager(epoch)
	dates, err := m.Teasers(context.Background(), catalog.English)
	if err != nil {
		t.Fatalf("Teasers: %v", err)
	}
	// The embedded catalog has more than 7 categories, so the full window
	// minus today's entry is expected.
	if len(dates) != schedule.DefaultLookaheadDays {
		t.Errorf("teasers = %d; want %d", len(dates), schedule.DefaultLookaheadDays)
	}
	today := schedule.DateKey(epoch)
	for _, d := range dates {
		if d == today {
			t.Errorf("teasers include today %s", d)
		}
	}
}

func TestSubscribe_NotifiedOnGuess(t *testing.T) {
	m, _ := newManager(epoch)
	ctx := context.Background()

	var events []Event
	m.Subscribe(func(ev Event) { events = append(events, ev) })

	if _, _, err := m.Guess(ctx, "dev1", catalog.English, "", "wrong"); err != nil {
		t.Fatalf("Guess: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d; want 1", len(events))
	}
	ev := events[0]
	if ev.State != game.StatePlaying || ev.Lives != 4 || ev.Revealed != 2 {
		t.Errorf("event = %+v; want playing with 4 lives, 2 revealed", ev)
	}
}

func TestAppendLetterAndBackspace(t *testing.T) {
	m, _ := newManager(epoch)
	ctx := context.Background()

	view, err := m.AppendLetter(ctx, "dev1", catalog.English, "", "f")
	if err != nil {
		t.Fatalf("AppendLetter: %v", err)
	}
	view, err = m.AppendLetter(ctx, "dev1", catalog.English, "", "r")
	if err != nil {
		t.Fatalf("AppendLetter: %v", err)
	}
	if view.Session.Guess != "fr" {
		t.Errorf("Guess = %q; want fr", view.Session.Guess)
	}
	view, err = m.Backspace(ctx, "dev1", catalog.English, "")
	if err != nil {
		t.Fatalf("Backspace: %v", err)
	}
	if view.Session.Guess != "f" {
		t.Errorf("Guess = %q; want f", view.Session.Guess)
	}
}
