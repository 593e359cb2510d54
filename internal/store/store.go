// internal/store/store.go
//
// Persistence facade for per-player progress.
//
// Everything the game records boils down to three string-keyed values per
// (language, date), namespaced by an owner (a user ID or an anonymous
// cookie ID):
//
//   score_<LANGUAGE>                       → cumulative score (integer)
//   game_completed_<LANGUAGE>_<date>       → "played" flag (boolean)
//   game_result_<LANGUAGE>_<date>          → outcome, true = won (boolean)
//
// Dates use the dd/mm/yyyy challenge key format. RecordResult is the only
// compound write and it is idempotent: once a (owner, language, date) is
// completed, later calls change nothing and apply no score.

package store

import (
	"context"
	"fmt"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
)

// Store is the progress persistence interface.
// Implementations may be backed by memory (tests/dev), SQLite, or Redis.
type Store interface {
	// Score returns the cumulative score for a language (0 if never played).
	Score(ctx context.Context, owner string, lang catalog.Language) (int, error)

	// AddScore adds delta to the cumulative score for a language.
	AddScore(ctx context.Context, owner string, lang catalog.Language, delta int) error

	// Completed reports whether the (language, date) challenge was finished.
	Completed(ctx context.Context, owner string, lang catalog.Language, date string) (bool, error)

	// Result returns the recorded outcome for a completed challenge.
	// ok is false when nothing has been recorded for the pair.
	Result(ctx context.Context, owner string, lang catalog.Language, date string) (won bool, ok bool, err error)

	// RecordResult marks a challenge completed with its outcome and, for a
	// win, adds delta to the cumulative score. Returns false without side
	// effects when the pair was already completed.
	RecordResult(ctx context.Context, owner string, lang catalog.Language, date string, won bool, delta int) (bool, error)
}

// Key builders shared by every backend.

func scoreKey(lang catalog.Language) string {
	return fmt.Sprintf("score_%s", lang)
}

func completedKey(lang catalog.Language, date string) string {
	return fmt.Sprintf("game_completed_%s_%s", lang, date)
}

func resultKey(lang catalog.Language, date string) string {
	return fmt.Sprintf("game_result_%s_%s", lang, date)
}

// AllScores is a convenience over Store.Score for every supported language.
func AllScores(ctx context.Context, s Store, owner string) (map[catalog.Language]int, error) {
	out := make(map[catalog.Language]int, len(catalog.Languages()))
	for _, lang := range catalog.Languages() {
		n, err := s.Score(ctx, owner, lang)
		if err != nil {
			return nil, err
		}
		out[lang] = n
	}
	return out, nil
}
