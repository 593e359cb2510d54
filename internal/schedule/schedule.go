// internal/schedule/schedule.go
//
// Daily challenge scheduler.
//
// Puzzle assignment is pure date arithmetic: the catalog is an ordered list
// consumed one category per day starting at a fixed epoch (the epoch day is
// day 1). Every player derives the same date→category mapping from only the
// epoch and the catalog order; no stored per-date assignments. The list is
// never wrapped or repeated; once it runs out there simply are no further
// challenges.

package schedule

import (
	"time"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
)

// DateLayout is the dd/mm/yyyy format used for challenge keys and
// persistence keys alike.
const DateLayout = "02/01/2006"

// DefaultLookaheadDays is the teaser window shown for upcoming days.
const DefaultLookaheadDays = 6

// DefaultEpoch is day 1 of the published category sequence.
var DefaultEpoch = time.Date(2026, time.January, 28, 0, 0, 0, 0, time.Local)

// DailyChallenge is one scheduled puzzle. Categories holds exactly one
// category per day in current usage.
type DailyChallenge struct {
	Date       string             `json:"date"`
	Categories []catalog.Category `json:"categories"`
}

// DateKey formats a time as a challenge/persistence key.
func DateKey(t time.Time) string { return t.Format(DateLayout) }

// midnight strips the time-of-day so day arithmetic works on whole days.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysSinceEpoch counts whole days from epoch to today, with the epoch day
// itself counting as day 1. Values below 1 mean the game has not started.
func DaysSinceEpoch(today, epoch time.Time) int {
	diff := midnight(today).Sub(midnight(epoch))
	return int(diff/(24*time.Hour)) + 1
}

// Compute maps today (plus a lookahead window of teasers) onto the ordered
// category list. The result has between 0 and lookaheadDays+1 entries:
// empty before the epoch or once the catalog is exhausted, truncated when
// the remaining categories cannot cover the whole window.
func Compute(categories []catalog.Category, today, epoch time.Time, lookaheadDays int) map[string]DailyChallenge {
	challenges := make(map[string]DailyChallenge)
	if len(categories) == 0 {
		return challenges
	}

	day := DaysSinceEpoch(today, epoch)
	if day < 1 {
		// Pre-epoch: a valid computed result, not an error.
		return challenges
	}
	todayIndex := day - 1

	if todayIndex < len(categories) {
		key := DateKey(today)
		challenges[key] = DailyChallenge{
			Date:       key,
			Categories: []catalog.Category{categories[todayIndex]},
		}
	}

	for offset := 1; offset <= lookaheadDays; offset++ {
		futureIndex := todayIndex + offset
		if futureIndex >= len(categories) {
			break
		}
		key := DateKey(midnight(today).AddDate(0, 0, offset))
		challenges[key] = DailyChallenge{
			Date:       key,
			Categories: []catalog.Category{categories[futureIndex]},
		}
	}
	return challenges
}
