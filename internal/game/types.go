// internal/game/types.go
//
// Core type definitions for the Brainbox game engine.
// Defines:
//   - State: coarse session state (playing/won/lost).
//   - Session: state for a single in-progress or finished daily attempt.

package game

import "github.com/oussamaessid/brainbox-server/internal/catalog"

// State represents the lifecycle of a single session.
// Possible values:
//   - "playing": guesses are still being accepted.
//   - "won":     a guess matched the category name (terminal).
//   - "lost":    all lives were spent without a match (terminal).
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// StartingLives is how many wrong guesses a session survives.
const StartingLives = 5

// Session holds the state of a single daily attempt.
type Session struct {
	ID            string           // Unique session identifier.
	Category      catalog.Category // The day's category (Name is the secret answer).
	Lives         int              // Remaining lives, StartingLives down to 0.
	Score         int              // Cumulative score (carried in from the store).
	RevealedCount int              // How many clues are visible, 1..len(Items).
	Guess         string           // The guess being typed.
	Over          bool             // True once the session is terminal.
	Won           bool             // True if the session ended with a win.
}
