// internal/game/engine.go
//
// Core game engine for a single Brainbox session.
// Responsibilities:
//   - Create new sessions (5 lives, first clue revealed).
//   - Validate guesses (trimmed, case-insensitive match on the category name).
//   - Award points from remaining lives on a win.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - A correct guess never costs a life: points are computed from the lives
//     count as it stood when the winning guess was submitted.
//   - Losing a life reveals the next clue; the final life lost reveals them all.
//   - Sessions are terminal once Over is set; nothing mutates them after that.

package game

import (
	"strings"

	"github.com/google/uuid"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
)

// PointsPerLife is the score multiplier applied to remaining lives on a win.
const PointsPerLife = 20

// ValidateGuess reports whether guess matches the answer after trimming
// surrounding whitespace, ignoring case. No fuzzy matching.
func ValidateGuess(guess, answer string) bool {
	return strings.EqualFold(strings.TrimSpace(guess), answer)
}

// CalculateScore maps remaining lives to points. Only meaningful at the
// moment of a winning guess (livesRemaining >= 1 there by construction).
func CalculateScore(livesRemaining int) int {
	return livesRemaining * PointsPerLife
}

// NewSession starts an attempt at cat with the first clue revealed.
// totalScore is the player's cumulative score carried in from storage.
func NewSession(cat catalog.Category, totalScore int) *Session {
	return &Session{
		ID:            uuid.NewString(),
		Category:      cat,
		Lives:         StartingLives,
		Score:         totalScore,
		RevealedCount: 1,
	}
}

// State reports the coarse session state.
func (s *Session) State() State {
	if s.Over {
		if s.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// AppendLetter adds a character to the pending guess. No-op once terminal.
func (s *Session) AppendLetter(ch string) {
	if s.Over {
		return
	}
	s.Guess += ch
}

// Backspace drops the last character of the pending guess. No-op once
// terminal or when the guess is already empty.
func (s *Session) Backspace() {
	if s.Over || s.Guess == "" {
		return
	}
	r := []rune(s.Guess)
	s.Guess = string(r[:len(r)-1])
}

// SubmitGuess resolves a guess against the category name.
//
// Rules:
//   - Terminal sessions and blank guesses (after trim) are no-ops.
//   - Correct: score += CalculateScore(lives before any decrement); → won.
//   - Wrong with lives left: lose a life, reveal the next clue (capped at
//     the clue count), clear the pending guess; still playing.
//   - Wrong on the last life: reveal everything; → lost.
//
// Returns the points awarded (zero unless this guess won) and the new state.
func (s *Session) SubmitGuess(guess string) (awarded int, state State) {
	if s.Over {
		return 0, s.State()
	}
	if strings.TrimSpace(guess) == "" {
		return 0, StatePlaying
	}

	if ValidateGuess(guess, s.Category.Name) {
		awarded = CalculateScore(s.Lives)
		s.Score += awarded
		s.Won = true
		s.Over = true
		return awarded, StateWon
	}

	s.Lives--
	if s.Lives > 0 {
		if s.RevealedCount < len(s.Category.Items) {
			s.RevealedCount++
		}
		s.Guess = ""
		return 0, StatePlaying
	}

	s.Lives = 0
	s.RevealedCount = len(s.Category.Items)
	s.Won = false
	s.Over = true
	return 0, StateLost
}

// RevealedItems returns the clues visible so far, in reveal order.
func (s *Session) RevealedItems() []string {
	n := s.RevealedCount
	if n > len(s.Category.Items) {
		n = len(s.Category.Items)
	}
	return s.Category.Items[:n]
}
