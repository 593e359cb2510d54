package game

import (
	"testing"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
)

func testCategory() catalog.Category {
	return catalog.Category{
		Name:  "Fruits",
		Items: []string{"Apple", "Banana", "Mango", "Cherry", "Grape"},
	}
}

func TestValidateGuess(t *testing.T) {
	cases := []struct {
		guess, answer string
		want          bool
	}{
		{" Fruits ", "fruits", true},
		{"fruits", "Fruits", true},
		{"FRUITS", "Fruits", true},
		{"Frutis", "Fruits", false},
		{"", "Fruits", false},
		{"   ", "Fruits", false},
	}
	for _, c := range cases {
		if got := ValidateGuess(c.guess, c.answer); got != c.want {
			t.Errorf("ValidateGuess(%q, %q) = %v; want %v", c.guess, c.answer, got, c.want)
		}
	}
}

func TestCalculateScore(t *testing.T) {
	if got := CalculateScore(5); got != 100 {
		t.Errorf("CalculateScore(5) = %d; want 100", got)
	}
	if got := CalculateScore(1); got != 20 {
		t.Errorf("CalculateScore(1) = %d; want 20", got)
	}
}

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession(testCategory(), 40)
	if s.Lives != 5 {
		t.Errorf("Lives = %d; want 5", s.Lives)
	}
	if s.RevealedCount != 1 {
		t.Errorf("RevealedCount = %d; want 1", s.RevealedCount)
	}
	if s.Score != 40 {
		t.Errorf("Score = %d; want 40 (carried in)", s.Score)
	}
	if s.State() != StatePlaying {
		t.Errorf("State = %q; want %q", s.State(), StatePlaying)
	}
	if s.ID == "" {
		t.Error("expected a session ID")
	}
}

func TestSubmitGuess_ImmediateWin(t *testing.T) {
	s := NewSession(testCategory(), 0)
	awarded, state := s.SubmitGuess("fruits")
	if state != StateWon {
		t.Fatalf("state = %q; want %q", state, StateWon)
	}
	if awarded != 100 {
		t.Errorf("awarded = %d; want 100 (5 lives * 20)", awarded)
	}
	if s.Score != 100 {
		t.Errorf("Score = %d; want 100", s.Score)
	}
	if s.Lives != 5 {
		t.Errorf("Lives = %d; want 5 (a correct guess never costs a life)", s.Lives)
	}
	if !s.Won || !s.Over {
		t.Errorf("Won=%v Over=%v; want both true", s.Won, s.Over)
	}
}

func TestSubmitGuess_LoseInFive(t *testing.T) {
	s := NewSession(testCategory(), 0)

	for i := 0; i < 4; i++ {
		awarded, state := s.SubmitGuess("wrong")
		if awarded != 0 || state != StatePlaying {
			t.Fatalf("wrong guess %d: awarded=%d state=%q; want 0, playing", i+1, awarded, state)
		}
	}
	if s.Lives != 1 {
		t.Errorf("Lives after 4 wrong = %d; want 1", s.Lives)
	}
	if s.RevealedCount != 5 {
		t.Errorf("RevealedCount after 4 wrong = %d; want 5", s.RevealedCount)
	}

	_, state := s.SubmitGuess("wrong")
	if state != StateLost {
		t.Fatalf("state = %q; want %q", state, StateLost)
	}
	if s.Lives != 0 {
		t.Errorf("Lives = %d; want 0", s.Lives)
	}
	if s.RevealedCount != 5 {
		t.Errorf("RevealedCount = %d; want 5 (all clues revealed on loss)", s.RevealedCount)
	}
	if s.Won {
		t.Error("Won = true on a loss")
	}
}

func TestSubmitGuess_WinOnLastLife(t *testing.T) {
	s := NewSession(testCategory(), 0)
	for i := 0; i < 4; i++ {
		s.SubmitGuess("wrong")
	}
	awarded, state := s.SubmitGuess("Fruits")
	if state != StateWon {
		t.Fatalf("state = %q; want %q", state, StateWon)
	}
	if awarded != 20 {
		t.Errorf("awarded = %d; want 20 (1 life * 20)", awarded)
	}
}

func TestSubmitGuess_BlankIsNoOp(t *testing.T) {
	s := NewSession(testCategory(), 0)
	awarded, state := s.SubmitGuess("   ")
	if awarded != 0 || state != StatePlaying {
		t.Fatalf("blank guess: awarded=%d state=%q; want 0, playing", awarded, state)
	}
	if s.Lives != 5 || s.RevealedCount != 1 {
		t.Errorf("blank guess mutated session: lives=%d revealed=%d", s.Lives, s.RevealedCount)
	}
}

func TestSubmitGuess_TerminalIsNoOp(t *testing.T) {
	s := NewSession(testCategory(), 0)
	s.SubmitGuess("fruits")
	awarded, state := s.SubmitGuess("fruits")
	if awarded != 0 || state != StateWon {
		t.Fatalf("guess after win: awarded=%d state=%q; want 0, won", awarded, state)
	}
	if s.Score != 100 {
		t.Errorf("Score re-applied on replayed guess: %d", s.Score)
	}
}

func TestSubmitGuess_ClearsPendingGuessOnWrong(t *testing.T) {
	s := NewSession(testCategory(), 0)
	s.AppendLetter("x")
	s.AppendLetter("y")
	s.SubmitGuess(s.Guess)
	if s.Guess != "" {
		t.Errorf("Guess = %q after wrong submit; want cleared", s.Guess)
	}
	if s.RevealedCount != 2 {
		t.Errorf("RevealedCount = %d; want 2", s.RevealedCount)
	}
}

func TestAppendBackspace(t *testing.T) {
	s := NewSession(testCategory(), 0)
	s.AppendLetter("f")
	s.AppendLetter("r")
	if s.Guess != "fr" {
		t.Errorf("Guess = %q; want %q", s.Guess, "fr")
	}
	s.Backspace()
	if s.Guess != "f" {
		t.Errorf("Guess after backspace = %q; want %q", s.Guess, "f")
	}
	s.Backspace()
	s.Backspace() // empty: no-op
	if s.Guess != "" {
		t.Errorf("Guess = %q; want empty", s.Guess)
	}
}

func TestEditsIgnoredOnceTerminal(t *testing.T) {
	s := NewSession(testCategory(), 0)
	s.SubmitGuess("fruits")
	s.AppendLetter("x")
	s.Backspace()
	if s.Guess != "fruits" {
		t.Errorf("terminal session guess mutated: %q", s.Guess)
	}
}

func TestRevealedItems_CappedAtClueCount(t *testing.T) {
	s := NewSession(testCategory(), 0)
	if got := s.RevealedItems(); len(got) != 1 || got[0] != "Apple" {
		t.Fatalf("RevealedItems = %v; want [Apple]", got)
	}
	for i := 0; i < 10; i++ {
		s.AppendLetter("x")
		s.SubmitGuess("nope")
	}
	if got := s.RevealedItems(); len(got) != 5 {
		t.Errorf("RevealedItems len = %d; want 5", len(got))
	}
}
