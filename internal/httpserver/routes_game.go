// internal/httpserver/routes_game.go
//
// HTTP routes for the daily challenge game.
// Exposes, under optional auth (guests play under the anon cookie):
//   - GET  /challenge          → today's (or a given date's) challenge view
//   - GET  /challenge/teasers  → upcoming challenge dates in the lookahead window
//   - POST /game/guess         → submit a guess
//   - POST /game/input         → edit the pending guess (append/backspace)
//   - GET  /scores             → cumulative score for one language
//   - GET  /scores/all         → cumulative scores for every language
//
// Each (language, date) is playable once per owner; completed days return
// the recorded outcome. The category name is never exposed while a
// challenge is still in progress.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
	"github.com/oussamaessid/brainbox-server/internal/session"
	"github.com/oussamaessid/brainbox-server/internal/store"
)

// mountGame registers all game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Get("/challenge", s.handleChallenge)
	r.Get("/challenge/teasers", s.handleTeasers)
	r.Route("/game", func(r chi.Router) {
		r.Post("/guess", s.handleGameGuess)
		r.Post("/input", s.handleGameInput)
	})
	r.Get("/scores", s.handleScores)
	r.Get("/scores/all", s.handleAllScores)
}

// challengeRes is the challenge view returned to clients. The answer is
// only present once the session is over.
type challengeRes struct {
	Date       string   `json:"date"`
	Language   string   `json:"language"`
	State      string   `json:"state"` // playing | won | lost | completed
	Lives      int      `json:"lives,omitempty"`
	Revealed   []string `json:"revealed,omitempty"`
	ClueCount  int      `json:"clueCount,omitempty"`
	Guess      string   `json:"guess,omitempty"`
	Answer     string   `json:"answer,omitempty"`
	Won        bool     `json:"won"`
	TotalScore int      `json:"totalScore"`
}

// viewRes renders a session view as the wire shape.
func viewRes(v *session.View) challengeRes {
	res := challengeRes{
		Date:       v.Date,
		Language:   string(v.Language),
		TotalScore: v.TotalScore,
	}
	if v.Completed {
		res.State = "completed"
		res.Won = v.Won
		return res
	}
	sess := v.Session
	res.State = string(sess.State())
	res.Lives = sess.Lives
	res.Revealed = sess.RevealedItems()
	res.ClueCount = len(sess.Category.Items)
	res.Guess = sess.Guess
	res.Won = sess.Won
	if sess.Over {
		res.Answer = sess.Category.Name
	}
	return res
}

// langFromQuery parses ?lang= (default English).
func langFromQuery(r *http.Request) (catalog.Language, error) {
	q := r.URL.Query().Get("lang")
	if q == "" {
		return catalog.English, nil
	}
	return catalog.ParseLanguage(q)
}

// writeSessionErr maps session errors onto HTTP statuses.
func writeSessionErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoChallenge):
		http.Error(w, `{"error":"no_challenge"}`, http.StatusNotFound)
	case errors.Is(err, session.ErrIncompleteChallenge):
		http.Error(w, `{"error":"incomplete_challenge"}`, http.StatusBadGateway)
	default:
		log.Error().Err(err).Msg("session error")
		http.Error(w, `{"error":"catalog_unavailable"}`, http.StatusServiceUnavailable)
	}
}

// handleChallenge loads (or resumes) the challenge for the caller's
// language and date. Completed days return the recorded outcome.
func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	lang, err := langFromQuery(r)
	if err != nil {
		http.Error(w, `{"error":"bad_language"}`, http.StatusBadRequest)
		return
	}
	owner := s.ownerID(w, r)
	view, err := s.mgr.Load(r.Context(), owner, lang, r.URL.Query().Get("date"))
	if err != nil {
		writeSessionErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(viewRes(view))
}

// teasersRes is returned by /challenge/teasers.
type teasersRes struct {
	Language string   `json:"language"`
	Dates    []string `json:"dates"`
}

// handleTeasers lists upcoming challenge dates without revealing categories.
func (s *Server) handleTeasers(w http.ResponseWriter, r *http.Request) {
	lang, err := langFromQuery(r)
	if err != nil {
		http.Error(w, `{"error":"bad_language"}`, http.StatusBadRequest)
		return
	}
	dates, err := s.mgr.Teasers(r.Context(), lang)
	if err != nil {
		writeSessionErr(w, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	_ = json.NewEncoder(w).Encode(teasersRes{Language: string(lang), Dates: dates})
}

// guessReq is the payload for POST /game/guess.
type guessReq struct {
	Lang  string `json:"lang"`
	Date  string `json:"date"` // optional; empty = today
	Guess string `json:"guess"`
}

// guessRes is challengeRes plus the points this guess earned.
type guessRes struct {
	challengeRes
	Awarded int `json:"awarded"`
}

// handleGameGuess applies a guess to the caller's session, persists the
// outcome on a terminal transition, and updates account stats/history.
func (s *Server) handleGameGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	lang, err := catalog.ParseLanguage(orDefault(req.Lang, string(catalog.English)))
	if err != nil {
		http.Error(w, `{"error":"bad_language"}`, http.StatusBadRequest)
		return
	}
	owner := s.ownerID(w, r)

	// Whether the session was already terminal, to detect the transition.
	before, err := s.mgr.Load(r.Context(), owner, lang, req.Date)
	if err != nil {
		writeSessionErr(w, err)
		return
	}
	wasOver := before.Completed || before.Session.Over

	view, awarded, err := s.mgr.Guess(r.Context(), owner, lang, req.Date, req.Guess)
	if err != nil {
		writeSessionErr(w, err)
		return
	}

	if !wasOver && !view.Completed && view.Session.Over {
		s.recordHistory(r, owner, view, awarded)
	}

	_ = json.NewEncoder(w).Encode(guessRes{challengeRes: viewRes(view), Awarded: awarded})
}

// recordHistory persists a finished game row and bumps account stats.
// Best effort, non-fatal if it fails.
func (s *Server) recordHistory(r *http.Request, owner string, view *session.View, awarded int) {
	sess := view.Session
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO games (id, owner, language, date, won, points, finished_at)
	                        VALUES (?,?,?,?,?,?,datetime('now'))`,
		sess.ID, owner, string(view.Language), view.Date, sess.Won, awarded); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
	}
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		if err := s.bumpStats(me.ID, sess.Won); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
}

// inputReq is the payload for POST /game/input.
type inputReq struct {
	Lang string `json:"lang"`
	Date string `json:"date"`
	Op   string `json:"op"` // "append" | "backspace"
	Ch   string `json:"ch"` // for "append"
}

// handleGameInput edits the pending guess of an active session.
func (s *Server) handleGameInput(w http.ResponseWriter, r *http.Request) {
	var req inputReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	lang, err := catalog.ParseLanguage(orDefault(req.Lang, string(catalog.English)))
	if err != nil {
		http.Error(w, `{"error":"bad_language"}`, http.StatusBadRequest)
		return
	}
	owner := s.ownerID(w, r)

	var view *session.View
	switch req.Op {
	case "append":
		view, err = s.mgr.AppendLetter(r.Context(), owner, lang, req.Date, req.Ch)
	case "backspace":
		view, err = s.mgr.Backspace(r.Context(), owner, lang, req.Date)
	default:
		http.Error(w, `{"error":"bad_op"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		writeSessionErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(viewRes(view))
}

// scoresRes is returned by /scores.
type scoresRes struct {
	Language string `json:"language"`
	Score    int    `json:"score"`
}

// handleScores returns the cumulative score for one language.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	lang, err := langFromQuery(r)
	if err != nil {
		http.Error(w, `{"error":"bad_language"}`, http.StatusBadRequest)
		return
	}
	owner := s.ownerID(w, r)
	n, err := s.store.Score(r.Context(), owner, lang)
	if err != nil {
		http.Error(w, `{"error":"store_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(scoresRes{Language: string(lang), Score: n})
}

// handleAllScores returns the cumulative score for every supported language.
func (s *Server) handleAllScores(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	scores, err := store.AllScores(r.Context(), s.store, owner)
	if err != nil {
		http.Error(w, `{"error":"store_error"}`, http.StatusInternalServerError)
		return
	}
	out := make(map[string]int, len(scores))
	for lang, n := range scores {
		out[string(lang)] = n
	}
	_ = json.NewEncoder(w).Encode(out)
}

// orDefault returns v or def when v is empty.
func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
