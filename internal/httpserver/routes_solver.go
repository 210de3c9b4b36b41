// internal/httpserver/routes_solver.go
//
// Solver endpoints.
//   - GET  /solver/state    → current attempt for this browser (created on demand)
//   - POST /solver/guess    → submit a guess and the G/Y/X feedback the game gave
//   - POST /solver/reset    → start over, optionally changing the past-answer setting
//   - POST /solver/suggest  → rank an arbitrary candidate list (stateless)
//   - POST /solver/narrow   → filter a candidate list by a guess history (stateless)
//
// /submit_guess and /reset_game are aliases used by the bundled web form.

package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle-solver/internal/history"
	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/store"
)

const sampleSize = 200

func (s *Server) mountSolver(r chi.Router) {
	r.Route("/solver", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/guess", s.handleGuess)
		r.Post("/reset", s.handleReset)
		r.Post("/suggest", s.handleSuggest)
		r.Post("/narrow", s.handleNarrow)
	})
	r.Post("/submit_guess", s.handleGuess)
	r.Post("/reset_game", s.handleReset)
}

// stateRes is the attempt as the web page renders it.
type stateRes struct {
	SuggestedGuess          string        `json:"suggested_guess"`
	PossibleWordsCount      int           `json:"possible_words_count"`
	PossibleWordsSample     []string      `json:"possible_words_sample"`
	GuessNumber             int           `json:"guess_number"`
	MaxGuesses              int           `json:"max_guesses"`
	KnownLettersDisplay     string        `json:"known_letters_display"`
	PresentLettersDisplay   string        `json:"present_letters_display"`
	AbsentLettersDisplay    string        `json:"absent_letters_display"`
	GameOver                bool          `json:"game_over"`
	Solved                  bool          `json:"solved"`
	Status                  string        `json:"status"`
	ExcludePastWordsSetting bool          `json:"exclude_past_words_setting"`
	WordListInfo            string        `json:"word_list_info"`
	Turns                   []solver.Turn `json:"turns"`
	FinalGuess              string        `json:"final_guess,omitempty"`
	Error                   string        `json:"error,omitempty"`
	Message                 string        `json:"message,omitempty"`
}

func (s *Server) stateOf(sess store.Session) stateRes {
	a := sess.Attempt
	k := a.Knowledge()
	res := stateRes{
		SuggestedGuess:          "N/A",
		PossibleWordsCount:      a.Remaining(),
		PossibleWordsSample:     a.Sample(sampleSize),
		GuessNumber:             a.GuessNumber(),
		MaxGuesses:              a.MaxGuesses(),
		KnownLettersDisplay:     k.Pattern(),
		PresentLettersDisplay:   joinOrNone(k.PresentLetters()),
		AbsentLettersDisplay:    joinOrNone(k.AbsentLetters()),
		GameOver:                a.Status().Terminal(),
		Solved:                  a.Status() == solver.Solved,
		Status:                  a.Status().String(),
		ExcludePastWordsSetting: sess.ExcludePast,
		WordListInfo:            sess.WordInfo,
		Turns:                   a.Turns(),
	}
	if res.PossibleWordsSample == nil {
		res.PossibleWordsSample = []string{}
	}
	if g, ok := a.Suggest(s.ranker); ok {
		res.SuggestedGuess = strings.ToUpper(g)
	}
	return res
}

func joinOrNone(letters []string) string {
	if len(letters) == 0 {
		return "None"
	}
	return strings.Join(letters, ", ")
}

// newSession starts a fresh attempt for id.
func (s *Server) newSession(id string, excludePast bool) store.Session {
	dict := s.catalog.Dictionary(excludePast)
	now := s.now()
	return store.Session{
		ID:          id,
		ExcludePast: excludePast,
		WordInfo:    dict.Info(),
		Attempt:     solver.NewAttempt(dict.Words(), s.cfg.MaxGuesses),
		StartedAt:   now,
		UpdatedAt:   now,
	}
}

// loadSession returns the browser's session, creating it on first use.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (store.Session, error) {
	id := s.ensureAnonID(w, r)
	sess, err := s.sessions.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		sess = s.newSession(id, s.cfg.ExcludePast)
		err = s.sessions.Save(r.Context(), sess)
	}
	return sess, err
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(w, r)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load session")
		writeError(w, http.StatusInternalServerError, "session_failed")
		return
	}
	writeJSON(w, http.StatusOK, s.stateOf(sess))
}

type guessReq struct {
	Guess    string `json:"guess"`
	Feedback string `json:"feedback"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	sess, err := s.loadSession(w, r)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load session")
		writeError(w, http.StatusInternalServerError, "session_failed")
		return
	}

	fail := func(status int, msg string) {
		res := s.stateOf(sess)
		res.Error = msg
		writeJSON(w, status, res)
	}
	if sess.Attempt.Status().Terminal() {
		fail(http.StatusConflict, "Game is over.")
		return
	}
	guess, err := solver.NormalizeGuess(req.Guess)
	if err != nil {
		fail(http.StatusBadRequest, "Invalid guess.")
		return
	}
	fb, err := solver.ParseFeedback(req.Feedback)
	if err != nil {
		fail(http.StatusBadRequest, "Invalid feedback string.")
		return
	}

	next, err := sess.Attempt.Submit(guess, fb)
	switch {
	case errors.Is(err, solver.ErrContradiction):
		fail(http.StatusConflict, "Feedback contradicts an earlier guess.")
		return
	case errors.Is(err, solver.ErrAttemptOver):
		fail(http.StatusConflict, "Game is over.")
		return
	case err != nil:
		fail(http.StatusBadRequest, err.Error())
		return
	}

	sess.Attempt = next
	sess.UpdatedAt = s.now()
	if next.Status().Terminal() && !sess.Recorded {
		sess.Recorded = s.recordAttempt(r, sess)
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	res := s.stateOf(sess)
	switch {
	case next.Status() == solver.Solved:
		res.Message = "Congratulations! You found the word: " + strings.ToUpper(guess)
		res.FinalGuess = strings.ToUpper(guess)
	case next.Remaining() == 0:
		res.Error = "No possible words left. Check feedback or word not in list."
	}
	writeJSON(w, http.StatusOK, res)
}

// recordAttempt writes a finished attempt to history. Failures are logged and
// reported as not recorded.
func (s *Server) recordAttempt(r *http.Request, sess store.Session) bool {
	if s.history == nil {
		return false
	}
	a := sess.Attempt
	rec := history.Record{
		ID:          uuid.NewString(),
		Owner:       history.Owner{AnonID: sess.ID},
		StartedAt:   sess.StartedAt,
		FinishedAt:  sess.UpdatedAt,
		Status:      a.Status().String(),
		Guesses:     len(a.Turns()),
		ExcludePast: sess.ExcludePast,
		Turns:       a.Turns(),
	}
	if me := currentUser(r.Context()); me != nil {
		rec.Owner = history.Owner{UserID: me.ID}
	}
	if a.Status() == solver.Solved {
		rec.FinalWord, _ = a.LastGuess()
	}
	if err := s.history.RecordAttempt(r.Context(), rec); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("attempt", rec.ID).Msg("record attempt")
		return false
	}
	return true
}

type resetReq struct {
	ExcludePastWords *bool `json:"exclude_past_words"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	exclude := s.cfg.ExcludePast
	if req.ExcludePastWords != nil {
		exclude = *req.ExcludePastWords
	}
	sess := s.newSession(s.ensureAnonID(w, r), exclude)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	res := s.stateOf(sess)
	res.Message = "Game reset and settings applied."
	writeJSON(w, http.StatusOK, res)
}

// ---------------------------- stateless helpers -----------------------------

type suggestReq struct {
	Candidates []string `json:"candidates"`
	Limit      int      `json:"limit"`
}

type suggestRes struct {
	Suggestion string          `json:"suggestion,omitempty"`
	Count      int             `json:"count"`
	Ranked     []solver.Scored `json:"ranked"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	cands, err := normalizeAll(req.Candidates)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	ranked := solver.Rank(cands)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		ranked = []solver.Scored{}
	}
	res := suggestRes{Count: len(cands), Ranked: ranked}
	res.Suggestion, _ = s.ranker.Suggest(cands)
	writeJSON(w, http.StatusOK, res)
}

type narrowReq struct {
	Candidates       []string   `json:"candidates"`
	ExcludePastWords *bool      `json:"exclude_past_words"`
	Guesses          []guessReq `json:"guesses"`
}

type narrowRes struct {
	Candidates     []string `json:"candidates"`
	Count          int      `json:"count"`
	Pattern        string   `json:"known_letters_display"`
	Present        []string `json:"present_letters"`
	Absent         []string `json:"absent_letters"`
	SuggestedGuess string   `json:"suggested_guess,omitempty"`
}

func (s *Server) handleNarrow(w http.ResponseWriter, r *http.Request) {
	var req narrowReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	var cands []string
	if req.Candidates == nil {
		exclude := s.cfg.ExcludePast
		if req.ExcludePastWords != nil {
			exclude = *req.ExcludePastWords
		}
		cands = s.catalog.Dictionary(exclude).Words()
	} else {
		var err error
		if cands, err = normalizeAll(req.Candidates); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var k solver.Knowledge
	for i, g := range req.Guesses {
		fb, err := solver.ParseFeedback(g.Feedback)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid feedback string.", "index": i})
			return
		}
		cands, k, err = solver.Narrow(cands, k, strings.ToLower(strings.TrimSpace(g.Guess)), fb)
		switch {
		case errors.Is(err, solver.ErrContradiction):
			writeJSON(w, http.StatusConflict, map[string]any{"error": "Feedback contradicts an earlier guess.", "index": i})
			return
		case err != nil:
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid guess.", "index": i})
			return
		}
	}

	res := narrowRes{
		Candidates: cands,
		Count:      len(cands),
		Pattern:    k.Pattern(),
		Present:    k.PresentLetters(),
		Absent:     k.AbsentLetters(),
	}
	if res.Candidates == nil {
		res.Candidates = []string{}
	}
	res.SuggestedGuess, _ = s.ranker.Suggest(cands)
	writeJSON(w, http.StatusOK, res)
}

// normalizeAll lowercases and validates every word of list.
func normalizeAll(list []string) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, w := range list {
		n, err := solver.NormalizeGuess(w)
		if err != nil {
			return nil, errors.New("invalid candidate " + `"` + w + `"`)
		}
		out = append(out, n)
	}
	return out, nil
}
