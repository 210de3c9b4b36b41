// internal/httpserver/routes_simulate.go
//
// POST /simulate autoplays the solver against a known solution. Without a
// solution it plays the word of the day, chosen deterministically from the
// date and DAILY_SALT, or a random word when "random" is set.

package httpserver

import (
	"errors"
	"math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle-solver/internal/daily"
	"github.com/robalobadob/wordle-solver/internal/simulate"
	"github.com/robalobadob/wordle-solver/internal/solver"
)

type simulateReq struct {
	Solution         string `json:"solution"`
	ExcludePastWords *bool  `json:"exclude_past_words"`
	Random           bool   `json:"random"`
}

type simulateRes struct {
	simulate.Result
	Guesses int    `json:"guesses"`
	Date    string `json:"date,omitempty"` // set when the daily word was used
	// ExcludePastWords reports which word list the attempt ran over.
	ExcludePastWords bool `json:"exclude_past_words"`
}

func (s *Server) mountSimulate(r chi.Router) {
	r.Post("/simulate", s.handleSimulate)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	exclude := s.cfg.ExcludePast
	if req.ExcludePastWords != nil {
		exclude = *req.ExcludePastWords
	}
	dict := s.catalog.Dictionary(exclude)

	res := simulateRes{ExcludePastWords: dict.Excluding()}
	solution := req.Solution
	switch {
	case solution != "":
	case req.Random:
		solution = dict.Random(rand.New(rand.NewSource(s.now().UnixNano())))
	default:
		now := s.now()
		solution = daily.Solution(now, s.cfg.DailySalt, dict.Words())
		res.Date = daily.DateKey(now)
	}

	out, err := simulate.Play(r.Context(), dict, solution, s.ranker, s.cfg.MaxGuesses)
	switch {
	case errors.Is(err, solver.ErrMalformedGuess):
		writeError(w, http.StatusBadRequest, "Invalid solution.")
		return
	case errors.Is(err, simulate.ErrNotInDictionary):
		writeError(w, http.StatusBadRequest, "Solution is not in the word list.")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("solution", solution).Msg("simulate")
		writeError(w, http.StatusInternalServerError, "simulate_failed")
		return
	}
	res.Result = out
	res.Guesses = out.Guesses()
	writeJSON(w, http.StatusOK, res)
}
