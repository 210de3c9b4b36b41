// internal/solver/attempt.go
//
// One play-through of a puzzle, from the first guess to Solved or Exhausted.
//
// An Attempt is an immutable value: Submit returns the next Attempt and leaves
// the receiver untouched, so a caller can keep earlier turns around (undo,
// what-if) and independent attempts never share state.
//
// State transitions:
//   - all-Correct feedback      → Solved (no further filtering).
//   - maxGuesses turns, unsolved → Exhausted.
//   - otherwise                  → InProgress with narrowed candidates.

package solver

import (
	"sort"
)

// Status is the coarse state of an attempt.
type Status int

const (
	InProgress Status = iota
	Solved
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	default:
		return "in_progress"
	}
}

// Terminal reports whether no further guesses are accepted.
func (s Status) Terminal() bool { return s != InProgress }

// Turn records one submitted guess.
type Turn struct {
	Guess     string   `json:"guess"`
	Feedback  Feedback `json:"feedback"`
	Remaining int      `json:"remaining"` // candidates left after this turn
}

// Attempt is the solver state for one puzzle.
type Attempt struct {
	candidates []string
	knowledge  Knowledge
	turns      []Turn
	status     Status
	maxGuesses int
}

// NewAttempt starts an attempt over the given candidates. A maxGuesses <= 0
// uses MaxGuesses. The candidate slice is copied.
func NewAttempt(candidates []string, maxGuesses int) Attempt {
	if maxGuesses <= 0 {
		maxGuesses = MaxGuesses
	}
	return Attempt{
		candidates: append([]string(nil), candidates...),
		maxGuesses: maxGuesses,
	}
}

// Submit applies a guess and the feedback the game gave for it.
//
// Validation happens before any state changes: a malformed guess or feedback,
// contradictory feedback, or a finished attempt returns the receiver unchanged
// together with the error.
func (a Attempt) Submit(guess string, fb Feedback) (Attempt, error) {
	if a.status.Terminal() {
		return a, ErrAttemptOver
	}
	g, err := NormalizeGuess(guess)
	if err != nil {
		return a, err
	}

	next := a
	next.turns = make([]Turn, len(a.turns), len(a.turns)+1)
	copy(next.turns, a.turns)

	if fb.Solved() {
		next.status = Solved
		next.candidates = []string{g}
		next.turns = append(next.turns, Turn{Guess: g, Feedback: fb, Remaining: 1})
		return next, nil
	}

	cands, k, err := Narrow(a.candidates, a.knowledge, g, fb)
	if err != nil {
		return a, err
	}
	next.candidates = cands
	next.knowledge = k
	next.turns = append(next.turns, Turn{Guess: g, Feedback: fb, Remaining: len(cands)})
	if len(next.turns) >= next.maxGuesses {
		next.status = Exhausted
	}
	return next, nil
}

// Suggest proposes the next guess: a starter word on the first turn, the
// ranker's pick afterwards. Finished or empty attempts have no suggestion.
func (a Attempt) Suggest(r *Ranker) (string, bool) {
	if a.status.Terminal() {
		return "", false
	}
	if len(a.turns) == 0 {
		return r.Opening(a.candidates)
	}
	return r.Suggest(a.candidates)
}

// Status returns the attempt state.
func (a Attempt) Status() Status { return a.status }

// Knowledge returns the accumulated constraints.
func (a Attempt) Knowledge() Knowledge { return a.knowledge }

// GuessNumber is the 1-based number of the next guess.
func (a Attempt) GuessNumber() int { return len(a.turns) + 1 }

// MaxGuesses returns the guess limit of the attempt.
func (a Attempt) MaxGuesses() int { return a.maxGuesses }

// Remaining returns the number of candidates still consistent with all feedback.
func (a Attempt) Remaining() int { return len(a.candidates) }

// Candidates returns a copy of the remaining candidates.
func (a Attempt) Candidates() []string {
	return append([]string(nil), a.candidates...)
}

// Sample returns up to n remaining candidates, taken from the front of the
// candidate list and sorted alphabetically.
func (a Attempt) Sample(n int) []string {
	if n > len(a.candidates) || n < 0 {
		n = len(a.candidates)
	}
	out := append([]string(nil), a.candidates[:n]...)
	sort.Strings(out)
	return out
}

// Turns returns a copy of the submitted turns.
func (a Attempt) Turns() []Turn {
	return append([]Turn(nil), a.turns...)
}

// LastGuess returns the most recent guess, if any.
func (a Attempt) LastGuess() (string, bool) {
	if len(a.turns) == 0 {
		return "", false
	}
	return a.turns[len(a.turns)-1].Guess, true
}
