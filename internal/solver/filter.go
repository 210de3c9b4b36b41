// internal/solver/filter.go
//
// Candidate filtering.
// Responsibilities:
//   - Narrow: validate one (guess, feedback) pair, fold it into the knowledge and
//     keep only the candidates still consistent with it.
//   - Filter: the pure candidate check against an existing knowledge value.
//   - Score: honest feedback for (guess, solution), used to drive simulations.
//
// Nothing here mutates its inputs; callers can keep the previous candidate slice
// and knowledge around for what-if evaluation.

package solver

import "fmt"

// Filter returns the candidates allowed by k, in input order. A candidate that
// is not a valid lowercase word is rejected with ErrMalformedGuess.
// The returned slice never aliases candidates.
func Filter(candidates []string, k Knowledge) ([]string, error) {
	if err := checkCandidates(candidates); err != nil {
		return nil, err
	}
	return filter(candidates, k), nil
}

// Narrow applies one guess and its feedback to k and filters candidates by the
// result. Malformed input is rejected before anything is derived. An empty
// result is not an error: it signals contradictory feedback or a solution that
// is not in the dictionary, and the caller decides how to report it.
func Narrow(candidates []string, k Knowledge, guess string, fb Feedback) ([]string, Knowledge, error) {
	g, err := NormalizeGuess(guess)
	if err != nil {
		return nil, k, err
	}
	if err := checkCandidates(candidates); err != nil {
		return nil, k, err
	}
	next, err := k.Apply(g, fb)
	if err != nil {
		return nil, k, err
	}
	return filter(candidates, next), next, nil
}

func checkCandidates(candidates []string) error {
	for _, w := range candidates {
		if !IsWord(w) {
			return fmt.Errorf("candidate %q: %w", w, ErrMalformedGuess)
		}
	}
	return nil
}

// filter expects validated candidates.
func filter(candidates []string, k Knowledge) []string {
	out := make([]string, 0, len(candidates))
	for _, w := range candidates {
		if k.Allows(w) {
			out = append(out, w)
		}
	}
	return out
}

// Score implements the standard two-pass Wordle evaluation of guess against
// solution. Both must be valid words.
//
// Pass 1 marks exact matches Correct and counts the unmatched solution letters.
// Pass 2 marks each remaining guess letter Present while unmatched copies are
// left, Absent otherwise. This handles repeated letters on either side.
func Score(guess, solution string) Feedback {
	var fb Feedback
	var counts [alphabetSize]int

	for i := 0; i < WordLength; i++ {
		if guess[i] == solution[i] {
			fb[i] = Correct
		} else {
			counts[idx(solution[i])]++
		}
	}
	for i := 0; i < WordLength; i++ {
		if fb[i] == Correct {
			continue
		}
		j := idx(guess[i])
		if counts[j] > 0 {
			fb[i] = Present
			counts[j]--
		} else {
			fb[i] = Absent
		}
	}
	return fb
}
