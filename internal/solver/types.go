// internal/solver/types.go
//
// Core type definitions for the solver.
// Defines:
//   - Tag: per-letter feedback for a guess (correct/present/absent).
//   - Feedback: the five tags the game returned for one guess.
//   - Sentinel errors reported by the core.
//
// Feedback is encoded on the wire as five symbols:
//   G = correct (green), Y = present (yellow), X = absent (gray).

package solver

import (
	"errors"
	"strings"
)

const (
	// WordLength is the number of letters in every guess and candidate.
	WordLength = 5
	// MaxGuesses is the number of guesses a player gets per attempt.
	MaxGuesses = 6

	alphabetSize = 26
)

var (
	ErrMalformedGuess    = errors.New("solver: guess must be exactly 5 letters a-z")
	ErrMalformedFeedback = errors.New("solver: feedback must be exactly 5 of G, Y, X")
	ErrContradiction     = errors.New("solver: feedback contradicts earlier feedback")
	ErrAttemptOver       = errors.New("solver: attempt is already finished")
)

// Tag is the evaluation of a single letter of a guess.
type Tag uint8

const (
	Absent  Tag = iota // letter not in the solution (accounting for duplicates)
	Present            // letter in the solution, different position
	Correct            // letter in the solution at this position
)

// Symbol returns the G/Y/X encoding of t.
func (t Tag) Symbol() byte {
	switch t {
	case Correct:
		return 'G'
	case Present:
		return 'Y'
	default:
		return 'X'
	}
}

func (t Tag) String() string {
	switch t {
	case Correct:
		return "correct"
	case Present:
		return "present"
	default:
		return "absent"
	}
}

// Feedback holds one tag per letter position of a specific guess.
type Feedback [WordLength]Tag

// ParseFeedback decodes a G/Y/X string. Case and surrounding whitespace are ignored.
func ParseFeedback(s string) (Feedback, error) {
	var fb Feedback
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != WordLength {
		return fb, ErrMalformedFeedback
	}
	for i := 0; i < WordLength; i++ {
		switch s[i] {
		case 'G':
			fb[i] = Correct
		case 'Y':
			fb[i] = Present
		case 'X':
			fb[i] = Absent
		default:
			return Feedback{}, ErrMalformedFeedback
		}
	}
	return fb, nil
}

// String encodes fb as G/Y/X symbols.
func (fb Feedback) String() string {
	var b [WordLength]byte
	for i, t := range fb {
		b[i] = t.Symbol()
	}
	return string(b[:])
}

// MarshalText encodes fb as G/Y/X symbols.
func (fb Feedback) MarshalText() ([]byte, error) {
	return []byte(fb.String()), nil
}

// UnmarshalText decodes G/Y/X symbols into fb.
func (fb *Feedback) UnmarshalText(b []byte) error {
	parsed, err := ParseFeedback(string(b))
	if err != nil {
		return err
	}
	*fb = parsed
	return nil
}

// Solved reports whether every tag is Correct.
func (fb Feedback) Solved() bool {
	for _, t := range fb {
		if t != Correct {
			return false
		}
	}
	return true
}

// NormalizeGuess lowercases and trims s and checks it is a valid word.
func NormalizeGuess(s string) (string, error) {
	w := strings.ToLower(strings.TrimSpace(s))
	if !IsWord(w) {
		return "", ErrMalformedGuess
	}
	return w, nil
}

// IsWord reports whether w is exactly WordLength lowercase ASCII letters.
func IsWord(w string) bool {
	if len(w) != WordLength {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// idx maps a lowercase ASCII letter to 0..25.
func idx(c byte) int { return int(c - 'a') }
