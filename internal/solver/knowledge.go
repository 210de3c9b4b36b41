package solver

import (
	"fmt"
	"strings"
)

// Knowledge accumulates the deductions from every guess of one attempt.
//
// It is a plain value: arrays only, no maps or slices, so assigning or passing a
// Knowledge copies it and Apply never changes the receiver. The zero value is the
// empty knowledge of a fresh attempt.
type Knowledge struct {
	fixed    [WordLength]byte   // 0 = position not yet confirmed
	excluded [WordLength]uint32 // bit i set = letter 'a'+i known wrong at this position
	minCount [alphabetSize]uint8
	exact    [alphabetSize]uint8
	hasExact uint32 // bit i set = exact[i] is binding
}

// Apply derives the constraints of one (guess, feedback) pair and returns the
// updated knowledge. On error the receiver is returned unchanged.
func (k Knowledge) Apply(guess string, fb Feedback) (Knowledge, error) {
	if !IsWord(guess) {
		return k, ErrMalformedGuess
	}
	next := k

	for i := 0; i < WordLength; i++ {
		c := guess[i]
		switch fb[i] {
		case Correct:
			if f := next.fixed[i]; f != 0 && f != c {
				return k, fmt.Errorf("%w: position %d is %q, not %q", ErrContradiction, i+1, f, c)
			}
			next.fixed[i] = c
		case Present:
			next.excluded[i] |= 1 << idx(c)
		}
	}

	var nonAbsent, absent [alphabetSize]uint8
	for i := 0; i < WordLength; i++ {
		if fb[i] == Absent {
			absent[idx(guess[i])]++
		} else {
			nonAbsent[idx(guess[i])]++
		}
	}

	for l := 0; l < alphabetSize; l++ {
		pos, neg := nonAbsent[l], absent[l]
		letter := byte('a' + l)
		switch {
		case pos == 0 && neg == 0:
			continue
		case neg > 0 && pos == 0:
			// Every copy came back gray: the letter is not in the solution.
			if next.minCount[l] > 0 {
				return k, fmt.Errorf("%w: %q was confirmed present earlier", ErrContradiction, letter)
			}
			if err := next.setExact(l, 0); err != nil {
				return k, err
			}
		case neg > 0:
			// Mixed tags on a repeated letter pin its count.
			next.raiseMin(l, pos)
			if err := next.setExact(l, pos); err != nil {
				return k, err
			}
		default:
			next.raiseMin(l, pos)
		}
		if next.hasExact&(1<<l) != 0 && next.minCount[l] > next.exact[l] {
			return k, fmt.Errorf("%w: %q needs %d copies but exactly %d allowed",
				ErrContradiction, letter, next.minCount[l], next.exact[l])
		}
	}
	return next, nil
}

func (k *Knowledge) raiseMin(l int, n uint8) {
	if n > k.minCount[l] {
		k.minCount[l] = n
	}
}

// setExact records the exact count of letter l. A second, different exact count
// for the same letter is a contradiction rather than an overwrite.
func (k *Knowledge) setExact(l int, n uint8) error {
	if k.hasExact&(1<<l) != 0 {
		if k.exact[l] != n {
			return fmt.Errorf("%w: %q count was %d, now %d", ErrContradiction, byte('a'+l), k.exact[l], n)
		}
		return nil
	}
	k.exact[l] = n
	k.hasExact |= 1 << l
	return nil
}

// Allows reports whether word w satisfies every constraint in k.
// w must already be a valid word.
func (k Knowledge) Allows(w string) bool {
	var counts [alphabetSize]uint8
	for i := 0; i < WordLength; i++ {
		c := w[i]
		if f := k.fixed[i]; f != 0 && c != f {
			return false
		}
		if k.excluded[i]&(1<<idx(c)) != 0 {
			return false
		}
		counts[idx(c)]++
	}
	for l := 0; l < alphabetSize; l++ {
		if k.hasExact&(1<<l) != 0 {
			if counts[l] != k.exact[l] {
				return false
			}
			continue
		}
		if counts[l] < k.minCount[l] {
			return false
		}
	}
	return true
}

// Fixed returns the confirmed letter at position i (0-based), if any.
func (k Knowledge) Fixed(i int) (byte, bool) {
	if i < 0 || i >= WordLength || k.fixed[i] == 0 {
		return 0, false
	}
	return k.fixed[i], true
}

// ExcludedAt returns the letters known to be wrong at position i, sorted.
func (k Knowledge) ExcludedAt(i int) []byte {
	if i < 0 || i >= WordLength {
		return nil
	}
	var out []byte
	for l := 0; l < alphabetSize; l++ {
		if k.excluded[i]&(1<<l) != 0 {
			out = append(out, byte('a'+l))
		}
	}
	return out
}

// MinCount returns the minimum number of copies of letter c the solution has.
func (k Knowledge) MinCount(c byte) int {
	if c < 'a' || c > 'z' {
		return 0
	}
	return int(k.minCount[idx(c)])
}

// ExactCount returns the exact number of copies of letter c, when known.
func (k Knowledge) ExactCount(c byte) (int, bool) {
	if c < 'a' || c > 'z' {
		return 0, false
	}
	l := idx(c)
	if k.hasExact&(1<<l) == 0 {
		return 0, false
	}
	return int(k.exact[l]), true
}

// Pattern renders the confirmed positions, e.g. "CR__E".
func (k Knowledge) Pattern() string {
	var b strings.Builder
	for _, c := range k.fixed {
		if c == 0 {
			b.WriteByte('_')
			continue
		}
		b.WriteByte(c - 'a' + 'A')
	}
	return b.String()
}

// PresentLetters lists letters known to be in the solution whose required count
// is not yet fully accounted for by confirmed positions.
func (k Knowledge) PresentLetters() []string {
	var placed [alphabetSize]uint8
	for _, c := range k.fixed {
		if c != 0 {
			placed[idx(c)]++
		}
	}
	var out []string
	for l := 0; l < alphabetSize; l++ {
		if k.minCount[l] > placed[l] {
			out = append(out, string(rune('a'+l)))
		}
	}
	return out
}

// AbsentLetters lists letters known not to be in the solution at all.
func (k Knowledge) AbsentLetters() []string {
	var out []string
	for l := 0; l < alphabetSize; l++ {
		if k.hasExact&(1<<l) != 0 && k.exact[l] == 0 {
			out = append(out, string(rune('a'+l)))
		}
	}
	return out
}
