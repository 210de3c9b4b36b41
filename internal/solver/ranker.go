package solver

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

const (
	uniquenessWeight = 0.2
	exploreAbove     = 10 // candidate count above which the pick is randomized
	exploreTop       = 3
)

// DefaultStarters are well-known opening words tried on the first guess when the
// dictionary contains them.
var DefaultStarters = []string{"crane", "slate", "soare", "adieu", "trace"}

// Scored is a candidate with its frequency score.
type Scored struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// Ranker picks the next guess from a candidate set.
//
// Scoring is a greedy letter-frequency heuristic, not an expected-information
// search: words built from letters and positions common across the remaining
// candidates score highest. Random choices come from the injected source, so a
// fixed seed makes every suggestion reproducible. A Ranker is safe for
// concurrent use.
type Ranker struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	starters []string
}

// NewRanker returns a Ranker drawing from src, or from a time-seeded source when
// src is nil.
func NewRanker(src rand.Source) *Ranker {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Ranker{rnd: rand.New(src), starters: DefaultStarters}
}

// NewSeededRanker is shorthand for NewRanker(rand.NewSource(seed)).
func NewSeededRanker(seed int64) *Ranker {
	return NewRanker(rand.NewSource(seed))
}

// WithStarters replaces the opening word list and returns r.
func (r *Ranker) WithStarters(words []string) *Ranker {
	r.starters = append([]string(nil), words...)
	return r
}

// Suggest returns the next guess to try, or false when candidates is empty or
// holds anything that is not a valid lowercase word.
//
//   - one candidate: it is the answer.
//   - two candidates: either one, at random; the next round settles it.
//   - otherwise the top scored candidate, or a random one of the top three when
//     more than ten candidates remain.
func (r *Ranker) Suggest(candidates []string) (string, bool) {
	if !allWords(candidates) {
		return "", false
	}
	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0], true
	case 2:
		return candidates[r.intn(2)], true
	}

	ranked := Rank(candidates)
	if len(candidates) > exploreAbove {
		n := exploreTop
		if len(ranked) < n {
			n = len(ranked)
		}
		return ranked[r.intn(n)].Word, true
	}
	return ranked[0].Word, true
}

// Opening returns a random starter word that is still a candidate, falling back
// to Suggest when none is.
func (r *Ranker) Opening(candidates []string) (string, bool) {
	if !allWords(candidates) {
		return "", false
	}
	in := make(map[string]struct{}, len(candidates))
	for _, w := range candidates {
		in[w] = struct{}{}
	}
	var valid []string
	for _, s := range r.starters {
		if _, ok := in[s]; ok {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return r.Suggest(candidates)
	}
	return valid[r.intn(len(valid))], true
}

func allWords(list []string) bool {
	for _, w := range list {
		if !IsWord(w) {
			return false
		}
	}
	return true
}

func (r *Ranker) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// Rank scores every candidate and returns them by descending score. Ties keep
// the input order. Entries that are not valid lowercase words are left out.
//
// For a candidate set of size n:
//
//	overall(l)       = candidates containing l at least once / n
//	positional(i, l) = candidates with l at position i / n
//	score(w)         = Σ positional(i, w[i]) + Σ_distinct overall(l) + 0.2 × distinct(w)
func Rank(candidates []string) []Scored {
	if !allWords(candidates) {
		valid := make([]string, 0, len(candidates))
		for _, w := range candidates {
			if IsWord(w) {
				valid = append(valid, w)
			}
		}
		candidates = valid
	}
	n := float64(len(candidates))
	if n == 0 {
		return nil
	}

	var overall [alphabetSize]int
	var positional [WordLength][alphabetSize]int
	for _, w := range candidates {
		var seen uint32
		for i := 0; i < WordLength; i++ {
			l := idx(w[i])
			positional[i][l]++
			if seen&(1<<l) == 0 {
				overall[l]++
				seen |= 1 << l
			}
		}
	}

	out := make([]Scored, len(candidates))
	for j, w := range candidates {
		var score float64
		var seen uint32
		distinct := 0
		for i := 0; i < WordLength; i++ {
			l := idx(w[i])
			score += float64(positional[i][l]) / n
			if seen&(1<<l) == 0 {
				score += float64(overall[l]) / n
				seen |= 1 << l
				distinct++
			}
		}
		score += uniquenessWeight * float64(distinct)
		out[j] = Scored{Word: w, Score: score}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}
