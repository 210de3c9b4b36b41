// internal/words/words.go
//
// Word list management for the solver.
//
// Responsibilities:
//   - Load the dictionary from a configured file or fall back to the embedded default.
//   - Load previously used answers (pipe-separated) for optional exclusion.
//   - Build immutable Dictionary values; there is no package-level word list.
//
// Sources (Load):
//   1. Options.WordsFile, if set and readable.
//   2. Otherwise the embedded assets/words.txt (a missing configured file is
//      logged and falls back here).
//   Past answers follow the same rule with Options.PastWordsFile and
//   assets/past_used_words.txt; if neither can be read the set is empty.
//
// Constraints:
//   • Words must be 5 alphabetic letters (a–z).
//   • Lists are normalized to lowercase and de-duplicated, first occurrence wins.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solver/assets"
	"github.com/robalobadob/wordle-solver/internal/solver"
)

var ErrEmpty = errors.New("words: dictionary is empty")

// Options selects the word list sources. Empty paths use the embedded defaults.
type Options struct {
	WordsFile     string
	PastWordsFile string
}

// Catalog is the full word list plus the set of past answers. Dictionaries for a
// single attempt are built from it.
type Catalog struct {
	all  []string
	past map[string]struct{}
}

// Load reads the catalog described by opts.
func Load(opts Options) (*Catalog, error) {
	all, err := loadWords(opts.WordsFile)
	if err != nil {
		return nil, err
	}
	past := loadPast(opts.PastWordsFile)
	c := NewCatalog(all, past)
	if len(c.all) == 0 {
		return nil, ErrEmpty
	}
	log.Debug().Int("words", len(c.all)).Int("past", len(c.past)).Msg("word lists loaded")
	return c, nil
}

// NewCatalog builds a catalog from in-memory lists. Both are normalized.
func NewCatalog(all, past []string) *Catalog {
	return &Catalog{all: Normalize(all), past: toSet(Normalize(past))}
}

func loadWords(path string) ([]string, error) {
	if path != "" {
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			return readLines(f)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		log.Warn().Str("file", path).Msg("word list not found, using embedded list")
	}
	rc, err := assets.Words()
	if err != nil {
		return nil, fmt.Errorf("embedded words: %w", err)
	}
	defer rc.Close()
	return readLines(rc)
}

func loadPast(path string) []string {
	var (
		rc  io.ReadCloser
		err error
	)
	if path != "" {
		if rc, err = os.Open(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("past words unavailable, none will be excluded")
			return nil
		}
	} else if rc, err = assets.PastWords(); err != nil {
		return nil
	}
	defer rc.Close()
	past, err := ParsePastWords(rc)
	if err != nil {
		log.Warn().Err(err).Msg("read past words")
		return nil
	}
	return past
}

// readLines returns the non-empty, non-comment lines of r.
func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// ParsePastWords splits r on '|' and newlines.
func ParsePastWords(r io.Reader) ([]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return strings.FieldsFunc(string(b), func(c rune) bool {
		return c == '|' || c == '\n' || c == '\r'
	}), nil
}

// Normalize lowercases and trims each entry, keeps only valid words and drops
// duplicates.
func Normalize(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		w := strings.ToLower(strings.TrimSpace(s))
		if !solver.IsWord(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// Total is the size of the full word list.
func (c *Catalog) Total() int { return len(c.all) }

// PastCount is the number of known past answers.
func (c *Catalog) PastCount() int { return len(c.past) }

// Dictionary builds the candidate source for one attempt, optionally without
// past answers.
func (c *Catalog) Dictionary(excludePast bool) *Dictionary {
	d := &Dictionary{total: len(c.all), excluding: excludePast}
	for _, w := range c.all {
		if excludePast {
			if _, used := c.past[w]; used {
				d.excluded++
				continue
			}
		}
		d.words = append(d.words, w)
	}
	d.set = toSet(d.words)
	return d
}

// Dictionary is an immutable, de-duplicated list of valid words.
type Dictionary struct {
	words     []string
	set       map[string]struct{}
	total     int
	excluded  int
	excluding bool
}

// New builds a standalone dictionary from list.
func New(list []string) *Dictionary {
	return NewCatalog(list, nil).Dictionary(false)
}

// Words returns a copy of the dictionary words in load order.
func (d *Dictionary) Words() []string {
	return append([]string(nil), d.words...)
}

// Len is the number of words.
func (d *Dictionary) Len() int { return len(d.words) }

// Contains reports whether w (case-insensitive) is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[strings.ToLower(strings.TrimSpace(w))]
	return ok
}

// Excluding reports whether past answers were removed.
func (d *Dictionary) Excluding() bool { return d.excluding }

// Excluded is the number of past answers removed.
func (d *Dictionary) Excluded() int { return d.excluded }

// Random returns a uniformly chosen word, or "" when empty.
func (d *Dictionary) Random(rnd *rand.Rand) string {
	if len(d.words) == 0 {
		return ""
	}
	return d.words[rnd.Intn(len(d.words))]
}

// Info describes the list, e.g. "2309 words (from 2315 total, 6 past answers excluded)".
func (d *Dictionary) Info() string {
	n := len(d.words)
	switch {
	case !d.excluding:
		return fmt.Sprintf("%d words from %d (all words included)", n, d.total)
	case d.excluded > 0:
		return fmt.Sprintf("%d words (from %d total, %d past answers excluded)", n, d.total, d.excluded)
	default:
		return fmt.Sprintf("%d words from %d (no past answers found in list or to exclude)", n, d.total)
	}
}
