package words

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]string{" Crane", "slate", "CRANE", "cranes", "cr4ne", "", "trace\r"})
	assert.Equal(t, []string{"crane", "slate", "trace"}, got)
}

func TestParsePastWords(t *testing.T) {
	got, err := ParsePastWords(strings.NewReader("cigar|rebut| sissy\nhumph|\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cigar", "rebut", " sissy", "humph"}, got)
	assert.Equal(t, []string{"cigar", "rebut", "sissy", "humph"}, Normalize(got))
}

func TestCatalogDictionary(t *testing.T) {
	c := NewCatalog(
		[]string{"crane", "slate", "cigar", "trace", "rebut"},
		[]string{"cigar", "rebut", "zzzzz"},
	)
	assert.Equal(t, 5, c.Total())
	assert.Equal(t, 3, c.PastCount())

	all := c.Dictionary(false)
	assert.Equal(t, 5, all.Len())
	assert.False(t, all.Excluding())
	assert.Equal(t, "5 words from 5 (all words included)", all.Info())

	fresh := c.Dictionary(true)
	assert.Equal(t, []string{"crane", "slate", "trace"}, fresh.Words())
	assert.Equal(t, 2, fresh.Excluded())
	assert.True(t, fresh.Contains("SLATE"))
	assert.False(t, fresh.Contains("cigar"))
	assert.Equal(t, "3 words (from 5 total, 2 past answers excluded)", fresh.Info())

	none := NewCatalog([]string{"crane"}, nil).Dictionary(true)
	assert.Equal(t, "1 words from 1 (no past answers found in list or to exclude)", none.Info())
}

func TestDictionaryWordsIsACopy(t *testing.T) {
	d := New([]string{"crane", "slate"})
	w := d.Words()
	w[0] = "zzzzz"
	assert.Equal(t, []string{"crane", "slate"}, d.Words())
}

func TestDictionaryRandom(t *testing.T) {
	d := New([]string{"crane", "slate", "trace"})
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		assert.True(t, d.Contains(d.Random(rnd)))
	}
	assert.Equal(t, "", New(nil).Random(rnd))
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	wordsPath := filepath.Join(dir, "words.txt")
	pastPath := filepath.Join(dir, "past.txt")
	require.NoError(t, os.WriteFile(wordsPath, []byte("# comment\ncrane\nSlate\n\ntrace\nbad\n"), 0o644))
	require.NoError(t, os.WriteFile(pastPath, []byte("slate|cigar"), 0o644))

	c, err := Load(Options{WordsFile: wordsPath, PastWordsFile: pastPath})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Total())
	assert.Equal(t, []string{"crane", "trace"}, c.Dictionary(true).Words())
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(Options{
		WordsFile:     filepath.Join(dir, "missing.txt"),
		PastWordsFile: filepath.Join(dir, "missing-past.txt"),
	})
	require.NoError(t, err)
	assert.Greater(t, c.Total(), 100)
	assert.Zero(t, c.PastCount())
	assert.True(t, c.Dictionary(false).Contains("crane"))
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	c, err := Load(Options{})
	require.NoError(t, err)
	assert.Greater(t, c.PastCount(), 0)

	all, fresh := c.Dictionary(false), c.Dictionary(true)
	assert.Greater(t, all.Len(), fresh.Len())
	assert.True(t, all.Contains("crate"))
	assert.False(t, fresh.Contains("crate"))
}

func TestLoadEmptyList(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(p, []byte("# nothing\n"), 0o644))
	_, err := Load(Options{WordsFile: p})
	assert.ErrorIs(t, err, ErrEmpty)
}
