package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestEndgame(t *testing.T) {
	r := NewSeededRanker(1)

	_, ok := r.Suggest(nil)
	assert.False(t, ok, "empty set has no suggestion")

	got, ok := r.Suggest([]string{"crate"})
	require.True(t, ok)
	assert.Equal(t, "crate", got)

	pair := []string{"crate", "grate"}
	for i := 0; i < 50; i++ {
		got, ok := r.Suggest(pair)
		require.True(t, ok)
		assert.Contains(t, pair, got)
	}
}

func TestRankScores(t *testing.T) {
	ranked := Rank([]string{"xyzzz", "abcde", "abcdf"})
	require.Len(t, ranked, 3)

	assert.Equal(t, "abcde", ranked[0].Word, "ties keep input order")
	assert.Equal(t, "abcdf", ranked[1].Word)
	assert.Equal(t, "xyzzz", ranked[2].Word)

	assert.InDelta(t, 7.0, ranked[0].Score, 1e-9)
	assert.InDelta(t, 7.0, ranked[1].Score, 1e-9)
	assert.InDelta(t, 5.0/3+1+0.6, ranked[2].Score, 1e-9)

	assert.Nil(t, Rank(nil))
}

func TestSuggestSmallSetIsDeterministic(t *testing.T) {
	cands := []string{"xyzzz", "abcde", "abcdf"}
	for seed := int64(0); seed < 10; seed++ {
		got, ok := NewSeededRanker(seed).Suggest(cands)
		require.True(t, ok)
		assert.Equal(t, "abcde", got)
	}
}

func TestSuggestLargeSetPicksFromTopThree(t *testing.T) {
	require.Greater(t, len(sampleWords), 10)
	top := Rank(sampleWords)[:3]
	var topWords []string
	for _, s := range top {
		topWords = append(topWords, s.Word)
	}

	r := NewSeededRanker(42)
	for i := 0; i < 100; i++ {
		got, ok := r.Suggest(sampleWords)
		require.True(t, ok)
		assert.Contains(t, topWords, got)
	}
}

func TestSuggestSeedReproducible(t *testing.T) {
	a, b := NewSeededRanker(7), NewSeededRanker(7)
	for i := 0; i < 20; i++ {
		x, _ := a.Suggest(sampleWords)
		y, _ := b.Suggest(sampleWords)
		assert.Equal(t, x, y)
	}
}

func TestOpening(t *testing.T) {
	r := NewSeededRanker(3)
	for i := 0; i < 20; i++ {
		got, ok := r.Opening(sampleWords)
		require.True(t, ok)
		assert.Contains(t, []string{"crane", "slate", "soare", "adieu", "trace"}, got)
	}

	noStarters := []string{"xyzzz", "abcde", "abcdf"}
	got, ok := r.Opening(noStarters)
	require.True(t, ok)
	assert.Equal(t, "abcde", got)

	r = NewSeededRanker(3).WithStarters([]string{"ocean"})
	got, ok = r.Opening(sampleWords)
	require.True(t, ok)
	assert.Equal(t, "ocean", got)

	_, ok = r.Opening(nil)
	assert.False(t, ok)
}

func TestSuggestRejectsMalformedCandidates(t *testing.T) {
	r := NewSeededRanker(1)
	for _, cands := range [][]string{
		{"CRANE", "SLATE", "TRACE"},
		{"ab", "cd", "ef"},
		{"crane", "sl@te"},
		{"CRANE"},
	} {
		got, ok := r.Suggest(cands)
		assert.False(t, ok, "%v", cands)
		assert.Empty(t, got)

		_, ok = r.Opening(cands)
		assert.False(t, ok, "%v", cands)
	}
}

func TestRankSkipsMalformedCandidates(t *testing.T) {
	ranked := Rank([]string{"ab", "abcde", "CRANE", "xyzzz", "abcdf"})
	require.Len(t, ranked, 3)
	assert.Equal(t, "abcde", ranked[0].Word)
	assert.InDelta(t, 7.0, ranked[0].Score, 1e-9)

	assert.Empty(t, Rank([]string{"ab", "cd"}))
}
