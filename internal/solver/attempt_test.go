package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptSolves(t *testing.T) {
	a := NewAttempt([]string{"crane", "slate", "trace", "grape", "crate"}, 0)
	assert.Equal(t, InProgress, a.Status())
	assert.Equal(t, MaxGuesses, a.MaxGuesses())
	assert.Equal(t, 1, a.GuessNumber())

	a, err := a.Submit("CRANE", Score("crane", "crate"))
	require.NoError(t, err)
	assert.Equal(t, InProgress, a.Status())
	assert.Equal(t, []string{"crate"}, a.Candidates())

	r := NewSeededRanker(1)
	next, ok := a.Suggest(r)
	require.True(t, ok)
	assert.Equal(t, "crate", next)

	a, err = a.Submit(next, Score(next, "crate"))
	require.NoError(t, err)
	assert.Equal(t, Solved, a.Status())
	assert.True(t, a.Status().Terminal())
	last, _ := a.LastGuess()
	assert.Equal(t, "crate", last)

	_, ok = a.Suggest(r)
	assert.False(t, ok)

	_, err = a.Submit("slate", Feedback{})
	assert.ErrorIs(t, err, ErrAttemptOver)
}

func TestAttemptExhausts(t *testing.T) {
	a := NewAttempt(sampleWords, 3)
	var err error
	for i, g := range []string{"audio", "table", "stool"} {
		require.Equal(t, InProgress, a.Status(), "turn %d", i+1)
		a, err = a.Submit(g, Score(g, "crate"))
		require.NoError(t, err)
	}
	assert.Equal(t, Exhausted, a.Status())
	assert.Contains(t, a.Candidates(), "crate")
	assert.Len(t, a.Turns(), 3)

	_, err = a.Submit("crate", Score("crate", "crate"))
	assert.ErrorIs(t, err, ErrAttemptOver)
}

func TestAttemptSolvedOnLastGuess(t *testing.T) {
	a := NewAttempt(sampleWords, 2)
	a, err := a.Submit("audio", Score("audio", "crate"))
	require.NoError(t, err)
	a, err = a.Submit("crate", Score("crate", "crate"))
	require.NoError(t, err)
	assert.Equal(t, Solved, a.Status())
}

func TestAttemptSubmitIsPure(t *testing.T) {
	start := NewAttempt(sampleWords, 0)
	one, err := start.Submit("crane", Score("crane", "plate"))
	require.NoError(t, err)

	assert.Equal(t, len(sampleWords), start.Remaining())
	assert.Empty(t, start.Turns())
	assert.Equal(t, Knowledge{}, start.Knowledge())

	// Branching from the same value does not leak between branches.
	a, err := one.Submit("slate", Score("slate", "plate"))
	require.NoError(t, err)
	b, err := one.Submit("table", Score("table", "plate"))
	require.NoError(t, err)
	assert.Len(t, one.Turns(), 1)
	assert.Equal(t, "slate", a.Turns()[1].Guess)
	assert.Equal(t, "table", b.Turns()[1].Guess)
}

func TestAttemptRejectsBadInputWithoutChange(t *testing.T) {
	a := NewAttempt(sampleWords, 0)
	got, err := a.Submit("cr@ne", Feedback{})
	assert.ErrorIs(t, err, ErrMalformedGuess)
	assert.Equal(t, 1, got.GuessNumber())

	a, err = a.Submit("crane", mustFeedback(t, "GXXXX"))
	require.NoError(t, err)
	got, err = a.Submit("slate", mustFeedback(t, "GXXXX"))
	assert.ErrorIs(t, err, ErrContradiction)
	assert.Equal(t, a.Turns(), got.Turns())
	assert.Equal(t, a.Remaining(), got.Remaining())
}

func TestAttemptDisplayHelpers(t *testing.T) {
	a := NewAttempt(sampleWords, 0)
	a, err := a.Submit("crane", Score("crane", "trace"))
	require.NoError(t, err)

	k := a.Knowledge()
	assert.Equal(t, "_RA_E", k.Pattern())
	assert.Equal(t, []string{"c"}, k.PresentLetters())
	assert.Equal(t, []string{"n"}, k.AbsentLetters())

	sample := a.Sample(200)
	assert.IsNonDecreasing(t, sample)
	assert.ElementsMatch(t, a.Candidates(), sample)
}
