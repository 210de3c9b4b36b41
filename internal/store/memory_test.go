package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-solver/internal/solver"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, st.Save(ctx, Session{}))

	a := solver.NewAttempt([]string{"crane", "crate"}, 0)
	require.NoError(t, st.Save(ctx, Session{ID: "s1", Attempt: a, ExcludePast: true}))

	got, err := st.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.ExcludePast)
	assert.Equal(t, 2, got.Attempt.Remaining())
	assert.False(t, got.UpdatedAt.IsZero())

	// Advancing a fetched copy does not change the stored one.
	got.Attempt, err = got.Attempt.Submit("crane", solver.Score("crane", "crate"))
	require.NoError(t, err)
	again, _ := st.Get(ctx, "s1")
	assert.Equal(t, 1, again.Attempt.GuessNumber())

	require.NoError(t, st.Delete(ctx, "s1"))
	require.NoError(t, st.Delete(ctx, "s1"))
	assert.Zero(t, st.Len())
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			_ = st.Save(ctx, Session{ID: id})
			_, _ = st.Get(ctx, id)
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, st.Len())
}
