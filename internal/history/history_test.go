package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-solver/internal/solver"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	u, err := s.CreateUser(ctx, "  player_1 ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "player_1", u.Username)
	assert.NotEmpty(t, u.ID)

	_, err = s.CreateUser(ctx, "PLAYER_1", "another pass")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	for _, bad := range [][2]string{{"ab", "longenough"}, {"bad name", "longenough"}, {"fine", "short"}} {
		_, err := s.CreateUser(ctx, bad[0], bad[1])
		assert.ErrorIs(t, err, ErrInvalidSignup, bad[0])
	}

	got, err := s.Authenticate(ctx, "Player_1", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Authenticate(ctx, "player_1", "wrong password")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = s.Authenticate(ctx, "nobody", "whatever1")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = s.UserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func playedRecord(id string, o Owner, status solver.Status, guesses int, at time.Time) Record {
	turns := make([]solver.Turn, guesses)
	for i := range turns {
		turns[i] = solver.Turn{Guess: "crane", Feedback: solver.Score("crane", "trace")}
	}
	return Record{
		ID: id, Owner: o, StartedAt: at.Add(-time.Minute), FinishedAt: at,
		Status: status.String(), Guesses: guesses, ExcludePast: true, FinalWord: "trace", Turns: turns,
	}
}

func TestRecordAttemptAndStats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	u, err := s.CreateUser(ctx, "solver", "password123")
	require.NoError(t, err)
	me := Owner{UserID: u.ID}

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordAttempt(ctx, playedRecord("a1", me, solver.Solved, 3, base)))
	require.NoError(t, s.RecordAttempt(ctx, playedRecord("a2", me, solver.Exhausted, 6, base.Add(time.Hour))))
	require.NoError(t, s.RecordAttempt(ctx, playedRecord("a3", me, solver.Solved, 4, base.Add(2*time.Hour))))
	require.NoError(t, s.RecordAttempt(ctx, playedRecord("a4", me, solver.Solved, 4, base.Add(3*time.Hour))))
	// Duplicate record is ignored, counters unchanged.
	require.NoError(t, s.RecordAttempt(ctx, playedRecord("a4", me, solver.Solved, 4, base.Add(3*time.Hour))))

	st, err := s.Stats(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Played)
	assert.Equal(t, 3, st.Solved)
	assert.Equal(t, 2, st.Streak)
	assert.Equal(t, map[int]int{3: 1, 4: 2}, st.Distribution)

	again, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, again.AttemptsPlayed)
	assert.Equal(t, 3, again.Solved)
	assert.Equal(t, 2, again.Streak)

	recent, err := s.RecentAttempts(ctx, me, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "a4", recent[0].ID)
	assert.Equal(t, "a3", recent[1].ID)
	require.Len(t, recent[0].Turns, 4)
	assert.Equal(t, "YGGXG", recent[0].Turns[0].Feedback.String())
	assert.True(t, recent[0].ExcludePast)
	assert.Equal(t, base.Add(3*time.Hour), recent[0].FinishedAt)

	assert.Error(t, s.RecordAttempt(ctx, Record{ID: "orphan"}))
}

func TestClaimAnonymous(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	anon := Owner{AnonID: "browser-1"}
	now := time.Now().UTC()
	require.NoError(t, s.RecordAttempt(ctx, playedRecord("x1", anon, solver.Solved, 2, now)))
	require.NoError(t, s.RecordAttempt(ctx, playedRecord("x2", anon, solver.Exhausted, 6, now)))

	u, err := s.CreateUser(ctx, "claimer", "password123")
	require.NoError(t, err)
	n, err := s.ClaimAnonymous(ctx, "browser-1", u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	st, err := s.Stats(ctx, Owner{UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Played)

	row, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, row.AttemptsPlayed)
	assert.Equal(t, 1, row.Solved)
	assert.Equal(t, st.Streak, row.Streak)

	left, err := s.RecentAttempts(ctx, anon, 0)
	require.NoError(t, err)
	assert.Empty(t, left)

	n, err = s.ClaimAnonymous(ctx, "", u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClaimedAttemptsMergeIntoCounters(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	u, err := s.CreateUser(ctx, "merger", "password123")
	require.NoError(t, err)
	me := Owner{UserID: u.ID}
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// Signed-in loss first, then two anonymous wins played later.
	require.NoError(t, s.RecordAttempt(ctx, playedRecord("u1", me, solver.Exhausted, 6, base)))
	anon := Owner{AnonID: "browser-2"}
	require.NoError(t, s.RecordAttempt(ctx, playedRecord("b1", anon, solver.Solved, 3, base.Add(time.Hour))))
	require.NoError(t, s.RecordAttempt(ctx, playedRecord("b2", anon, solver.Solved, 5, base.Add(2*time.Hour))))

	before, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, before.AttemptsPlayed)
	assert.Zero(t, before.Streak)

	_, err = s.ClaimAnonymous(ctx, "browser-2", u.ID)
	require.NoError(t, err)

	st, err := s.Stats(ctx, me)
	require.NoError(t, err)
	after, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, after.AttemptsPlayed)
	assert.Equal(t, 2, after.Solved)
	assert.Equal(t, 2, after.Streak)
	assert.Equal(t, st.Played, after.AttemptsPlayed)
	assert.Equal(t, st.Solved, after.Solved)
	assert.Equal(t, st.Streak, after.Streak)
}

func TestTurnsEncoding(t *testing.T) {
	turns := []solver.Turn{
		{Guess: "crane", Feedback: solver.Score("crane", "trace"), Remaining: 12},
		{Guess: "trace", Feedback: solver.Score("trace", "trace"), Remaining: 1},
	}
	enc, err := encodeTurns(turns)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"guess":"crane","feedback":"YGGXG","remaining":12},{"guess":"trace","feedback":"GGGGG","remaining":1}]`, enc)

	back, err := decodeTurns(enc)
	require.NoError(t, err)
	assert.Equal(t, turns, back)

	empty, err := decodeTurns("")
	require.NoError(t, err)
	assert.Nil(t, empty)

	for _, bad := range []string{"crane:YGGXG", `[{"guess":"crane","feedback":"YGQXG"}]`} {
		_, err := decodeTurns(bad)
		assert.Error(t, err, bad)
	}
}

func TestRecentAttemptsKeepsRemaining(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	o := Owner{AnonID: "browser-3"}
	r := playedRecord("r1", o, solver.Solved, 2, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	r.Turns[0].Remaining = 7
	r.Turns[1].Remaining = 1
	require.NoError(t, s.RecordAttempt(ctx, r))

	got, err := s.RecentAttempts(ctx, o, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r.Turns, got[0].Turns)

	_, err = s.db.ExecContext(ctx, `UPDATE attempts SET turns='crane:YGGXG' WHERE id='r1'`)
	require.NoError(t, err)
	_, err = s.RecentAttempts(ctx, o, 0)
	assert.Error(t, err)
}
