package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/wordle-solver/internal/solver"
)

// Owner identifies who played an attempt: a signed-in user or an anonymous
// browser id. UserID wins when both are set.
type Owner struct {
	UserID string
	AnonID string
}

func (o Owner) clause() (string, any) {
	if o.UserID != "" {
		return "user_id=?", o.UserID
	}
	return "anonymous_id=?", o.AnonID
}

// Record is one finished attempt.
type Record struct {
	ID          string        `json:"id"`
	Owner       Owner         `json:"-"`
	StartedAt   time.Time     `json:"startedAt"`
	FinishedAt  time.Time     `json:"finishedAt"`
	Status      string        `json:"status"` // solved | exhausted
	Guesses     int           `json:"guesses"`
	ExcludePast bool          `json:"excludePast"`
	FinalWord   string        `json:"finalWord,omitempty"`
	Turns       []solver.Turn `json:"turns"`
}

// Stats summarizes an owner's finished attempts.
type Stats struct {
	Played       int         `json:"played"`
	Solved       int         `json:"solved"`
	Streak       int         `json:"streak"`
	Distribution map[int]int `json:"distribution"` // guesses -> solved attempts
}

// RecordAttempt stores a finished attempt and, for signed-in owners, refreshes
// the account counters in the same transaction. Recording the same ID twice is
// a no-op.
func (s *Store) RecordAttempt(ctx context.Context, r Record) error {
	if r.Owner.UserID == "" && r.Owner.AnonID == "" {
		return errors.New("history: attempt without owner")
	}
	turns, err := encodeTurns(r.Turns)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
        INSERT OR IGNORE INTO attempts
            (id, user_id, anonymous_id, started_at, finished_at, status, guesses, exclude_past, final_word, turns)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, nullable(r.Owner.UserID), nullable(r.Owner.AnonID),
		r.StartedAt.UTC().Format(time.RFC3339), r.FinishedAt.UTC().Format(time.RFC3339),
		r.Status, r.Guesses, r.ExcludePast, r.FinalWord, turns,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tx.Commit()
	}
	if r.Owner.UserID != "" {
		if err := syncUserStats(ctx, tx, r.Owner.UserID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// syncUserStats rewrites the users row counters from the attempts table, so
// they stay equal to Stats after inserts and claims alike.
func syncUserStats(ctx context.Context, tx *sql.Tx, userID string) error {
	st, err := tally(ctx, tx, Owner{UserID: userID})
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE users SET attempts_played=?, solved=?, streak=? WHERE id=?`,
		st.Played, st.Solved, st.Streak, userID)
	return err
}

// RecentAttempts lists an owner's attempts, newest first. limit <= 0 means 50.
func (s *Store) RecentAttempts(ctx context.Context, o Owner, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	where, arg := o.clause()
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, COALESCE(user_id,''), COALESCE(anonymous_id,''), started_at, finished_at,
               status, guesses, exclude_past, final_word, turns
        FROM attempts WHERE `+where+`
        ORDER BY finished_at DESC, rowid DESC LIMIT ?`, arg, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var r Record
		var started, finished, turns string
		if err := rows.Scan(&r.ID, &r.Owner.UserID, &r.Owner.AnonID, &started, &finished,
			&r.Status, &r.Guesses, &r.ExcludePast, &r.FinalWord, &turns); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		if r.Turns, err = decodeTurns(turns); err != nil {
			return nil, fmt.Errorf("history: attempt %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats aggregates an owner's attempts. The streak counts consecutive solved
// attempts ending with the most recent one.
func (s *Store) Stats(ctx context.Context, o Owner) (Stats, error) {
	return tally(ctx, s.db, o)
}

func tally(ctx context.Context, q queryer, o Owner) (Stats, error) {
	where, arg := o.clause()
	rows, err := q.QueryContext(ctx, `
        SELECT status, guesses FROM attempts WHERE `+where+`
        ORDER BY finished_at DESC, rowid DESC`, arg)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	st := Stats{Distribution: make(map[int]int)}
	streakOpen := true
	for rows.Next() {
		var status string
		var guesses int
		if err := rows.Scan(&status, &guesses); err != nil {
			return Stats{}, err
		}
		st.Played++
		if status == solver.Solved.String() {
			st.Solved++
			st.Distribution[guesses]++
			if streakOpen {
				st.Streak++
			}
		} else {
			streakOpen = false
		}
	}
	return st, rows.Err()
}

// ClaimAnonymous moves attempts recorded under an anonymous id to a user and
// recomputes the user's counters to include them.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE attempts SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		return 0, err
	}
	if err := syncUserStats(ctx, tx, userID); err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// encodeTurns stores turns as a JSON array, e.g.
// [{"guess":"crane","feedback":"YGGXG","remaining":12}].
func encodeTurns(turns []solver.Turn) (string, error) {
	if len(turns) == 0 {
		return "", nil
	}
	b, err := json.Marshal(turns)
	if err != nil {
		return "", fmt.Errorf("history: encode turns: %w", err)
	}
	return string(b), nil
}

func decodeTurns(s string) ([]solver.Turn, error) {
	if s == "" {
		return nil, nil
	}
	var out []solver.Turn
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode turns: %w", err)
	}
	return out, nil
}
