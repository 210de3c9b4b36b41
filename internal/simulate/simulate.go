// internal/simulate/simulate.go
//
// Autoplay for the solver: feed honest feedback for a known solution back into
// an attempt until it ends. Used by the `simulate` command and POST /simulate,
// and as an end-to-end check that the filter never loses the solution.
//
// Benchmark runs one independent attempt per solution in parallel. Attempts
// share only the read-only candidate list; each worker owns its ranker.

package simulate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/words"
)

var ErrNotInDictionary = errors.New("simulate: solution is not in the dictionary")

// Result is the outcome of one autoplayed attempt.
type Result struct {
	Solution string        `json:"solution"`
	Turns    []solver.Turn `json:"turns"`
	Solved   bool          `json:"solved"`
}

// Guesses is the number of guesses used.
func (r Result) Guesses() int { return len(r.Turns) }

// Play runs an attempt over the words of d against solution. The solution must
// be in d, otherwise the attempt could never finish solved.
func Play(ctx context.Context, d *words.Dictionary, solution string, r *solver.Ranker, maxGuesses int) (Result, error) {
	return play(ctx, d, d.Words(), solution, r, maxGuesses)
}

// play takes the candidate list separately so parallel callers can share one
// read-only copy.
func play(ctx context.Context, d *words.Dictionary, candidates []string, solution string, r *solver.Ranker, maxGuesses int) (Result, error) {
	sol, err := solver.NormalizeGuess(solution)
	if err != nil {
		return Result{}, err
	}
	if !d.Contains(sol) {
		return Result{}, fmt.Errorf("%w: %q", ErrNotInDictionary, sol)
	}

	a := solver.NewAttempt(candidates, maxGuesses)
	for !a.Status().Terminal() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		guess, ok := a.Suggest(r)
		if !ok {
			// Only reachable if the filter dropped the solution.
			return Result{}, fmt.Errorf("simulate: no candidates left for %q", sol)
		}
		if a, err = a.Submit(guess, solver.Score(guess, sol)); err != nil {
			return Result{}, fmt.Errorf("simulate %q: %w", sol, err)
		}
	}
	return Result{Solution: sol, Turns: a.Turns(), Solved: a.Status() == solver.Solved}, nil
}

// Options configures Benchmark.
type Options struct {
	Workers    int   // 0 = runtime.NumCPU()
	Seed       int64 // per-solution rankers are seeded Seed+index
	MaxGuesses int
	// OnResult, when set, is called after each finished attempt. It may be
	// called from several goroutines.
	OnResult func(Result)
}

// Summary aggregates a benchmark run.
type Summary struct {
	Played       int         `json:"played"`
	Solved       int         `json:"solved"`
	MeanGuesses  float64     `json:"meanGuesses"` // over solved attempts
	Distribution map[int]int `json:"distribution"`
	Failed       []string    `json:"failed,omitempty"`
}

// SolveRate is Solved/Played, or 0 when nothing was played.
func (s Summary) SolveRate() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Solved) / float64(s.Played)
}

// Benchmark plays every solution against the words of d in parallel.
func Benchmark(ctx context.Context, d *words.Dictionary, solutions []string, opts Options) (Summary, error) {
	candidates := d.Words()
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu  sync.Mutex
		sum = Summary{Distribution: make(map[int]int)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sol := range solutions {
		g.Go(func() error {
			r := solver.NewSeededRanker(opts.Seed + int64(i))
			res, err := play(gctx, d, candidates, sol, r, opts.MaxGuesses)
			if err != nil {
				return err
			}
			mu.Lock()
			sum.Played++
			if res.Solved {
				sum.Solved++
				sum.Distribution[res.Guesses()]++
			} else {
				sum.Failed = append(sum.Failed, res.Solution)
			}
			mu.Unlock()
			if opts.OnResult != nil {
				opts.OnResult(res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	total := 0
	for n, c := range sum.Distribution {
		total += n * c
	}
	if sum.Solved > 0 {
		sum.MeanGuesses = float64(total) / float64(sum.Solved)
	}
	sort.Strings(sum.Failed)
	return sum, nil
}
