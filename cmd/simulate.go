package cmd

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-solver/internal/config"
	"github.com/robalobadob/wordle-solver/internal/daily"
	"github.com/robalobadob/wordle-solver/internal/simulate"
	"github.com/robalobadob/wordle-solver/internal/words"
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Bool("all", false, "play every word of the dictionary and print a summary")
	simulateCmd.Flags().Int("limit", 0, "with --all, only play the first N words (0 = all)")
	simulateCmd.Flags().Int("workers", 0, "parallel attempts (0 = number of CPUs)")
	simulateCmd.Flags().Bool("no-progress", false, "hide the progress bar")
	simulateCmd.Flags().Bool("random", false, "play a random word of the dictionary instead of the word of the day")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [solution]",
	Short: "autoplay the solver against a known word (default: the word of the day)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	consoleLogging()
	all, _ := cmd.Flags().GetBool("all")
	random, _ := cmd.Flags().GetBool("random")

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	dict := cat.Dictionary(cfg.ExcludePast)
	out := cmd.OutOrStdout()

	if all {
		if len(args) > 0 || random {
			return fmt.Errorf("simulate: --all takes no solution argument")
		}
		return runBenchmark(cmd, out, dict)
	}

	solution := ""
	switch {
	case len(args) == 1:
		solution = args[0]
	case random:
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		solution = dict.Random(rand.New(rand.NewSource(seed)))
	default:
		now := time.Now().UTC()
		solution = daily.Solution(now, cfg.DailySalt, dict.Words())
		fmt.Fprintf(out, "Word of the day (%s)\n", daily.DateKey(now))
	}
	res, err := simulate.Play(cmd.Context(), dict, solution, newRanker(), cfg.MaxGuesses)
	if err != nil {
		return err
	}
	printResult(out, res)
	return nil
}

func printResult(w io.Writer, res simulate.Result) {
	for i, t := range res.Turns {
		fmt.Fprintf(w, "%d. %s  %s  (%d left)\n", i+1, strings.ToUpper(t.Guess), t.Feedback, t.Remaining)
	}
	if res.Solved {
		fmt.Fprintf(w, "Solved %s in %d guesses.\n", strings.ToUpper(res.Solution), res.Guesses())
		return
	}
	fmt.Fprintf(w, "Not solved: %s\n", strings.ToUpper(res.Solution))
}

func runBenchmark(cmd *cobra.Command, out io.Writer, dict *words.Dictionary) error {
	limit, _ := cmd.Flags().GetInt("limit")
	workers, _ := cmd.Flags().GetInt("workers")
	quiet, _ := cmd.Flags().GetBool("no-progress")

	solutions := dict.Words()
	if limit > 0 && limit < len(solutions) {
		solutions = solutions[:limit]
	}

	opts := simulate.Options{Workers: workers, Seed: cfg.Seed, MaxGuesses: cfg.MaxGuesses}
	if !quiet {
		bar := progressbar.NewOptions(len(solutions),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("simulating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		opts.OnResult = func(simulate.Result) { _ = bar.Add(1) }
		defer bar.Finish()
	}

	start := time.Now()
	sum, err := simulate.Benchmark(cmd.Context(), dict, solutions, opts)
	if err != nil {
		return err
	}
	log.Debug().Dur("elapsed", time.Since(start)).Int("played", sum.Played).Msg("benchmark finished")
	printSummary(out, sum, cfg)
	return nil
}

func printSummary(w io.Writer, sum simulate.Summary, c config.Config) {
	fmt.Fprintf(w, "Played:       %d\n", sum.Played)
	fmt.Fprintf(w, "Solved:       %d (%.1f%%)\n", sum.Solved, 100*sum.SolveRate())
	fmt.Fprintf(w, "Mean guesses: %.3f\n", sum.MeanGuesses)
	fmt.Fprintln(w, "Distribution:")
	keys := make([]int, 0, len(sum.Distribution))
	for k := range sum.Distribution {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %d: %d\n", k, sum.Distribution[k])
	}
	if n := len(sum.Failed); n > 0 {
		shown := sum.Failed
		if n > 20 {
			shown = shown[:20]
		}
		fmt.Fprintf(w, "Not solved within %d guesses (%d): %s\n", c.MaxGuesses, n, strings.Join(shown, ", "))
	}
}
