package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-solver/internal/solver"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "interactive assistant: enter each guess and its colors, get the next suggestion",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	consoleLogging()
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	dict := cat.Dictionary(cfg.ExcludePast)
	p := &player{
		in:      bufio.NewScanner(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
		ranker:  newRanker(),
		attempt: solver.NewAttempt(dict.Words(), cfg.MaxGuesses),
	}
	fmt.Fprintln(p.out, "\n===== Welcome to Wordle Solver! =====")
	fmt.Fprintln(p.out, dict.Info())
	return p.run()
}

// player drives one interactive attempt over a line-oriented terminal.
type player struct {
	in      *bufio.Scanner
	out     io.Writer
	ranker  *solver.Ranker
	attempt solver.Attempt
}

var errInputClosed = errors.New("input closed")

func (p *player) run() error {
	fmt.Fprint(p.out, `
How to use:
1. Make a guess in your Wordle game
2. Enter your guess when prompted
3. Enter the feedback using:
   G - Green (correct letter, correct position)
   Y - Yellow (correct letter, wrong position)
   X - Gray (letter not in the word)

Example: if you guessed CRANE and got Green, Yellow, Gray, Gray, Yellow
you would enter: GYXXY
`)
	for !p.attempt.Status().Terminal() {
		if err := p.turn(); err != nil {
			if errors.Is(err, errInputClosed) {
				fmt.Fprintln(p.out)
				return nil
			}
			return err
		}
		if p.attempt.Remaining() == 0 {
			fmt.Fprintln(p.out, "\nNo possible words left. Check the feedback, or the word is not in the list.")
			return nil
		}
	}

	switch p.attempt.Status() {
	case solver.Solved:
		last, _ := p.attempt.LastGuess()
		fmt.Fprintf(p.out, "\nCongratulations! You found the word: %s\n", strings.ToUpper(last))
	case solver.Exhausted:
		fmt.Fprintf(p.out, "\nGame over! Word not found within %d guesses.\n", p.attempt.MaxGuesses())
		fmt.Fprintf(p.out, "Remaining possible words: %s\n", strings.Join(p.attempt.Candidates(), ", "))
	}
	fmt.Fprintln(p.out, "\nThanks for using Wordle Solver!")
	return nil
}

func (p *player) turn() error {
	a := p.attempt
	fmt.Fprintf(p.out, "\n--- Guess %d/%d ---\n", a.GuessNumber(), a.MaxGuesses())
	fmt.Fprintf(p.out, "Number of possible words: %d\n", a.Remaining())
	if a.Remaining() < 20 {
		fmt.Fprintf(p.out, "Possible words: %s\n", strings.Join(a.Sample(20), ", "))
	}
	if a.GuessNumber() > 1 {
		k := a.Knowledge()
		fmt.Fprintf(p.out, "Known positions (Green): %s\n", strings.Join(strings.Split(k.Pattern(), ""), " "))
		if present := k.PresentLetters(); len(present) > 0 {
			fmt.Fprintf(p.out, "Present letters (Yellow): %s\n", strings.ToUpper(strings.Join(present, ", ")))
		}
		if absent := k.AbsentLetters(); len(absent) > 0 {
			fmt.Fprintf(p.out, "Absent letters (Gray): %s\n", strings.ToUpper(strings.Join(absent, ", ")))
		}
	}
	if s, ok := a.Suggest(p.ranker); ok {
		fmt.Fprintf(p.out, "Suggested guess: %s\n", strings.ToUpper(s))
	}

	for {
		guess, err := p.readGuess()
		if err != nil {
			return err
		}
		fb, err := p.readFeedback()
		if err != nil {
			return err
		}
		next, err := a.Submit(guess, fb)
		if errors.Is(err, solver.ErrContradiction) {
			fmt.Fprintln(p.out, "That feedback contradicts an earlier guess. Please re-enter this guess.")
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Recorded: %s\n", describe(guess, fb))
		p.attempt = next
		return nil
	}
}

func (p *player) prompt(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *player) readGuess() (string, error) {
	fmt.Fprintln(p.out, "\nAfter playing your guess in the Wordle game:")
	for {
		line, err := p.prompt("Enter your 5-letter guess: ")
		if err != nil {
			return "", err
		}
		if line == "" {
			fmt.Fprintln(p.out, "Please enter a guess.")
			continue
		}
		g, err := solver.NormalizeGuess(line)
		if err != nil {
			fmt.Fprintln(p.out, "Guess must be exactly 5 letters.")
			continue
		}
		return g, nil
	}
}

func (p *player) readFeedback() (solver.Feedback, error) {
	fmt.Fprintln(p.out, "Enter the color feedback from Wordle (G = green, Y = yellow, X = gray):")
	for {
		line, err := p.prompt("Feedback (GGYXX format): ")
		if err != nil {
			return solver.Feedback{}, err
		}
		fb, err := solver.ParseFeedback(line)
		if err != nil {
			fmt.Fprintln(p.out, "Invalid feedback. Use exactly 5 of G, Y or X.")
			continue
		}
		return fb, nil
	}
}

// describe renders a guess as "C(G) R(Y) ...".
func describe(guess string, fb solver.Feedback) string {
	parts := make([]string, len(fb))
	for i, t := range fb {
		parts[i] = fmt.Sprintf("%c(%c)", guess[i]-'a'+'A', t.Symbol())
	}
	return strings.Join(parts, " ")
}
