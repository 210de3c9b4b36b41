// Package cmd holds the wordle-solver command line: serve, play, simulate and
// version. Configuration comes from flags, the environment and .env, resolved
// by internal/config.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robalobadob/wordle-solver/internal/config"
	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/words"
)

// cfg is resolved before any subcommand runs.
var cfg config.Config

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":          config.KeyLogLevel,
	"words-file":         config.KeyWordsFile,
	"past-words-file":    config.KeyPastWordsFile,
	"exclude-past-words": config.KeyExcludePast,
	"max-guesses":        config.KeyMaxGuesses,
	"seed":               config.KeySeed,
	"port":               config.KeyPort,
	"db-path":            config.KeyDBPath,
}

var rootCmd = &cobra.Command{
	Use:               "wordle-solver",
	Short:             "suggest Wordle guesses and narrow the candidate list from color feedback",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	f.String("words-file", "", "word list, one word per line (default: embedded list)")
	f.String("past-words-file", "", "past answers separated by '|' (default: embedded list)")
	f.Bool("exclude-past-words", true, "drop past answers from the candidate list")
	f.Int("max-guesses", solver.MaxGuesses, "guesses per attempt")
	f.Int64("seed", 0, "random seed for suggestions (0 = time based)")
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	v := config.NewViper()
	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	c, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = c
	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// bindFlags binds the flags cmd actually defines; flags explicitly set win
// over the environment.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// consoleLogging switches the global logger to human-readable output on stderr.
func consoleLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func loadCatalog() (*words.Catalog, error) {
	return words.Load(words.Options{WordsFile: cfg.WordsFile, PastWordsFile: cfg.PastWordsFile})
}

func newRanker() *solver.Ranker {
	if cfg.Seed != 0 {
		return solver.NewSeededRanker(cfg.Seed)
	}
	return solver.NewRanker(nil)
}
