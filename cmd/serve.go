package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-solver/internal/history"
	"github.com/robalobadob/wordle-solver/internal/httpserver"
	"github.com/robalobadob/wordle-solver/internal/store"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "5175", "HTTP port")
	serveCmd.Flags().String("db-path", "./data/solver.db", "SQLite database for accounts and attempt history")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the solver HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	hist, err := history.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer hist.Close()

	srv := httpserver.New(httpserver.Deps{
		Config:   cfg,
		Catalog:  cat,
		Sessions: store.NewMemoryStore(),
		History:  hist,
		Ranker:   newRanker(),
	})
	log.Info().
		Str("port", cfg.Port).
		Int("words", cat.Total()).
		Int("past", cat.PastCount()).
		Msg("starting wordle-solver")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
