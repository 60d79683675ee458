package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/codebreaker/internal/daily"
	"github.com/robalobadob/codebreaker/internal/database"
	"github.com/robalobadob/codebreaker/internal/httpserver"
	"github.com/robalobadob/codebreaker/internal/runs"
	"github.com/robalobadob/codebreaker/internal/solver"
	"github.com/robalobadob/codebreaker/internal/store"
)

func runServe(cmd *cobra.Command, args []string) error {
	u := mustUniverse(cfg.Length)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	srv := httpserver.New(httpserver.Deps{
		Universe: u,
		Solver:   solver.New(u, solver.Config{Workers: cfg.Workers}),
		Games:    store.NewMemoryStore(),
		Runs:     runs.NewStore(db),
		Daily:    daily.NewStore(db),
		Config: httpserver.Config{
			JWTSecret:    cfg.JWTSecret,
			JWTTTL:       cfg.JWTTTL,
			OperatorHash: cfg.OperatorHash,
			DailySalt:    cfg.DailySalt,
			MaxGuesses:   cfg.MaxGuesses,
			ClientOrigin: cfg.ClientOrigin,
			Workers:      cfg.Workers,
			SecureCookie: cfg.Production,
		},
	})
	if cfg.OperatorHash == "" {
		log.Warn().Msg("OPERATOR_PASSWORD_HASH not set; batch evaluations are disabled")
	}

	log.Info().Str("port", cfg.Port).Int("length", cfg.Length).Int("candidates", u.Len()).Msg("starting codebreaker server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	return nil
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	h, err := httpserver.HashPassword(args[0])
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write([]byte(h + "\n"))
	return err
}
