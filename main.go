package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/TwiN/go-color"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/codebreaker/internal/space"
)

var (
	cfg Config

	flagAll     bool
	flagOnce    bool
	flagAssist  bool
	flagQuiet   bool
	flagLength  int
	flagWorkers int

	rootCmd = &cobra.Command{
		Use:   "codebreaker",
		Short: "Entropy-maximizing solver for a positional-match color code game",
		Long: `codebreaker guesses a hidden sequence of colors (red, green, blue, yellow)
using only the number of positions each guess gets right. Every guess is
chosen to maximize the expected information gained from its feedback.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runRoot,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the game, solver and evaluation API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	hashPasswordCmd = &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash to use as OPERATOR_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE:  runHashPassword,
	}
)

func init() {
	f := rootCmd.Flags()
	f.BoolVar(&flagAll, "all", false, "evaluate the solver against every possible secret")
	f.BoolVar(&flagOnce, "once", false, "solve one random secret and show every round")
	f.BoolVar(&flagAssist, "assist", false, "suggest guesses for a game played elsewhere (not implemented)")
	f.BoolVarP(&flagQuiet, "quiet", "q", false, "with --all, show a progress bar instead of one line per secret")
	rootCmd.MarkFlagsMutuallyExclusive("all", "once", "assist")

	pf := rootCmd.PersistentFlags()
	pf.IntVarP(&flagLength, "length", "n", 0, "code length N (default $CODE_LENGTH or 5)")
	pf.IntVarP(&flagWorkers, "workers", "w", 0, "parallel workers (default $WORKERS or number of CPUs)")

	rootCmd.AddCommand(serveCmd, hashPasswordCmd)
}

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = loadConfig(); err != nil {
		return err
	}
	if cmd.Flags().Changed("length") {
		cfg.Length = flagLength
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagWorkers
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.Toggle(false)
	}
	return cfg.validate()
}

// mustUniverse enumerates the problem space. A failed enumeration check is
// a logic defect, not a runtime condition, so the process stops here.
func mustUniverse(n int) *space.Universe {
	start := time.Now()
	u, err := space.Generate(n)
	if err != nil {
		log.Fatal().Err(err).Int("length", n).Msg("failed to build problem space")
	}
	log.Debug().Int("length", n).Int("candidates", u.Len()).Dur("took", time.Since(start)).Msg("problem space ready")
	return u
}
