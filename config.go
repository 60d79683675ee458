package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/robalobadob/codebreaker/internal/code"
)

// Config is read from the environment (optionally seeded from .env) and
// then overridden by command-line flags.
type Config struct {
	LogLevel     string
	Length       int
	Workers      int
	Port         string
	DBPath       string
	JWTSecret    string
	JWTTTL       time.Duration
	OperatorHash string
	DailySalt    string
	MaxGuesses   int
	ClientOrigin string
	Production   bool
}

func loadConfig() (Config, error) {
	cfg := Config{
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "5175"),
		DBPath:       getEnv("DB_PATH", "./data/codebreaker.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		OperatorHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("APP_ENV") == "production",
	}
	var err error
	if cfg.Length, err = envInt("CODE_LENGTH", 5); err != nil {
		return cfg, err
	}
	if cfg.Workers, err = envInt("WORKERS", runtime.NumCPU()); err != nil {
		return cfg, err
	}
	if cfg.MaxGuesses, err = envInt("MAX_GUESSES", 10); err != nil {
		return cfg, err
	}
	hours, err := envInt("JWT_EXPIRES_HOURS", 12)
	if err != nil {
		return cfg, err
	}
	cfg.JWTTTL = time.Duration(hours) * time.Hour
	return cfg, nil
}

func (c Config) validate() error {
	if !code.ValidLength(c.Length) {
		return fmt.Errorf("code length %d outside [1,%d]", c.Length, code.MaxLength)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.Production && c.JWTSecret == "dev_secret_change_me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses an integer variable, returning def if unset.
func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}
