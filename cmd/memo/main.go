package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/memo/internal/app"
	"github.com/dokzlo13/memo/internal/config"
)

func main() {
	// Support both -c and --config for config path
	var configPath string
	flag.StringVar(&configPath, "config", config.DefaultPath(), "Path to configuration file")
	flag.StringVar(&configPath, "c", config.DefaultPath(), "Path to configuration file (shorthand)")
	storePath := flag.String("store", "", "Path to the store file (overrides config)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, app.Usage)
	}
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", configPath).Msg("Failed to load configuration")
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}

	// Setup logging
	setupLogging(cfg.Log.GetLevel(), cfg.Log.UseJSON, cfg.Log.Colors)

	log.Debug().
		Str("config", configPath).
		Str("backend", cfg.Store.Backend).
		Str("store", cfg.Store.Path).
		Msg("Starting memo")

	application, err := app.New(cfg, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Path).Msg("Failed to open store")
	}

	runErr := application.Run(flag.Args())

	if err := application.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing store")
	}

	switch {
	case errors.Is(runErr, app.ErrUsage):
		fmt.Fprintln(os.Stderr, runErr)
		flag.Usage()
		os.Exit(2)
	case runErr != nil:
		log.Fatal().Err(runErr).Msg("Command failed")
	}
}

func setupLogging(level string, useJSON bool, colors bool) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		// JSON output for tooling
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Text output (with optional colors)
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	// Correlates the log lines of one invocation
	log.Logger = log.With().Str("run", uuid.NewString()).Logger()

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
