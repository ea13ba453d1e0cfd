package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/castlegate/patzer/autoplay"
	"github.com/castlegate/patzer/config"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if cfg.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if len(cfg.Args()) == 0 {
		log.Fatal().Msg("usage: autoplay [flags] <suite-file>")
	}
	entries, err := autoplay.LoadSuite(cfg.Args()[0])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load suite")
	}

	opts := autoplay.BatchOptions{
		WhiteSpec: cfg.GetString("white-player"),
		BlackSpec: cfg.GetString("black-player"),
		Depth:     cfg.GetInt("depth"),
		Threads:   cfg.GetInt("threads"),
		Workers:   cfg.GetInt("batch-workers"),
		MaxPlies:  cfg.GetInt("max-plies"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	results, err := autoplay.RunBatch(ctx, entries, opts)
	if err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("batch failed")
	}

	if err := autoplay.Summarize(results).Render(os.Stdout); err != nil {
		log.Err(err).Msg("failed to render summary")
	}

	if dbPath := cfg.GetString("results-db"); dbPath != "" {
		if err := autoplay.SaveResults(dbPath, results); err != nil {
			log.Fatal().Err(err).Msg("failed to save results")
		}
		log.Info().Str("path", dbPath).Msg("results saved")
	}
}
