// Package main is the entry point for the Fortnite stats bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"fortnite-stats-bot/internal/bot"
	"fortnite-stats-bot/internal/config"
	"fortnite-stats-bot/internal/fortnite"
	"fortnite-stats-bot/internal/handler"
	"fortnite-stats-bot/internal/pkg/db"
	"fortnite-stats-bot/internal/pkg/lock"
	"fortnite-stats-bot/internal/repository"
	"fortnite-stats-bot/internal/service"
	"fortnite-stats-bot/internal/stats"
	"fortnite-stats-bot/internal/vocab"
)

// Extra time an update may spend waiting for the user's lock and the store.
const handlerMargin = 5 * time.Second

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg.Log)

	log.Info().Str("storage", cfg.Storage.Driver).Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open saved search store")
	}
	defer closeStore()

	statsClient := fortnite.NewClient(cfg.Stats.BaseURL, cfg.Stats.APIKey, cfg.Stats.Timeout)

	var seasonSource vocab.SeasonSource
	if cfg.Season.URL != "" {
		seasonSource = fortnite.NewSeasonClient(cfg.Season.URL, cfg.Season.Timeout)
	}
	translator := vocab.New(ctx, seasonSource)

	conv := service.NewConversationService(translator, stats.NewFormatter(statsClient), store)
	searchHandler := handler.NewSearchHandler(conv, lock.NewUserLock(), cfg.Stats.Timeout+handlerMargin)

	telegramBot, err := bot.New(&bot.Dependencies{
		Config:        cfg,
		SearchHandler: searchHandler,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return telegramBot.Run(gctx)
	})
	g.Go(func() error {
		return translator.RunRefresher(gctx, cfg.Season.RefreshInterval)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Bot stopped with error")
		return
	}
	log.Info().Msg("Bot stopped gracefully")
}

// setupLogger applies the configured level and output format.
func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// openStore builds the saved-search backend selected by storage.driver.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Saved searches are kept in memory and lost on restart")
		return repository.NewMemoryStore(), func() {}, nil

	case config.DriverFile:
		store, err := repository.NewFileStore(cfg.Storage.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.Storage.FilePath).Msg("Using file store")
		return store, func() {}, nil

	case config.DriverPostgres:
		if err := db.Migrate(cfg.Database.DSN()); err != nil {
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		pool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repository.NewPostgresStore(pool.Pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
