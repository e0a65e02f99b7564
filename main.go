package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/dnldd/zonebot/backtest"
	"github.com/dnldd/zonebot/database"
	"github.com/dnldd/zonebot/service"
	"github.com/dnldd/zonebot/shared"
	"github.com/dnldd/zonebot/strategy"
	"github.com/rs/zerolog/log"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Error().Err(err).Msg("loading config")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleTermination(ctx, cancel)

	botCfg := service.BotConfig{
		Pair:             "XAUUSD",
		Timeframe:        shared.FiveMinute,
		Source:           cfg.Source,
		CSVPath:          cfg.CSV,
		TwelveDataAPIKey: cfg.TwelveDataAPIKey,
		Bars:             cfg.Bars,
		Seed:             cfg.Seed,
		OutputDir:        cfg.OutputDir,
		Interval:         cfg.Interval,
		Strategy:         strategy.DefaultConfig(),
		Backtest:         backtest.DefaultConfig(),
	}
	// The default backtest logger discards output, the bot assigns its own.
	botCfg.Backtest.Logger = nil

	if cfg.DBEndpoint != "" {
		dbLogger := log.With().Str("component", "database").Logger()
		db, err := database.NewDatabase(ctx, &database.DatabaseConfig{
			Endpoint: cfg.DBEndpoint,
			User:     cfg.DBUser,
			Pass:     cfg.DBPass,
			Logger:   &dbLogger,
		})
		if err != nil {
			log.Error().Err(err).Msg("creating database")
			os.Exit(1)
		}
		botCfg.Store = db
	}

	bot, err := service.NewBot(&botCfg)
	if err != nil {
		log.Error().Err(err).Msg("creating bot service")
		os.Exit(1)
	}

	err = bot.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("running bot service")
		os.Exit(1)
	}
}
