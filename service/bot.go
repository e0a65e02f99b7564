package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dnldd/zonebot/backtest"
	"github.com/dnldd/zonebot/database"
	"github.com/dnldd/zonebot/export"
	"github.com/dnldd/zonebot/fetch"
	"github.com/dnldd/zonebot/shared"
	"github.com/dnldd/zonebot/strategy"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"go.uber.org/atomic"
)

const (
	// Data sources.
	SourceSample     = "sample"
	SourceCSV        = "csv"
	SourceTwelveData = "twelvedata"

	// tradesFilename is the trade log written to the output directory.
	tradesFilename = "trades.csv"
)

// BotConfig represents the configuration struct for the bot service.
type BotConfig struct {
	// Pair is the traded pair.
	Pair string
	// Timeframe is the candle timeframe.
	Timeframe shared.Timeframe
	// Source is the market data source, one of sample, csv or twelvedata.
	Source string
	// CSVPath is the path to the csv data when sourcing from csv.
	CSVPath string
	// TwelveDataAPIKey is the Twelve Data API key.
	TwelveDataAPIKey string
	// Bars is the number of sample candles generated, or candles requested
	// from Twelve Data.
	Bars int
	// Seed is the sample data generator seed.
	Seed int64
	// OutputDir is the directory the csv outputs are written to.
	OutputDir string
	// Interval is the number of minutes between scheduled runs, zero runs once.
	Interval int
	// Strategy is the signal generation configuration.
	Strategy strategy.Config
	// Backtest is the backtest engine configuration.
	Backtest backtest.Config
	// Fetcher overrides the market data fetcher for the twelvedata source.
	Fetcher shared.MarketFetcher
	// Store persists completed runs, runs are not persisted when nil.
	Store database.RunStorer
}

// Validate asserts the config sane inputs.
func (cfg *BotConfig) Validate() error {
	var errs error

	if cfg.Pair == "" {
		errs = errors.Join(errs, fmt.Errorf("pair cannot be an empty string"))
	}
	switch cfg.Source {
	case SourceSample, SourceTwelveData:
		if cfg.Bars < 1 {
			errs = errors.Join(errs, fmt.Errorf("bars must be at least 1, got %d", cfg.Bars))
		}
	case SourceCSV:
		if cfg.CSVPath == "" {
			errs = errors.Join(errs, fmt.Errorf("csv path is required when sourcing from csv"))
		}
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown data source '%s'", cfg.Source))
	}
	if cfg.Source == SourceTwelveData && cfg.Fetcher == nil && cfg.TwelveDataAPIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("twelvedata api key is required when sourcing from twelvedata"))
	}
	if cfg.OutputDir == "" {
		errs = errors.Join(errs, fmt.Errorf("output directory cannot be an empty string"))
	}
	if cfg.Interval < 0 {
		errs = errors.Join(errs, fmt.Errorf("interval cannot be negative, got %d", cfg.Interval))
	}
	err := cfg.Strategy.Validate()
	if err != nil {
		errs = errors.Join(errs, err)
	}
	err = cfg.Backtest.Validate()
	if err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}

// Report is the outcome of a single bot run.
type Report struct {
	// ID is the run id.
	ID string
	// Source describes where the candles were sourced from.
	Source string
	// Candles is the number of candles processed.
	Candles int
	// Signals is the number of signals generated.
	Signals int
	// Trades are the simulated trades.
	Trades []backtest.Trade
	// Summary is the backtest summary.
	Summary backtest.Summary
	// TradesPath is the path of the written trade log.
	TradesPath string
}

// Bot represents the signal generation and backtest service.
type Bot struct {
	cfg     *BotConfig
	fetcher shared.MarketFetcher
	engine  *backtest.Engine
	running atomic.Bool
	logger  *zerolog.Logger
}

// NewBot initializes a new bot service.
func NewBot(cfg *BotConfig) (*Bot, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "bot").Logger()

	if cfg.Backtest.Logger == nil {
		backtestLogger := logger.With().Str("component", "backtest").Logger()
		cfg.Backtest.Logger = &backtestLogger
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating bot config: %w", err)
	}

	engine, err := backtest.NewEngine(&cfg.Backtest)
	if err != nil {
		return nil, fmt.Errorf("creating backtest engine: %w", err)
	}

	fetcher := cfg.Fetcher
	if cfg.Source == SourceTwelveData && fetcher == nil {
		fetchLogger := logger.With().Str("component", "twelvedata").Logger()
		fetcher, err = fetch.NewTwelveDataClient(&fetch.TwelveDataConfig{
			APIKey:  cfg.TwelveDataAPIKey,
			BaseURL: fetch.TwelveDataBaseURL,
			Logger:  &fetchLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating twelvedata client: %w", err)
		}
	}

	return &Bot{
		cfg:     cfg,
		fetcher: fetcher,
		engine:  engine,
		logger:  &logger,
	}, nil
}

// sourcePath returns the path fetched or generated candles are saved to.
func (b *Bot) sourcePath() string {
	return filepath.Join(b.cfg.OutputDir, fmt.Sprintf("xauusd_5m_%s.csv", b.cfg.Source))
}

// Acquire fetches candles from the configured source. Generated and
// downloaded candles are saved to the output directory, the returned
// description names where the candles came from.
func (b *Bot) Acquire(ctx context.Context) ([]shared.Candlestick, string, error) {
	var candles []shared.Candlestick
	var err error

	switch b.cfg.Source {
	case SourceCSV:
		candles, err = fetch.LoadCSV(b.cfg.CSVPath)
		if err != nil {
			return nil, "", fmt.Errorf("loading csv: %w", err)
		}

		return candles, b.cfg.CSVPath, nil

	case SourceTwelveData:
		candles, err = b.fetcher.FetchCandles(ctx, b.cfg.Bars)
		if err != nil {
			return nil, "", fmt.Errorf("fetching candles: %w", err)
		}

	default:
		candles = fetch.GenerateSample(b.cfg.Bars, b.cfg.Seed)
	}

	path, err := export.SaveCandles(b.sourcePath(), candles)
	if err != nil {
		return nil, "", fmt.Errorf("saving %s candles: %w", b.cfg.Source, err)
	}

	b.logger.Info().Str("path", path).Int("candles", len(candles)).Msgf("saved %s data", b.cfg.Source)

	return candles, path, nil
}

// Pass runs the pipeline once: acquire candles, generate signals, backtest
// them, write the trade log and persist the run when a store is configured.
func (b *Bot) Pass(ctx context.Context) (*Report, error) {
	candles, source, err := b.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	signals := strategy.GenerateSignals(&b.cfg.Strategy, candles)
	trades, summary := b.engine.Run(candles, signals)

	tradesPath, err := export.SaveTrades(filepath.Join(b.cfg.OutputDir, tradesFilename), trades)
	if err != nil {
		return nil, fmt.Errorf("saving trades: %w", err)
	}

	run := database.NewRun(b.cfg.Pair, b.cfg.Timeframe.String(), source, len(candles), len(signals), trades, summary)
	if b.cfg.Store != nil {
		err = b.cfg.Store.PersistRun(ctx, run)
		if err != nil {
			return nil, fmt.Errorf("persisting run: %w", err)
		}
	}

	report := &Report{
		ID:         run.ID,
		Source:     source,
		Candles:    len(candles),
		Signals:    len(signals),
		Trades:     trades,
		Summary:    summary,
		TradesPath: tradesPath,
	}

	b.logger.Info().
		Str("id", report.ID).
		Str("pair", b.cfg.Pair).
		Str("timeframe", b.cfg.Timeframe.String()).
		Str("source", report.Source).
		Int("candles", report.Candles).
		Int("signals", report.Signals).
		Int("trades", summary.TotalTrades).
		Str("winrate", fmt.Sprintf("%.2f%%", summary.WinRate)).
		Str("netprofit", fmt.Sprintf("%.2f", summary.NetProfit)).
		Str("endingbalance", fmt.Sprintf("%.2f", summary.EndingBalance)).
		Str("maxdrawdown", fmt.Sprintf("%.2f%%", summary.MaxDrawdownPercent)).
		Str("tradespath", report.TradesPath).
		Msg("bot summary")

	return report, nil
}

// scheduledPass runs a pipeline pass unless one is already in flight.
func (b *Bot) scheduledPass(ctx context.Context) {
	if b.running.Swap(true) {
		b.logger.Warn().Msg("previous run still in progress, skipping")
		return
	}
	defer b.running.Store(false)

	_, err := b.Pass(ctx)
	if err != nil {
		b.logger.Error().Stack().Err(err).Msg("bot run failed")
	}
}

// Run handles the lifecycle processes of the bot service. A single pass is
// made when no interval is configured, otherwise passes are scheduled every
// interval until the provided context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if b.cfg.Interval == 0 {
		_, err := b.Pass(ctx)
		return err
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(b.cfg.Interval).Minutes().Do(func() {
		b.scheduledPass(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling bot runs: %w", err)
	}

	b.logger.Info().Msgf("running every %d minutes", b.cfg.Interval)

	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()

	return nil
}
