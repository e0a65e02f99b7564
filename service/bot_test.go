package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dnldd/zonebot/backtest"
	"github.com/dnldd/zonebot/database"
	"github.com/dnldd/zonebot/export"
	"github.com/dnldd/zonebot/fetch"
	"github.com/dnldd/zonebot/shared"
	"github.com/dnldd/zonebot/strategy"
	"github.com/peterldowns/testy/assert"
)

type fakeFetcher struct {
	candles []shared.Candlestick
	err     error
	asked   int
}

func (f *fakeFetcher) FetchCandles(ctx context.Context, outputSize int) ([]shared.Candlestick, error) {
	f.asked = outputSize
	return f.candles, f.err
}

type fakeStore struct {
	mtx  sync.Mutex
	runs []*database.Run
	ran  chan struct{}
}

func (s *fakeStore) PersistRun(ctx context.Context, run *database.Run) error {
	s.mtx.Lock()
	s.runs = append(s.runs, run)
	s.mtx.Unlock()

	if s.ran != nil {
		select {
		case s.ran <- struct{}{}:
		default:
		}
	}

	return nil
}

func (s *fakeStore) count() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.runs)
}

func testBotConfig(t *testing.T, source string) *BotConfig {
	return &BotConfig{
		Pair:      "XAUUSD",
		Timeframe: shared.FiveMinute,
		Source:    source,
		Bars:      600,
		Seed:      1,
		OutputDir: t.TempDir(),
		Strategy:  strategy.DefaultConfig(),
		Backtest:  backtest.DefaultConfig(),
	}
}

func TestBotConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *BotConfig)
		wantErr []string
	}{
		{
			name:   "valid sample config",
			mutate: func(cfg *BotConfig) {},
		},
		{
			name:    "unknown source",
			mutate:  func(cfg *BotConfig) { cfg.Source = "ftp" },
			wantErr: []string{"unknown data source 'ftp'"},
		},
		{
			name:    "csv source without path",
			mutate:  func(cfg *BotConfig) { cfg.Source = SourceCSV },
			wantErr: []string{"csv path is required"},
		},
		{
			name:    "twelvedata source without key",
			mutate:  func(cfg *BotConfig) { cfg.Source = SourceTwelveData },
			wantErr: []string{"twelvedata api key is required"},
		},
		{
			name: "invalid bars and nested configs",
			mutate: func(cfg *BotConfig) {
				cfg.Bars = 0
				cfg.OutputDir = ""
				cfg.Interval = -1
				cfg.Strategy.RR = 0
				cfg.Backtest.InitialBalance = 0
			},
			wantErr: []string{
				"bars must be at least 1",
				"output directory cannot be an empty string",
				"interval cannot be negative",
				"reward multiple must be positive",
				"initial balance must be positive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testBotConfig(t, SourceSample)
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected error to contain %q, got %v", want, err)
				}
			}
		})
	}
}

func TestBotSamplePass(t *testing.T) {
	cfg := testBotConfig(t, SourceSample)
	store := &fakeStore{}
	cfg.Store = store

	bot, err := NewBot(cfg)
	assert.NoError(t, err)

	report, err := bot.Pass(context.Background())
	assert.NoError(t, err)

	// Ensure the generated data is saved and reported as the source.
	samplePath := filepath.Join(cfg.OutputDir, "xauusd_5m_sample.csv")
	assert.Equal(t, report.Source, samplePath)
	loaded, err := fetch.LoadCSV(samplePath)
	assert.NoError(t, err)
	assert.Equal(t, len(loaded), 600)
	assert.Equal(t, report.Candles, 600)

	// Ensure the report matches running the pipeline directly.
	candles := fetch.GenerateSample(600, 1)
	signals := strategy.GenerateSignals(&cfg.Strategy, candles)
	assert.Equal(t, report.Signals, len(signals))
	assert.Equal(t, report.Summary.TotalTrades, len(report.Trades))
	assert.True(t, len(report.Trades) <= len(signals))

	// Ensure the trade log is written.
	assert.Equal(t, report.TradesPath, filepath.Join(cfg.OutputDir, "trades.csv"))
	b, err := os.ReadFile(report.TradesPath)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Equal(t, len(lines), len(report.Trades)+1)

	// Ensure the run is persisted with the report id.
	assert.Equal(t, store.count(), 1)
	assert.Equal(t, store.runs[0].ID, report.ID)
	assert.Equal(t, store.runs[0].Pair, "XAUUSD")
	assert.Equal(t, store.runs[0].Timeframe, "5m")
}

func TestBotCSVPass(t *testing.T) {
	cfg := testBotConfig(t, SourceCSV)
	cfg.CSVPath = filepath.Join(t.TempDir(), "export.csv")
	_, err := export.SaveCandles(cfg.CSVPath, fetch.GenerateSample(200, 3))
	assert.NoError(t, err)

	bot, err := NewBot(cfg)
	assert.NoError(t, err)

	report, err := bot.Pass(context.Background())
	assert.NoError(t, err)

	// Ensure csv sources are reported by path and not re-saved.
	assert.Equal(t, report.Source, cfg.CSVPath)
	assert.Equal(t, report.Candles, 200)
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "xauusd_5m_csv.csv"))
	assert.True(t, os.IsNotExist(err))

	// Ensure a missing csv fails the pass.
	cfg.CSVPath = filepath.Join(t.TempDir(), "missing.csv")
	_, err = bot.Pass(context.Background())
	assert.Error(t, err)
}

func TestBotTwelveDataPass(t *testing.T) {
	cfg := testBotConfig(t, SourceTwelveData)
	fetcher := &fakeFetcher{candles: fetch.GenerateSample(150, 9)}
	cfg.Fetcher = fetcher

	bot, err := NewBot(cfg)
	assert.NoError(t, err)

	report, err := bot.Pass(context.Background())
	assert.NoError(t, err)

	// Ensure the configured bar count is requested and the download saved.
	assert.Equal(t, fetcher.asked, 600)
	assert.Equal(t, report.Source, filepath.Join(cfg.OutputDir, "xauusd_5m_twelvedata.csv"))
	assert.Equal(t, report.Candles, 150)

	// Ensure fetch errors surface.
	fetcher.err = fmt.Errorf("twelvedata error: invalid api key")
	_, err = bot.Pass(context.Background())
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid api key"))

	// Ensure a twelvedata client is created when no fetcher is provided.
	cfg = testBotConfig(t, SourceTwelveData)
	cfg.TwelveDataAPIKey = "key"
	bot, err = NewBot(cfg)
	assert.NoError(t, err)
	assert.True(t, bot.fetcher != nil)
}

func TestBotSkipsOverlappingPasses(t *testing.T) {
	cfg := testBotConfig(t, SourceSample)
	store := &fakeStore{}
	cfg.Store = store

	bot, err := NewBot(cfg)
	assert.NoError(t, err)

	// Ensure a pass is skipped while another is in flight.
	bot.running.Store(true)
	bot.scheduledPass(context.Background())
	assert.Equal(t, store.count(), 0)

	bot.running.Store(false)
	bot.scheduledPass(context.Background())
	assert.Equal(t, store.count(), 1)
	assert.False(t, bot.running.Load())
}

func TestBotRunOnce(t *testing.T) {
	cfg := testBotConfig(t, SourceSample)
	store := &fakeStore{}
	cfg.Store = store

	bot, err := NewBot(cfg)
	assert.NoError(t, err)

	err = bot.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, store.count(), 1)
}

func TestBotScheduledRunGracefulShutdown(t *testing.T) {
	cfg := testBotConfig(t, SourceSample)
	cfg.Interval = 60
	store := &fakeStore{ran: make(chan struct{}, 1)}
	cfg.Store = store

	bot, err := NewBot(cfg)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error)
	go func() {
		done <- bot.Run(ctx)
	}()

	// Ensure the first scheduled pass runs immediately and the service
	// terminates once the context is cancelled.
	select {
	case <-store.ran:
	case <-time.After(time.Second * 10):
		t.Fatal("expected a scheduled pass")
	}

	cancel()
	assert.NoError(t, <-done)
	assert.True(t, store.count() >= 1)
}
