package database

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/zonebot/backtest"
	"github.com/google/uuid"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createRunTableSQL   = "CREATE TABLE IF NOT EXISTS run (id TEXT PRIMARY KEY, pair TEXT, timeframe TEXT, source TEXT, candles INTEGER, signals INTEGER, totaltrades INTEGER, winrate REAL, netprofit REAL, endingbalance REAL, maxdrawdownpercent REAL, createdon INTEGER)"
	createTradeTableSQL = "CREATE TABLE IF NOT EXISTS trade (id TEXT PRIMARY KEY, runid TEXT, entryts TEXT, exitts TEXT, direction TEXT, entry REAL, exit REAL, size REAL, pnl REAL, result TEXT, reason TEXT)"
	persistRunSQL       = "INSERT INTO run(id, pair, timeframe, source, candles, signals, totaltrades, winrate, netprofit, endingbalance, maxdrawdownpercent, createdon) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)"
	persistTradeSQL     = "INSERT INTO trade(id, runid, entryts, exitts, direction, entry, exit, size, pnl, result, reason) VALUES(?,?,?,?,?,?,?,?,?,?,?)"
)

// Run is a single backtest run record.
type Run struct {
	ID        string
	Pair      string
	Timeframe string
	Source    string
	Candles   int
	Signals   int
	Summary   backtest.Summary
	Trades    []backtest.Trade
	CreatedOn time.Time
}

// NewRun initializes a new backtest run record.
func NewRun(pair string, timeframe string, source string, candles int, signals int, trades []backtest.Trade, summary backtest.Summary) *Run {
	return &Run{
		ID:        uuid.New().String(),
		Pair:      pair,
		Timeframe: timeframe,
		Source:    source,
		Candles:   candles,
		Signals:   signals,
		Summary:   summary,
		Trades:    trades,
		CreatedOn: time.Now(),
	}
}

// RunStorer defines the requirements for storing backtest runs.
type RunStorer interface {
	// PersistRun stores the provided backtest run and its trades to the database.
	PersistRun(ctx context.Context, run *Run) error
}

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the RunStorer interface.
var _ RunStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	if cfg.User != "" {
		client.SetBasicAuth(cfg.User, cfg.Pass)
	}

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// execute runs the provided statements as a single transaction.
func (db *Database) execute(ctx context.Context, stmts rqlitehttp.SQLStatements) error {
	resp, err := db.client.Execute(ctx, stmts, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}

	has, idx, errStr := resp.HasError()
	if has {
		return fmt.Errorf("statement %d failed: %s", idx, errStr)
	}

	return nil
}

// bootstrap initializes the database.
func (db *Database) bootstrap(ctx context.Context) error {
	return db.execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createRunTableSQL},
		{SQL: createTradeTableSQL},
	})
}

// runStatements builds the insert statements for the provided run and its trades.
func runStatements(run *Run) rqlitehttp.SQLStatements {
	stmts := make(rqlitehttp.SQLStatements, 0, len(run.Trades)+1)
	stmts = append(stmts, rqlitehttp.SQLStatements{{
		SQL: persistRunSQL,
		PositionalParams: []any{run.ID, run.Pair, run.Timeframe, run.Source, run.Candles, run.Signals,
			run.Summary.TotalTrades, run.Summary.WinRate, run.Summary.NetProfit, run.Summary.EndingBalance,
			run.Summary.MaxDrawdownPercent, run.CreatedOn.Unix()},
	}}...)

	for idx := range run.Trades {
		t := &run.Trades[idx]
		stmts = append(stmts, rqlitehttp.SQLStatements{{
			SQL: persistTradeSQL,
			PositionalParams: []any{uuid.New().String(), run.ID, t.EntryTimestamp(), t.ExitTimestamp(),
				t.Direction.String(), t.Entry, t.Exit, t.Size, t.PNL, t.Result.String(), t.Reason},
		}}...)
	}

	return stmts
}

// PersistRun stores the provided backtest run and its trades to the database.
func (db *Database) PersistRun(ctx context.Context, run *Run) error {
	if run.Summary.TotalTrades != len(run.Trades) {
		db.cfg.Logger.Error().Msgf("unexpected run state, summary and trade count differ: %s", spew.Sdump(run.Summary))
	}

	err := db.execute(ctx, runStatements(run))
	if err != nil {
		return fmt.Errorf("persisting run %s: %w", run.ID, err)
	}

	return nil
}
