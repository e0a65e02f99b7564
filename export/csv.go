package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dnldd/zonebot/backtest"
	"github.com/dnldd/zonebot/shared"
)

var (
	candleHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}
	tradeHeader  = []string{"entry_ts", "exit_ts", "direction", "entry", "exit", "pnl", "result", "reason"}
)

// formatFloat formats the provided value with a fixed precision.
func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// WriteCandles writes the provided candlesticks as csv.
func WriteCandles(w io.Writer, candles []shared.Candlestick) error {
	writer := csv.NewWriter(w)
	err := writer.Write(candleHeader)
	if err != nil {
		return fmt.Errorf("writing candle header: %w", err)
	}

	for idx := range candles {
		c := candles[idx]
		err := writer.Write([]string{
			c.Date.Format(shared.DateLayout),
			formatFloat(c.Open, 3),
			formatFloat(c.High, 3),
			formatFloat(c.Low, 3),
			formatFloat(c.Close, 3),
			formatFloat(c.Volume, 1),
		})
		if err != nil {
			return fmt.Errorf("writing candle %d: %w", idx, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTrades writes the provided trades as csv.
func WriteTrades(w io.Writer, trades []backtest.Trade) error {
	writer := csv.NewWriter(w)
	err := writer.Write(tradeHeader)
	if err != nil {
		return fmt.Errorf("writing trade header: %w", err)
	}

	for idx := range trades {
		t := trades[idx]
		err := writer.Write([]string{
			t.EntryTimestamp(),
			t.ExitTimestamp(),
			t.Direction.String(),
			formatFloat(t.Entry, 3),
			formatFloat(t.Exit, 3),
			formatFloat(t.PNL, 2),
			t.Result.String(),
			t.Reason,
		})
		if err != nil {
			return fmt.Errorf("writing trade %d: %w", idx, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// create creates the file at the provided path along with its parent
// directories and hands it to the provided write function.
func create(path string, write func(w io.Writer) error) (string, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return "", fmt.Errorf("creating directory for '%s': %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file with path '%s': %w", path, err)
	}

	err = write(f)
	if err != nil {
		f.Close()
		return "", err
	}

	err = f.Close()
	if err != nil {
		return "", fmt.Errorf("closing file with path '%s': %w", path, err)
	}

	return path, nil
}

// SaveCandles persists the provided candlesticks as csv to the provided path.
func SaveCandles(path string, candles []shared.Candlestick) (string, error) {
	return create(path, func(w io.Writer) error {
		return WriteCandles(w, candles)
	})
}

// SaveTrades persists the provided trades as csv to the provided path.
func SaveTrades(path string, trades []backtest.Trade) (string, error) {
	return create(path, func(w io.Writer) error {
		return WriteTrades(w, trades)
	})
}
