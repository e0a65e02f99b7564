package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dnldd/zonebot/backtest"
	"github.com/dnldd/zonebot/fetch"
	"github.com/dnldd/zonebot/shared"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/peterldowns/testy/assert"
)

func TestWriteTrades(t *testing.T) {
	start := time.Date(2024, 1, 1, 5, 50, 0, 0, time.UTC)
	trades := []backtest.Trade{
		{
			EntryDate: start,
			ExitDate:  start.Add(time.Minute * 5),
			Direction: shared.Long,
			Entry:     2000,
			Exit:      1995,
			Size:      20,
			PNL:       -101,
			Result:    backtest.Loss,
			Reason:    shared.UptrendDemandReason,
		},
		{
			EntryDate: start.Add(time.Hour),
			ExitDate:  start.Add(time.Hour * 2),
			Direction: shared.Short,
			Entry:     2010.1234,
			Exit:      2001.5,
			Size:      11.5,
			PNL:       98.1,
			Result:    backtest.Win,
			Reason:    shared.DowntrendSupplyReason,
		},
	}

	var buf bytes.Buffer
	err := WriteTrades(&buf, trades)
	assert.NoError(t, err)

	want := "entry_ts,exit_ts,direction,entry,exit,pnl,result,reason\n" +
		"2024-01-01 05:50:00,2024-01-01 05:55:00,long,2000.000,1995.000,-101.00,loss,uptrend + BOS/ChoCh + demand\n" +
		"2024-01-01 06:50:00,2024-01-01 07:50:00,short,2010.123,2001.500,98.10,win,downtrend + BOS/ChoCh + supply\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("unexpected trades csv (-want +got):\n%s", diff)
	}

	// Ensure an empty trade log still writes the header.
	buf.Reset()
	err = WriteTrades(&buf, nil)
	assert.NoError(t, err)
	assert.Equal(t, buf.String(), strings.Join(tradeHeader, ",")+"\n")
}

func TestSaveCandlesRoundTrip(t *testing.T) {
	candles := fetch.GenerateSample(20, 7)

	// Ensure nested output directories are created.
	path := filepath.Join(t.TempDir(), "nested", "dir", "xauusd_5m_sample.csv")
	saved, err := SaveCandles(path, candles)
	assert.NoError(t, err)
	assert.Equal(t, saved, path)

	// Ensure saved candles can be loaded back at the written precision.
	loaded, err := fetch.LoadCSV(path)
	assert.NoError(t, err)
	assert.Equal(t, len(loaded), len(candles))
	if diff := cmp.Diff(candles, loaded, cmpopts.EquateApprox(0, 0.051)); diff != "" {
		t.Errorf("unexpected round trip (-want +got):\n%s", diff)
	}
}

func TestSaveTrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "trades.csv")
	_, err := SaveTrades(path, []backtest.Trade{})
	assert.NoError(t, err)

	b, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "entry_ts,exit_ts"))

	// Ensure saving into a path blocked by a file fails.
	blocker := filepath.Join(t.TempDir(), "blocker")
	err = os.WriteFile(blocker, []byte("x"), 0o644)
	assert.NoError(t, err)

	_, err = SaveTrades(filepath.Join(blocker, "trades.csv"), nil)
	assert.Error(t, err)
}
