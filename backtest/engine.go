package backtest

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/zonebot/shared"
)

// Engine replays signals against the candle path that follows them.
type Engine struct {
	cfg *Config
}

// NewEngine initializes a new backtest engine.
func NewEngine(cfg *Config) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating backtest config: %w", err)
	}

	return &Engine{cfg: cfg}, nil
}

// Account tracks the running balance and drawdown of a single backtest run.
type Account struct {
	Balance     float64
	Peak        float64
	MaxDrawdown float64
}

// NewAccount initializes an account with the provided balance.
func NewAccount(balance float64) *Account {
	return &Account{
		Balance: balance,
		Peak:    balance,
	}
}

// Apply books the provided profit or loss and updates the drawdown.
func (a *Account) Apply(pnl float64) {
	a.Balance += pnl
	if a.Balance > a.Peak {
		a.Peak = a.Balance
	}

	if a.Peak > 0 {
		drawdown := (a.Peak - a.Balance) / a.Peak
		if drawdown > a.MaxDrawdown {
			a.MaxDrawdown = drawdown
		}
	}
}

// exit describes where and why a trade was closed.
type exit struct {
	idx    int
	price  float64
	result Result
}

// scan walks the candles after start for at most maxBars candles and returns
// the first stop or target breach. The stop is checked before the target on
// each candle. A trade with no breach exits at the close of the last candle
// scanned.
func scan(candles []shared.Candlestick, signal *shared.Signal, start int, maxBars int) exit {
	out := exit{
		idx:    start,
		price:  candles[start].Close,
		result: Timeout,
	}

	end := min(len(candles), start+1+maxBars)
	for idx := start + 1; idx < end; idx++ {
		candle := candles[idx]
		switch signal.Direction {
		case shared.Long:
			if candle.Low <= signal.StopLoss {
				return exit{idx: idx, price: signal.StopLoss, result: Loss}
			}
			if candle.High >= signal.TakeProfit {
				return exit{idx: idx, price: signal.TakeProfit, result: Win}
			}
		case shared.Short:
			if candle.High >= signal.StopLoss {
				return exit{idx: idx, price: signal.StopLoss, result: Loss}
			}
			if candle.Low <= signal.TakeProfit {
				return exit{idx: idx, price: signal.TakeProfit, result: Win}
			}
		}

		out.idx = idx
		out.price = candle.Close
	}

	return out
}

// Run simulates each signal in order against the provided candles and returns
// the resulting trades and summary. Signals are evaluated independently, so
// trades may overlap in time. Signals without a matching candle or with no
// risk are skipped.
func (e *Engine) Run(candles []shared.Candlestick, signals []shared.Signal) ([]Trade, Summary) {
	index := shared.IndexByDate(candles)
	account := NewAccount(e.cfg.InitialBalance)
	trades := make([]Trade, 0, len(signals))

	for idx := range signals {
		signal := signals[idx]
		start, ok := index[signal.Date]
		if !ok {
			e.cfg.Logger.Debug().Msgf("skipping signal with no matching candle: %s", spew.Sdump(signal))
			continue
		}

		perUnitRisk := signal.PerUnitRisk()
		if perUnitRisk <= 0 {
			e.cfg.Logger.Debug().Msgf("skipping signal with non-positive risk: %s", spew.Sdump(signal))
			continue
		}

		riskAmount := account.Balance * e.cfg.RiskPerTrade
		size := riskAmount / perUnitRisk

		out := scan(candles, &signal, start, e.cfg.MaxBarsInTrade)

		var gross float64
		switch signal.Direction {
		case shared.Long:
			gross = (out.price - signal.Entry) * size
		case shared.Short:
			gross = (signal.Entry - out.price) * size
		}

		pnl := gross - e.cfg.FeePerTrade
		account.Apply(pnl)

		trades = append(trades, Trade{
			EntryDate: signal.Date,
			ExitDate:  candles[out.idx].Date,
			Direction: signal.Direction,
			Entry:     signal.Entry,
			Exit:      out.price,
			Size:      size,
			PNL:       pnl,
			Result:    out.result,
			Reason:    signal.Reason,
		})
	}

	summary := Summarize(trades, account.Balance, account.MaxDrawdown)

	e.cfg.Logger.Info().Msgf("backtested %d/%d signals: win rate %.2f%%, net profit %.2f, max drawdown %.2f%%",
		summary.TotalTrades, len(signals), summary.WinRate, summary.NetProfit, summary.MaxDrawdownPercent)

	return trades, summary
}
