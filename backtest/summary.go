package backtest

// Summary represents aggregate statistics over a trade log.
type Summary struct {
	TotalTrades        int
	WinRate            float64
	NetProfit          float64
	EndingBalance      float64
	MaxDrawdownPercent float64
}

// Summarize reduces the provided trades to a summary. The ending balance and
// the maximum drawdown fraction are carried over from the engine run.
func Summarize(trades []Trade, endingBalance float64, maxDrawdown float64) Summary {
	summary := Summary{
		TotalTrades:        len(trades),
		EndingBalance:      endingBalance,
		MaxDrawdownPercent: maxDrawdown * 100,
	}

	var wins int
	for idx := range trades {
		summary.NetProfit += trades[idx].PNL
		if trades[idx].Result == Win {
			wins++
		}
	}

	if summary.TotalTrades > 0 {
		summary.WinRate = float64(wins) / float64(summary.TotalTrades) * 100
	}

	return summary
}
