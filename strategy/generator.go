package strategy

import (
	"math"

	"github.com/dnldd/zonebot/indicator"
	"github.com/dnldd/zonebot/priceaction"
	"github.com/dnldd/zonebot/shared"
)

// series holds the indicator values aligned with a candle series.
type series struct {
	emaFast []float64
	emaSlow []float64
	atr     []float64
}

// computeSeries derives the indicator series for the provided candles.
func computeSeries(cfg *Config, candles []shared.Candlestick) series {
	closes := shared.Closes(candles)

	return series{
		emaFast: indicator.EMA(closes, cfg.EMAFast),
		emaSlow: indicator.EMA(closes, cfg.EMASlow),
		atr:     indicator.ATR(candles, cfg.ATRPeriod),
	}
}

// GenerateSignals walks the provided candles once and returns the signals
// triggered by price trading back into a demand zone after a bullish break
// in an uptrend, or into a supply zone after a bearish break in a downtrend.
// Signals are returned in chronological order and may overlap in time.
func GenerateSignals(cfg *Config, candles []shared.Candlestick) []shared.Signal {
	signals := []shared.Signal{}
	if len(candles) <= WarmupBars {
		return signals
	}

	s := computeSeries(cfg, candles)

	var structure priceaction.Structure
	for idx := WarmupBars; idx < len(candles); idx++ {
		structure = structure.Advance(candles, idx, cfg.SwingWindow)
		if !structure.Ready() {
			continue
		}

		signal, ok := evaluate(cfg, candles, &s, structure, idx)
		if ok {
			signals = append(signals, signal)
		}
	}

	return signals
}

// evaluate determines whether the candle at idx triggers a signal. Only the
// direction matching the current trend is considered.
func evaluate(cfg *Config, candles []shared.Candlestick, s *series, structure priceaction.Structure, idx int) (shared.Signal, bool) {
	candle := candles[idx]
	trendUp := priceaction.TrendUp(s.emaFast, s.emaSlow, idx)
	prevTrendUp := priceaction.TrendUp(s.emaFast, s.emaSlow, idx-1)
	brk := structure.Evaluate(candle.Close, prevTrendUp)

	switch {
	case trendUp && brk.Bullish():
		zone := priceaction.NewDemandZone(structure.SwingLow, candle.Close, s.atr[idx], cfg.ZonePadATR)
		if !zone.Contains(candle.Low) {
			return shared.Signal{}, false
		}

		entry := candle.Close
		stop := zone.StopLoss()
		risk := math.Max(entry-stop, minRisk)

		return shared.NewSignal(candle.Date, shared.Long, entry, stop, entry+risk*cfg.RR,
			shared.UptrendDemandReason), true

	case !trendUp && brk.Bearish():
		zone := priceaction.NewSupplyZone(structure.SwingHigh, candle.Close, s.atr[idx], cfg.ZonePadATR)
		if !zone.Contains(candle.High) {
			return shared.Signal{}, false
		}

		entry := candle.Close
		stop := zone.StopLoss()
		risk := math.Max(stop-entry, minRisk)

		return shared.NewSignal(candle.Date, shared.Short, entry, stop, entry-risk*cfg.RR,
			shared.DowntrendSupplyReason), true

	default:
		return shared.Signal{}, false
	}
}
