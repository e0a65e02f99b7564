package indicator

import (
	"math"

	"github.com/dnldd/zonebot/shared"
)

// TrueRange returns the true range of each provided candlestick.
func TrueRange(candles []shared.Candlestick) []float64 {
	set := make([]float64, len(candles))
	for idx := range candles {
		candle := candles[idx]
		if idx == 0 {
			set[idx] = candle.High - candle.Low
			continue
		}

		prevClose := candles[idx-1].Close
		set[idx] = math.Max(candle.High-candle.Low,
			math.Max(math.Abs(candle.High-prevClose), math.Abs(candle.Low-prevClose)))
	}

	return set
}

// ATR returns the average true range of the provided candlesticks. Each entry
// is the plain mean of the true ranges in a trailing window of the given
// period, the window growing from the first candle until it is full.
func ATR(candles []shared.Candlestick, period int) []float64 {
	if period < 1 {
		period = 1
	}

	trs := TrueRange(candles)
	set := make([]float64, len(trs))

	for idx := range trs {
		start := max(0, idx-period+1)

		var sum float64
		for _, tr := range trs[start : idx+1] {
			sum += tr
		}

		set[idx] = sum / float64(idx-start+1)
	}

	return set
}
