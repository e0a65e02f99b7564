package priceaction

import "github.com/dnldd/zonebot/shared"

// windowBounds returns the symmetric window around idx and whether it lies
// fully within the candle series.
func windowBounds(candles []shared.Candlestick, idx int, window int) (int, int, bool) {
	start := idx - window
	end := idx + window
	if start < 0 || end >= len(candles) {
		return 0, 0, false
	}

	return start, end, true
}

// IsSwingHigh checks whether the candle at idx has the highest high of the
// symmetric window around it. Equal highs in the window still qualify.
func IsSwingHigh(candles []shared.Candlestick, idx int, window int) bool {
	start, end, ok := windowBounds(candles, idx, window)
	if !ok {
		return false
	}

	high := candles[idx].High
	for j := start; j <= end; j++ {
		if high < candles[j].High {
			return false
		}
	}

	return true
}

// IsSwingLow checks whether the candle at idx has the lowest low of the
// symmetric window around it. Equal lows in the window still qualify.
func IsSwingLow(candles []shared.Candlestick, idx int, window int) bool {
	start, end, ok := windowBounds(candles, idx, window)
	if !ok {
		return false
	}

	low := candles[idx].Low
	for j := start; j <= end; j++ {
		if low > candles[j].Low {
			return false
		}
	}

	return true
}
