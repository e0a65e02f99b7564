package priceaction

import "github.com/dnldd/zonebot/shared"

// Structure tracks the most recent confirmed swing extremes of a market. It is
// a value type threaded through a single forward pass over candle indices.
type Structure struct {
	SwingHigh    float64
	SwingLow     float64
	HasSwingHigh bool
	HasSwingLow  bool
}

// Advance returns the structure updated with any swing point confirmed at the
// candle preceding idx.
func (s Structure) Advance(candles []shared.Candlestick, idx int, window int) Structure {
	prev := idx - 1
	if prev < 0 || prev >= len(candles) {
		return s
	}

	if IsSwingHigh(candles, prev, window) {
		s.SwingHigh = candles[prev].High
		s.HasSwingHigh = true
	}
	if IsSwingLow(candles, prev, window) {
		s.SwingLow = candles[prev].Low
		s.HasSwingLow = true
	}

	return s
}

// Ready checks whether both a swing high and a swing low have been confirmed.
func (s Structure) Ready() bool {
	return s.HasSwingHigh && s.HasSwingLow
}

// Break describes the structure events triggered by a candle close.
type Break struct {
	BullishBOS   bool
	BearishBOS   bool
	BullishChoCh bool
	BearishChoCh bool
}

// Bullish checks whether a bullish break of structure or change of character
// occured.
func (b Break) Bullish() bool {
	return b.BullishBOS || b.BullishChoCh
}

// Bearish checks whether a bearish break of structure or change of character
// occured.
func (b Break) Bearish() bool {
	return b.BearishBOS || b.BearishChoCh
}

// Evaluate determines the structure events for the provided close given the
// trend state of the previous candle.
func (s Structure) Evaluate(close float64, prevTrendUp bool) Break {
	var brk Break
	brk.BullishBOS = s.HasSwingHigh && close > s.SwingHigh
	brk.BearishBOS = s.HasSwingLow && close < s.SwingLow

	// A change of character is a break that goes against the prior trend.
	brk.BullishChoCh = !prevTrendUp && brk.BullishBOS
	brk.BearishChoCh = prevTrendUp && brk.BearishBOS

	return brk
}

// TrendUp checks whether the fast average is strictly above the slow average
// at idx. Equal averages are not considered an uptrend.
func TrendUp(fast []float64, slow []float64, idx int) bool {
	if idx < 0 || idx >= len(fast) || idx >= len(slow) {
		return false
	}

	return fast[idx] > slow[idx]
}
