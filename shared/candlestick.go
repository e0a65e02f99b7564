package shared

import (
	"time"
)

// Candlestick represents a unit candlestick for a market.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time
}

// Closes returns the close prices of the provided candlesticks in order.
func Closes(candles []Candlestick) []float64 {
	closes := make([]float64, len(candles))
	for idx := range candles {
		closes[idx] = candles[idx].Close
	}

	return closes
}

// IndexByDate maps the dates of the provided candlesticks to their positions.
func IndexByDate(candles []Candlestick) map[time.Time]int {
	index := make(map[time.Time]int, len(candles))
	for idx := range candles {
		index[candles[idx].Date] = idx
	}

	return index
}
