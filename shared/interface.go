package shared

import (
	"context"
)

// MarketFetcher defines the requirements for fetching market data.
type MarketFetcher interface {
	// FetchCandles fetches up to the provided number of the most recent
	// candles in chronological order.
	FetchCandles(ctx context.Context, outputSize int) ([]Candlestick, error)
}
