package fetch

import (
	"math"
	"math/rand"
	"time"

	"github.com/dnldd/zonebot/shared"
)

const (
	// sampleBasePrice is the opening price of generated sample data.
	sampleBasePrice = 2350.0
	// sampleFloorPrice is the lowest close generated sample data can reach.
	sampleFloorPrice = 1000.0
	// sampleDrift is the per candle drift of generated sample data.
	sampleDrift = 0.02
	// sampleWaveLength is the number of candles in a sample price wave.
	sampleWaveLength = 80
)

// SampleStart is the date of the first generated sample candle.
var SampleStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// GenerateSample generates synthetic five minute XAUUSD-like candles. The
// same seed always yields the same series.
func GenerateSample(bars int, seed int64) []shared.Candlestick {
	rng := rand.New(rand.NewSource(seed))
	candles := make([]shared.Candlestick, 0, max(bars, 0))

	price := sampleBasePrice
	date := SampleStart
	for idx := 0; idx < bars; idx++ {
		wave := float64((idx%sampleWaveLength)-sampleWaveLength/2) * 0.03
		move := sampleDrift + wave*0.02 + (rng.Float64()-0.5)*0.9

		open := price
		close := math.Max(sampleFloorPrice, open+move)
		high := math.Max(open, close) + rng.Float64()*0.6
		low := math.Min(open, close) - rng.Float64()*0.6

		candles = append(candles, shared.Candlestick{
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 100 + rng.Float64()*50,
			Date:   date,
		})

		price = close
		date = date.Add(time.Minute * 5)
	}

	return candles
}
