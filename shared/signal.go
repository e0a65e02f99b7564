package shared

import (
	"time"
)

const (
	// UptrendDemandReason is the rationale attached to long signals.
	UptrendDemandReason = "uptrend + BOS/ChoCh + demand"
	// DowntrendSupplyReason is the rationale attached to short signals.
	DowntrendSupplyReason = "downtrend + BOS/ChoCh + supply"
)

// Signal represents an intent to enter a trade at the close of the candle
// that triggered it.
type Signal struct {
	Date       time.Time
	Direction  Direction
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	Reason     string
}

// NewSignal initializes a new signal.
func NewSignal(date time.Time, direction Direction, entry float64, stopLoss float64, takeProfit float64, reason string) Signal {
	return Signal{
		Date:       date,
		Direction:  direction,
		Entry:      entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Reason:     reason,
	}
}

// PerUnitRisk returns the price distance between the entry and the stop loss
// in the direction of the trade. It is non-positive for malformed signals.
func (s *Signal) PerUnitRisk() float64 {
	switch s.Direction {
	case Long:
		return s.Entry - s.StopLoss
	case Short:
		return s.StopLoss - s.Entry
	default:
		return 0
	}
}
