package backtest

import (
	"time"

	"github.com/dnldd/zonebot/shared"
)

// Result represents the outcome classification of a trade.
type Result int

const (
	Win Result = iota
	Loss
	Timeout
)

// String stringifies the provided result.
func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Trade represents the realized outcome of a signal.
type Trade struct {
	EntryDate time.Time
	ExitDate  time.Time
	Direction shared.Direction
	Entry     float64
	Exit      float64
	Size      float64
	PNL       float64
	Result    Result
	Reason    string
}

// EntryTimestamp returns the formatted entry date of the trade.
func (t *Trade) EntryTimestamp() string {
	return t.EntryDate.Format(shared.DateLayout)
}

// ExitTimestamp returns the formatted exit date of the trade.
func (t *Trade) ExitTimestamp() string {
	return t.ExitDate.Format(shared.DateLayout)
}
