package strategy

import (
	"errors"
	"fmt"
)

const (
	// WarmupBars is the number of leading candles skipped to let the
	// indicators settle before signals are evaluated.
	WarmupBars = 60
	// minRisk is the smallest per unit risk a signal can carry.
	minRisk = 0.01
)

// Config represents the signal generation parameters.
type Config struct {
	// EMAFast is the fast exponential moving average period.
	EMAFast int
	// EMASlow is the slow exponential moving average period.
	EMASlow int
	// ATRPeriod is the average true range period.
	ATRPeriod int
	// SwingWindow is the number of candles on each side of a swing point.
	SwingWindow int
	// RR is the reward multiple of the risk used to place the take profit.
	RR float64
	// ZonePadATR is the zone padding as a multiple of the average true range.
	ZonePadATR float64
}

// DefaultConfig returns the default signal generation parameters.
func DefaultConfig() Config {
	return Config{
		EMAFast:     20,
		EMASlow:     50,
		ATRPeriod:   14,
		SwingWindow: 3,
		RR:          2.0,
		ZonePadATR:  0.25,
	}
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.EMAFast < 1 {
		errs = errors.Join(errs, fmt.Errorf("fast ema period must be at least 1, got %d", cfg.EMAFast))
	}
	if cfg.EMASlow < 1 {
		errs = errors.Join(errs, fmt.Errorf("slow ema period must be at least 1, got %d", cfg.EMASlow))
	}
	if cfg.ATRPeriod < 1 {
		errs = errors.Join(errs, fmt.Errorf("atr period must be at least 1, got %d", cfg.ATRPeriod))
	}
	if cfg.SwingWindow < 0 {
		errs = errors.Join(errs, fmt.Errorf("swing window cannot be negative, got %d", cfg.SwingWindow))
	}
	if cfg.RR <= 0 {
		errs = errors.Join(errs, fmt.Errorf("reward multiple must be positive, got %f", cfg.RR))
	}
	if cfg.ZonePadATR < 0 {
		errs = errors.Join(errs, fmt.Errorf("zone pad cannot be negative, got %f", cfg.ZonePadATR))
	}

	return errs
}
