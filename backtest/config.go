package backtest

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Config represents the backtest engine configuration.
type Config struct {
	// InitialBalance is the starting account balance.
	InitialBalance float64
	// RiskPerTrade is the fraction of the balance risked on each trade.
	RiskPerTrade float64
	// FeePerTrade is the flat fee charged on each trade.
	FeePerTrade float64
	// MaxBarsInTrade is the maximum number of candles a trade is held for.
	MaxBarsInTrade int
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns the default backtest parameters.
func DefaultConfig() Config {
	logger := zerolog.Nop()
	return Config{
		InitialBalance: 10_000,
		RiskPerTrade:   0.01,
		FeePerTrade:    1.0,
		MaxBarsInTrade: 72,
		Logger:         &logger,
	}
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.InitialBalance <= 0 {
		errs = errors.Join(errs, fmt.Errorf("initial balance must be positive, got %f", cfg.InitialBalance))
	}
	if cfg.RiskPerTrade <= 0 || cfg.RiskPerTrade > 1 {
		errs = errors.Join(errs, fmt.Errorf("risk per trade must be within (0, 1], got %f", cfg.RiskPerTrade))
	}
	if cfg.FeePerTrade < 0 {
		errs = errors.Join(errs, fmt.Errorf("fee per trade cannot be negative, got %f", cfg.FeePerTrade))
	}
	if cfg.MaxBarsInTrade < 1 {
		errs = errors.Join(errs, fmt.Errorf("max bars in trade must be at least 1, got %d", cfg.MaxBarsInTrade))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}
