package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dnldd/zonebot/shared"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// TwelveDataBaseURL is the Twelve Data REST API base url.
	TwelveDataBaseURL = "https://api.twelvedata.com"
	// timeSeriesPath is the Twelve Data time series endpoint.
	timeSeriesPath = "/time_series"
	// defaultTimeout is the default request timeout.
	defaultTimeout = time.Second * 30
)

// TwelveDataConfig represents the configuration for the Twelve Data client.
type TwelveDataConfig struct {
	// APIKey is the Twelve Data API key.
	APIKey string
	// BaseURL is the base url of the API.
	BaseURL string
	// Symbol is the instrument fetched, defaults to XAU/USD.
	Symbol string
	// Interval is the candle interval fetched, defaults to 5min.
	Interval string
	// Timeout is the request timeout.
	Timeout time.Duration
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// TwelveDataClient represents the Twelve Data API client.
type TwelveDataClient struct {
	cfg    *TwelveDataConfig
	client *resty.Client
}

// Ensure the TwelveDataClient implements the MarketFetcher interface.
var _ shared.MarketFetcher = (*TwelveDataClient)(nil)

// NewTwelveDataClient instantiates a new Twelve Data client.
func NewTwelveDataClient(cfg *TwelveDataConfig) (*TwelveDataClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("twelvedata api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = TwelveDataBaseURL
	}
	if cfg.Symbol == "" {
		cfg.Symbol = "XAU/USD"
	}
	if cfg.Interval == "" {
		cfg.Interval = "5min"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		logger := zerolog.Nop()
		cfg.Logger = &logger
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &TwelveDataClient{cfg: cfg, client: client}, nil
}

// ParseCandlesticks parses candlesticks from the provided time series values.
func ParseCandlesticks(data []gjson.Result) ([]shared.Candlestick, error) {
	candles := make([]shared.Candlestick, 0, len(data))

	for idx := range data {
		var candle shared.Candlestick

		candle.Open = data[idx].Get("open").Float()
		candle.High = data[idx].Get("high").Float()
		candle.Low = data[idx].Get("low").Float()
		candle.Close = data[idx].Get("close").Float()
		candle.Volume = data[idx].Get("volume").Float()

		dt, err := ParseTimestamp(data[idx].Get("datetime").String())
		if err != nil {
			return nil, fmt.Errorf("parsing candlestick date: %w", err)
		}

		candle.Date = dt
		candles = append(candles, candle)
	}

	sortCandles(candles)

	return candles, nil
}

// FetchCandles fetches the most recent candles for the configured symbol and
// interval in chronological order.
func (c *TwelveDataClient) FetchCandles(ctx context.Context, outputSize int) ([]shared.Candlestick, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":     c.cfg.Symbol,
			"interval":   c.cfg.Interval,
			"outputsize": strconv.Itoa(outputSize),
			"apikey":     c.cfg.APIKey,
			"format":     "JSON",
		}).
		Get(timeSeriesPath)
	if err != nil {
		return nil, fmt.Errorf("fetching %s %s time series: %w", c.cfg.Symbol, c.cfg.Interval, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("twelvedata request failed with HTTP %d, check the api key and "+
			"plan limits or use -source csv with a local export", resp.StatusCode())
	}

	body := resp.Body()
	if gjson.GetBytes(body, "status").String() == "error" {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("twelvedata error: %s", msg)
	}

	values := gjson.GetBytes(body, "values")
	if !values.Exists() {
		return nil, fmt.Errorf("unexpected twelvedata response: missing 'values'")
	}

	candles, err := ParseCandlesticks(values.Array())
	if err != nil {
		return nil, fmt.Errorf("parsing twelvedata values: %w", err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles returned from twelvedata")
	}

	c.cfg.Logger.Info().Msgf("fetched %d %s %s candles from %s to %s", len(candles), c.cfg.Symbol,
		c.cfg.Interval, candles[0].Date.Format(shared.DateLayout),
		candles[len(candles)-1].Date.Format(shared.DateLayout))

	return candles, nil
}
