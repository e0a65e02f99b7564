package fetch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dnldd/zonebot/shared"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// column describes a candle field and the header aliases it is read from.
type column struct {
	name     string
	aliases  []string
	required bool
}

var (
	timestampColumn = column{name: "timestamp", aliases: []string{"timestamp", "datetime", "date", "time"}, required: true}
	openColumn      = column{name: "open", aliases: []string{"open", "o"}, required: true}
	highColumn      = column{name: "high", aliases: []string{"high", "h"}, required: true}
	lowColumn       = column{name: "low", aliases: []string{"low", "l"}, required: true}
	closeColumn     = column{name: "close", aliases: []string{"close", "c"}, required: true}
	volumeColumn    = column{name: "volume", aliases: []string{"volume", "tick_volume", "vol"}}
)

// row maps normalized headers to the values of a csv record.
type row map[string]string

// pick returns the first non-empty value among the column's aliases.
func (r row) pick(col column) (string, error) {
	for _, alias := range col.aliases {
		v, ok := r[alias]
		if ok && v != "" {
			return v, nil
		}
	}

	if col.required {
		return "", fmt.Errorf("missing required column, expected one of: %s",
			strings.Join(col.aliases, ", "))
	}

	return "", nil
}

// float parses the float value of the provided column.
func (r row) float(col column) (float64, error) {
	v, err := r.pick(col)
	if err != nil {
		return 0, err
	}
	if v == "" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s value '%s': %w", col.name, v, err)
	}

	return f, nil
}

// parseCandle creates a candlestick from the provided row.
func (r row) parseCandle() (shared.Candlestick, error) {
	var candle shared.Candlestick

	raw, err := r.pick(timestampColumn)
	if err != nil {
		return candle, err
	}
	candle.Date, err = ParseTimestamp(raw)
	if err != nil {
		return candle, err
	}

	candle.Open, err = r.float(openColumn)
	if err != nil {
		return candle, err
	}
	candle.High, err = r.float(highColumn)
	if err != nil {
		return candle, err
	}
	candle.Low, err = r.float(lowColumn)
	if err != nil {
		return candle, err
	}
	candle.Close, err = r.float(closeColumn)
	if err != nil {
		return candle, err
	}
	candle.Volume, err = r.float(volumeColumn)
	if err != nil {
		return candle, err
	}

	return candle, nil
}

// sortCandles orders the provided candles by date.
func sortCandles(candles []shared.Candlestick) {
	slices.SortStableFunc(candles, func(a, b shared.Candlestick) int {
		return a.Date.Compare(b.Date)
	})
}

// ReadCSV parses candlesticks from csv data with a header row. Header names
// are matched case-insensitively against common vendor aliases and byte order
// marks, including UTF-16 ones, are honoured.
func ReadCSV(r io.Reader) ([]shared.Candlestick, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv contained no candles")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	for idx := range header {
		header[idx] = strings.ToLower(strings.TrimSpace(header[idx]))
	}

	candles := []shared.Candlestick{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}

		r := make(row, len(header))
		for idx := range header {
			if idx < len(record) {
				r[header[idx]] = strings.TrimSpace(record[idx])
			}
		}

		candle, err := r.parseCandle()
		if err != nil {
			return nil, fmt.Errorf("parsing csv line %d: %w", line, err)
		}

		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("csv contained no candles")
	}

	sortCandles(candles)

	return candles, nil
}

// LoadCSV loads candlesticks from the csv file at the provided path.
func LoadCSV(path string) ([]shared.Candlestick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv file with path '%s': %w", path, err)
	}
	defer f.Close()

	candles, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("loading csv file with path '%s': %w", path, err)
	}

	return candles, nil
}
