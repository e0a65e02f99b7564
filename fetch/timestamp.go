package fetch

import (
	"fmt"
	"strings"
	"time"

	"github.com/dnldd/zonebot/shared"
)

// timestampLayouts are the timestamp formats accepted from vendor exports,
// in order of preference.
var timestampLayouts = []string{
	shared.DateLayout,
	"2006-01-02 15:04",
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses the provided timestamp using the supported vendor
// layouts, falling back to RFC3339. Zone information is dropped so all
// timestamps are comparable as wall clock times.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
	}

	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unsupported timestamp format: %s", value)
	}

	return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(),
		ts.Second(), ts.Nanosecond(), time.UTC), nil
}
