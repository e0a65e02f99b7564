package shared

const (
	// DateLayout is the format layout for parsing and formatting dates.
	DateLayout = "2006-01-02 15:04:05"
)

// Timeframe represents the market data time period.
type Timeframe int

const (
	FiveMinute Timeframe = iota
	OneHour
)

// String stringifies the provided timeframe.
func (t Timeframe) String() string {
	switch t {
	case FiveMinute:
		return "5m"
	case OneHour:
		return "1H"
	default:
		return "unknown"
	}
}
