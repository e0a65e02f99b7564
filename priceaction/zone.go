package priceaction

import "math"

const (
	// zoneDepthATR is the maximum distance, in ATR multiples, of a zone's
	// anchor from the close that formed it.
	zoneDepthATR = 1.5
)

// ZoneKind represents the type of zone.
type ZoneKind int

const (
	Demand ZoneKind = iota
	Supply
)

// String stringifies the provided zone kind.
func (k ZoneKind) String() string {
	switch k {
	case Demand:
		return "demand"
	case Supply:
		return "supply"
	default:
		return "unknown"
	}
}

// Zone represents a demand or supply price band.
type Zone struct {
	Kind ZoneKind
	Low  float64
	High float64
	Pad  float64
}

// NewDemandZone initializes a demand zone anchored at the higher of the last
// swing low and the close less the zone depth.
func NewDemandZone(lastSwingLow float64, close float64, atr float64, padATR float64) Zone {
	pad := atr * padATR
	low := math.Max(lastSwingLow, close-zoneDepthATR*atr)

	return Zone{
		Kind: Demand,
		Low:  low,
		High: low + pad,
		Pad:  pad,
	}
}

// NewSupplyZone initializes a supply zone anchored at the lower of the last
// swing high and the close plus the zone depth.
func NewSupplyZone(lastSwingHigh float64, close float64, atr float64, padATR float64) Zone {
	pad := atr * padATR
	high := math.Min(lastSwingHigh, close+zoneDepthATR*atr)

	return Zone{
		Kind: Supply,
		Low:  high - pad,
		High: high,
		Pad:  pad,
	}
}

// Contains checks whether the provided price lies within the zone, bounds
// inclusive.
func (z Zone) Contains(price float64) bool {
	return price >= z.Low && price <= z.High
}

// StopLoss returns the invalidation price of the zone, one pad beyond its
// anchor.
func (z Zone) StopLoss() float64 {
	switch z.Kind {
	case Supply:
		return z.High + z.Pad
	default:
		return z.Low - z.Pad
	}
}
