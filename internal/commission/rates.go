package commission

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier is one band of the monthly-sales commission schedule. A nil Max marks
// the open-ended top band.
type Tier struct {
	Min         decimal.Decimal  `json:"min"`
	Max         *decimal.Decimal `json:"max,omitempty"`
	RatePercent decimal.Decimal  `json:"rate_percent"`
}

// EarlyAdopterRatePercent is the permanent rate for early adopters once their
// free window lapses.
var EarlyAdopterRatePercent = decimal.NewFromFloat(2.0)

// EarlyAdopterFreeMonths is how long a newly claimed early-adopter slot pays
// no commission at all.
const EarlyAdopterFreeMonths = 6

var tiers = []Tier{
	{Min: decimal.Zero, Max: decimalPtr(decimal.NewFromInt(10000)), RatePercent: decimal.NewFromFloat(5.0)},
	{Min: decimal.NewFromInt(10000), Max: decimalPtr(decimal.NewFromInt(50000)), RatePercent: decimal.NewFromFloat(4.0)},
	{Min: decimal.NewFromInt(50000), Max: decimalPtr(decimal.NewFromInt(100000)), RatePercent: decimal.NewFromFloat(3.0)},
	{Min: decimal.NewFromInt(100000), Max: nil, RatePercent: decimal.NewFromFloat(2.5)},
}

// Tiers returns the commission schedule in ascending band order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// ResolveRate returns the commission rate percent a merchant should be on.
//
// Early adopters inside their free window pay nothing. Early adopters past
// the window (or with no recorded window) stay on the flat early-adopter
// rate forever, regardless of volume. Everyone else lands on the first tier
// whose band contains monthSales.
func ResolveRate(monthSales decimal.Decimal, isEarlyAdopter bool, expiresAt *time.Time, now time.Time) decimal.Decimal {
	if isEarlyAdopter {
		if expiresAt != nil && now.Before(*expiresAt) {
			return decimal.Zero
		}
		return EarlyAdopterRatePercent
	}

	for _, tier := range tiers {
		if monthSales.LessThan(tier.Min) {
			continue
		}
		if tier.Max == nil || monthSales.LessThan(*tier.Max) {
			return tier.RatePercent
		}
	}
	// monthSales below zero should not happen, but the bottom band still applies.
	return tiers[0].RatePercent
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
