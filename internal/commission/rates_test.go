package commission

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestResolveRateTiers(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		monthSales string
		want       string
	}{
		{"zero sales", "0", "5"},
		{"just under first boundary", "9999.99", "5"},
		{"first boundary", "10000", "4"},
		{"mid second band", "25000", "4"},
		{"second boundary", "50000", "3"},
		{"just under third boundary", "99999.99", "3"},
		{"third boundary", "100000", "2.5"},
		{"far above top", "1000000", "2.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sales := decimal.RequireFromString(tc.monthSales)
			got := ResolveRate(sales, false, nil, now)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("ResolveRate(%s) = %s, want %s", tc.monthSales, got, tc.want)
			}
		})
	}
}

func TestResolveRateEarlyAdopter(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 3, 0)
	past := now.AddDate(0, -1, 0)

	if got := ResolveRate(decimal.NewFromInt(200000), true, &future, now); !got.IsZero() {
		t.Fatalf("inside free window: got %s, want 0", got)
	}
	if got := ResolveRate(decimal.NewFromInt(200000), true, &past, now); !got.Equal(EarlyAdopterRatePercent) {
		t.Fatalf("after free window: got %s, want %s", got, EarlyAdopterRatePercent)
	}
	// no recorded window still means the flat early-adopter rate
	if got := ResolveRate(decimal.NewFromInt(200000), true, nil, now); !got.Equal(EarlyAdopterRatePercent) {
		t.Fatalf("nil expiry: got %s, want %s", got, EarlyAdopterRatePercent)
	}
	// expiry boundary itself is no longer free
	if got := ResolveRate(decimal.Zero, true, &now, now); !got.Equal(EarlyAdopterRatePercent) {
		t.Fatalf("at expiry instant: got %s, want %s", got, EarlyAdopterRatePercent)
	}
}

func TestTiersIsACopy(t *testing.T) {
	first := Tiers()
	first[0].RatePercent = decimal.NewFromInt(99)

	second := Tiers()
	if !second[0].RatePercent.Equal(decimal.NewFromFloat(5.0)) {
		t.Fatalf("mutating the returned slice leaked into the schedule: %s", second[0].RatePercent)
	}
	if len(second) != 4 {
		t.Fatalf("expected 4 tiers, got %d", len(second))
	}
	if second[len(second)-1].Max != nil {
		t.Fatal("top tier should be open-ended")
	}
}
