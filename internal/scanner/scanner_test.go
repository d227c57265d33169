package scanner

import (
	"errors"
	"testing"
	"time"

	apperrors "put-screener/internal/errors"
	"put-screener/internal/models"
)

func putQuote(symbol string, strike, bid float64, dte int, iv float64) models.OptionQuote {
	return models.OptionQuote{
		Symbol:           symbol,
		UnderlyingSymbol: "TEST",
		Side:             models.SidePut,
		Strike:           strike,
		Bid:              bid,
		DaysToExpiry:     dte,
		ImpliedVol:       iv,
	}
}

// Wide-open COP range so only the ROI bound is under test.
func roiOnlyFilters(roiMin, roiMax float64) Filters {
	return Filters{ROIMin: roiMin, ROIMax: roiMax, COPMin: 0, COPMax: 1}
}

func TestScanROIBoundaryInclusive(t *testing.T) {
	u := Underlying{
		Symbol: "TEST",
		Spot:   100,
		Quotes: []models.OptionQuote{
			putQuote("TEST_AT_MIN", 100, 0.20, 30, 0.3),     // roi = 0.200, on the lower bound
			putQuote("TEST_BELOW_MIN", 100, 0.199, 30, 0.3), // roi = 0.199
			putQuote("TEST_AT_MAX", 100, 1.00, 30, 0.3),     // roi = 1.000, on the upper bound
			putQuote("TEST_ABOVE_MAX", 100, 1.001, 30, 0.3), // roi = 1.001
		},
	}

	s := New(roiOnlyFilters(0.20, 1.00), 30)
	groups, warnings := s.Scan([]Underlying{u}, nil, time.Now())

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}

	got := map[string]bool{}
	for _, c := range groups[0].Candidates {
		got[c.Symbol] = true
	}

	for _, want := range []string{"TEST_AT_MIN", "TEST_AT_MAX"} {
		if !got[want] {
			t.Errorf("boundary candidate %s excluded", want)
		}
	}
	for _, reject := range []string{"TEST_BELOW_MIN", "TEST_ABOVE_MAX"} {
		if got[reject] {
			t.Errorf("out-of-range candidate %s included", reject)
		}
	}
}

func TestScanCOPBoundaryInclusive(t *testing.T) {
	// spot=strike=100, iv=0.3, dte=30 gives COP ~0.4829. Pin the filter
	// bounds exactly on it and check inclusion both ways.
	q := putQuote("TEST_ATM", 100, 0.5, 30, 0.3)
	u := Underlying{Symbol: "TEST", Spot: 100, Quotes: []models.OptionQuote{q}}

	s := New(Filters{ROIMin: 0, ROIMax: 100, COPMin: 0, COPMax: 1}, 30)
	groups, _ := s.Scan([]Underlying{u}, nil, time.Now())
	if len(groups[0].Candidates) != 1 {
		t.Fatal("candidate missing under open filters")
	}
	cop := groups[0].Candidates[0].COP

	s = New(Filters{ROIMin: 0, ROIMax: 100, COPMin: cop, COPMax: cop}, 30)
	groups, _ = s.Scan([]Underlying{u}, nil, time.Now())
	if len(groups[0].Candidates) != 1 {
		t.Error("candidate on both COP bounds must be included")
	}
}

func TestScanIsolatesBadContracts(t *testing.T) {
	u := Underlying{
		Symbol: "TEST",
		Spot:   100,
		Quotes: []models.OptionQuote{
			putQuote("TEST_GOOD_1", 100, 0.30, 30, 0.3),
			putQuote("TEST_BAD_IV", 100, 0.30, 30, 0),   // iv=0 cannot be priced
			putQuote("TEST_BAD_DTE", 100, 0.30, 0, 0.3), // dte=0 cannot be priced
			putQuote("TEST_GOOD_2", 100, 0.40, 30, 0.3),
		},
	}

	s := New(roiOnlyFilters(0, 100), 30)
	groups, warnings := s.Scan([]Underlying{u}, nil, time.Now())

	if len(groups[0].Candidates) != 2 {
		t.Errorf("got %d candidates, want 2 good ones", len(groups[0].Candidates))
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2", len(warnings))
	}
	for _, w := range warnings {
		if !errors.Is(w.Err, apperrors.ErrInvalidPricingInput) {
			t.Errorf("warning for %s does not wrap ErrInvalidPricingInput: %v", w.ContractSymbol, w.Err)
		}
		if w.Symbol != "TEST" || w.ContractSymbol == "" {
			t.Errorf("warning missing contract attribution: %+v", w)
		}
	}
}

func TestScanBadUnderlyingDoesNotAbortBatch(t *testing.T) {
	bad := Underlying{
		Symbol: "BAD",
		Spot:   100,
		Quotes: []models.OptionQuote{putQuote("BAD_1", 100, 0.30, 30, 0)},
	}
	good := Underlying{
		Symbol: "GOOD",
		Spot:   100,
		Quotes: []models.OptionQuote{putQuote("GOOD_1", 100, 0.30, 30, 0.3)},
	}

	s := New(roiOnlyFilters(0, 100), 30)
	groups, warnings := s.Scan([]Underlying{bad, good}, nil, time.Now())

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Header.Symbol != "BAD" || groups[1].Header.Symbol != "GOOD" {
		t.Error("input order of underlyings not preserved")
	}
	if len(groups[1].Candidates) != 1 {
		t.Error("good underlying lost its candidate to a bad sibling")
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(warnings))
	}
}

func TestScanEarningsConflictFlag(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	window := 30

	tests := []struct {
		name     string
		earnings time.Time
		hasDate  bool
		want     bool
	}{
		{"inside window", now.AddDate(0, 0, 10), true, true},
		{"on window boundary", now.AddDate(0, 0, window), true, true},
		{"beyond window", now.AddDate(0, 0, window+1), true, false},
		{"no earnings known", time.Time{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(symbol string) (time.Time, bool) {
				return tt.earnings, tt.hasDate
			}
			u := Underlying{Symbol: "TEST", Spot: 100}

			s := New(DefaultFilters(), window)
			groups, _ := s.Scan([]Underlying{u}, lookup, now)

			if got := groups[0].Header.EarningsConflict; got != tt.want {
				t.Errorf("EarningsConflict = %v, want %v", got, tt.want)
			}
			if tt.hasDate && groups[0].Header.EarningsDate == nil {
				t.Error("known earnings date missing from header")
			}
		})
	}
}

func TestScanHeaderCarriesSpot(t *testing.T) {
	u := Underlying{Symbol: "TEST", Spot: 123.45}
	s := New(DefaultFilters(), 30)
	groups, _ := s.Scan([]Underlying{u}, nil, time.Now())
	if groups[0].Header.Spot != 123.45 {
		t.Errorf("header spot = %v, want 123.45", groups[0].Header.Spot)
	}
}
