package tracker

import (
	"testing"
	"time"

	"put-screener/internal/models"
)

var testDay = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func position(strike, bid float64, dte int, addedDaysAgo int) models.Position {
	cand := models.NewTradeCandidate(models.OptionQuote{
		Symbol:           "TEST_PUT",
		UnderlyingSymbol: "TEST",
		Side:             models.SidePut,
		Strike:           strike,
		Bid:              bid,
		DaysToExpiry:     dte,
		ImpliedVol:       0.3,
	}, strike, 0.8)
	return models.NewPosition(cand, testDay.AddDate(0, 0, -addedDaysAgo))
}

func TestRemainingDTE(t *testing.T) {
	tests := []struct {
		name         string
		dte          int
		addedDaysAgo int
		want         int
	}{
		{"freshly added", 30, 0, 30},
		{"halfway", 30, 15, 15},
		{"expires today", 30, 30, 0},
		{"long expired stays at zero", 30, 45, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := position(50, 1.0, tt.dte, tt.addedDaysAgo)
			if got := RemainingDTE(pos, testDay); got != tt.want {
				t.Errorf("RemainingDTE = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExpirationDateFrozenAtAdd(t *testing.T) {
	pos := position(50, 1.0, 30, 10)
	want := testDay.AddDate(0, 0, 20)
	if !pos.ExpirationDate.Equal(want) {
		t.Errorf("ExpirationDate = %v, want %v", pos.ExpirationDate, want)
	}
}

func TestEvaluateTerminal(t *testing.T) {
	tests := []struct {
		name    string
		strike  float64
		bid     float64
		spot    float64
		wantPnL float64
		want    models.PositionStatus
	}{
		// Finished ITM with intrinsic exactly eating the premium: not a loss.
		{"breakeven at expiry", 50, 1.0, 49, 0, models.StatusWin},
		{"deep itm at expiry", 50, 1.0, 40, -900, models.StatusLoss},
		{"otm at expiry", 50, 1.0, 51, 100, models.StatusWin},
		{"pinned at strike", 50, 1.0, 50, 100, models.StatusWin},
		{"slightly itm still positive", 50, 1.0, 49.5, 50, models.StatusWin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := position(tt.strike, tt.bid, 30, 30) // expires today
			snap := Evaluate(pos, tt.spot, testDay)

			if snap.RemainingDTE != 0 {
				t.Fatalf("RemainingDTE = %d, want 0", snap.RemainingDTE)
			}
			if snap.Status != tt.want {
				t.Errorf("Status = %s, want %s", snap.Status, tt.want)
			}
			if snap.PnL == nil {
				t.Fatal("PnL missing on terminal evaluation")
			}
			if *snap.PnL != tt.wantPnL {
				t.Errorf("PnL = %v, want %v", *snap.PnL, tt.wantPnL)
			}
		})
	}
}

func TestEvaluateActive(t *testing.T) {
	pos := position(50, 1.0, 30, 10) // 20 days left
	snap := Evaluate(pos, 45, testDay)

	if snap.Status != models.StatusActive {
		t.Errorf("Status = %s, want ACTIVE", snap.Status)
	}
	if snap.RemainingDTE != 20 {
		t.Errorf("RemainingDTE = %d, want 20", snap.RemainingDTE)
	}
	// Unrealized figure is informational, computed as if settling today.
	if snap.PnL == nil || *snap.PnL != -400 {
		t.Errorf("unrealized PnL = %v, want -400", snap.PnL)
	}
}

func TestEvaluateUnknown(t *testing.T) {
	pos := position(50, 1.0, 30, 30)
	snap := EvaluateUnknown(pos, testDay)

	if snap.Status != models.StatusUnknown {
		t.Errorf("Status = %s, want UNKNOWN", snap.Status)
	}
	if snap.Status == models.StatusActive {
		t.Error("unknown valuation conflated with active")
	}
	if snap.PnL != nil {
		t.Errorf("PnL = %v, want nil", *snap.PnL)
	}
}

func TestSummarizeExcludesNonTerminal(t *testing.T) {
	win := Evaluate(position(50, 1.0, 30, 30), 51, testDay)  // +100 win
	loss := Evaluate(position(50, 1.0, 30, 30), 40, testDay) // -900 loss
	active1 := Evaluate(position(50, 1.0, 30, 5), 40, testDay)
	active2 := Evaluate(position(60, 2.0, 45, 5), 60, testDay)
	active3 := Evaluate(position(70, 0.5, 10, 5), 80, testDay)
	unknown := EvaluateUnknown(position(50, 1.0, 30, 30), testDay)

	sum := Summarize([]models.Snapshot{win, loss, active1, active2, active3, unknown})

	if sum.Positions != 6 {
		t.Errorf("Positions = %d, want 6", sum.Positions)
	}
	if sum.Wins != 1 || sum.Losses != 1 {
		t.Errorf("Wins/Losses = %d/%d, want 1/1", sum.Wins, sum.Losses)
	}
	if sum.Active != 3 {
		t.Errorf("Active = %d, want 3", sum.Active)
	}
	if sum.Unknown != 1 {
		t.Errorf("Unknown = %d, want 1", sum.Unknown)
	}
	if got, want := sum.WinRate(), 0.5; got != want {
		t.Errorf("WinRate = %v, want %v (terminal positions only)", got, want)
	}
	if sum.TotalPnL != -800 {
		t.Errorf("TotalPnL = %v, want -800 (active positions excluded)", sum.TotalPnL)
	}
}

func TestSummarizeEmptyAndAllActive(t *testing.T) {
	if got := Summarize(nil).WinRate(); got != 0 {
		t.Errorf("empty WinRate = %v, want 0", got)
	}

	active := Evaluate(position(50, 1.0, 30, 5), 55, testDay)
	sum := Summarize([]models.Snapshot{active, active})
	if sum.WinRate() != 0 {
		t.Errorf("all-active WinRate = %v, want 0", sum.WinRate())
	}
	if sum.TotalPnL != 0 {
		t.Errorf("all-active TotalPnL = %v, want 0", sum.TotalPnL)
	}
}
