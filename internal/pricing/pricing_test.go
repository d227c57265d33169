package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "put-screener/internal/errors"
)

func TestProbabilityOfProfit(t *testing.T) {
	tests := []struct {
		name   string
		spot   float64
		strike float64
		dte    int
		iv     float64
		want   float64
		tol    float64
	}{
		{
			// At the money the drift-free lognormal model lands just
			// under a coin flip: d2 = -0.5*iv*sqrt(T).
			name: "at the money",
			spot: 100, strike: 100, dte: 30, iv: 0.3,
			want: 0.4829, tol: 0.0005,
		},
		{
			name: "deep out of the money put",
			spot: 100, strike: 50, dte: 30, iv: 0.3,
			want: 1.0, tol: 0.001,
		},
		{
			name: "deep in the money put",
			spot: 50, strike: 100, dte: 30, iv: 0.3,
			want: 0.0, tol: 0.001,
		},
		{
			name: "one day to expiry",
			spot: 100, strike: 95, dte: 1, iv: 0.4,
			want: 0.9927, tol: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProbabilityOfProfit(tt.spot, tt.strike, tt.dte, tt.iv)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("got %.4f, want %.4f ± %.4f", got, tt.want, tt.tol)
			}
		})
	}
}

func TestProbabilityOfProfitATMBelowHalf(t *testing.T) {
	got, err := ProbabilityOfProfit(100, 100, 30, 0.3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got >= 0.5 {
		t.Errorf("at-the-money probability must be below 0.5, got %.4f", got)
	}
	// Must agree with a reference normal CDF evaluation of d2.
	tm := 30.0 / 365.0
	d2 := -0.5 * 0.3 * math.Sqrt(tm)
	want := 0.5 * math.Erfc(-d2/math.Sqrt2)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("got %.12f, reference CDF gives %.12f", got, want)
	}
}

func TestProbabilityOfProfitInvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		spot   float64
		strike float64
		dte    int
		iv     float64
	}{
		{"zero iv", 100, 95, 30, 0},
		{"negative iv", 100, 95, 30, -0.2},
		{"zero dte", 100, 95, 0, 0.3},
		{"negative dte", 100, 95, -5, 0.3},
		{"zero spot", 0, 95, 30, 0.3},
		{"negative spot", -10, 95, 30, 0.3},
		{"zero strike", 100, 0, 30, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProbabilityOfProfit(tt.spot, tt.strike, tt.dte, tt.iv)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, apperrors.ErrInvalidPricingInput) {
				t.Errorf("expected ErrInvalidPricingInput, got %v", err)
			}
			var pricingErr *apperrors.PricingInputError
			if !errors.As(err, &pricingErr) {
				t.Errorf("expected *PricingInputError, got %T", err)
			}
		})
	}
}

// Property: for any valid inputs the probability is a finite value in
// [0, 1], and raising the strike never raises the probability for a
// short put.
func TestProbabilityOfProfitProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("result is finite and in [0,1]", prop.ForAll(
		func(spot, strike, iv float64, dte int) bool {
			p, err := ProbabilityOfProfit(spot, strike, dte, iv)
			if err != nil {
				return false
			}
			return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0 && p <= 1
		},
		gen.Float64Range(1, 5000),
		gen.Float64Range(1, 5000),
		gen.Float64Range(0.01, 4.9),
		gen.IntRange(1, 365),
	))

	properties.Property("higher strike never increases probability", prop.ForAll(
		func(spot, strike, bump, iv float64, dte int) bool {
			lo, err := ProbabilityOfProfit(spot, strike, dte, iv)
			if err != nil {
				return false
			}
			hi, err := ProbabilityOfProfit(spot, strike+bump, dte, iv)
			if err != nil {
				return false
			}
			return hi <= lo+1e-12
		},
		gen.Float64Range(10, 1000),
		gen.Float64Range(10, 1000),
		gen.Float64Range(0.01, 100),
		gen.Float64Range(0.05, 2),
		gen.IntRange(1, 365),
	))

	properties.TestingRun(t)
}
