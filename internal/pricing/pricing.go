// Package pricing provides the closed-form probability model for short puts.
package pricing

import (
	"math"

	apperrors "put-screener/internal/errors"
)

// DaysPerYear converts days to expiry into the model's time unit.
const DaysPerYear = 365.0

// ProbabilityOfProfit returns the probability that the underlying
// finishes at or above strike at expiry, i.e. the put expires
// out-of-the-money and the writer keeps the full premium.
//
// The underlying price at expiry is treated as lognormally distributed
// with drift-free growth under volatility iv over T = daysToExpiry/365:
//
//	d1 = (ln(spot/strike) + 0.5*iv^2*T) / (iv*sqrt(T))
//	d2 = d1 - iv*sqrt(T)
//	P  = CDF(d2)
//
// Non-positive spot, strike, iv or daysToExpiry make the formula
// undefined and return a PricingInputError; the model never falls back
// to a default or lets a NaN escape.
func ProbabilityOfProfit(spot, strike float64, daysToExpiry int, iv float64) (float64, error) {
	if spot <= 0 {
		return 0, apperrors.NewPricingInputError("spot", spot)
	}
	if strike <= 0 {
		return 0, apperrors.NewPricingInputError("strike", strike)
	}
	if daysToExpiry <= 0 {
		return 0, apperrors.NewPricingInputError("daysToExpiry", float64(daysToExpiry))
	}
	if iv <= 0 {
		return 0, apperrors.NewPricingInputError("impliedVol", iv)
	}

	t := float64(daysToExpiry) / DaysPerYear
	volSqrtT := iv * math.Sqrt(t)
	d1 := (math.Log(spot/strike) + 0.5*iv*iv*t) / volSqrtT
	d2 := d1 - volSqrtT

	return stdNormCDF(d2), nil
}

// stdNormCDF is the standard normal cumulative distribution function.
func stdNormCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
