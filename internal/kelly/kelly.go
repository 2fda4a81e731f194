// Package kelly implements Kelly-criterion bet sizing and model-vs-market
// edge reporting for two-way markets at decimal odds.
package kelly

import (
	"math"

	"github.com/shopspring/decimal"
)

// Fraction computes the full Kelly fraction for a binary bet at decimal
// odds. With b = odds-1 and q = 1-p the growth-optimal stake fraction is
// (b*p - q) / b. Odds at or below 1.0 carry no possible edge and return 0;
// a negative Kelly (no value) is clamped to 0 so the caller never sees a
// short-stake recommendation.
func Fraction(probability, odds float64) float64 {
	if odds <= 1.0 {
		return 0
	}
	if math.IsNaN(probability) || probability <= 0 {
		return 0
	}
	if probability > 1 {
		probability = 1
	}

	b := odds - 1.0
	q := 1.0 - probability
	k := (b*probability - q) / b
	if k < 0 {
		return 0
	}
	return k
}

// SuggestedStake sizes a bet as Fraction(p, odds) * multiplier * bankroll,
// rounded to cents. The multiplier scales down from full Kelly (0.5 =
// half Kelly), the standard variance control.
func SuggestedStake(probability, odds, bankroll, multiplier float64) float64 {
	if bankroll <= 0 || multiplier <= 0 {
		return 0
	}
	stake := Fraction(probability, odds) * multiplier * bankroll
	rounded, _ := decimal.NewFromFloat(stake).Round(2).Float64()
	return rounded
}
