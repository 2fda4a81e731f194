// Package oddsmath provides conversions between decimal odds and
// probabilities, including vig removal for two-way markets.
package oddsmath

import (
	"errors"
	"math"
)

var (
	// ErrInvalidOdds indicates odds that cannot be converted to a probability
	ErrInvalidOdds = errors.New("invalid decimal odds")

	// ErrInvalidProbability indicates a probability outside (0,1)
	ErrInvalidProbability = errors.New("probability must be between 0 and 1")

	// ErrDegenerateMarket indicates a market whose implied probabilities sum to <= 0
	ErrDegenerateMarket = errors.New("implied probabilities sum to zero or less")
)

// FairProbabilityPair holds vig-free probabilities for a two-way market.
// Home + Away always sums to 1.
type FairProbabilityPair struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// ImpliedProbability converts decimal odds to the raw implied probability
// 1/odds. Odds must be a positive finite number; anything else is treated
// as an unpriced outcome and returns ErrInvalidOdds.
func ImpliedProbability(decimalOdds float64) (float64, error) {
	if math.IsNaN(decimalOdds) || math.IsInf(decimalOdds, 0) || decimalOdds <= 0 {
		return 0, ErrInvalidOdds
	}
	return 1.0 / decimalOdds, nil
}

// FairProbabilities converts a pair of decimal odds into a vig-free
// probability pair using multiplicative normalization: each raw implied
// probability is divided by their sum, so the pair sums to exactly 1.
// If either side is unpriced, the whole pair is undefined.
func FairProbabilities(homeOdds, awayOdds float64) (FairProbabilityPair, error) {
	home, err := ImpliedProbability(homeOdds)
	if err != nil {
		return FairProbabilityPair{}, err
	}
	away, err := ImpliedProbability(awayOdds)
	if err != nil {
		return FairProbabilityPair{}, err
	}

	total := home + away
	if total <= 0 {
		return FairProbabilityPair{}, ErrDegenerateMarket
	}

	return FairProbabilityPair{
		Home: home / total,
		Away: away / total,
	}, nil
}

// Overround returns the bookmaker margin of a two-way market as a
// fraction: sum of raw implied probabilities minus 1. A fair market has
// overround 0; real books quote slightly above.
func Overround(homeOdds, awayOdds float64) (float64, error) {
	home, err := ImpliedProbability(homeOdds)
	if err != nil {
		return 0, err
	}
	away, err := ImpliedProbability(awayOdds)
	if err != nil {
		return 0, err
	}
	return home + away - 1.0, nil
}

// RemoveVigMultiplicative normalizes two implied probabilities so they
// sum to 1, proportionally removing the overround.
func RemoveVigMultiplicative(prob1, prob2 float64) (fair1, fair2 float64, err error) {
	if prob1 <= 0 || prob1 >= 1 || prob2 <= 0 || prob2 >= 1 {
		return 0, 0, ErrInvalidProbability
	}

	total := prob1 + prob2
	if total <= 0 {
		return 0, 0, ErrDegenerateMarket
	}

	return prob1 / total, prob2 / total, nil
}

// DecimalFromAmerican converts American odds to decimal odds.
func DecimalFromAmerican(american int) float64 {
	if american > 0 {
		return (float64(american) / 100.0) + 1.0
	}
	return (100.0 / float64(-american)) + 1.0
}

// AmericanFromDecimal converts decimal odds to American odds.
func AmericanFromDecimal(decimal float64) int {
	if decimal >= 2.0 {
		return int((decimal - 1.0) * 100)
	}
	return int(-100.0 / (decimal - 1.0))
}
